package models

import (
	"fmt"
	"strings"
)

// Status names one of the four mutually exclusive library lists.
type Status string

const (
	Favorite  Status = "favorite"
	Reading   Status = "reading"
	Completed Status = "completed"
	Trash     Status = "trash"
)

// StatusCount is the number of library lists.
const StatusCount = 4

// Statuses lists every status in display order. The position of a status is its [Status.Index].
var Statuses = [StatusCount]Status{Favorite, Reading, Completed, Trash}

var statusLabels = map[Status]string{
	Favorite:  "Favorites",
	Reading:   "In Progress",
	Completed: "Completed",
	Trash:     "Trash",
}

var statusAliases = map[string]Status{
	"favorite":    Favorite,
	"favorites":   Favorite,
	"fav":         Favorite,
	"reading":     Reading,
	"in-progress": Reading,
	"progress":    Reading,
	"completed":   Completed,
	"complete":    Completed,
	"done":        Completed,
	"trash":       Trash,
}

// Index returns the slot of the status in [Statuses], or -1 for unknown values.
func (s Status) Index() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the four library statuses.
func (s Status) Valid() bool {
	return s.Index() >= 0
}

// Label returns the human readable column name.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts user input (including common aliases like "favorites" or "done") to a [Status].
func ParseStatus(raw string) (Status, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q (want favorite, reading, completed or trash)", raw)
}
