package models

import (
	"encoding/json"
	"strings"
)

// DragPayload identifies a card picked up from one list so it can be dropped on another.
type DragPayload struct {
	ComicID    int64  `json:"comicId"`
	FromStatus Status `json:"fromStatus"`
}

// Encode serializes the payload as JSON text.
func (p DragPayload) Encode() string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseDragPayload decodes payload text produced by [DragPayload.Encode].
//
// Malformed text, a missing comic id or an unknown source status yield ok == false.
func ParseDragPayload(raw string) (DragPayload, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DragPayload{}, false
	}

	var p DragPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return DragPayload{}, false
	}
	if p.ComicID == 0 || !p.FromStatus.Valid() {
		return DragPayload{}, false
	}
	return p, true
}
