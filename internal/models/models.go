// package models defines the data model for the comix library client
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Comic represents a comic record from the library service or the recommendation catalog.
//
// ID is zero until the server has persisted the comic.
type Comic struct {
	ID          int64    `json:"id,omitempty"`
	Source      string   `json:"source,omitempty"`
	SourceID    string   `json:"source_id,omitempty"` // Catalog identifier, may be non-numeric
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Publisher   string   `json:"publisher,omitempty"`
	Genre       string   `json:"genre,omitempty"`
	Year        int      `json:"year,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CoverURL    string   `json:"cover_image,omitempty"`
}

// Persisted reports whether the server has assigned an id to the comic.
func (c Comic) Persisted() bool {
	return c.ID != 0
}

// String renders the comic as "Title by Author".
func (c Comic) String() string {
	if c.Author == "" {
		return c.Title
	}
	return fmt.Sprintf("%s by %s", c.Title, c.Author)
}

// User is the account attached to an authenticated session.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

const (
	idKeyPrefix          = "id:"
	titleAuthorKeyPrefix = "ta:"
)

// Key computes the deduplication key for a comic.
//
// Records with a server id share a key regardless of their other fields.
// Records without one are keyed by their title and author pair.
func Key(c Comic) string {
	if c.ID != 0 {
		return IDKey(c.ID)
	}
	return TitleAuthorKey(c)
}

// IDKey returns the key of a persisted comic with the given server id.
func IDKey(id int64) string {
	return idKeyPrefix + strconv.FormatInt(id, 10)
}

// TitleAuthorKey returns the title/author key of a comic, ignoring its id.
func TitleAuthorKey(c Comic) string {
	return titleAuthorKeyPrefix + c.Title + "|" + c.Author
}

// SameComic reports whether existing and incoming describe the same comic.
//
// Besides equal keys, a local record collapses into a persisted record carrying the same title and author,
// which is how an optimistic entry is replaced by its canonical copy.
func SameComic(existing, incoming Comic) bool {
	if Key(existing) == Key(incoming) {
		return true
	}
	if existing.ID == 0 && incoming.ID != 0 {
		return TitleAuthorKey(existing) == TitleAuthorKey(incoming)
	}
	return false
}

// NormalizeCoverURL keeps absolute http(s) URLs and root-relative paths and drops everything else.
func NormalizeCoverURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	if strings.HasPrefix(s, "/") {
		return s
	}
	return ""
}
