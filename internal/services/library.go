package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
)

var listPaths = map[models.Status]string{
	models.Favorite:  "/library/favorites",
	models.Reading:   "/library/reading",
	models.Completed: "/library/completed",
	models.Trash:     "/library/trash",
}

var persistPaths = map[models.Status]string{
	models.Favorite:  "/library/favorite",
	models.Reading:   "/library/reading",
	models.Completed: "/library/complete",
	models.Trash:     "/library/trash",
}

// ComicDTO is a comic as serialized by the API.
//
// Library endpoints return numeric ids. Catalog records (recommendations) may carry string ids,
// so id, year and rating are decoded leniently.
type ComicDTO struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Source      string          `json:"source,omitempty"`
	SourceID    json.RawMessage `json:"source_id,omitempty"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Publisher   string          `json:"publisher,omitempty"`
	Genre       string          `json:"genre,omitempty"`
	Year        json.RawMessage `json:"year,omitempty"`
	Rating      json.RawMessage `json:"rating,omitempty"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	CoverImage  string          `json:"cover_image,omitempty"`
}

// Library converts a library record. The id is the server's numeric id.
func (d ComicDTO) Library() models.Comic {
	c := d.base()
	if id, err := strconv.ParseInt(rawString(d.ID), 10, 64); err == nil && id > 0 {
		c.ID = id
	}
	return c
}

// Catalog converts a recommendation record. Its id identifies the catalog entry, not a library row.
func (d ComicDTO) Catalog() models.Comic {
	c := d.base()
	if c.SourceID == "" {
		c.SourceID = rawString(d.ID)
	}
	if c.Source == "" && c.SourceID != "" {
		c.Source = "catalog"
	}
	return c
}

func (d ComicDTO) base() models.Comic {
	c := models.Comic{
		Source:      d.Source,
		SourceID:    rawString(d.SourceID),
		Title:       d.Title,
		Author:      d.Author,
		Publisher:   d.Publisher,
		Genre:       d.Genre,
		Description: d.Description,
		Tags:        d.Tags,
		CoverURL:    models.NormalizeCoverURL(d.CoverImage),
	}
	if year, err := strconv.ParseFloat(rawString(d.Year), 64); err == nil {
		c.Year = int(year)
	}
	if rating, err := strconv.ParseFloat(rawString(d.Rating), 64); err == nil {
		c.Rating = rating
	}
	return c
}

// rawString returns a JSON scalar as text: strings are unquoted, null becomes "".
func rawString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	return s
}

// persistRequest is the body of POST /library/<status>. The server resolves comic_id first,
// then falls back to a title/author lookup of comic.
type persistRequest struct {
	ComicID int64        `json:"comic_id,omitempty"`
	Comic   models.Comic `json:"comic"`
}

type persistResponse struct {
	Status string    `json:"status"`
	Comic  *ComicDTO `json:"comic"`
	State  string    `json:"state"`
}

// LibraryService is the remote library gateway backed by the ComicAI API.
type LibraryService struct {
	client *Client
}

// NewLibraryService creates a library gateway that shares client's session.
func NewLibraryService(client *Client) *LibraryService {
	return &LibraryService{client: client}
}

// FetchList retrieves the list for status. Only the trash endpoint filters by query.
//
// Calls GET /library/{favorites,reading,completed,trash}.
func (l *LibraryService) FetchList(ctx context.Context, status models.Status, query string) ([]models.Comic, error) {
	endpoint, ok := listPaths[status]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidStatus, status)
	}
	if q := strings.TrimSpace(query); q != "" {
		endpoint += "?" + url.Values{"q": {q}}.Encode()
	}

	var dtos []ComicDTO
	if err := l.client.doRequest(ctx, http.MethodGet, endpoint, nil, &dtos); err != nil {
		return nil, err
	}

	comics := make([]models.Comic, 0, len(dtos))
	for _, d := range dtos {
		comics = append(comics, d.Library())
	}
	return comics, nil
}

// PersistStatus puts comic in the list for status and returns the server's canonical record.
//
// Calls POST /library/{favorite,reading,complete,trash}.
func (l *LibraryService) PersistStatus(ctx context.Context, status models.Status, comic models.Comic) (models.Comic, error) {
	endpoint, ok := persistPaths[status]
	if !ok {
		return models.Comic{}, fmt.Errorf("%w: %q", shared.ErrInvalidStatus, status)
	}

	body := persistRequest{ComicID: comic.ID, Comic: comic}
	var resp persistResponse
	if err := l.client.doRequest(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return models.Comic{}, err
	}

	if resp.Comic == nil {
		return models.Comic{}, fmt.Errorf("%w: response is missing the comic record", shared.ErrAPIRequest)
	}
	canonical := resp.Comic.Library()
	if !canonical.Persisted() {
		return models.Comic{}, fmt.Errorf("%w: comic record has no id", shared.ErrAPIRequest)
	}
	return canonical, nil
}

// DeleteTrashEntry permanently deletes a trashed comic. A 404 counts as success.
//
// Calls DELETE /library/trash/{id}.
func (l *LibraryService) DeleteTrashEntry(ctx context.Context, comicID int64) error {
	endpoint := fmt.Sprintf("/library/trash/%d", comicID)
	err := l.client.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}
