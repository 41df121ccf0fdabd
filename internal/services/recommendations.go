package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
)

// ChatResult is the assistant's answer to a prompt.
type ChatResult struct {
	Explanation     string
	Keywords        []string
	Recommendations []models.Comic
}

type chatResponse struct {
	Explanation     string     `json:"explanation"`
	Keywords        []string   `json:"keywords"`
	Recommendations []ComicDTO `json:"recommendations"`
}

// RecommendationService talks to the /recommend endpoints.
type RecommendationService struct {
	client *Client
}

// NewRecommendationService creates a recommendation client sharing client's session.
func NewRecommendationService(client *Client) *RecommendationService {
	return &RecommendationService{client: client}
}

// Chat asks the assistant for comics matching prompt.
//
// Calls POST /recommend/chat.
func (r *RecommendationService) Chat(ctx context.Context, prompt string) (*ChatResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is empty", shared.ErrInvalidInput)
	}

	var resp chatResponse
	if err := r.client.doRequest(ctx, http.MethodPost, "/recommend/chat", map[string]string{"prompt": prompt}, &resp); err != nil {
		return nil, err
	}

	result := &ChatResult{
		Explanation:     resp.Explanation,
		Keywords:        resp.Keywords,
		Recommendations: catalogComics(resp.Recommendations),
	}
	if strings.TrimSpace(result.Explanation) == "" {
		result.Explanation = fmt.Sprintf("Here are some recommendations based on: %q", prompt)
	}
	return result, nil
}

// Popular returns the catalog's popular picks.
//
// Calls GET /recommend/popular.
func (r *RecommendationService) Popular(ctx context.Context) ([]models.Comic, error) {
	return r.list(ctx, "/recommend/popular")
}

// Personalized returns picks based on the signed-in user's library.
//
// Calls GET /recommend/personalized and requires a session.
func (r *RecommendationService) Personalized(ctx context.Context) ([]models.Comic, error) {
	if !r.client.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	return r.list(ctx, "/recommend/personalized")
}

func (r *RecommendationService) list(ctx context.Context, endpoint string) ([]models.Comic, error) {
	var dtos []ComicDTO
	if err := r.client.doRequest(ctx, http.MethodGet, endpoint, nil, &dtos); err != nil {
		return nil, err
	}
	return catalogComics(dtos), nil
}

func catalogComics(dtos []ComicDTO) []models.Comic {
	comics := make([]models.Comic, 0, len(dtos))
	for _, d := range dtos {
		comics = append(comics, d.Catalog())
	}
	return comics
}
