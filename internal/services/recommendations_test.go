package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/comix/internal/shared"
)

func TestRecommendationService(t *testing.T) {
	ctx := context.Background()

	t.Run("Chat", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/recommend/chat" {
				t.Errorf("expected POST /recommend/chat, got %s %s", r.Method, r.URL.Path)
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["prompt"] != "space opera" {
				t.Errorf("expected trimmed prompt, got %q", body["prompt"])
			}
			w.Write([]byte(`{"explanation": "", "keywords": ["space", "opera"],
				"recommendations": [{"id": "cv-1", "title": "Saga", "author": "Vaughan", "cover_image": "https://img/saga.jpg"}]}`))
		}))
		defer server.Close()

		svc := NewRecommendationService(newTestClient(server.URL))
		result, err := svc.Chat(ctx, "  space opera ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Explanation != `Here are some recommendations based on: "space opera"` {
			t.Errorf("unexpected fallback explanation %q", result.Explanation)
		}
		if len(result.Keywords) != 2 {
			t.Errorf("expected keywords, got %v", result.Keywords)
		}
		if len(result.Recommendations) != 1 || result.Recommendations[0].SourceID != "cv-1" || result.Recommendations[0].ID != 0 {
			t.Errorf("unexpected recommendations %+v", result.Recommendations)
		}
	})

	t.Run("Chat Empty Prompt", func(t *testing.T) {
		svc := NewRecommendationService(newTestClient("http://example.com"))
		if _, err := svc.Chat(ctx, "   "); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Popular", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/recommend/popular" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`[{"id": 1, "title": "Bone"}, {"id": 2, "title": "Saga"}]`))
		}))
		defer server.Close()

		comics, err := NewRecommendationService(newTestClient(server.URL)).Popular(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(comics) != 2 || comics[0].SourceID != "1" {
			t.Errorf("unexpected comics %+v", comics)
		}
	})

	t.Run("Personalized Requires Session", func(t *testing.T) {
		svc := NewRecommendationService(newTestClient("http://example.com"))
		if _, err := svc.Personalized(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Personalized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`[{"id": 3, "title": "Monstress"}]`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		client.SetToken("tok")
		comics, err := NewRecommendationService(client).Personalized(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(comics) != 1 {
			t.Errorf("expected 1 comic, got %d", len(comics))
		}
	})
}
