package models

import "testing"

func TestKey(t *testing.T) {
	t.Run("server id wins over title", func(t *testing.T) {
		a := Comic{ID: 5, Title: "X"}
		b := Comic{ID: 5, Title: "Y"}
		if Key(a) != Key(b) {
			t.Errorf("expected equal keys, got %s and %s", Key(a), Key(b))
		}
		if Key(a) != "id:5" {
			t.Errorf("expected id:5, got %s", Key(a))
		}
	})

	t.Run("title and author pair", func(t *testing.T) {
		a := Comic{Title: "A", Author: "B"}
		b := Comic{Title: "A", Author: "B"}
		if Key(a) != Key(b) {
			t.Errorf("expected equal keys, got %s and %s", Key(a), Key(b))
		}
		if Key(a) != "ta:A|B" {
			t.Errorf("expected ta:A|B, got %s", Key(a))
		}
	})

	t.Run("different titles differ", func(t *testing.T) {
		if Key(Comic{Title: "A"}) == Key(Comic{Title: "B"}) {
			t.Error("expected different keys")
		}
	})

	t.Run("empty record", func(t *testing.T) {
		if got := Key(Comic{}); got != "ta:|" {
			t.Errorf("expected ta:|, got %s", got)
		}
	})
}

func TestSameComic(t *testing.T) {
	tt := []struct {
		name     string
		existing Comic
		incoming Comic
		want     bool
	}{
		{
			name:     "equal ids",
			existing: Comic{ID: 1, Title: "Saga"},
			incoming: Comic{ID: 1, Title: "Saga (Deluxe)"},
			want:     true,
		},
		{
			name:     "local record collapses into canonical copy",
			existing: Comic{Title: "Saga", Author: "Vaughan"},
			incoming: Comic{ID: 101, Title: "Saga", Author: "Vaughan"},
			want:     true,
		},
		{
			name:     "persisted record is not replaced by a local one",
			existing: Comic{ID: 101, Title: "Saga", Author: "Vaughan"},
			incoming: Comic{Title: "Saga", Author: "Vaughan"},
			want:     false,
		},
		{
			name:     "different ids with the same title",
			existing: Comic{ID: 1, Title: "Saga", Author: "Vaughan"},
			incoming: Comic{ID: 2, Title: "Saga", Author: "Vaughan"},
			want:     false,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameComic(tc.existing, tc.incoming); got != tc.want {
				t.Errorf("SameComic() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeCoverURL(t *testing.T) {
	tt := []struct {
		raw  string
		want string
	}{
		{raw: "", want: ""},
		{raw: "   ", want: ""},
		{raw: "https://img.example.com/saga.jpg", want: "https://img.example.com/saga.jpg"},
		{raw: " http://img.example.com/a.png ", want: "http://img.example.com/a.png"},
		{raw: "/static/covers/1.jpg", want: "/static/covers/1.jpg"},
		{raw: "covers/1.jpg", want: ""},
		{raw: "ftp://example.com/a.jpg", want: ""},
	}

	for _, tc := range tt {
		t.Run(tc.raw, func(t *testing.T) {
			if got := NormalizeCoverURL(tc.raw); got != tc.want {
				t.Errorf("NormalizeCoverURL(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	t.Run("Index follows display order", func(t *testing.T) {
		for i, st := range Statuses {
			if st.Index() != i {
				t.Errorf("expected %s at %d, got %d", st, i, st.Index())
			}
		}
		if Status("archived").Index() != -1 {
			t.Error("expected unknown status to have index -1")
		}
	})

	t.Run("ParseStatus", func(t *testing.T) {
		tt := map[string]Status{
			"favorite":  Favorite,
			"Favorites": Favorite,
			"reading":   Reading,
			"complete":  Completed,
			" done ":    Completed,
			"TRASH":     Trash,
		}
		for raw, want := range tt {
			got, err := ParseStatus(raw)
			if err != nil {
				t.Errorf("ParseStatus(%q) unexpected error: %v", raw, err)
				continue
			}
			if got != want {
				t.Errorf("ParseStatus(%q) = %s, want %s", raw, got, want)
			}
		}

		if _, err := ParseStatus("wishlist"); err == nil {
			t.Error("expected error for unknown status")
		}
	})

	t.Run("Label", func(t *testing.T) {
		if Reading.Label() != "In Progress" {
			t.Errorf("expected In Progress, got %s", Reading.Label())
		}
	})
}

func TestDragPayload(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		text := DragPayload{ComicID: 101, FromStatus: Favorite}.Encode()
		if text != `{"comicId":101,"fromStatus":"favorite"}` {
			t.Errorf("unexpected encoding %s", text)
		}
		p, ok := ParseDragPayload(text)
		if !ok {
			t.Fatal("expected payload to parse")
		}
		if p.ComicID != 101 || p.FromStatus != Favorite {
			t.Errorf("unexpected payload %+v", p)
		}
	})

	t.Run("malformed payloads are rejected", func(t *testing.T) {
		for _, raw := range []string{
			"",
			"not json",
			`{"comicId":0,"fromStatus":"favorite"}`,
			`{"comicId":3}`,
			`{"comicId":3,"fromStatus":"wishlist"}`,
			`{"comicId":"3","fromStatus":"favorite"}`,
		} {
			if _, ok := ParseDragPayload(raw); ok {
				t.Errorf("expected %q to be rejected", raw)
			}
		}
	})
}
