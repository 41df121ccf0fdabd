package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/comix/internal/library"
	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/services"
	"github.com/desertthunder/comix/internal/shared"
	tu "github.com/desertthunder/comix/internal/testing"
)

type fakeRecommender struct {
	result  *services.ChatResult
	err     error
	prompts []string
}

func (f *fakeRecommender) Chat(_ context.Context, prompt string) (*services.ChatResult, error) {
	f.prompts = append(f.prompts, prompt)
	return f.result, f.err
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends each key and discards the returned commands.
func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(keyPress(k))
	}
}

// exec sends a key and runs the returned command synchronously.
func exec(t *testing.T, m *Model, k string) tea.Msg {
	t.Helper()
	_, cmd := m.Update(keyPress(k))
	if cmd == nil {
		t.Fatalf("expected a command for key %q", k)
	}
	return cmd()
}

func newTestModel(t *testing.T, gw *tu.FakeGateway, rec Recommender) (*Model, *library.Reconciler) {
	t.Helper()
	ctx := context.Background()
	events := NewEvents()
	r := library.NewReconciler(gw,
		library.WithLogger(shared.NewLogger(io.Discard)),
		library.WithFailureHook(events.Failure),
	)
	r.Bind(ctx, library.Session{Token: "token", Ready: true})

	search := library.NewTrashSearch(ctx, gw, r.Store(), library.SearchOpts{Logger: shared.NewLogger(io.Discard)})
	m := NewModel(ctx, Deps{Reconciler: r, Search: search, Recommender: rec, Events: events, User: "reader"})
	t.Cleanup(m.Close)
	return m, r
}

func seededGateway() *tu.FakeGateway {
	gw := tu.NewFakeGateway(100)
	gw.Lists[models.Favorite] = []models.Comic{{ID: 1, Title: "Saga", Author: "Brian K. Vaughan"}, {ID: 2, Title: "Monstress", Author: "Marjorie Liu"}}
	gw.Lists[models.Trash] = []models.Comic{{ID: 9, Title: "Spawn", Author: "Todd McFarlane"}}
	return gw
}

func TestBoardView(t *testing.T) {
	t.Run("number key moves the selected card", func(t *testing.T) {
		m, r := newTestModel(t, seededGateway(), nil)
		exec(t, m, "3")

		if got := r.Get(models.Completed); len(got) != 1 || got[0].ID != 1 {
			t.Errorf("expected Saga in completed, got %+v", got)
		}
		if got := r.Get(models.Favorite); len(got) != 1 || got[0].ID != 2 {
			t.Errorf("expected only Monstress in favorites, got %+v", got)
		}
	})

	t.Run("grab and drop on another column", func(t *testing.T) {
		m, r := newTestModel(t, seededGateway(), nil)
		press(m, "j", " ")
		if m.held == "" {
			t.Fatal("expected a held card")
		}

		press(m, "l")
		exec(t, m, " ")

		if got := r.Get(models.Reading); len(got) != 1 || got[0].ID != 2 {
			t.Errorf("expected Monstress in reading, got %+v", got)
		}
		if m.held != "" {
			t.Error("expected the held card to be released")
		}
	})

	t.Run("drop on the source column does nothing", func(t *testing.T) {
		gw := seededGateway()
		m, _ := newTestModel(t, gw, nil)
		press(m, " ")

		if _, cmd := m.Update(keyPress(" ")); cmd != nil {
			t.Error("expected no command")
		}
		if len(gw.PersistCalls()) != 0 {
			t.Errorf("expected no persist calls, got %d", len(gw.PersistCalls()))
		}
	})

	t.Run("malformed payload is ignored", func(t *testing.T) {
		m, _ := newTestModel(t, seededGateway(), nil)
		m.held = `{"comicId":"oops"}`
		press(m, "l")

		if _, cmd := m.Update(keyPress(" ")); cmd != nil {
			t.Error("expected malformed payload to be dropped silently")
		}
		if m.held != "" {
			t.Error("expected held payload to be cleared")
		}
	})

	t.Run("filter narrows the columns", func(t *testing.T) {
		m, _ := newTestModel(t, seededGateway(), nil)
		press(m, "/", "m", "o", "n", "enter")

		got := m.visible(models.Favorite)
		if len(got) != 1 || got[0].Title != "Monstress" {
			t.Errorf("expected only Monstress, got %+v", got)
		}

		press(m, "/", "esc")
		if got := m.visible(models.Favorite); len(got) != 2 {
			t.Errorf("expected filter to be cleared, got %d comics", len(got))
		}
	})

	t.Run("x only deletes from the trash column", func(t *testing.T) {
		gw := seededGateway()
		m, r := newTestModel(t, gw, nil)
		if _, cmd := m.Update(keyPress("x")); cmd != nil {
			t.Error("expected no command outside the trash column")
		}

		press(m, "h")
		exec(t, m, "x")
		if got := gw.DeleteCalls(); len(got) != 1 || got[0] != 9 {
			t.Errorf("expected delete of 9, got %v", got)
		}
		if len(r.Get(models.Trash)) != 0 {
			t.Error("expected trash to be empty")
		}
	})

	t.Run("library change refreshes lists and notices", func(t *testing.T) {
		gw := seededGateway()
		m, _ := newTestModel(t, gw, nil)
		gw.PersistErr = errors.New("boom")
		exec(t, m, "2")

		m.Update(libraryChangedMsg())
		if len(m.lists.Get(models.Favorite)) != 1 {
			t.Errorf("expected the failed move to leave one favorite, got %d", len(m.lists.Get(models.Favorite)))
		}
		if !strings.Contains(m.notice, "boom") {
			t.Errorf("expected failure notice, got %q", m.notice)
		}
	})
}

func TestTrashView(t *testing.T) {
	t.Run("restore moves to favorites", func(t *testing.T) {
		m, r := newTestModel(t, seededGateway(), nil)
		press(m, "tab")
		if m.view != TrashView {
			t.Fatalf("expected trash view, got %d", m.view)
		}

		exec(t, m, "u")
		if len(r.Get(models.Trash)) != 0 {
			t.Error("expected trash to be empty")
		}
		if got := r.Get(models.Favorite); len(got) != 3 || got[0].ID != 9 {
			t.Errorf("expected Spawn at the front of favorites, got %+v", got)
		}
	})

	t.Run("submit searches immediately", func(t *testing.T) {
		gw := seededGateway()
		m, _ := newTestModel(t, gw, nil)
		press(m, "tab", "/", "s", "p")
		exec(t, m, "enter")

		state := m.search.State()
		if state.State != library.Settled || len(state.Results) != 1 {
			t.Errorf("expected one settled result, got %+v", state)
		}

		m.Update(libraryChangedMsg())
		if items := m.trashItems(); len(items) != 1 || items[0].ID != 9 {
			t.Errorf("expected overlay results, got %+v", items)
		}
	})
}

func TestChatView(t *testing.T) {
	rec := &fakeRecommender{result: &services.ChatResult{
		Explanation:     "Space operas",
		Recommendations: []models.Comic{{Title: "Descender", Author: "Jeff Lemire"}},
	}}
	m, r := newTestModel(t, seededGateway(), rec)
	press(m, "tab", "tab")
	if m.view != ChatView || !m.prompt.Focused() {
		t.Fatalf("expected focused chat prompt, view %d", m.view)
	}

	press(m, "s", "p", "a", "c", "e")
	msg := exec(t, m, "enter")
	m.Update(msg)

	if len(rec.prompts) != 1 || rec.prompts[0] != "space" {
		t.Errorf("unexpected prompts %v", rec.prompts)
	}
	if m.answer == nil || len(m.results.Items()) != 1 {
		t.Fatalf("expected one recommendation, got %+v", m.answer)
	}

	exec(t, m, "2")
	if got := r.Get(models.Reading); len(got) != 1 || got[0].ID != 100 {
		t.Errorf("expected Descender saved to reading, got %+v", got)
	}
}

func TestClamp(t *testing.T) {
	tt := []struct{ i, n, want int }{
		{0, 0, 0},
		{-1, 3, 0},
		{5, 3, 2},
		{1, 3, 1},
	}
	for _, tc := range tt {
		if got := clamp(tc.i, tc.n); got != tc.want {
			t.Errorf("clamp(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}
