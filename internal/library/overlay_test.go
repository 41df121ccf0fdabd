package library

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
	tu "github.com/desertthunder/comix/internal/testing"
)

const (
	testDebounce = 20 * time.Millisecond
	defaultWait  = 2 * time.Second
)

func newTestSearch(gw Gateway, store *Store, debounce time.Duration) *TrashSearch {
	return NewTrashSearch(context.Background(), gw, store, SearchOpts{
		Debounce: debounce,
		Logger:   shared.NewLogger(io.Discard),
	})
}

func trashFetches(gw *tu.FakeGateway) []tu.FetchCall {
	var out []tu.FetchCall
	for _, c := range gw.FetchCalls() {
		if c.Status == models.Trash {
			out = append(out, c)
		}
	}
	return out
}

func TestTrashSearch(t *testing.T) {
	batman := models.Comic{ID: 1, Title: "Batman: Year One", Author: "Miller"}
	batgirl := models.Comic{ID: 2, Title: "Batgirl", Author: "Simone"}

	newGateway := func() *tu.FakeGateway {
		gw := tu.NewFakeGateway(10)
		gw.Lists[models.Trash] = []models.Comic{batman, batgirl}
		return gw
	}

	t.Run("defaults", func(t *testing.T) {
		ts := NewTrashSearch(context.Background(), newGateway(), NewStore(), SearchOpts{})
		if ts.debounce != DefaultDebounce {
			t.Errorf("expected default debounce %v, got %v", DefaultDebounce, ts.debounce)
		}
		if ts.State().State != Idle {
			t.Errorf("expected idle, got %s", ts.State().State)
		}
	})

	t.Run("typing within the debounce window issues one search", func(t *testing.T) {
		gw := newGateway()
		ts := newTestSearch(gw, NewStore(), testDebounce)
		defer ts.Close()

		ts.SetQuery("bat")
		if ts.State().State != Debouncing {
			t.Errorf("expected debouncing, got %s", ts.State().State)
		}
		ts.SetQuery("batman")

		tu.Eventually(t, defaultWait, func() bool { return ts.State().State == Settled }, "search to settle")
		time.Sleep(3 * testDebounce)

		calls := trashFetches(gw)
		if len(calls) != 1 || calls[0].Query != "batman" {
			t.Fatalf("expected one search for batman, got %+v", calls)
		}
		if got := ts.Items(); len(got) != 1 || got[0].ID != 1 {
			t.Errorf("expected batman result, got %+v", got)
		}
	})

	t.Run("stale response does not overwrite a newer one", func(t *testing.T) {
		release := make(chan struct{})
		gw := newGateway()
		gw.FetchFunc = func(ctx context.Context, status models.Status, query string) ([]models.Comic, error) {
			if query == "bat" {
				<-release
				return []models.Comic{batman, batgirl}, nil
			}
			return []models.Comic{batman}, nil
		}
		ts := newTestSearch(gw, NewStore(), time.Hour)
		defer ts.Close()

		ts.SetQuery("bat")
		done := make(chan struct{})
		go func() {
			ts.Submit()
			close(done)
		}()
		tu.Eventually(t, defaultWait, func() bool { return len(trashFetches(gw)) == 1 }, "bat search in flight")

		ts.SetQuery("batman")
		ts.Submit()
		if got := ts.State(); got.State != Settled || len(got.Results) != 1 {
			t.Fatalf("expected batman to settle, got %+v", got)
		}

		close(release)
		<-done

		got := ts.State()
		if got.Query != "batman" || len(got.Results) != 1 || got.Results[0].ID != 1 {
			t.Errorf("stale bat response overwrote the overlay: %+v", got)
		}
	})

	t.Run("whitespace-only edits keep the search in flight", func(t *testing.T) {
		release := make(chan struct{})
		gw := newGateway()
		gw.FetchFunc = func(ctx context.Context, status models.Status, query string) ([]models.Comic, error) {
			<-release
			return []models.Comic{batman, batgirl}, nil
		}
		ts := newTestSearch(gw, NewStore(), time.Hour)
		defer ts.Close()

		ts.SetQuery("bat")
		done := make(chan struct{})
		go func() {
			ts.Submit()
			close(done)
		}()
		tu.Eventually(t, defaultWait, func() bool { return len(trashFetches(gw)) == 1 }, "bat search in flight")

		ts.SetQuery("bat ")
		ts.SetQuery("  bat")
		if got := ts.State().State; got != Searching {
			t.Errorf("expected search to stay in flight, got %s", got)
		}

		close(release)
		<-done

		got := ts.State()
		if got.State != Settled || got.Query != "bat" || len(got.Results) != 2 {
			t.Errorf("expected bat results to settle, got %+v", got)
		}
		if calls := trashFetches(gw); len(calls) != 1 {
			t.Errorf("expected one search, got %+v", calls)
		}
	})

	t.Run("clearing before the window elapses cancels the search", func(t *testing.T) {
		gw := newGateway()
		ts := newTestSearch(gw, NewStore(), testDebounce)
		defer ts.Close()

		ts.SetQuery("bat")
		ts.SetQuery("  ")
		time.Sleep(5 * testDebounce)

		if len(trashFetches(gw)) != 0 {
			t.Error("expected no search")
		}
		if ts.State().State != Idle {
			t.Errorf("expected idle, got %s", ts.State().State)
		}
	})

	t.Run("overlay shadows the trash list without changing it", func(t *testing.T) {
		gw := newGateway()
		store := NewStore()
		store.Replace(models.Trash, []models.Comic{batman, batgirl, {ID: 3, Title: "Hellboy"}})
		ts := newTestSearch(gw, store, time.Hour)
		defer ts.Close()

		if got := ts.Items(); len(got) != 3 {
			t.Errorf("expected live trash list while idle, got %d items", len(got))
		}

		ts.SetQuery("girl")
		ts.Submit()
		if got := ts.Items(); len(got) != 1 || got[0].ID != 2 {
			t.Errorf("expected batgirl overlay, got %+v", got)
		}
		if len(store.Get(models.Trash)) != 3 {
			t.Error("overlay must not modify the store")
		}

		ts.SetQuery("")
		if got := ts.Items(); len(got) != 3 {
			t.Errorf("expected live trash list after clearing, got %d items", len(got))
		}
	})

	t.Run("failed search settles empty", func(t *testing.T) {
		gw := newGateway()
		gw.FetchErr[models.Trash] = errOffline
		ts := newTestSearch(gw, NewStore(), time.Hour)
		defer ts.Close()

		ts.SetQuery("bat")
		ts.Submit()

		got := ts.State()
		if got.State != Settled || !got.Failed || len(got.Results) != 0 {
			t.Errorf("expected an empty failed overlay, got %+v", got)
		}
	})

	t.Run("OnChange reports each transition", func(t *testing.T) {
		gw := newGateway()
		ts := newTestSearch(gw, NewStore(), time.Hour)
		defer ts.Close()

		var states []SearchState
		ts.OnChange(func(s OverlayState) { states = append(states, s.State) })

		ts.SetQuery("bat")
		ts.Submit()
		ts.SetQuery("")

		want := []SearchState{Debouncing, Searching, Settled, Idle}
		if len(states) != len(want) {
			t.Fatalf("expected %v, got %v", want, states)
		}
		for i := range want {
			if states[i] != want[i] {
				t.Errorf("state %d: expected %s, got %s", i, want[i], states[i])
			}
		}
	})

	t.Run("Submit without a query does nothing", func(t *testing.T) {
		gw := newGateway()
		ts := newTestSearch(gw, NewStore(), time.Hour)
		ts.Submit()

		if len(trashFetches(gw)) != 0 {
			t.Error("expected no search")
		}
	})
}
