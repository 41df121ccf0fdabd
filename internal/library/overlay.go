package library

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
)

// DefaultDebounce is how long the query must stay unchanged before a trash search is issued.
const DefaultDebounce = 300 * time.Millisecond

// SearchState is the state of a [TrashSearch].
type SearchState int

const (
	Idle SearchState = iota
	Debouncing
	Searching
	Settled
)

func (s SearchState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case Searching:
		return "searching"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// OverlayState is published to [TrashSearch.OnChange] listeners.
type OverlayState struct {
	State   SearchState
	Query   string
	Results []models.Comic
	// Failed is set when the last applied search returned an error.
	Failed bool
}

// SearchOpts configures a [TrashSearch].
type SearchOpts struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// TrashSearch shadows the trash list with the results of a debounced server-side search.
//
// The Store is never modified. Each query change or submit increments a sequence number and
// responses for older sequences are discarded.
type TrashSearch struct {
	ctx      context.Context
	gateway  Gateway
	store    *Store
	debounce time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	state    SearchState
	query    string
	results  []models.Comic
	failed   bool
	seq      uint64
	timer    *time.Timer
	onChange func(OverlayState)
}

// NewTrashSearch creates an idle search. Searches run with ctx.
func NewTrashSearch(ctx context.Context, gateway Gateway, store *Store, opts SearchOpts) *TrashSearch {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &TrashSearch{
		ctx:      ctx,
		gateway:  gateway,
		store:    store,
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
}

// OnChange registers fn to be called after every state change. It runs outside the search lock.
func (t *TrashSearch) OnChange(fn func(OverlayState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// SetQuery updates the query text.
//
// An empty query returns to [Idle]. A changed query (re)starts the debounce window;
// the same query again leaves a pending or running search alone.
func (t *TrashSearch) SetQuery(query string) {
	query = strings.TrimSpace(query)

	t.mu.Lock()
	if query != "" && query == t.query && t.state != Idle {
		t.mu.Unlock()
		return
	}

	t.seq++
	t.query = query
	t.stopTimer()

	if query == "" {
		t.state = Idle
		t.results = nil
		t.failed = false
		t.notify()
		return
	}

	seq := t.seq
	t.state = Debouncing
	t.timer = time.AfterFunc(t.debounce, func() { t.fire(seq) })
	t.notify()
}

// Submit searches for the current query immediately and waits for the response.
func (t *TrashSearch) Submit() {
	t.mu.Lock()
	if t.query == "" {
		t.mu.Unlock()
		return
	}

	t.seq++
	t.stopTimer()
	seq, query := t.seq, t.query
	t.state = Searching
	t.notify()

	t.search(seq, query)
}

// Close stops a pending debounce and discards any search in flight.
func (t *TrashSearch) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.stopTimer()
}

// State returns the current overlay state.
func (t *TrashSearch) State() OverlayState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Active reports whether a query is set.
func (t *TrashSearch) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query != ""
}

// Items returns what the trash column should show: the search results while a query is set,
// the live trash list otherwise.
func (t *TrashSearch) Items() []models.Comic {
	t.mu.Lock()
	if t.query != "" {
		defer t.mu.Unlock()
		return slices.Clone(t.results)
	}
	t.mu.Unlock()
	return t.store.Get(models.Trash)
}

func (t *TrashSearch) fire(seq uint64) {
	t.mu.Lock()
	if seq != t.seq {
		t.mu.Unlock()
		return
	}

	t.timer = nil
	t.state = Searching
	query := t.query
	t.notify()

	t.search(seq, query)
}

func (t *TrashSearch) search(seq uint64, query string) {
	items, err := t.gateway.FetchList(t.ctx, models.Trash, query)

	t.mu.Lock()
	if seq != t.seq {
		t.mu.Unlock()
		t.logger.Debug("discarding stale trash search", "query", query)
		return
	}

	if err != nil {
		t.logger.Warn("trash search failed", "query", query, "error", err)
		items = nil
	}
	t.state = Settled
	t.results = items
	t.failed = err != nil
	t.notify()
}

// stopTimer must be called with mu held.
func (t *TrashSearch) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *TrashSearch) snapshot() OverlayState {
	return OverlayState{
		State:   t.state,
		Query:   t.query,
		Results: slices.Clone(t.results),
		Failed:  t.failed,
	}
}

// notify releases mu and then calls the change listener.
func (t *TrashSearch) notify() {
	state, fn := t.snapshot(), t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}
