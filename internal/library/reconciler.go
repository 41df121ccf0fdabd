package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
)

// Gateway is the remote library service consumed by the [Reconciler] and [TrashSearch].
type Gateway interface {
	// FetchList returns the list for status, filtered server side when query is not empty.
	FetchList(ctx context.Context, status models.Status, query string) ([]models.Comic, error)

	// PersistStatus moves comic into the list for status and returns the canonical record.
	PersistStatus(ctx context.Context, status models.Status, comic models.Comic) (models.Comic, error)

	// DeleteTrashEntry permanently deletes a trashed comic. Deleting an absent id succeeds.
	DeleteTrashEntry(ctx context.Context, comicID int64) error
}

// Session is the authentication state the library is bound to.
type Session struct {
	Token string
	// Ready is false until the stored session has been restored.
	Ready bool
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Op names a reconciler operation in a [Failure].
type Op string

const (
	OpLoad            Op = "load"
	OpAdd             Op = "add"
	OpMove            Op = "move"
	OpRemoveFromTrash Op = "remove_from_trash"
)

// Failure describes an operation that did nothing because the library service call failed.
type Failure struct {
	Op      Op
	Status  models.Status
	ComicID int64
	Err     error
}

func (f Failure) Error() string {
	if f.ComicID != 0 {
		return fmt.Sprintf("%s %s (comic %d): %v", f.Op, f.Status, f.ComicID, f.Err)
	}
	return fmt.Sprintf("%s %s: %v", f.Op, f.Status, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Option configures a [Reconciler].
type Option func(*Reconciler)

// WithLogger sets the logger used to record swallowed failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFailureHook registers fn to be called whenever an operation fails.
func WithFailureHook(fn func(Failure)) Option {
	return func(r *Reconciler) {
		r.onFailure = fn
	}
}

// WithStore makes the Reconciler manage an existing [Store].
func WithStore(s *Store) Option {
	return func(r *Reconciler) {
		if s != nil {
			r.store = s
		}
	}
}

// Reconciler applies library operations to the [Store] and keeps it in step with the library service.
//
// The operations never return errors. A failed call leaves the Store as described on each method.
type Reconciler struct {
	store     *Store
	gateway   Gateway
	logger    *log.Logger
	onFailure func(Failure)

	mu         sync.Mutex
	session    Session
	bound      bool
	strategy   Strategy
	generation uint64
}

// NewReconciler creates a Reconciler with an empty library using the [EphemeralLibrary] strategy until bound.
func NewReconciler(gateway Gateway, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:   NewStore(),
		gateway: gateway,
		logger:  shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.strategy = NewEphemeralLibrary(r.store)
	return r
}

// Store returns the managed store for read access and subscriptions.
func (r *Reconciler) Store() *Store { return r.store }

// Get returns the list for status.
func (r *Reconciler) Get(status models.Status) []models.Comic { return r.store.Get(status) }

// Lists returns a snapshot of all four lists.
func (r *Reconciler) Lists() Snapshot { return r.store.Snapshot() }

// Strategy returns the strategy selected for the current session.
func (r *Reconciler) Strategy() Strategy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.strategy
}

// Session returns the last bound session.
func (r *Reconciler) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Bind attaches the library to an authentication session.
//
// Nothing happens until the session is ready. Without a token all lists are cleared and the library
// becomes local only. A new token selects [PersistedLibrary] and runs a bulk load; switching
// directly from one token to another clears the lists first. Binding the current token again is a no-op.
func (r *Reconciler) Bind(ctx context.Context, sess Session) {
	if !sess.Ready {
		return
	}

	r.mu.Lock()
	if r.bound && r.session.Token == sess.Token {
		r.mu.Unlock()
		return
	}

	previous, wasBound := r.session, r.bound
	r.session, r.bound = sess, true
	r.generation++
	gen := r.generation

	if p, ok := r.strategy.(*PersistedLibrary); ok {
		p.retire()
	}

	if !sess.Authenticated() {
		r.strategy = NewEphemeralLibrary(r.store)
		r.store.replaceAll(Snapshot{})
		r.mu.Unlock()
		r.store.publish()
		r.logger.Debug("library bound to anonymous session")
		return
	}

	r.strategy = NewPersistedLibrary(r.store, r.gateway)
	cleared := wasBound && previous.Authenticated()
	if cleared {
		r.store.replaceAll(Snapshot{})
	}
	r.mu.Unlock()
	if cleared {
		r.store.publish()
	}

	r.logger.Debug("library bound to session, loading lists")
	r.load(ctx, gen)
}

// Load fetches the four lists again for the current session. It does nothing for local-only libraries.
func (r *Reconciler) Load(ctx context.Context) {
	r.mu.Lock()
	_, persisted := r.strategy.(*PersistedLibrary)
	gen := r.generation
	r.mu.Unlock()

	if !persisted {
		return
	}
	r.load(ctx, gen)
}

type fetchResult struct {
	items []models.Comic
	err   error
}

// load fetches the four lists concurrently and waits for all of them. Failed lists keep their previous contents.
func (r *Reconciler) load(ctx context.Context, gen uint64) {
	var (
		wg      sync.WaitGroup
		results [models.StatusCount]fetchResult
	)

	for i, status := range models.Statuses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := r.gateway.FetchList(ctx, status, "")
			results[i] = fetchResult{items: items, err: err}
		}()
	}
	wg.Wait()

	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		r.logger.Debug("discarding bulk load for an ended session")
		return
	}

	var failures []Failure
	next := r.store.Snapshot()
	for i, status := range models.Statuses {
		if err := results[i].err; err != nil {
			failures = append(failures, Failure{Op: OpLoad, Status: status, Err: err})
			continue
		}
		next[i] = results[i].items
	}
	r.store.replaceAll(next)
	r.mu.Unlock()

	r.store.publish()
	for _, f := range failures {
		r.fail(f)
	}
}

// SetLibrary replaces the four lists wholesale. It is meant for seeding and tests.
func (r *Reconciler) SetLibrary(snap Snapshot) {
	r.store.ReplaceAll(snap)
}

// AddComic places comic at the front of the list for status.
//
// With a session the change is persisted first and the canonical record is inserted only on success.
// Without one the comic is inserted as given.
func (r *Reconciler) AddComic(ctx context.Context, status models.Status, comic models.Comic) {
	if !status.Valid() {
		r.fail(Failure{Op: OpAdd, Status: status, ComicID: comic.ID, Err: fmt.Errorf("%w: %q", shared.ErrInvalidStatus, status)})
		return
	}

	comic.CoverURL = models.NormalizeCoverURL(comic.CoverURL)
	if err := r.Strategy().AddComic(ctx, status, comic); err != nil {
		r.fail(Failure{Op: OpAdd, Status: status, ComicID: comic.ID, Err: err})
	}
}

// MoveComic moves the comic with the given server id from one list to another.
//
// It is a no-op when comicID is zero, from equals to, either status is unknown, or the comic is not
// in the source list. The comic leaves the source list before the destination is persisted, so a
// failed persist leaves it in neither list.
func (r *Reconciler) MoveComic(ctx context.Context, comicID int64, from, to models.Status) {
	if comicID == 0 || from == to || !from.Valid() || !to.Valid() {
		return
	}

	comic, ok := r.store.Take(from, models.IDKey(comicID))
	if !ok {
		r.logger.Debug("move skipped, comic not in source list", "comic_id", comicID, "from", from)
		return
	}

	if err := r.Strategy().AddComic(ctx, to, comic); err != nil {
		r.fail(Failure{Op: OpMove, Status: to, ComicID: comicID, Err: err})
	}
}

// RemoveFromTrash permanently deletes a trashed comic.
//
// With a session the entry stays in the trash when the delete call fails.
func (r *Reconciler) RemoveFromTrash(ctx context.Context, comicID int64) {
	if comicID == 0 {
		return
	}

	if err := r.Strategy().RemoveFromTrash(ctx, comicID); err != nil {
		r.fail(Failure{Op: OpRemoveFromTrash, Status: models.Trash, ComicID: comicID, Err: err})
	}
}

func (r *Reconciler) fail(f Failure) {
	if errors.Is(f.Err, shared.ErrSessionEnded) {
		r.logger.Debug("dropping result for an ended session", "op", f.Op, "comic_id", f.ComicID)
		return
	}

	r.logger.Warn("library operation failed", "op", f.Op, "status", f.Status, "comic_id", f.ComicID, "error", f.Err)
	if r.onFailure != nil {
		r.onFailure(f)
	}
}
