package library

import (
	"context"
	"sync/atomic"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
)

// Strategy implements the mutating library operations for one kind of session.
type Strategy interface {
	// Name identifies the strategy in logs and status output.
	Name() string

	// AddComic places comic at the front of the list for status.
	AddComic(ctx context.Context, status models.Status, comic models.Comic) error

	// RemoveFromTrash drops the comic with the given server id from the trash list.
	RemoveFromTrash(ctx context.Context, comicID int64) error
}

// PersistedLibrary confirms every change with the library service before touching the [Store].
//
// Once retired (the session it was created for has ended) responses that arrive late are dropped
// and the operation returns [shared.ErrSessionEnded].
type PersistedLibrary struct {
	store   *Store
	gateway Gateway
	retired atomic.Bool
}

// NewPersistedLibrary creates a strategy backed by gateway.
func NewPersistedLibrary(store *Store, gateway Gateway) *PersistedLibrary {
	return &PersistedLibrary{store: store, gateway: gateway}
}

func (p *PersistedLibrary) Name() string { return "persisted" }

// AddComic persists the status change and upserts the canonical record returned by the service.
// Nothing is inserted when the call fails.
func (p *PersistedLibrary) AddComic(ctx context.Context, status models.Status, comic models.Comic) error {
	canonical, err := p.gateway.PersistStatus(ctx, status, comic)
	if err != nil {
		return err
	}
	if p.retired.Load() {
		return shared.ErrSessionEnded
	}

	p.store.Place(status, canonical)
	return nil
}

// RemoveFromTrash deletes the entry on the service first and only removes it locally on success.
func (p *PersistedLibrary) RemoveFromTrash(ctx context.Context, comicID int64) error {
	if err := p.gateway.DeleteTrashEntry(ctx, comicID); err != nil {
		return err
	}
	if p.retired.Load() {
		return shared.ErrSessionEnded
	}

	p.store.Remove(models.Trash, models.IDKey(comicID))
	return nil
}

func (p *PersistedLibrary) retire() {
	p.retired.Store(true)
}

// EphemeralLibrary keeps the library in memory only. It is used while no one is signed in.
type EphemeralLibrary struct {
	store *Store
}

// NewEphemeralLibrary creates a local-only strategy.
func NewEphemeralLibrary(store *Store) *EphemeralLibrary {
	return &EphemeralLibrary{store: store}
}

func (e *EphemeralLibrary) Name() string { return "ephemeral" }

func (e *EphemeralLibrary) AddComic(_ context.Context, status models.Status, comic models.Comic) error {
	e.store.Place(status, comic)
	return nil
}

func (e *EphemeralLibrary) RemoveFromTrash(_ context.Context, comicID int64) error {
	e.store.Remove(models.Trash, models.IDKey(comicID))
	return nil
}
