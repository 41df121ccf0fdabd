package library

import (
	"slices"
	"sync"

	"github.com/desertthunder/comix/internal/models"
)

// Snapshot is a copy of the four lists indexed by [models.Status.Index].
type Snapshot [models.StatusCount][]models.Comic

// Get returns the list for status, or nil for an unknown status.
func (s Snapshot) Get(status models.Status) []models.Comic {
	i := status.Index()
	if i < 0 {
		return nil
	}
	return s[i]
}

// Len returns the total number of comics across the four lists.
func (s Snapshot) Len() int {
	n := 0
	for _, list := range s {
		n += len(list)
	}
	return n
}

// Store holds the four library lists.
//
// Unknown statuses are ignored by every method. Subscribers run after the lock is released.
type Store struct {
	mu    sync.RWMutex
	lists [models.StatusCount][]models.Comic

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Snapshot)
}

// NewStore creates a Store with four empty lists.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(Snapshot))}
}

// Subscribe registers fn to receive a snapshot after each mutation and returns a function that removes it.
//
// fn runs on the goroutine that performed the mutation.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish() {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	if len(fns) == 0 {
		return
	}

	snap := s.Snapshot()
	for _, fn := range fns {
		fn(snap)
	}
}

// Get returns a copy of the list for status.
func (s *Store) Get(status models.Status) []models.Comic {
	i := status.Index()
	if i < 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lists[i])
}

// Snapshot copies all four lists.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	for i := range s.lists {
		snap[i] = slices.Clone(s.lists[i])
	}
	return snap
}

// Replace stores items as the list for status without deduplicating them.
func (s *Store) Replace(status models.Status, items []models.Comic) {
	i := status.Index()
	if i < 0 {
		return
	}

	s.mu.Lock()
	s.lists[i] = slices.Clone(items)
	s.mu.Unlock()
	s.publish()
}

// ReplaceAll swaps all four lists at once.
func (s *Store) ReplaceAll(snap Snapshot) {
	s.replaceAll(snap)
	s.publish()
}

func (s *Store) replaceAll(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lists {
		s.lists[i] = slices.Clone(snap[i])
	}
}

// UpsertFront inserts comic at the front of the list for status, dropping any entry for the same comic.
func (s *Store) UpsertFront(status models.Status, comic models.Comic) {
	i := status.Index()
	if i < 0 {
		return
	}

	s.mu.Lock()
	s.lists[i] = upsertFront(s.lists[i], comic)
	s.mu.Unlock()
	s.publish()
}

// Place upserts comic into the list for status and removes it from the other three lists.
func (s *Store) Place(status models.Status, comic models.Comic) {
	target := status.Index()
	if target < 0 {
		return
	}

	s.mu.Lock()
	for i := range s.lists {
		if i == target {
			s.lists[i] = upsertFront(s.lists[i], comic)
			continue
		}
		s.lists[i] = slices.DeleteFunc(s.lists[i], func(existing models.Comic) bool {
			return models.SameComic(existing, comic)
		})
	}
	s.mu.Unlock()
	s.publish()
}

// Remove deletes the entry with key from the list for status and reports whether one was found.
func (s *Store) Remove(status models.Status, key string) bool {
	_, ok := s.Take(status, key)
	return ok
}

// Take removes the entry with key from the list for status and returns it.
func (s *Store) Take(status models.Status, key string) (models.Comic, bool) {
	i := status.Index()
	if i < 0 {
		return models.Comic{}, false
	}

	s.mu.Lock()
	idx := indexOf(s.lists[i], key)
	if idx < 0 {
		s.mu.Unlock()
		return models.Comic{}, false
	}
	comic := s.lists[i][idx]
	s.lists[i] = slices.Delete(slices.Clone(s.lists[i]), idx, idx+1)
	s.mu.Unlock()

	s.publish()
	return comic, true
}

// Find returns the entry with key in the list for status.
func (s *Store) Find(status models.Status, key string) (models.Comic, bool) {
	i := status.Index()
	if i < 0 {
		return models.Comic{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := indexOf(s.lists[i], key)
	if idx < 0 {
		return models.Comic{}, false
	}
	return s.lists[i][idx], true
}

// Locate returns the status of the list holding key.
func (s *Store) Locate(key string) (models.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, list := range s.lists {
		if indexOf(list, key) >= 0 {
			return models.Statuses[i], true
		}
	}
	return "", false
}

// Clear empties all four lists.
func (s *Store) Clear() {
	s.replaceAll(Snapshot{})
	s.publish()
}

func indexOf(list []models.Comic, key string) int {
	return slices.IndexFunc(list, func(c models.Comic) bool {
		return models.Key(c) == key
	})
}

// upsertFront returns a new slice so snapshots handed out earlier never observe the change.
func upsertFront(list []models.Comic, comic models.Comic) []models.Comic {
	out := make([]models.Comic, 0, len(list)+1)
	out = append(out, comic)
	for _, existing := range list {
		if models.SameComic(existing, comic) {
			continue
		}
		out = append(out, existing)
	}
	return out
}
