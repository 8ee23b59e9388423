package dataset

import (
	"context"
	"sync"
	"sync/atomic"
)

// Source produces a snapshot. Loader is the production implementation.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Store memoizes the first load of its source for the life of the process.
// The outcome, success or failure, is never invalidated.
type Store struct {
	source Source
	once   sync.Once
	snap   *Snapshot
	err    error
	done   atomic.Bool
}

// NewStore wraps source in a lazily evaluated snapshot
func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Get returns the snapshot, loading it on the first call. Cancellation of the
// first caller's request does not poison the memoized result.
func (s *Store) Get(ctx context.Context) (*Snapshot, error) {
	s.once.Do(func() {
		s.snap, s.err = s.source.Load(context.WithoutCancel(ctx))
		s.done.Store(true)
	})
	return s.snap, s.err
}

// Loaded reports whether a load has completed successfully
func (s *Store) Loaded() bool {
	return s.done.Load() && s.err == nil
}

// Attempted reports whether a load has completed, successfully or not
func (s *Store) Attempted() bool {
	return s.done.Load()
}
