// Package session holds the per-session state of the dashboard and the
// store/document/query operations that mutate it. All remote entities are
// owned by the service; everything cached here can go stale and is only
// replaced by explicit refreshes.
package session

import (
	"context"
	"sync"
	"time"

	"fsdash/internal/model"
)

const listPageSize = 20

// Options tune polling. Zero values fall back to the defaults below.
type Options struct {
	PollInterval time.Duration
	PollTimeout  time.Duration

	// Sleep is injectable for deterministic tests. Defaults to a
	// context-aware timer sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

const (
	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 10 * time.Minute
)

// Session is the explicit state object passed into each operation. One per
// operator session. Operations issue remote calls from whatever goroutine
// invokes them while the UI keeps reading the cached views, so the cached
// state is guarded by mu; remote calls always run outside the lock.
type Session struct {
	api model.FileSearch

	pollInterval time.Duration
	pollTimeout  time.Duration
	sleep        func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	active    model.Store
	hasActive bool
	stores    []model.Store

	documents []model.Document
	// docsFor tags the document cache with the store it was loaded for.
	// A mismatch with the active store means the cache is stale.
	docsFor string
}

func New(api model.FileSearch, opts Options) *Session {
	s := &Session{
		api:          api,
		pollInterval: opts.PollInterval,
		pollTimeout:  opts.PollTimeout,
		sleep:        opts.Sleep,
	}
	if s.pollInterval <= 0 {
		s.pollInterval = defaultPollInterval
	}
	if s.pollTimeout <= 0 {
		s.pollTimeout = defaultPollTimeout
	}
	if s.sleep == nil {
		s.sleep = sleepContext
	}
	return s
}

// ActiveStore returns the active store, if any.
func (s *Session) ActiveStore() (model.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.hasActive
}

// Stores returns the cached store list (refreshed by RefreshStores). The
// returned slice is a stable snapshot: refreshes replace the slice wholesale
// and never mutate elements in place.
func (s *Session) Stores() []model.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores
}

// Documents returns the cached document list for the active store. Snapshot
// semantics as with Stores.
func (s *Session) Documents() []model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documents
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
