package session

import (
	"context"
	"strings"

	"fsdash/internal/model"
	"fsdash/internal/pager"
)

// CreateStore creates a remote store and, on success, refreshes the store
// cache. A refresh failure after a successful create is reported but the
// created store is still returned.
func (s *Session) CreateStore(ctx context.Context, displayName string) (model.Store, error) {
	store, err := s.api.CreateStore(ctx, displayName)
	if err != nil {
		return model.Store{}, err
	}
	_ = s.RefreshStores(ctx)
	return store, nil
}

// RefreshStores re-fetches the full store listing and replaces the cache.
// On failure the cache becomes empty and the error is returned as a
// non-fatal warning; partial listings from a mid-traversal failure are kept.
func (s *Session) RefreshStores(ctx context.Context) error {
	stores, err := pager.Drain(ctx, func(ctx context.Context, token string) ([]model.Store, string, error) {
		return s.api.ListStores(ctx, listPageSize, token)
	})
	s.mu.Lock()
	s.stores = stores
	s.mu.Unlock()
	return err
}

// Activate makes the store the session's active store. Re-activating the
// current store is a no-op and preserves the document cache; switching
// stores invalidates it and reloads from the remote service.
func (s *Session) Activate(ctx context.Context, store model.Store) error {
	s.mu.Lock()
	if s.hasActive && s.active.Name == store.Name {
		s.mu.Unlock()
		return nil
	}
	s.active = store
	s.hasActive = true
	s.documents = nil
	s.docsFor = ""
	s.mu.Unlock()
	return s.RefreshDocuments(ctx)
}

// DeleteStore deletes a store by resource name. The store listing is
// refreshed afterward regardless of outcome; if the deleted store was
// active, the active selection and the document cache are cleared.
func (s *Session) DeleteStore(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return model.ErrEmptyStoreName
	}
	err := s.api.DeleteStore(ctx, name)
	if err == nil {
		s.mu.Lock()
		if s.hasActive && s.active.Name == name {
			s.active = model.Store{}
			s.hasActive = false
			s.documents = nil
			s.docsFor = ""
		}
		s.mu.Unlock()
	}
	_ = s.RefreshStores(ctx)
	return err
}
