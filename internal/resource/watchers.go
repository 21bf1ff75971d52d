package resource

import (
	"context"
	"sync"

	"tokenwatcher/internal/api"
	"tokenwatcher/internal/logging"
	"tokenwatcher/internal/types"
)

// WatcherStore caches the authenticated user's watchers.
type WatcherStore struct {
	status
	client *api.Client
	creds  CredentialSource

	itemsMu sync.RWMutex
	items   []types.Watcher
}

// NewWatcherStore creates a store bound to the given credential source.
func NewWatcherStore(client *api.Client, creds CredentialSource) *WatcherStore {
	return &WatcherStore{client: client, creds: creds}
}

// Items returns the cached watcher list.
func (s *WatcherStore) Items() []types.Watcher {
	s.itemsMu.RLock()
	defer s.itemsMu.RUnlock()
	out := make([]types.Watcher, len(s.items))
	copy(out, s.items)
	return out
}

// Refresh re-fetches the full list. Without a credential it clears the cache
// and returns nil: not being logged in is a condition, not an error.
func (s *WatcherStore) Refresh(ctx context.Context) error {
	token := s.creds.Token()
	if token == "" {
		s.setAuthenticated(false)
		s.setItems(nil)
		return nil
	}
	s.setAuthenticated(true)

	s.begin()
	defer s.end()

	watchers, err := s.client.ListWatchers(ctx, token)
	if err != nil {
		logging.ResourceError("watcher list failed: %v", err)
		return err
	}
	s.setItems(watchers)
	logging.Resource("watchers synced: %d", len(watchers))
	return nil
}

// Create validates the input client-side, creates the watcher, then re-syncs
// the list so the cache carries the server-assigned id and timestamp.
func (s *WatcherStore) Create(ctx context.Context, in types.CreateWatcherInput) (*types.Watcher, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	token := s.creds.Token()
	s.begin()
	defer s.end()

	w, err := s.client.CreateWatcher(ctx, token, in)
	if err != nil {
		return nil, err
	}
	if rerr := s.Refresh(ctx); rerr != nil {
		logging.ResourceError("post-create resync failed: %v", rerr)
	}
	return w, nil
}

// Update applies a partial update and re-syncs.
func (s *WatcherStore) Update(ctx context.Context, id int, in types.UpdateWatcherInput) (*types.Watcher, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	token := s.creds.Token()
	s.begin()
	defer s.end()

	w, err := s.client.UpdateWatcher(ctx, token, id, in)
	if err != nil {
		return nil, err
	}
	if rerr := s.Refresh(ctx); rerr != nil {
		logging.ResourceError("post-update resync failed: %v", rerr)
	}
	return w, nil
}

// Delete removes a watcher and re-syncs. A failed delete leaves the cached
// list untouched.
func (s *WatcherStore) Delete(ctx context.Context, id int) error {
	token := s.creds.Token()
	s.begin()
	defer s.end()

	if err := s.client.DeleteWatcher(ctx, token, id); err != nil {
		return err
	}
	if rerr := s.Refresh(ctx); rerr != nil {
		logging.ResourceError("post-delete resync failed: %v", rerr)
	}
	return nil
}

func (s *WatcherStore) setItems(items []types.Watcher) {
	s.itemsMu.Lock()
	s.items = items
	s.itemsMu.Unlock()
}
