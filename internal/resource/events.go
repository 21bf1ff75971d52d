package resource

import (
	"context"
	"sync"

	"tokenwatcher/internal/api"
	"tokenwatcher/internal/logging"
	"tokenwatcher/internal/types"
)

// EventStore caches one page of transfer events plus the active filter.
// Events are read-only; the only operations are re-fetch and filter changes.
type EventStore struct {
	status
	client *api.Client
	creds  CredentialSource

	itemsMu sync.RWMutex
	items   []types.Event
	filter  api.EventFilter
	symbols []string
}

// NewEventStore creates a store with the given default page size.
func NewEventStore(client *api.Client, creds CredentialSource, pageSize int) *EventStore {
	if pageSize <= 0 {
		pageSize = 25
	}
	return &EventStore{
		client: client,
		creds:  creds,
		filter: api.EventFilter{Sort: api.SortNewest, Limit: pageSize},
	}
}

// Items returns the cached events page.
func (s *EventStore) Items() []types.Event {
	s.itemsMu.RLock()
	defer s.itemsMu.RUnlock()
	out := make([]types.Event, len(s.items))
	copy(out, s.items)
	return out
}

// Filter returns the active filter.
func (s *EventStore) Filter() api.EventFilter {
	s.itemsMu.RLock()
	defer s.itemsMu.RUnlock()
	return s.filter
}

// SetFilter replaces the filter and resets paging to the first page.
// Callers must Refresh afterwards to see the effect.
func (s *EventStore) SetFilter(f api.EventFilter) {
	s.itemsMu.Lock()
	f.Offset = 0
	s.filter = f
	s.itemsMu.Unlock()
}

// NextPage advances the offset by one page. Returns false when the cached
// page was already short, meaning there is nothing further.
func (s *EventStore) NextPage() bool {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()
	if len(s.items) < s.filter.Limit {
		return false
	}
	s.filter.Offset += s.filter.Limit
	return true
}

// PrevPage steps the offset back by one page. Returns false at the start.
func (s *EventStore) PrevPage() bool {
	s.itemsMu.Lock()
	defer s.itemsMu.Unlock()
	if s.filter.Offset == 0 {
		return false
	}
	s.filter.Offset -= s.filter.Limit
	if s.filter.Offset < 0 {
		s.filter.Offset = 0
	}
	return true
}

// Refresh re-fetches the current page under the active filter.
func (s *EventStore) Refresh(ctx context.Context) error {
	token := s.creds.Token()
	if token == "" {
		s.setAuthenticated(false)
		s.itemsMu.Lock()
		s.items = nil
		s.symbols = nil
		s.itemsMu.Unlock()
		return nil
	}
	s.setAuthenticated(true)

	s.begin()
	defer s.end()

	events, err := s.client.ListEvents(ctx, token, s.Filter())
	if err != nil {
		logging.ResourceError("event list failed: %v", err)
		return err
	}
	s.itemsMu.Lock()
	s.items = events
	s.itemsMu.Unlock()
	logging.Resource("events synced: %d (offset %d)", len(events), s.Filter().Offset)
	return nil
}

// RefreshSymbols updates the distinct token symbol list used by the filter
// control. Best-effort by contract: failures leave an empty list.
func (s *EventStore) RefreshSymbols(ctx context.Context) {
	token := s.creds.Token()
	if token == "" {
		return
	}
	symbols := s.client.DistinctTokenSymbols(ctx, token)
	s.itemsMu.Lock()
	s.symbols = symbols
	s.itemsMu.Unlock()
}

// Symbols returns the cached distinct token symbols.
func (s *EventStore) Symbols() []string {
	s.itemsMu.RLock()
	defer s.itemsMu.RUnlock()
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}
