// Package resource implements the client-side stores for the protected
// resources: watchers, events and plans. Every store follows the same
// contract: list results are cached in memory, every successful mutation
// triggers a full re-fetch (no optimistic patching), and no network call is
// made without a credential. Stores never render UI; they hand normalized
// errors up to whoever does.
package resource

import (
	"sync"
)

// CredentialSource is the read-only view of the credential a store is
// allowed. The auth manager is the only writer.
type CredentialSource interface {
	Token() string
}

// status carries the flags shared by every store: an in-flight indicator and
// whether the last sync ran with a credential at all. Overlapping calls on
// the same store are neither queued nor cancelled; the last response to
// resolve wins.
type status struct {
	mu            sync.RWMutex
	loading       int
	authenticated bool
}

func (s *status) begin() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *status) end() {
	s.mu.Lock()
	if s.loading > 0 {
		s.loading--
	}
	s.mu.Unlock()
}

// Loading reports whether any call on this store is still in flight.
func (s *status) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// Authenticated reports whether the last sync had a credential. A missing
// credential is a condition, not an error: the store presents an empty
// collection and this flag false.
func (s *status) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *status) setAuthenticated(v bool) {
	s.mu.Lock()
	s.authenticated = v
	s.mu.Unlock()
}
