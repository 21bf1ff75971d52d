// Package session persists the bearer token so a login survives process
// restarts. One durable key, one file; nothing else is stored client-side.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tokenwatcher/internal/logging"
)

// sessionFile is the on-disk shape. saved_at is informational only; the
// server decides when a token is actually dead.
type sessionFile struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// Store reads and writes the persisted credential.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store writing to <dir>/session.json.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, "session.json")}
}

// Load reads the persisted credential. It never fails: a missing or corrupt
// file reads as "no session".
func (s *Store) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil || sf.AccessToken == "" {
		logging.Auth("discarding unreadable session file")
		return "", false
	}
	return sf.AccessToken, true
}

// Save persists a newly issued credential, overwriting any prior value.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sessionFile{
		AccessToken: token,
		SavedAt:     time.Now(),
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the persisted credential. Idempotent: clearing an absent
// session is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
