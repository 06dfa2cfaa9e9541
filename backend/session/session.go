package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store is a volatile session-tier backend keeping records in a process
// local map. It is safe for concurrent access. Each logical session carries
// a generated identifier so log entries from different sessions can be told
// apart.
type Store struct {
	mu     sync.RWMutex
	id     string
	values map[string]string
}

// New constructs an empty session store with a fresh session identifier.
func New() *Store {
	return &Store{
		id:     uuid.NewString(),
		values: make(map[string]string),
	}
}

// Name identifies the tier in logs.
func (s *Store) Name() string { return "session" }

// Available always reports true; the map tier has no failure mode.
func (s *Store) Available() bool { return true }

// SessionID returns the identifier of the current logical session.
func (s *Store) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Get returns the raw value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores (or overwrites) the raw value under key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Reset ends the logical session: every record is dropped and a new session
// identifier is issued.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.values = make(map[string]string)
}
