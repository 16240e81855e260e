package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process session store guarded by a mutex. Sessions
// do not survive a restart; use BoltStore when persistence matters.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Ensure MemoryStore implements the Store interface
var _ Store = (*MemoryStore)(nil)

// Save implements Store.Save
func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so later mutation by the caller cannot change the stored record.
	stored := *sess
	s.sessions[sess.Token] = &stored
	return nil
}

// Get implements Store.Get
func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}

	found := *sess
	return &found, nil
}

// Delete implements Store.Delete
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// Len returns the number of stored sessions. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
