package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in tests and when Redis is
// unavailable. Sessions are lost on restart.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration

	sessions map[string]memorySession
}

type memorySession struct {
	userID    uint
	expiresAt time.Time
}

// NewMemoryStore returns an in-memory Store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memorySession),
	}
}

func (s *MemoryStore) Create(_ context.Context, userID uint) (string, error) {
	token := newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token, nil
}

func (s *MemoryStore) Resolve(_ context.Context, token string) (uint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return 0, false, nil
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, false, nil
	}
	return sess.userID, true, nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
