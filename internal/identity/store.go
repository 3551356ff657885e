package identity

import (
	"context"
	"sync"
	"time"
)

//go:generate mockgen -source=store.go -destination=../mocks/identity/mock_store.go -package=mock_identity

// SessionStore keeps the principal behind each live session, keyed by session id.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, p Principal, ttl time.Duration) error
	// Load returns ErrSessionNotFound when the session is unknown or expired.
	Load(ctx context.Context, sessionID string) (*Principal, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is a process-local SessionStore used when no Redis address is configured.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	principal Principal
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, p Principal, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memorySession{principal: p, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(session.expiresAt) {
		delete(s.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	p := session.principal
	return &p, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
