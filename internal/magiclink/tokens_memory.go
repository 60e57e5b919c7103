package magiclink

import (
	"context"
	"sync"
	"time"

	"streamgate/pkg/requestcontext"
	"streamgate/pkg/sentinel"
)

type memoryToken struct {
	userID    string
	expiresAt time.Time
}

// MemoryTokenStore backs tests and the development profile. Expired entries
// are dropped lazily on Consume.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken)}
}

func (s *MemoryTokenStore) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryToken{userID: userID, expiresAt: requestcontext.Now(ctx).Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Consume(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	delete(s.tokens, token)
	if !entry.expiresAt.After(requestcontext.Now(ctx)) {
		return "", sentinel.ErrExpired
	}
	return entry.userID, nil
}
