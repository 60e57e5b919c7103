package admin

import (
	"context"
	"strings"
	"sync"

	"streamgate/pkg/sentinel"
)

type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account // keyed by lowercase username
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]*Account)}
}

func (s *MemoryStore) Insert(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.accounts[strings.ToLower(a.Username)] = &cp
	return nil
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[strings.ToLower(username)]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}
