package payment

import (
	"context"
	"sort"
	"sync"

	"streamgate/pkg/sentinel"
)

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record // keyed by provider ref
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Upsert(_ context.Context, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	if existing, ok := s.records[r.ProviderRef]; ok {
		cp.ID = existing.ID
	}
	s.records[r.ProviderRef] = &cp
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

func (s *MemoryStore) FindByProviderRef(_ context.Context, ref string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[ref]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}
