package catalog

import (
	"context"
	"maps"
	"sync"
)

// MemStore is an in-process Store. Load hands out a copy, so changes only
// land through Save.
type MemStore struct {
	mu    sync.RWMutex
	c     Catalog
	saves int
}

func NewMemStore(seed ...Product) *MemStore {
	s := &MemStore{c: Catalog{}}
	for _, p := range seed {
		s.c[p.ID] = p
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context) (Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.c), nil
}

func (s *MemStore) Save(ctx context.Context, c Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c = maps.Clone(c)
	if s.c == nil {
		s.c = Catalog{}
	}
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *MemStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
