package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shelfwise/planogram/pkg/planogram"
)

// MemoryStore is a map-backed store for tests and ephemeral demos.
// Configs are deep-cloned on the way in and out, so callers cannot
// mutate stored state through retained references.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]planogram.Config
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]planogram.Config)}
}

func (s *MemoryStore) Save(ctx context.Context, cfg planogram.Config) error {
	if err := checkShape(cfg); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[cfg.ID] = cfg.Clone()
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (planogram.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.items[id]
	if !ok {
		return planogram.Config{}, ErrNotFound
	}
	return cfg.Clone(), nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.items))
	for _, cfg := range s.items {
		out = append(out, summarize(cfg))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
