package tokens

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Update applies fn to a copy and swaps it in only if fn succeeds.
func (s *MemoryStore) Update(ctx context.Context, fn func(kv KV) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := mapKV(maps.Clone(s.data))
	if err := fn(draft); err != nil {
		return err
	}
	s.data = draft
	return nil
}

type mapKV map[string]string

func (m mapKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapKV) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func (m mapKV) Remove(_ context.Context, key string) error {
	delete(m, key)
	return nil
}
