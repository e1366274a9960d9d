package store

import (
	"context"
	"sync"
)

// MemoryBlobStore keeps values in process memory
type MemoryBlobStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the stored value
func (s *MemoryBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value
func (s *MemoryBlobStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}
