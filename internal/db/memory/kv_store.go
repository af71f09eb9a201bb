package memory

import (
	"context"
	"sync"

	"NutriForum/internal/core/likes"
)

// KVStore is an in-process key-value store. It is the dev default and the
// test double; liked status kept here lasts only for the process lifetime.
type KVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKVStore creates an empty in-memory key-value store
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

var _ likes.StorageClient = (*KVStore)(nil)

func (s *KVStore) Read(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *KVStore) Write(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}
