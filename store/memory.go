// ABOUTME: In-memory design store for tests and ephemeral servers
// ABOUTME: Holds encoded documents so load and save go through the same codec

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Simtestlab/bess-handbook/models"
)

// MemoryStore keeps slots in a map guarded by a mutex
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (models.DesignInput, error) {
	s.mu.RLock()
	data, ok := s.slots[key]
	s.mu.RUnlock()

	if !ok {
		return models.DesignInput{}, ErrNotFound
	}
	in, err := Decode(data)
	if err != nil {
		return models.DesignInput{}, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	return in, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, in models.DesignInput) error {
	data, err := Encode(in)
	if err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}

	s.mu.Lock()
	s.slots[key] = data
	s.mu.Unlock()
	return nil
}

// Keys lists saved slot names in order
func (s *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
