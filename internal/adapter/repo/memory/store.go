package memory

import (
	"context"
	"sync"

	"tapvault/internal/app/ports"
)

// Store is the last-resort backend: records survive only as long as the
// process does. It sits at the tail of the fallback chain so a session
// keeps working even when every durable medium is unavailable.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewStore() *Store {
	return &Store{records: make(map[string][]byte)}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte(nil), payload...)
	return nil
}

func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.records[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

// Seed places a raw payload under a key, for tests and recovery drills.
func (s *Store) Seed(key string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte(nil), payload...)
}
