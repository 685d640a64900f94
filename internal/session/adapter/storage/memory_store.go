package storage

import (
	"sync"

	"corpsuite/internal/session/domain/client"
)

// MemoryTokenStore is a volatile TokenStore for tests and ephemeral runs.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

var _ client.TokenStore = (*MemoryTokenStore)(nil)

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
