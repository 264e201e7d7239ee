package conversation

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore keeps session contexts in process memory. Suitable for single
// instance deployments and tests; data does not survive a restart.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*Context
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[uuid.UUID]*Context)}
}

// GetByID returns a clone so callers never alias stored state.
func (s *InMemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c.Clone(), nil
}

// Save stores a clone of the context.
func (s *InMemoryStore) Save(_ context.Context, c *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[c.ID] = c.Clone()
	return nil
}
