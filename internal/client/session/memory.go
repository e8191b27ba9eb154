package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu sync.RWMutex
	s  Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(ctx context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s, nil
}

func (m *MemoryStore) Set(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Session{}
	return nil
}
