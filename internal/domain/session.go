package domain

import (
	"context"
	"sync"
)

// MemorySession is an in-memory SessionStorage. Login connections use it so
// that nothing is persisted until the login completes.
type MemorySession struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemorySession creates a storage seeded with a copy of data
func NewMemorySession(data []byte) *MemorySession {
	s := &MemorySession{}
	if len(data) > 0 {
		s.data = append([]byte(nil), data...)
	}
	return s
}

// LoadSession returns the stored bytes or ErrSessionNotFound
func (s *MemorySession) LoadSession(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.data) == 0 {
		return nil, ErrSessionNotFound
	}
	return append([]byte(nil), s.data...), nil
}

// StoreSession replaces the stored bytes
func (s *MemorySession) StoreSession(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

// Bytes returns a copy of the stored bytes
func (s *MemorySession) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.data...)
}
