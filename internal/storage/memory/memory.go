package memory

import (
	"context"
	"fmt"
	"github.com/14kear/online_voting/vote-client/internal/storage"
	"sync"
)

// Storage keeps client state in process memory. Nothing survives a restart.
type Storage struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func New() *Storage {
	return &Storage{data: make(map[string][]byte)}
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	const op = "storage.memory.Get"

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}
	v, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
	}
	return append([]byte(nil), v...), nil
}

func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	const op = "storage.memory.Set"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Storage) Delete(_ context.Context, keys ...string) error {
	const op = "storage.memory.Delete"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%s: %w", op, storage.ErrClosed)
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
