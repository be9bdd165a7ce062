package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"studypal/internal/modelstore"
)

var _ modelstore.Storage = (*Storage)(nil)

// Storage keeps model blobs in process memory.
type Storage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewStorage() *Storage { return &Storage{blobs: make(map[string][]byte)} }

func (s *Storage) Init(ctx context.Context) error { return nil }

func (s *Storage) Put(ctx context.Context, blobs ...modelstore.Blob) error {
	for _, b := range blobs {
		if b.Name == "" {
			return errors.New("blob name is empty")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range blobs {
		s.blobs[b.Name] = append([]byte(nil), b.Data...)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, modelstore.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *Storage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = make(map[string][]byte)
	return nil
}

func (s *Storage) Close() error { return nil }
