package lineitemstore

import (
	"context"
	"sync"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/lineitemstore"
)

type Store struct {
	mu      sync.RWMutex
	byID    map[string]lineitemstore.LineItem
	failErr error
}

var _ lineitemstore.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{byID: make(map[string]lineitemstore.LineItem)}
}

// FailWith makes the next PutBatch fail atomically, writing nothing.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Store) PutBatch(_ context.Context, items []lineitemstore.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		err := s.failErr
		s.failErr = nil
		return err
	}
	for _, it := range items {
		s.byID[it.ID] = it
	}
	return nil
}

func (s *Store) Get(id string) (lineitemstore.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.byID[id]
	return it, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
