package checkinstore

import (
	"context"
	"sync"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/checkinstore"
)

type Store struct {
	mu      sync.RWMutex
	byEvent map[domain.EventID][]checkinstore.CheckIn
}

var _ checkinstore.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{byEvent: make(map[domain.EventID][]checkinstore.CheckIn)}
}

func (s *Store) Add(c checkinstore.CheckIn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEvent[c.EventID] = append(s.byEvent[c.EventID], c)
}

func (s *Store) ListByEvent(_ context.Context, eventID domain.EventID) ([]checkinstore.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]checkinstore.CheckIn(nil), s.byEvent[eventID]...), nil
}
