package broadcaststore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/broadcaststore"
)

type Store struct {
	mu      sync.RWMutex
	records []broadcaststore.Broadcast
}

var _ broadcaststore.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, b broadcaststore.Broadcast) (domain.BroadcastID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, b)
	return domain.BroadcastID(uuid.NewString()), nil
}

func (s *Store) Records() []broadcaststore.Broadcast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]broadcaststore.Broadcast(nil), s.records...)
}
