package eventstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/eventstore"
)

type Store struct {
	mu   sync.RWMutex
	byID map[domain.EventID]eventstore.RaceEvent
}

var _ eventstore.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{byID: make(map[domain.EventID]eventstore.RaceEvent)}
}

func (s *Store) Put(e eventstore.RaceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[e.ID] = e
}

func (s *Store) Get(_ context.Context, id domain.EventID) (eventstore.RaceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return eventstore.RaceEvent{}, eventstore.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListScheduledBetween(_ context.Context, from, to time.Time) ([]eventstore.RaceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []eventstore.RaceEvent
	for _, e := range s.byID {
		if e.Status != "scheduled" {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
