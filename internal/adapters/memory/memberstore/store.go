// Package memberstore is the in-memory member store used by tests and local
// development.
package memberstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/memberstore"
)

type Store struct {
	mu   sync.RWMutex
	byID map[domain.MemberID]domain.Member

	failPut map[domain.MemberID]error
}

var _ memberstore.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		byID:    make(map[domain.MemberID]domain.Member),
		failPut: make(map[domain.MemberID]error),
	}
}

// FailPutFor makes Put fail for one member id, for fault-injection tests.
func (s *Store) FailPutFor(id domain.MemberID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut[id] = err
}

func (s *Store) Get(_ context.Context, id domain.MemberID) (domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return domain.Member{}, memberstore.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *Store) Put(_ context.Context, m domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failPut[m.ID]; err != nil {
		return err
	}
	s.byID[m.ID] = m.Clone()
	return nil
}

func (s *Store) TouchLastSynced(_ context.Context, id domain.MemberID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return memberstore.ErrNotFound
	}
	m.LastSynced = at
	s.byID[id] = m
	return nil
}

func (s *Store) ListByRole(_ context.Context, role string) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Member
	for _, m := range s.byID {
		if m.HasRole(role) {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Len reports the number of stored members.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
