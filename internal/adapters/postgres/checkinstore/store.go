// Package checkinstore implements read access to boat check-ins on Postgres.
// Check-ins are written by the mobile clients; the API only fans out from
// them, so the adapter exposes reads plus a seeding Put for tests.
package checkinstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/checkinstore"
)

// Store reads check-ins from the boat_checkins table.
type Store struct {
	pool *pgxpool.Pool
}

var _ checkinstore.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type checkInDoc struct {
	SkipperID    string   `json:"skipperId,omitempty"`
	MemberIDs    []string `json:"memberIds,omitempty"`
	CrewIDs      []string `json:"crewIds,omitempty"`
	PhoneNumbers []string `json:"phoneNumbers,omitempty"`
}

func (s *Store) ListByEvent(ctx context.Context, eventID domain.EventID) ([]checkinstore.CheckIn, error) {
	if s.pool == nil {
		return nil, errors.New("checkinstore: nil pool")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM boat_checkins WHERE event_id = $1 ORDER BY id`, string(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list check-ins for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var out []checkinstore.CheckIn
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		var doc checkInDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal check-in doc: %w", err)
		}
		out = append(out, checkinstore.CheckIn{
			EventID:         eventID,
			SkipperMemberID: domain.MemberID(doc.SkipperID),
			MemberIDs:       toMemberIDs(doc.MemberIDs),
			CrewMemberIDs:   toMemberIDs(doc.CrewIDs),
			PhoneNumbers:    doc.PhoneNumbers,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list check-ins for event %s: %w", eventID, err)
	}
	return out, nil
}

// Put inserts a check-in document. Production writes come from the mobile
// clients; this exists for contract tests and local seeding.
func (s *Store) Put(ctx context.Context, c checkinstore.CheckIn) error {
	if s.pool == nil {
		return errors.New("checkinstore: nil pool")
	}

	doc, err := json.Marshal(checkInDoc{
		SkipperID:    string(c.SkipperMemberID),
		MemberIDs:    fromMemberIDs(c.MemberIDs),
		CrewIDs:      fromMemberIDs(c.CrewMemberIDs),
		PhoneNumbers: c.PhoneNumbers,
	})
	if err != nil {
		return fmt.Errorf("marshal check-in: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO boat_checkins (event_id, doc) VALUES ($1, $2)`,
		string(c.EventID), doc,
	); err != nil {
		return fmt.Errorf("put check-in: %w", err)
	}
	return nil
}

func toMemberIDs(ss []string) []domain.MemberID {
	if len(ss) == 0 {
		return nil
	}
	out := make([]domain.MemberID, len(ss))
	for i, s := range ss {
		out[i] = domain.MemberID(s)
	}
	return out
}

func fromMemberIDs(ids []domain.MemberID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
