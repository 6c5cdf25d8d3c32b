// Package eventstore implements read access to race events on Postgres.
// Events are managed by the club office tooling; status and date are mirrored
// into columns so the scheduled-window query does not scan documents.
package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/eventstore"
)

// Store reads race events from the race_events table.
type Store struct {
	pool *pgxpool.Pool
}

var _ eventstore.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type crewSlotDoc struct {
	MemberID string `json:"memberId"`
	Role     string `json:"role"`
	Status   string `json:"status,omitempty"`
}

type eventDoc struct {
	Name        string        `json:"name"`
	Date        time.Time     `json:"date"`
	Status      string        `json:"status"`
	StartHour   int           `json:"startHour,omitempty"`
	StartMinute int           `json:"startMinute,omitempty"`
	CrewSlots   []crewSlotDoc `json:"crewSlots,omitempty"`
}

func (s *Store) Get(ctx context.Context, id domain.EventID) (eventstore.RaceEvent, error) {
	if s.pool == nil {
		return eventstore.RaceEvent{}, errors.New("eventstore: nil pool")
	}

	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM race_events WHERE id = $1`, string(id),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return eventstore.RaceEvent{}, eventstore.ErrNotFound
	}
	if err != nil {
		return eventstore.RaceEvent{}, fmt.Errorf("get event %s: %w", id, err)
	}
	return decodeEvent(id, raw)
}

func (s *Store) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]eventstore.RaceEvent, error) {
	if s.pool == nil {
		return nil, errors.New("eventstore: nil pool")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, doc FROM race_events
		 WHERE status = 'scheduled' AND event_date >= $1 AND event_date <= $2
		 ORDER BY event_date`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list scheduled events: %w", err)
	}
	defer rows.Close()

	var out []eventstore.RaceEvent
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev, err := decodeEvent(domain.EventID(id), raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scheduled events: %w", err)
	}
	return out, nil
}

// Put upserts an event document, mirroring status and date into their
// columns. Exists for contract tests and local seeding.
func (s *Store) Put(ctx context.Context, ev eventstore.RaceEvent) error {
	if s.pool == nil {
		return errors.New("eventstore: nil pool")
	}

	slots := make([]crewSlotDoc, 0, len(ev.CrewSlots))
	for _, cs := range ev.CrewSlots {
		slots = append(slots, crewSlotDoc{MemberID: string(cs.MemberID), Role: cs.Role, Status: cs.Status})
	}
	doc, err := json.Marshal(eventDoc{
		Name:        ev.Name,
		Date:        ev.Date.UTC(),
		Status:      ev.Status,
		StartHour:   ev.StartHour,
		StartMinute: ev.StartMinute,
		CrewSlots:   slots,
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.ID, err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO race_events (id, status, event_date, doc) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, event_date = EXCLUDED.event_date, doc = EXCLUDED.doc`,
		string(ev.ID), ev.Status, ev.Date.UTC(), doc,
	); err != nil {
		return fmt.Errorf("put event %s: %w", ev.ID, err)
	}
	return nil
}

func decodeEvent(id domain.EventID, raw []byte) (eventstore.RaceEvent, error) {
	var doc eventDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return eventstore.RaceEvent{}, fmt.Errorf("unmarshal event doc: %w", err)
	}
	ev := eventstore.RaceEvent{
		ID:          id,
		Name:        doc.Name,
		Date:        doc.Date,
		Status:      doc.Status,
		StartHour:   doc.StartHour,
		StartMinute: doc.StartMinute,
	}
	for _, cs := range doc.CrewSlots {
		ev.CrewSlots = append(ev.CrewSlots, eventstore.CrewSlot{
			MemberID: domain.MemberID(cs.MemberID),
			Role:     cs.Role,
			Status:   cs.Status,
		})
	}
	return ev, nil
}
