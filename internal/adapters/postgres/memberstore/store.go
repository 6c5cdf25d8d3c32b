// Package memberstore implements the member store on Postgres. Member records
// are JSONB documents keyed by the membership number, matching the document
// shape the mobile clients read.
package memberstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/memberstore"
)

// Store persists members in the members table.
type Store struct {
	pool *pgxpool.Pool
}

var _ memberstore.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	if s.pool == nil {
		return domain.Member{}, errors.New("memberstore: nil pool")
	}

	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM members WHERE id = $1`, string(id),
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Member{}, memberstore.ErrNotFound
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("get member %s: %w", id, err)
	}
	return unmarshalMember(doc)
}

// Put writes the full member document. Existing rows are replaced, not
// merged: callers resolve field ownership before writing.
func (s *Store) Put(ctx context.Context, m domain.Member) error {
	if s.pool == nil {
		return errors.New("memberstore: nil pool")
	}

	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal member %s: %w", m.ID, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO members (id, doc) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		string(m.ID), doc,
	)
	if err != nil {
		return fmt.Errorf("put member %s: %w", m.ID, err)
	}
	return nil
}

// TouchLastSynced updates only the lastSynced field, leaving the rest of the
// document untouched.
func (s *Store) TouchLastSynced(ctx context.Context, id domain.MemberID, at time.Time) error {
	if s.pool == nil {
		return errors.New("memberstore: nil pool")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE members SET doc = jsonb_set(doc, '{lastSynced}', to_jsonb($2::text)) WHERE id = $1`,
		string(id), at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("touch member %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return memberstore.ErrNotFound
	}
	return nil
}

func (s *Store) ListByRole(ctx context.Context, role string) ([]domain.Member, error) {
	if s.pool == nil {
		return nil, errors.New("memberstore: nil pool")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM members WHERE doc -> 'roles' ? $1 ORDER BY id`, role,
	)
	if err != nil {
		return nil, fmt.Errorf("list members by role %q: %w", role, err)
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m, err := unmarshalMember(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members by role %q: %w", role, err)
	}
	return out, nil
}

func unmarshalMember(doc []byte) (domain.Member, error) {
	var m domain.Member
	if err := json.Unmarshal(doc, &m); err != nil {
		return domain.Member{}, fmt.Errorf("unmarshal member doc: %w", err)
	}
	return m, nil
}
