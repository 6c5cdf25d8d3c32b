// Package lineitemstore implements the billing line-item store on Postgres.
package lineitemstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/lineitemstore"
)

// Store persists line items in the clubspot_line_items table.
type Store struct {
	pool *pgxpool.Pool
}

var _ lineitemstore.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// PutBatch upserts the batch inside one transaction. A failed row rolls back
// the whole batch so a partial sync never lands.
func (s *Store) PutBatch(ctx context.Context, items []lineitemstore.LineItem) error {
	if s.pool == nil {
		return errors.New("lineitemstore: nil pool")
	}
	if len(items) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, item := range items {
			doc, err := json.Marshal(item.Fields)
			if err != nil {
				return fmt.Errorf("marshal line item %s: %w", item.ID, err)
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO clubspot_line_items (id, doc, synced_at) VALUES ($1, $2, $3)
				 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, synced_at = EXCLUDED.synced_at`,
				item.ID, doc, item.SyncedAt,
			)
			if err != nil {
				return fmt.Errorf("put line item %s: %w", item.ID, err)
			}
		}
		return nil
	})
}
