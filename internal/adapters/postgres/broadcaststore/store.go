// Package broadcaststore implements the fleet broadcast store on Postgres.
package broadcaststore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/broadcaststore"
)

// Store persists broadcasts in the fleet_broadcasts table.
type Store struct {
	pool *pgxpool.Pool
}

var _ broadcaststore.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type broadcastDoc struct {
	EventID       string    `json:"eventId"`
	SentBy        string    `json:"sentBy"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	SentAt        time.Time `json:"sentAt"`
	DeliveryCount int       `json:"deliveryCount"`
	SMSSent       int       `json:"smsSent"`
	PushSent      int       `json:"pushSent"`
}

func (s *Store) Append(ctx context.Context, b broadcaststore.Broadcast) (domain.BroadcastID, error) {
	if s.pool == nil {
		return "", errors.New("broadcaststore: nil pool")
	}

	doc, err := json.Marshal(broadcastDoc{
		EventID:       string(b.EventID),
		SentBy:        string(b.SentBy),
		Message:       b.Message,
		Type:          b.Type,
		SentAt:        b.SentAt.UTC(),
		DeliveryCount: b.DeliveryCount,
		SMSSent:       b.SMSSent,
		PushSent:      b.PushSent,
	})
	if err != nil {
		return "", fmt.Errorf("marshal broadcast: %w", err)
	}

	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO fleet_broadcasts (id, doc) VALUES ($1, $2)`, id, doc,
	)
	if err != nil {
		return "", fmt.Errorf("append broadcast: %w", err)
	}
	return domain.BroadcastID(id), nil
}
