package broadcaststore

import (
	"context"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
)

// Broadcast is the persisted result of one notification fan-out.
// Records are append-only: one per fan-out call, never mutated.
type Broadcast struct {
	EventID       domain.EventID
	SentBy        domain.SubjectID
	Message       string
	Type          string
	SentAt        time.Time
	DeliveryCount int
	SMSSent       int
	PushSent      int
}

// Store provides access to the fleet broadcasts collection.
type Store interface {
	Append(ctx context.Context, b Broadcast) (domain.BroadcastID, error)
}
