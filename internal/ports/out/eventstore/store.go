package eventstore

import (
	"context"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
)

// CrewSlot is one race-committee duty assignment on an event.
// Status is one of "", "invited", "confirmed", "declined".
type CrewSlot struct {
	MemberID domain.MemberID
	Role     string
	Status   string
}

// RaceEvent is the slice of the race event document the notification paths
// need: identity, schedule, and the crew roster.
type RaceEvent struct {
	ID          domain.EventID
	Name        string
	Date        time.Time
	Status      string
	StartHour   int
	StartMinute int
	CrewSlots   []CrewSlot
}

// Store provides access to the race events collection.
type Store interface {
	Get(ctx context.Context, id domain.EventID) (RaceEvent, error)

	// ListScheduledBetween returns events with status "scheduled" whose date
	// falls in [from, to], ordered by date ascending.
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]RaceEvent, error)
}
