package checkinstore

import (
	"context"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
)

// CheckIn is one boat check-in for a race event. It names the people aboard
// (by member id) plus any raw phone numbers supplied at check-in time for
// crew without member records.
type CheckIn struct {
	EventID         domain.EventID
	SkipperMemberID domain.MemberID
	MemberIDs       []domain.MemberID
	CrewMemberIDs   []domain.MemberID
	PhoneNumbers    []string
}

// Store provides access to the boat check-ins collection.
type Store interface {
	ListByEvent(ctx context.Context, eventID domain.EventID) ([]CheckIn, error)
}
