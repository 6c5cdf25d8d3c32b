package memberstore

import (
	"context"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
)

// Store provides access to the members collection.
//
// The backing store is a document database: Put is a merge-write of the full
// mapped record, and TouchLastSynced is the minimal write the reconciliation
// engine issues for unchanged records so "last successfully verified" stays
// observable without full-document churn.
type Store interface {
	Get(ctx context.Context, id domain.MemberID) (domain.Member, error)

	Put(ctx context.Context, m domain.Member) error

	TouchLastSynced(ctx context.Context, id domain.MemberID, at time.Time) error

	// ListByRole returns members carrying the given role, ordered by id to
	// keep behavior deterministic.
	ListByRole(ctx context.Context, role string) ([]domain.Member, error)
}
