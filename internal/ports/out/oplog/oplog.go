package oplog

import (
	"context"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
)

// AuditEntry is one append-only audit trail record.
type AuditEntry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Details    any
	At         time.Time
}

// SyncLogEntry records the outcome of one roster reconciliation run.
type SyncLogEntry struct {
	Report domain.SyncReport
	At     time.Time
}

// NotificationLog records one direct or crew notification send.
type NotificationLog struct {
	To          []string
	Channel     string
	EventID     domain.EventID
	Subject     string
	Message     string
	QueuedDocID string
	At          time.Time
}

// ScoreLog records one score submission to the upstream scoring API.
// Single submissions fill the registration fields; batch submissions fill
// BatchSize/Submitted/Errors instead.
type ScoreLog struct {
	EventID        domain.EventID
	SubmittedBy    domain.SubjectID
	RegistrationID string
	RaceNumber     int
	FinishTime     string
	Response       any
	BatchSize      int
	Submitted      int
	Errors         []string
	At             time.Time
}

// AdminAlert is an operational alert surfaced to club administrators,
// written when an unattended job fails.
type AdminAlert struct {
	Type    string
	Message string
	At      time.Time
}

// Log is the append-only operational log: audit trail, sync history,
// notification history, score submissions, and admin alerts. Appends never
// fail the business operation that produced them; callers log and continue.
type Log interface {
	AppendAudit(ctx context.Context, e AuditEntry) error
	AppendSyncLog(ctx context.Context, e SyncLogEntry) error
	AppendNotificationLog(ctx context.Context, e NotificationLog) error
	AppendScoreLog(ctx context.Context, e ScoreLog) error
	AppendAdminAlert(ctx context.Context, a AdminAlert) error
}
