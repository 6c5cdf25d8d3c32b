// Package oplog implements the append-only operational log on Postgres.
// Each log kind gets its own table so retention and querying stay independent.
package oplog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
)

// Log appends operational records as JSONB rows.
type Log struct {
	pool *pgxpool.Pool
}

var _ oplog.Log = (*Log)(nil)

func NewLog(pool *pgxpool.Pool) *Log {
	return &Log{pool: pool}
}

func (l *Log) append(ctx context.Context, table string, v any) error {
	if l.pool == nil {
		return errors.New("oplog: nil pool")
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s entry: %w", table, err)
	}
	if _, err := l.pool.Exec(ctx,
		`INSERT INTO `+table+` (doc) VALUES ($1)`, doc,
	); err != nil {
		return fmt.Errorf("append %s entry: %w", table, err)
	}
	return nil
}

type auditDoc struct {
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	Details    any       `json:"details,omitempty"`
	At         time.Time `json:"timestamp"`
}

func (l *Log) AppendAudit(ctx context.Context, e oplog.AuditEntry) error {
	return l.append(ctx, "audit_logs", auditDoc{
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		At:         e.At.UTC(),
	})
}

type syncLogDoc struct {
	Report domain.SyncReport `json:"report"`
	At     time.Time         `json:"timestamp"`
}

func (l *Log) AppendSyncLog(ctx context.Context, e oplog.SyncLogEntry) error {
	return l.append(ctx, "member_sync_logs", syncLogDoc{Report: e.Report, At: e.At.UTC()})
}

type notificationDoc struct {
	To          []string  `json:"to"`
	Channel     string    `json:"channel"`
	EventID     string    `json:"eventId,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	QueuedDocID string    `json:"queuedDocId,omitempty"`
	At          time.Time `json:"timestamp"`
}

func (l *Log) AppendNotificationLog(ctx context.Context, e oplog.NotificationLog) error {
	return l.append(ctx, "notification_logs", notificationDoc{
		To:          e.To,
		Channel:     e.Channel,
		EventID:     string(e.EventID),
		Subject:     e.Subject,
		Message:     e.Message,
		QueuedDocID: e.QueuedDocID,
		At:          e.At.UTC(),
	})
}

type scoreDoc struct {
	EventID        string    `json:"eventId,omitempty"`
	SubmittedBy    string    `json:"submittedBy"`
	RegistrationID string    `json:"registrationId,omitempty"`
	RaceNumber     int       `json:"raceNumber,omitempty"`
	FinishTime     string    `json:"finishTime,omitempty"`
	Response       any       `json:"response,omitempty"`
	BatchSize      int       `json:"batchSize,omitempty"`
	Submitted      int       `json:"submitted,omitempty"`
	Errors         []string  `json:"errors,omitempty"`
	At             time.Time `json:"timestamp"`
}

func (l *Log) AppendScoreLog(ctx context.Context, e oplog.ScoreLog) error {
	return l.append(ctx, "score_logs", scoreDoc{
		EventID:        string(e.EventID),
		SubmittedBy:    string(e.SubmittedBy),
		RegistrationID: e.RegistrationID,
		RaceNumber:     e.RaceNumber,
		FinishTime:     e.FinishTime,
		Response:       e.Response,
		BatchSize:      e.BatchSize,
		Submitted:      e.Submitted,
		Errors:         e.Errors,
		At:             e.At.UTC(),
	})
}

type alertDoc struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	At      time.Time `json:"timestamp"`
}

func (l *Log) AppendAdminAlert(ctx context.Context, a oplog.AdminAlert) error {
	return l.append(ctx, "admin_notifications", alertDoc{Type: a.Type, Message: a.Message, At: a.At.UTC()})
}
