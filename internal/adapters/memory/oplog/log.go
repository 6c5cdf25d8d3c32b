package oplog

import (
	"context"
	"sync"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
)

// Log is an in-memory append-only operational log for tests.
type Log struct {
	mu               sync.RWMutex
	audits           []oplog.AuditEntry
	syncLogs         []oplog.SyncLogEntry
	notificationLogs []oplog.NotificationLog
	scoreLogs        []oplog.ScoreLog
	adminAlerts      []oplog.AdminAlert
}

var _ oplog.Log = (*Log)(nil)

func NewLog() *Log {
	return &Log{}
}

func (l *Log) AppendAudit(_ context.Context, e oplog.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.audits = append(l.audits, e)
	return nil
}

func (l *Log) AppendSyncLog(_ context.Context, e oplog.SyncLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncLogs = append(l.syncLogs, e)
	return nil
}

func (l *Log) AppendNotificationLog(_ context.Context, e oplog.NotificationLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notificationLogs = append(l.notificationLogs, e)
	return nil
}

func (l *Log) AppendScoreLog(_ context.Context, e oplog.ScoreLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scoreLogs = append(l.scoreLogs, e)
	return nil
}

func (l *Log) AppendAdminAlert(_ context.Context, a oplog.AdminAlert) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.adminAlerts = append(l.adminAlerts, a)
	return nil
}

func (l *Log) Audits() []oplog.AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]oplog.AuditEntry(nil), l.audits...)
}

func (l *Log) SyncLogs() []oplog.SyncLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]oplog.SyncLogEntry(nil), l.syncLogs...)
}

func (l *Log) NotificationLogs() []oplog.NotificationLog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]oplog.NotificationLog(nil), l.notificationLogs...)
}

func (l *Log) ScoreLogs() []oplog.ScoreLog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]oplog.ScoreLog(nil), l.scoreLogs...)
}

func (l *Log) AdminAlerts() []oplog.AdminAlert {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]oplog.AdminAlert(nil), l.adminAlerts...)
}
