package oplog

import (
	"context"
	"testing"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/testutil"
	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	oplogport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
)

func TestLog_AppendsLandInTheirTables(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	testutil.Truncate(t, pool,
		"audit_logs", "member_sync_logs", "notification_logs", "score_logs", "admin_notifications")
	ctx := context.Background()
	l := NewLog(pool)

	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if err := l.AppendAudit(ctx, oplogport.AuditEntry{
		UserID: "system", Action: "member_sync", At: at,
	}); err != nil {
		t.Fatalf("AppendAudit: %v", err)
	}
	if err := l.AppendSyncLog(ctx, oplogport.SyncLogEntry{
		Report: domain.SyncReport{ClubID: "club-1", NewCount: 2, UpdatedCount: 1},
		At:     at,
	}); err != nil {
		t.Fatalf("AppendSyncLog: %v", err)
	}
	if err := l.AppendNotificationLog(ctx, oplogport.NotificationLog{
		To: []string{"+15550001111"}, Channel: "sms", Message: "hello", At: at,
	}); err != nil {
		t.Fatalf("AppendNotificationLog: %v", err)
	}
	if err := l.AppendScoreLog(ctx, oplogport.ScoreLog{
		SubmittedBy: "auth-1", RegistrationID: "reg-1", RaceNumber: 3, FinishTime: "14:02:11", At: at,
	}); err != nil {
		t.Fatalf("AppendScoreLog: %v", err)
	}
	if err := l.AppendAdminAlert(ctx, oplogport.AdminAlert{
		Type: "sync_failure", Message: "roster fetch failed", At: at,
	}); err != nil {
		t.Fatalf("AppendAdminAlert: %v", err)
	}

	counts := map[string]int{}
	for _, table := range []string{
		"audit_logs", "member_sync_logs", "notification_logs", "score_logs", "admin_notifications",
	} {
		var n int
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		counts[table] = n
	}
	for table, n := range counts {
		if n != 1 {
			t.Fatalf("expected 1 row in %s, got %d", table, n)
		}
	}

	var action string
	if err := pool.QueryRow(ctx, `SELECT doc ->> 'action' FROM audit_logs`).Scan(&action); err != nil {
		t.Fatalf("select audit: %v", err)
	}
	if action != "member_sync" {
		t.Fatalf("action = %q", action)
	}
	var newCount int
	if err := pool.QueryRow(ctx,
		`SELECT (doc -> 'report' ->> 'newCount')::int FROM member_sync_logs`,
	).Scan(&newCount); err != nil {
		t.Fatalf("select sync log: %v", err)
	}
	if newCount != 2 {
		t.Fatalf("newCount = %d", newCount)
	}
}
