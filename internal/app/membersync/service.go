// Package membersync reconciles the local member collection against the
// Clubspot roster: upstream-owned fields are overwritten, locally-owned
// fields are preserved, and every run leaves an audit trail.
package membersync

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Marina-Point-YC/raceday-api/internal/clubspot"
	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/clock"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/memberstore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
)

// RosterFetcher is the slice of the Clubspot client the engine needs.
type RosterFetcher interface {
	FetchMembers(ctx context.Context, clubID string) ([]clubspot.Record, error)
}

// Service runs roster reconciliation.
type Service struct {
	roster  RosterFetcher
	members memberstore.Store
	logbook oplog.Log
	clock   clock.Clock
	log     zerolog.Logger
}

func NewService(roster RosterFetcher, members memberstore.Store, logbook oplog.Log, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{roster: roster, members: members, logbook: logbook, clock: clk, log: log}
}

// Run fetches the full roster for clubID and reconciles it into the member
// store. One bad record never aborts the run: per-record failures are
// collected into the report and the remaining records still sync. A roster
// fetch failure aborts the whole run with no writes.
//
// Run is idempotent: a second run against an unchanged roster produces only
// lastSynced refreshes.
func (s *Service) Run(ctx context.Context, clubID string) (domain.SyncReport, error) {
	if clubID == "" {
		return domain.SyncReport{}, ErrMissingClubID
	}

	report := domain.SyncReport{ClubID: clubID, StartedAt: s.clock.Now()}

	rows, err := s.roster.FetchMembers(ctx, clubID)
	if err != nil {
		return domain.SyncReport{}, fmt.Errorf("fetch roster: %w", err)
	}
	s.log.Info().Str("club_id", clubID).Int("fetched", len(rows)).Msg("member sync started")

	for _, row := range rows {
		s.syncOne(ctx, row, &report)
	}
	report.FinishedAt = s.clock.Now()

	s.record(ctx, report)
	s.log.Info().
		Str("club_id", clubID).
		Int("new", report.NewCount).
		Int("updated", report.UpdatedCount).
		Int("unchanged", report.UnchangedCount).
		Int("errors", len(report.Errors)).
		Msg("member sync finished")
	return report, nil
}

// RunScheduled wraps Run for unattended invocations: a failed run raises an
// admin alert before the error propagates to the scheduler.
func (s *Service) RunScheduled(ctx context.Context, clubID string) (domain.SyncReport, error) {
	report, err := s.Run(ctx, clubID)
	if err == nil {
		return report, nil
	}
	alert := oplog.AdminAlert{
		Type:    "sync_failure",
		Message: fmt.Sprintf("Scheduled member sync failed: %v", err),
		At:      s.clock.Now(),
	}
	if aerr := s.logbook.AppendAdminAlert(ctx, alert); aerr != nil {
		s.log.Error().Err(aerr).Msg("append admin alert")
	}
	return domain.SyncReport{}, err
}

func (s *Service) syncOne(ctx context.Context, row clubspot.Record, report *domain.SyncReport) {
	mapped := mapMember(row, s.clock.Now())
	if mapped.ID == "" {
		detail := row.Str("email")
		if detail == "" {
			detail = "unknown"
		}
		report.Errors = append(report.Errors, fmt.Sprintf("Skipping member with missing ID (%s)", detail))
		return
	}

	existing, err := s.members.Get(ctx, mapped.ID)
	switch {
	case errors.Is(err, memberstore.ErrNotFound):
		merged := domain.PreserveLocal(mapped, nil)
		if perr := s.members.Put(ctx, merged); perr != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("member %s: %v", mapped.ID, perr))
			return
		}
		report.NewCount++

	case err != nil:
		report.Errors = append(report.Errors, fmt.Sprintf("member %s: %v", mapped.ID, err))

	default:
		merged := domain.PreserveLocal(mapped, &existing)
		if merged.ComparableJSON() == existing.ComparableJSON() {
			if terr := s.members.TouchLastSynced(ctx, mapped.ID, merged.LastSynced); terr != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("member %s: %v", mapped.ID, terr))
				return
			}
			report.UnchangedCount++
			return
		}
		if perr := s.members.Put(ctx, merged); perr != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("member %s: %v", mapped.ID, perr))
			return
		}
		report.UpdatedCount++
	}
}

// record persists the run outcome to the audit trail and the sync history.
// Logging failures are reported but never fail the sync itself.
func (s *Service) record(ctx context.Context, report domain.SyncReport) {
	now := s.clock.Now()
	audit := oplog.AuditEntry{
		UserID:     "system",
		Action:     "member_sync",
		EntityType: "members",
		EntityID:   report.ClubID,
		Details:    report,
		At:         now,
	}
	if err := s.logbook.AppendAudit(ctx, audit); err != nil {
		s.log.Error().Err(err).Msg("append audit entry")
	}
	if err := s.logbook.AppendSyncLog(ctx, oplog.SyncLogEntry{Report: report, At: now}); err != nil {
		s.log.Error().Err(err).Msg("append sync log entry")
	}
}
