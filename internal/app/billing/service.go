// Package billing mirrors Clubspot billing line items into the local store.
package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Marina-Point-YC/raceday-api/internal/clubspot"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/clock"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/lineitemstore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
)

var (
	// ErrMissingClubID indicates a sync was requested without a club id.
	ErrMissingClubID = errors.New("club id is required")
	// ErrMissingDateRange indicates a sync without both range endpoints.
	ErrMissingDateRange = errors.New("start and end dates are required")
)

// Fetcher is the slice of the Clubspot client line-item sync needs.
type Fetcher interface {
	FetchLineItems(ctx context.Context, clubID, startDate, endDate string) ([]clubspot.Record, error)
}

type Service struct {
	upstream Fetcher
	items    lineitemstore.Store
	logbook  oplog.Log
	clock    clock.Clock
	log      zerolog.Logger
}

func NewService(upstream Fetcher, items lineitemstore.Store, logbook oplog.Log, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{upstream: upstream, items: items, logbook: logbook, clock: clk, log: log}
}

// Result reports one line-item sync.
type Result struct {
	Fetched int
	Synced  int
	Skipped int
}

// SyncRange pulls billing line items for [startDate, endDate] (ISO dates) and
// merge-writes them in one atomic batch. Rows with no usable id are skipped.
func (s *Service) SyncRange(ctx context.Context, clubID, startDate, endDate string) (Result, error) {
	if clubID == "" {
		return Result{}, ErrMissingClubID
	}
	if startDate == "" || endDate == "" {
		return Result{}, ErrMissingDateRange
	}

	rows, err := s.upstream.FetchLineItems(ctx, clubID, startDate, endDate)
	if err != nil {
		return Result{}, fmt.Errorf("fetch line items: %w", err)
	}

	now := s.clock.Now()
	items := make([]lineitemstore.LineItem, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		id := row.Str("id")
		if id == "" {
			id = row.Str("_id")
		}
		if id == "" {
			skipped++
			continue
		}
		items = append(items, lineitemstore.LineItem{ID: id, Fields: row, SyncedAt: now})
	}

	if len(items) > 0 {
		if err := s.items.PutBatch(ctx, items); err != nil {
			return Result{}, fmt.Errorf("write line items: %w", err)
		}
	}

	res := Result{Fetched: len(rows), Synced: len(items), Skipped: skipped}
	audit := oplog.AuditEntry{
		UserID:     "system",
		Action:     "line_item_sync",
		EntityType: "line_items",
		EntityID:   clubID,
		Details:    res,
		At:         now,
	}
	if aerr := s.logbook.AppendAudit(ctx, audit); aerr != nil {
		s.log.Error().Err(aerr).Msg("append audit entry")
	}

	s.log.Info().
		Str("club_id", clubID).
		Int("fetched", res.Fetched).
		Int("synced", res.Synced).
		Int("skipped", res.Skipped).
		Msg("line item sync finished")
	return res, nil
}
