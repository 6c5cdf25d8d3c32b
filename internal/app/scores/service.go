// Package scores pushes race finish times to the Clubspot scoring API and
// keeps a local submission log.
package scores

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Marina-Point-YC/raceday-api/internal/clubspot"
	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/clock"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
)

var (
	// ErrMissingRegistrationID indicates a score without a registration.
	ErrMissingRegistrationID = errors.New("registration id is required")
	// ErrMissingFinishTime indicates a score without a finish time.
	ErrMissingFinishTime = errors.New("finish time is required")
	// ErrEmptyBatch indicates a batch submission with no scores.
	ErrEmptyBatch = errors.New("batch contains no scores")
)

// Submitter is the slice of the Clubspot client score submission needs.
type Submitter interface {
	SubmitScore(ctx context.Context, score clubspot.Score) (clubspot.Record, error)
}

type Service struct {
	upstream Submitter
	logbook  oplog.Log
	clock    clock.Clock
	log      zerolog.Logger
}

func NewService(upstream Submitter, logbook oplog.Log, clk clock.Clock, log zerolog.Logger) *Service {
	return &Service{upstream: upstream, logbook: logbook, clock: clk, log: log}
}

// Request is one finish-time submission.
type Request struct {
	EventID        domain.EventID
	RegistrationID string
	RaceNumber     int
	FinishTime     string
	SubmittedBy    domain.SubjectID
}

// Submit pushes one finish time upstream and records the submission.
func (s *Service) Submit(ctx context.Context, req Request) (clubspot.Record, error) {
	if req.RegistrationID == "" {
		return nil, ErrMissingRegistrationID
	}
	if req.FinishTime == "" {
		return nil, ErrMissingFinishTime
	}

	resp, err := s.upstream.SubmitScore(ctx, clubspot.Score{
		FinishTime:     req.FinishTime,
		RegistrationID: req.RegistrationID,
		RaceNumber:     req.RaceNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("submit score: %w", err)
	}

	entry := oplog.ScoreLog{
		EventID:        req.EventID,
		SubmittedBy:    req.SubmittedBy,
		RegistrationID: req.RegistrationID,
		RaceNumber:     req.RaceNumber,
		FinishTime:     req.FinishTime,
		Response:       resp,
		At:             s.clock.Now(),
	}
	if lerr := s.logbook.AppendScoreLog(ctx, entry); lerr != nil {
		s.log.Error().Err(lerr).Msg("append score log")
	}
	return resp, nil
}

// BatchRequest is a set of finish times submitted together.
type BatchRequest struct {
	EventID     domain.EventID
	Scores      []Request
	SubmittedBy domain.SubjectID
}

// BatchResult reports per-entry outcomes of a batch submission.
type BatchResult struct {
	Submitted int
	Errors    []string
}

// SubmitBatch pushes each score independently: a rejected entry is recorded
// in the result and the remaining entries still go out. One summary row is
// written to the score log.
func (s *Service) SubmitBatch(ctx context.Context, req BatchRequest) (BatchResult, error) {
	if len(req.Scores) == 0 {
		return BatchResult{}, ErrEmptyBatch
	}

	var res BatchResult
	for i, score := range req.Scores {
		if score.RegistrationID == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("score %d: %v", i, ErrMissingRegistrationID))
			continue
		}
		if score.FinishTime == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("score %d: %v", i, ErrMissingFinishTime))
			continue
		}
		_, err := s.upstream.SubmitScore(ctx, clubspot.Score{
			FinishTime:     score.FinishTime,
			RegistrationID: score.RegistrationID,
			RaceNumber:     score.RaceNumber,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("score %d (%s): %v", i, score.RegistrationID, err))
			continue
		}
		res.Submitted++
	}

	entry := oplog.ScoreLog{
		EventID:     req.EventID,
		SubmittedBy: req.SubmittedBy,
		BatchSize:   len(req.Scores),
		Submitted:   res.Submitted,
		Errors:      res.Errors,
		At:          s.clock.Now(),
	}
	if lerr := s.logbook.AppendScoreLog(ctx, entry); lerr != nil {
		s.log.Error().Err(lerr).Msg("append score log")
	}

	s.log.Info().
		Str("event_id", string(req.EventID)).
		Int("batch_size", len(req.Scores)).
		Int("submitted", res.Submitted).
		Int("errors", len(res.Errors)).
		Msg("score batch submitted")
	return res, nil
}
