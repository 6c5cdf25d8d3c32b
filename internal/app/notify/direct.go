package notify

import (
	"context"
	"fmt"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/outbox"
)

// DirectRequest is an explicit-recipient send over a single channel.
type DirectRequest struct {
	Channel string // "email" or "sms"
	To      []string
	Subject string
	Message string
	SentBy  domain.SubjectID
	EventID domain.EventID // optional context, recorded in the log
}

// DirectResult reports what was queued.
type DirectResult struct {
	QueuedDocIDs []string
	Failures     []string
}

// SendDirect queues the message for the named recipients. Email goes out as
// one document addressed to all recipients; SMS is one document per number,
// with per-number isolation. Every send is recorded in the notification log.
func (s *Service) SendDirect(ctx context.Context, req DirectRequest) (DirectResult, error) {
	if req.Message == "" {
		return DirectResult{}, ErrMissingMessage
	}
	if len(req.To) == 0 {
		return DirectResult{}, ErrMissingRecipients
	}

	var res DirectResult
	switch req.Channel {
	case "email":
		id, err := s.outbox.EnqueueMail(ctx, outbox.MailMessage{
			To:      req.To,
			Subject: req.Subject,
			Text:    req.Message,
		})
		if err != nil {
			return DirectResult{}, fmt.Errorf("enqueue mail: %w", err)
		}
		res.QueuedDocIDs = append(res.QueuedDocIDs, id)

	case "sms":
		for _, num := range req.To {
			id, err := s.outbox.EnqueueSMS(ctx, outbox.SMSMessage{To: num, Body: req.Message})
			if err != nil {
				res.Failures = append(res.Failures, fmt.Sprintf("sms %s: %v", num, err))
				continue
			}
			res.QueuedDocIDs = append(res.QueuedDocIDs, id)
		}
		if len(res.QueuedDocIDs) == 0 {
			return res, fmt.Errorf("enqueue sms: all %d sends failed", len(req.To))
		}

	default:
		return DirectResult{}, ErrUnknownChannel
	}

	entry := oplog.NotificationLog{
		To:      req.To,
		Channel: req.Channel,
		EventID: req.EventID,
		Subject: req.Subject,
		Message: req.Message,
		At:      s.clock.Now(),
	}
	if len(res.QueuedDocIDs) > 0 {
		entry.QueuedDocID = res.QueuedDocIDs[0]
	}
	if err := s.logbook.AppendNotificationLog(ctx, entry); err != nil {
		s.log.Error().Err(err).Msg("append notification log")
	}
	return res, nil
}
