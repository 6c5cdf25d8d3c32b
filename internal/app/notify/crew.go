package notify

import (
	"context"
	"fmt"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/push"
)

// CrewRequest asks for a send to an event's race-committee crew slots.
type CrewRequest struct {
	EventID domain.EventID
	Message string
	// OnlyUnconfirmed restricts the send to crew who have not yet confirmed.
	OnlyUnconfirmed bool
	SentBy          domain.SubjectID
}

// CrewResult reports the outcome of one crew send.
type CrewResult struct {
	Notified int
	SMSSent  int
	PushSent int
	Failures []string
}

// SendCrew delivers the message to the event's crew slots over SMS and push.
// Declined slots are always skipped; with OnlyUnconfirmed, confirmed slots
// are skipped too.
func (s *Service) SendCrew(ctx context.Context, req CrewRequest) (CrewResult, error) {
	if req.EventID == "" {
		return CrewResult{}, ErrMissingEventID
	}
	if req.Message == "" {
		return CrewResult{}, ErrMissingMessage
	}

	event, err := s.events.Get(ctx, req.EventID)
	if err != nil {
		return CrewResult{}, fmt.Errorf("load event: %w", err)
	}

	var d delivery
	var notified []string
	for _, slot := range event.CrewSlots {
		if slot.Status == "declined" {
			continue
		}
		if req.OnlyUnconfirmed && slot.Status == "confirmed" {
			continue
		}

		smsBody := fmt.Sprintf("%s (%s): %s", event.Name, slot.Role, req.Message)
		pm := push.Message{
			Title: event.Name,
			Body:  req.Message,
			Data: map[string]string{
				"eventId": string(event.ID),
				"type":    "crew",
				"role":    slot.Role,
			},
		}
		s.deliverToMember(ctx, slot.MemberID, smsBody, pm, &d)
		notified = append(notified, string(slot.MemberID))
	}

	entry := oplog.NotificationLog{
		To:      notified,
		Channel: "crew",
		EventID: event.ID,
		Message: req.Message,
		At:      s.clock.Now(),
	}
	if err := s.logbook.AppendNotificationLog(ctx, entry); err != nil {
		s.log.Error().Err(err).Msg("append notification log")
	}

	return CrewResult{
		Notified: len(notified),
		SMSSent:  d.smsSent,
		PushSent: d.pushSent,
		Failures: d.failures,
	}, nil
}
