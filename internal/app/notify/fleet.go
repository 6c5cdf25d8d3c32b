package notify

import (
	"context"
	"fmt"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/broadcaststore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/checkinstore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/outbox"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/push"
)

// FleetRequest asks for a fan-out to everyone checked in for an event.
type FleetRequest struct {
	EventID domain.EventID
	Message string
	Type    string // defaults to "general"
	SentBy  domain.SubjectID
}

// FleetResult reports the outcome of one fleet fan-out.
type FleetResult struct {
	BroadcastID   domain.BroadcastID
	Recipients    int
	DeliveryCount int
	SMSSent       int
	PushSent      int
	Failures      []string
}

// SendFleet resolves recipients from the event's boat check-ins (skipper,
// listed members, listed crew, plus raw phone numbers supplied at check-in),
// dedups them, and delivers the message over SMS and push. A persisted
// broadcast record captures the outcome.
func (s *Service) SendFleet(ctx context.Context, req FleetRequest) (FleetResult, error) {
	if req.EventID == "" {
		return FleetResult{}, ErrMissingEventID
	}
	if req.Message == "" {
		return FleetResult{}, ErrMissingMessage
	}
	if req.Type == "" {
		req.Type = "general"
	}

	event, err := s.events.Get(ctx, req.EventID)
	if err != nil {
		return FleetResult{}, fmt.Errorf("load event: %w", err)
	}
	checkins, err := s.checkins.ListByEvent(ctx, req.EventID)
	if err != nil {
		return FleetResult{}, fmt.Errorf("list check-ins: %w", err)
	}

	memberIDs, phones := resolveRecipients(checkins)

	smsBody := fmt.Sprintf("%s: %s", event.Name, req.Message)
	pm := push.Message{
		Title: event.Name,
		Body:  req.Message,
		Data: map[string]string{
			"eventId": string(event.ID),
			"type":    req.Type,
		},
	}

	var d delivery
	texted := make(map[string]bool)
	for _, id := range memberIDs {
		if num := s.deliverToMember(ctx, id, smsBody, pm, &d); num != "" {
			texted[num] = true
		}
	}
	for _, num := range phones {
		if texted[num] {
			continue
		}
		texted[num] = true
		if _, err := s.outbox.EnqueueSMS(ctx, outbox.SMSMessage{To: num, Body: smsBody}); err != nil {
			d.failures = append(d.failures, fmt.Sprintf("phone %s sms: %v", num, err))
			continue
		}
		d.smsSent++
	}

	castID, err := s.broadcasts.Append(ctx, broadcaststore.Broadcast{
		EventID:       event.ID,
		SentBy:        req.SentBy,
		Message:       req.Message,
		Type:          req.Type,
		SentAt:        s.clock.Now(),
		DeliveryCount: d.total(),
		SMSSent:       d.smsSent,
		PushSent:      d.pushSent,
	})
	if err != nil {
		return FleetResult{}, fmt.Errorf("record broadcast: %w", err)
	}

	s.log.Info().
		Str("event_id", string(event.ID)).
		Int("recipients", len(memberIDs)+len(phones)).
		Int("sms", d.smsSent).
		Int("push", d.pushSent).
		Int("failures", len(d.failures)).
		Msg("fleet notification sent")

	return FleetResult{
		BroadcastID:   castID,
		Recipients:    len(memberIDs) + len(phones),
		DeliveryCount: d.total(),
		SMSSent:       d.smsSent,
		PushSent:      d.pushSent,
		Failures:      d.failures,
	}, nil
}

// resolveRecipients flattens check-ins into a deduplicated member id list
// (first-seen order: skipper, then listed members, then listed crew) and a
// deduplicated raw phone number list.
func resolveRecipients(checkins []checkinstore.CheckIn) ([]domain.MemberID, []string) {
	var ids []domain.MemberID
	seenID := make(map[domain.MemberID]bool)
	addID := func(id domain.MemberID) {
		if id == "" || seenID[id] {
			return
		}
		seenID[id] = true
		ids = append(ids, id)
	}

	var phones []string
	seenPhone := make(map[string]bool)

	for _, c := range checkins {
		addID(c.SkipperMemberID)
		for _, id := range c.MemberIDs {
			addID(id)
		}
		for _, id := range c.CrewMemberIDs {
			addID(id)
		}
		for _, num := range c.PhoneNumbers {
			if num == "" || seenPhone[num] {
				continue
			}
			seenPhone[num] = true
			phones = append(phones, num)
		}
	}
	return ids, phones
}
