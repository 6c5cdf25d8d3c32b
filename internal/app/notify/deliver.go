package notify

import (
	"context"
	"fmt"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/outbox"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/push"
)

// delivery accumulates fan-out bookkeeping across recipients.
type delivery struct {
	smsSent  int
	pushSent int
	failures []string
}

func (d *delivery) total() int { return d.smsSent + d.pushSent }

// deliverToMember sends smsBody and pm to one member over whichever channels
// the member record supports. Each channel fails independently; a dead phone
// number never suppresses the push, and vice versa. Returns the mobile number
// an SMS was queued to, so callers can dedup against raw phone lists.
func (s *Service) deliverToMember(ctx context.Context, id domain.MemberID, smsBody string, pm push.Message, d *delivery) string {
	m, err := s.members.Get(ctx, id)
	if err != nil {
		d.failures = append(d.failures, fmt.Sprintf("member %s: %v", id, err))
		return ""
	}

	texted := ""
	if m.MobileNumber != "" {
		if _, err := s.outbox.EnqueueSMS(ctx, outbox.SMSMessage{To: m.MobileNumber, Body: smsBody}); err != nil {
			d.failures = append(d.failures, fmt.Sprintf("member %s sms: %v", id, err))
			s.log.Warn().Err(err).Str("member_id", string(id)).Msg("sms enqueue failed")
		} else {
			d.smsSent++
			texted = m.MobileNumber
		}
	}

	if m.PushToken != nil && *m.PushToken != "" {
		pm.Token = *m.PushToken
		if err := s.push.Send(ctx, pm); err != nil {
			d.failures = append(d.failures, fmt.Sprintf("member %s push: %v", id, err))
			s.log.Warn().Err(err).Str("member_id", string(id)).Msg("push send failed")
		} else {
			d.pushSent++
		}
	}
	return texted
}
