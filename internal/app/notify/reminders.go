package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/eventstore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/push"
)

// ReminderKind classifies where an event sits relative to today.
type ReminderKind string

const (
	ReminderWeekBefore ReminderKind = "week_before"
	ReminderDayBefore  ReminderKind = "day_before"
	ReminderMorningOf  ReminderKind = "morning_of"
)

// ReminderRun reports one scheduled crew-reminder sweep.
type ReminderRun struct {
	EventsConsidered int
	RemindersSent    int
	Failures         []string
}

// RunCrewReminders sweeps scheduled events in the next seven days and sends
// crew duty reminders for the ones hitting a reminder boundary today:
// exactly a week out, the day before, and the morning of (before first gun).
// Week and day reminders go to everyone not declined; morning-of goes to
// confirmed crew only.
func (s *Service) RunCrewReminders(ctx context.Context) (ReminderRun, error) {
	now := s.clock.Now()
	events, err := s.events.ListScheduledBetween(ctx, now, now.Add(7*24*time.Hour))
	if err != nil {
		return ReminderRun{}, fmt.Errorf("list events: %w", err)
	}

	run := ReminderRun{EventsConsidered: len(events)}
	for _, event := range events {
		kind, ok := reminderKind(now, event)
		if !ok {
			continue
		}

		var d delivery
		for _, slot := range event.CrewSlots {
			if slot.Status == "declined" {
				continue
			}
			if kind == ReminderMorningOf && slot.Status != "confirmed" {
				continue
			}

			body := reminderBody(kind, event)
			smsBody := fmt.Sprintf("%s (%s): %s", event.Name, slot.Role, body)
			pm := push.Message{
				Title: event.Name,
				Body:  body,
				Data: map[string]string{
					"eventId": string(event.ID),
					"type":    "crew_reminder",
					"kind":    string(kind),
				},
			}
			s.deliverToMember(ctx, slot.MemberID, smsBody, pm, &d)
		}
		run.RemindersSent += d.total()
		run.Failures = append(run.Failures, d.failures...)

		s.log.Info().
			Str("event_id", string(event.ID)).
			Str("kind", string(kind)).
			Int("sms", d.smsSent).
			Int("push", d.pushSent).
			Msg("crew reminders sent")
	}
	return run, nil
}

// reminderKind reports whether the event hits a reminder boundary today,
// comparing calendar days in UTC.
func reminderKind(now time.Time, e eventstore.RaceEvent) (ReminderKind, bool) {
	nowDay := truncateToDay(now)
	eventDay := truncateToDay(e.Date)
	days := int(eventDay.Sub(nowDay).Hours() / 24)

	switch days {
	case 7:
		return ReminderWeekBefore, true
	case 1:
		return ReminderDayBefore, true
	case 0:
		firstGun := eventDay.Add(time.Duration(e.StartHour)*time.Hour + time.Duration(e.StartMinute)*time.Minute)
		if now.Before(firstGun) {
			return ReminderMorningOf, true
		}
	}
	return "", false
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func reminderBody(kind ReminderKind, e eventstore.RaceEvent) string {
	switch kind {
	case ReminderWeekBefore:
		return fmt.Sprintf("Race committee duty reminder: %s on %s.", e.Name, e.Date.UTC().Format("Mon Jan 2"))
	case ReminderDayBefore:
		return fmt.Sprintf("Race committee duty tomorrow: %s.", e.Name)
	default:
		return fmt.Sprintf("Race committee duty today: %s at %02d:%02d.", e.Name, e.StartHour, e.StartMinute)
	}
}
