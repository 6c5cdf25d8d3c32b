package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rs/zerolog"

	membroadcasts "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/broadcaststore"
	memcheckins "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/checkinstore"
	memclock "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/clock"
	memevents "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/eventstore"
	memmembers "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/memberstore"
	memoplog "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/oplog"
	memoutbox "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/outbox"
	mempush "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/push"
	"github.com/Marina-Point-YC/raceday-api/internal/app/notify"
	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/checkinstore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/eventstore"
)

type fixture struct {
	svc        *notify.Service
	members    *memmembers.Store
	checkins   *memcheckins.Store
	events     *memevents.Store
	broadcasts *membroadcasts.Store
	logbook    *memoplog.Log
	outbox     *memoutbox.Outbox
	push       *mempush.Sender
	clock      *memclock.Manual
}

func newFixture() *fixture {
	f := &fixture{
		members:    memmembers.NewStore(),
		checkins:   memcheckins.NewStore(),
		events:     memevents.NewStore(),
		broadcasts: membroadcasts.NewStore(),
		logbook:    memoplog.NewLog(),
		outbox:     memoutbox.NewOutbox(),
		push:       mempush.NewSender(),
		clock:      memclock.NewManual(time.Date(2025, 6, 7, 8, 0, 0, 0, time.UTC)),
	}
	f.svc = notify.NewService(notify.Deps{
		Members:    f.members,
		CheckIns:   f.checkins,
		Events:     f.events,
		Broadcasts: f.broadcasts,
		Logbook:    f.logbook,
		Outbox:     f.outbox,
		Push:       f.push,
		Clock:      f.clock,
		Log:        zerolog.Nop(),
	})
	return f
}

func (f *fixture) addMember(t *testing.T, id, phone, token string) {
	t.Helper()
	m := domain.Member{
		ID:           domain.MemberID(id),
		MobileNumber: phone,
		Roles:        []string{"crew"},
		IsActive:     true,
	}
	if token != "" {
		m.PushToken = &token
	}
	require.NoError(t, f.members.Put(context.Background(), m))
}

func (f *fixture) addEvent(id, name string, date time.Time, slots ...eventstore.CrewSlot) {
	f.events.Put(eventstore.RaceEvent{
		ID:        domain.EventID(id),
		Name:      name,
		Date:      date,
		Status:    "scheduled",
		StartHour: 10,
		CrewSlots: slots,
	})
}

func TestSendFleet_ValidatesInput(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, err := f.svc.SendFleet(context.Background(), notify.FleetRequest{Message: "hi"})
	require.ErrorIs(t, err, notify.ErrMissingEventID)

	_, err = f.svc.SendFleet(context.Background(), notify.FleetRequest{EventID: "ev-1"})
	require.ErrorIs(t, err, notify.ErrMissingMessage)
}

func TestSendFleet_UnknownEvent(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, err := f.svc.SendFleet(context.Background(), notify.FleetRequest{EventID: "nope", Message: "hi"})
	require.ErrorIs(t, err, eventstore.ErrNotFound)
}

func TestSendFleet_ResolvesAndDedupsRecipients(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addEvent("ev-1", "Spring Series 3", f.clock.Now())
	f.addMember(t, "skip", "+15550000001", "tok-skip")
	f.addMember(t, "crew-a", "+15550000002", "")
	f.addMember(t, "crew-b", "", "tok-b")
	f.checkins.Add(checkinstore.CheckIn{
		EventID:         "ev-1",
		SkipperMemberID: "skip",
		MemberIDs:       []domain.MemberID{"crew-a"},
		CrewMemberIDs:   []domain.MemberID{"crew-b", "skip"}, // dup of the skipper
		PhoneNumbers:    []string{"+15550000009", "+15550000002"},
	})

	res, err := f.svc.SendFleet(context.Background(), notify.FleetRequest{
		EventID: "ev-1", Message: "Racing postponed one hour", SentBy: "admin-1",
	})
	require.NoError(t, err)

	// skip and crew-a get SMS, the novel raw number gets SMS; crew-a's own
	// number in the raw list must not produce a second text.
	assert.Equal(t, 3, res.SMSSent)
	assert.Equal(t, 2, res.PushSent)
	assert.Equal(t, 5, res.DeliveryCount)
	assert.Empty(t, res.Failures)
	assert.NotEmpty(t, res.BroadcastID)

	sms := f.outbox.SMS()
	require.Len(t, sms, 3)
	assert.Equal(t, "Spring Series 3: Racing postponed one hour", sms[0].Body)

	records := f.broadcasts.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domain.EventID("ev-1"), records[0].EventID)
	assert.Equal(t, domain.SubjectID("admin-1"), records[0].SentBy)
	assert.Equal(t, "general", records[0].Type)
	assert.Equal(t, 5, records[0].DeliveryCount)
	assert.Equal(t, f.clock.Now(), records[0].SentAt)
}

func TestSendFleet_OneFailedSMSDoesNotBlockOthers(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addEvent("ev-1", "Wednesday Beer Can", f.clock.Now())
	f.addMember(t, "m1", "+15550000001", "")
	f.addMember(t, "m2", "+15550000002", "")
	f.addMember(t, "m3", "+15550000003", "")
	f.checkins.Add(checkinstore.CheckIn{
		EventID:   "ev-1",
		MemberIDs: []domain.MemberID{"m1", "m2", "m3"},
	})
	f.outbox.FailSMSFor("+15550000002", errors.New("carrier rejected"))

	res, err := f.svc.SendFleet(context.Background(), notify.FleetRequest{EventID: "ev-1", Message: "Start delayed"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.SMSSent)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0], "m2")

	sms := f.outbox.SMS()
	require.Len(t, sms, 2)
	assert.Equal(t, "+15550000001", sms[0].To)
	assert.Equal(t, "+15550000003", sms[1].To)

	records := f.broadcasts.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].DeliveryCount)
}

func TestSendFleet_PushFailureDoesNotBlockSMSForSameMember(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addEvent("ev-1", "Fall Regatta", f.clock.Now())
	f.addMember(t, "m1", "+15550000001", "tok-1")
	f.checkins.Add(checkinstore.CheckIn{EventID: "ev-1", MemberIDs: []domain.MemberID{"m1"}})
	f.push.FailFor("tok-1", errors.New("token expired"))

	res, err := f.svc.SendFleet(context.Background(), notify.FleetRequest{EventID: "ev-1", Message: "Course change"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.SMSSent)
	assert.Equal(t, 0, res.PushSent)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0], "push")
}

func TestSendDirect_Email(t *testing.T) {
	t.Parallel()
	f := newFixture()

	res, err := f.svc.SendDirect(context.Background(), notify.DirectRequest{
		Channel: "email",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Haul-out schedule",
		Message: "Haul-out starts Monday.",
	})
	require.NoError(t, err)
	require.Len(t, res.QueuedDocIDs, 1)

	mail := f.outbox.Mail()
	require.Len(t, mail, 1)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, mail[0].To)
	assert.Equal(t, "Haul-out schedule", mail[0].Subject)

	logs := f.logbook.NotificationLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "email", logs[0].Channel)
	assert.Equal(t, res.QueuedDocIDs[0], logs[0].QueuedDocID)
}

func TestSendDirect_SMSPerRecipientIsolation(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.outbox.FailSMSFor("+15550000002", errors.New("carrier rejected"))

	res, err := f.svc.SendDirect(context.Background(), notify.DirectRequest{
		Channel: "sms",
		To:      []string{"+15550000001", "+15550000002", "+15550000003"},
		Message: "Dock B closed today.",
	})
	require.NoError(t, err)
	assert.Len(t, res.QueuedDocIDs, 2)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0], "+15550000002")
}

func TestSendDirect_RejectsUnknownChannel(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, err := f.svc.SendDirect(context.Background(), notify.DirectRequest{
		Channel: "carrier-pigeon",
		To:      []string{"x"},
		Message: "hi",
	})
	require.ErrorIs(t, err, notify.ErrUnknownChannel)
}

func TestSendCrew_SkipsDeclinedAndOptionallyConfirmed(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addMember(t, "c1", "+15550000001", "")
	f.addMember(t, "c2", "+15550000002", "")
	f.addMember(t, "c3", "+15550000003", "")
	f.addEvent("ev-1", "Opening Day", f.clock.Now(),
		eventstore.CrewSlot{MemberID: "c1", Role: "signal boat", Status: "confirmed"},
		eventstore.CrewSlot{MemberID: "c2", Role: "mark boat", Status: "invited"},
		eventstore.CrewSlot{MemberID: "c3", Role: "scorer", Status: "declined"},
	)

	res, err := f.svc.SendCrew(context.Background(), notify.CrewRequest{
		EventID: "ev-1", Message: "Muster at 0800", OnlyUnconfirmed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Notified)
	assert.Equal(t, 1, res.SMSSent)

	sms := f.outbox.SMS()
	require.Len(t, sms, 1)
	assert.Equal(t, "+15550000002", sms[0].To)
	assert.Equal(t, "Opening Day (mark boat): Muster at 0800", sms[0].Body)

	logs := f.logbook.NotificationLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "crew", logs[0].Channel)
	assert.Equal(t, []string{"c2"}, logs[0].To)
}

func TestRunCrewReminders_ClassifiesByCalendarDay(t *testing.T) {
	t.Parallel()
	f := newFixture()
	now := f.clock.Now() // 2025-06-07 08:00 UTC

	f.addMember(t, "c1", "+15550000001", "")
	f.addMember(t, "c2", "+15550000002", "")
	f.addMember(t, "c3", "+15550000003", "")
	f.addMember(t, "c4", "+15550000004", "")

	// Exactly a week out.
	f.addEvent("ev-week", "Summer Series 1", now.AddDate(0, 0, 7),
		eventstore.CrewSlot{MemberID: "c1", Role: "signal boat", Status: "invited"})
	// Tomorrow.
	f.addEvent("ev-day", "Summer Series 2", now.AddDate(0, 0, 1),
		eventstore.CrewSlot{MemberID: "c2", Role: "mark boat", Status: "confirmed"})
	// Today, starts at 10:00; only confirmed crew get the morning-of nudge.
	f.addEvent("ev-today", "Summer Series 3", now,
		eventstore.CrewSlot{MemberID: "c3", Role: "scorer", Status: "confirmed"},
		eventstore.CrewSlot{MemberID: "c4", Role: "mark boat", Status: "invited"})
	// Three days out: no boundary, nothing sent.
	f.addEvent("ev-mid", "Summer Series 4", now.AddDate(0, 0, 3),
		eventstore.CrewSlot{MemberID: "c1", Role: "scorer", Status: "confirmed"})

	run, err := f.svc.RunCrewReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, run.EventsConsidered)
	assert.Equal(t, 3, run.RemindersSent)
	assert.Empty(t, run.Failures)

	sms := f.outbox.SMS()
	require.Len(t, sms, 3)
	tos := []string{sms[0].To, sms[1].To, sms[2].To}
	assert.ElementsMatch(t, []string{"+15550000001", "+15550000002", "+15550000003"}, tos)
}

func TestRunCrewReminders_NoMorningNudgeAfterFirstGun(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.clock.Set(time.Date(2025, 6, 7, 11, 30, 0, 0, time.UTC)) // past the 10:00 start

	f.addMember(t, "c1", "+15550000001", "")
	f.addEvent("ev-today", "Summer Series 3", f.clock.Now(),
		eventstore.CrewSlot{MemberID: "c1", Role: "scorer", Status: "confirmed"})

	run, err := f.svc.RunCrewReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, run.RemindersSent)
	assert.Empty(t, f.outbox.SMS())
}
