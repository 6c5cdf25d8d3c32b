// Package contracttest holds store contract suites shared by the memory and
// postgres adapters. Each suite exercises a port's semantics through the
// interface only, so every implementation proves the same behavior.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/domain"
	checkinstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/checkinstore"
	eventstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/eventstore"
	memberstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/memberstore"
)

type CleanupFunc = func()

type MemberStoreFactory func(t *testing.T) (memberstoreport.Store, CleanupFunc)

// Check-ins and events are written by other systems in production, so their
// ports are read-only; factories supply a seed function alongside the store.
type CheckInSeedFunc func(ctx context.Context, c checkinstoreport.CheckIn) error
type CheckInStoreFactory func(t *testing.T) (checkinstoreport.Store, CheckInSeedFunc, CleanupFunc)

type EventSeedFunc func(ctx context.Context, e eventstoreport.RaceEvent) error
type EventStoreFactory func(t *testing.T) (eventstoreport.Store, EventSeedFunc, CleanupFunc)

func RunMemberStore(t *testing.T, newStore MemberStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if _, err := store.Get(ctx, "M-404"); !errors.Is(err, memberstoreport.ErrNotFound) {
		t.Fatalf("Get missing: want ErrNotFound, got %v", err)
	}
	if err := store.TouchLastSynced(ctx, "M-404", time.Now()); !errors.Is(err, memberstoreport.ErrNotFound) {
		t.Fatalf("TouchLastSynced missing: want ErrNotFound, got %v", err)
	}

	token := "push-token-1"
	m := domain.Member{
		ID:           "M-100",
		FirstName:    "Dana",
		LastName:     "Whitlock",
		Email:        "dana@example.com",
		MobileNumber: "+15550001111",
		Roles:        []string{"crew", "web_admin"},
		PushToken:    &token,
		IsActive:     true,
		LastSynced:   time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Put(ctx, m); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, "M-100")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FirstName != "Dana" || got.Email != "dana@example.com" || !got.HasRole("web_admin") {
		t.Fatalf("unexpected member: %+v", got)
	}
	if got.PushToken == nil || *got.PushToken != "push-token-1" {
		t.Fatalf("push token not preserved: %+v", got.PushToken)
	}

	// Overwrite semantics.
	m.FirstName = "Dana-Marie"
	if err := store.Put(ctx, m); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err = store.Get(ctx, "M-100")
	if err != nil || got.FirstName != "Dana-Marie" {
		t.Fatalf("expected overwritten member, got %+v err=%v", got, err)
	}

	// TouchLastSynced moves only the bookkeeping field.
	at := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
	if err := store.TouchLastSynced(ctx, "M-100", at); err != nil {
		t.Fatalf("TouchLastSynced: %v", err)
	}
	got, err = store.Get(ctx, "M-100")
	if err != nil {
		t.Fatalf("Get after touch: %v", err)
	}
	if !got.LastSynced.Equal(at) {
		t.Fatalf("lastSynced = %v, want %v", got.LastSynced, at)
	}
	if got.FirstName != "Dana-Marie" || !got.HasRole("crew") {
		t.Fatalf("touch disturbed other fields: %+v", got)
	}

	if err := store.Put(ctx, domain.Member{ID: "M-050", Roles: []string{"crew"}}); err != nil {
		t.Fatalf("Put second member: %v", err)
	}
	crew, err := store.ListByRole(ctx, "crew")
	if err != nil {
		t.Fatalf("ListByRole: %v", err)
	}
	if len(crew) != 2 || crew[0].ID != "M-050" || crew[1].ID != "M-100" {
		t.Fatalf("ListByRole crew: got %d members, %+v", len(crew), crew)
	}
	admins, err := store.ListByRole(ctx, "web_admin")
	if err != nil || len(admins) != 1 || admins[0].ID != "M-100" {
		t.Fatalf("ListByRole web_admin: got %+v err=%v", admins, err)
	}
}

func RunCheckInStore(t *testing.T, newStore CheckInStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, seed, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	none, err := store.ListByEvent(ctx, "EV-empty")
	if err != nil {
		t.Fatalf("ListByEvent empty: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no check-ins, got %d", len(none))
	}

	first := checkinstoreport.CheckIn{
		EventID:         "EV-1",
		SkipperMemberID: "M-1",
		MemberIDs:       []domain.MemberID{"M-2"},
		CrewMemberIDs:   []domain.MemberID{"M-3"},
		PhoneNumbers:    []string{"+15559998888"},
	}
	second := checkinstoreport.CheckIn{EventID: "EV-1", SkipperMemberID: "M-4"}
	other := checkinstoreport.CheckIn{EventID: "EV-2", SkipperMemberID: "M-9"}
	for _, c := range []checkinstoreport.CheckIn{first, second, other} {
		if err := seed(ctx, c); err != nil {
			t.Fatalf("seed check-in: %v", err)
		}
	}

	got, err := store.ListByEvent(ctx, "EV-1")
	if err != nil {
		t.Fatalf("ListByEvent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 check-ins for EV-1, got %d", len(got))
	}
	if got[0].SkipperMemberID != "M-1" || got[1].SkipperMemberID != "M-4" {
		t.Fatalf("unexpected order or contents: %+v", got)
	}
	if len(got[0].MemberIDs) != 1 || got[0].MemberIDs[0] != "M-2" {
		t.Fatalf("member ids not preserved: %+v", got[0])
	}
	if len(got[0].CrewMemberIDs) != 1 || got[0].CrewMemberIDs[0] != "M-3" {
		t.Fatalf("crew ids not preserved: %+v", got[0])
	}
	if len(got[0].PhoneNumbers) != 1 || got[0].PhoneNumbers[0] != "+15559998888" {
		t.Fatalf("phone numbers not preserved: %+v", got[0])
	}
}

func RunEventStore(t *testing.T, newStore EventStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, seed, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if _, err := store.Get(ctx, "EV-404"); !errors.Is(err, eventstoreport.ErrNotFound) {
		t.Fatalf("Get missing: want ErrNotFound, got %v", err)
	}

	saturday := eventstoreport.RaceEvent{
		ID:          "EV-sat",
		Name:        "Saturday Series 4",
		Date:        time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Status:      "scheduled",
		StartHour:   13,
		StartMinute: 30,
		CrewSlots: []eventstoreport.CrewSlot{
			{MemberID: "M-1", Role: "PRO", Status: "confirmed"},
			{MemberID: "M-2", Role: "Mark Boat", Status: "invited"},
		},
	}
	sunday := eventstoreport.RaceEvent{
		ID:     "EV-sun",
		Name:   "Sunday Pursuit",
		Date:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Status: "scheduled",
	}
	done := eventstoreport.RaceEvent{
		ID:     "EV-done",
		Name:   "Spring Opener",
		Date:   time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Status: "completed",
	}
	farOut := eventstoreport.RaceEvent{
		ID:     "EV-far",
		Name:   "Fall Regatta",
		Date:   time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
		Status: "scheduled",
	}
	for _, e := range []eventstoreport.RaceEvent{saturday, sunday, done, farOut} {
		if err := seed(ctx, e); err != nil {
			t.Fatalf("seed event: %v", err)
		}
	}

	got, err := store.Get(ctx, "EV-sat")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Saturday Series 4" || got.StartHour != 13 || got.StartMinute != 30 {
		t.Fatalf("unexpected event: %+v", got)
	}
	if len(got.CrewSlots) != 2 || got.CrewSlots[0].Role != "PRO" || got.CrewSlots[1].Status != "invited" {
		t.Fatalf("crew slots not preserved: %+v", got.CrewSlots)
	}

	window, err := store.ListScheduledBetween(ctx,
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("ListScheduledBetween: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("expected 2 scheduled events in window, got %d: %+v", len(window), window)
	}
	if window[0].ID != "EV-sat" || window[1].ID != "EV-sun" {
		t.Fatalf("expected date ordering, got %+v", window)
	}
}
