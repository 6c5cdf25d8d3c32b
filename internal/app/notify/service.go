// Package notify fans club notifications out to members over SMS and push.
//
// Delivery is best-effort per recipient: one failed send never blocks the
// rest of the fan-out, and partial failure is reported, not fatal.
package notify

import (
	"github.com/rs/zerolog"

	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/broadcaststore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/checkinstore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/clock"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/eventstore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/memberstore"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/outbox"
	"github.com/Marina-Point-YC/raceday-api/internal/ports/out/push"
)

// Service implements fleet fan-out, direct sends, crew notifications, and
// scheduled crew reminders.
type Service struct {
	members    memberstore.Store
	checkins   checkinstore.Store
	events     eventstore.Store
	broadcasts broadcaststore.Store
	logbook    oplog.Log
	outbox     outbox.Outbox
	push       push.Sender
	clock      clock.Clock
	log        zerolog.Logger
}

type Deps struct {
	Members    memberstore.Store
	CheckIns   checkinstore.Store
	Events     eventstore.Store
	Broadcasts broadcaststore.Store
	Logbook    oplog.Log
	Outbox     outbox.Outbox
	Push       push.Sender
	Clock      clock.Clock
	Log        zerolog.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		members:    d.Members,
		checkins:   d.CheckIns,
		events:     d.Events,
		broadcasts: d.Broadcasts,
		logbook:    d.Logbook,
		outbox:     d.Outbox,
		push:       d.Push,
		clock:      d.Clock,
		log:        d.Log,
	}
}
