// Command syncjob runs one unattended job and exits. It is invoked by the
// scheduler (cron, Cloud Scheduler) rather than serving traffic:
//
//	syncjob -job=member-sync       reconcile the Clubspot roster
//	syncjob -job=crew-reminders    send upcoming race-crew reminders
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres"
	pgbroadcaststore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/broadcaststore"
	pgcheckinstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/checkinstore"
	pgeventstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/eventstore"
	pgmemberstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/memberstore"
	pgoplog "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/oplog"
	pgoutbox "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/outbox"
	"github.com/Marina-Point-YC/raceday-api/internal/adapters/pushgateway"
	"github.com/Marina-Point-YC/raceday-api/internal/app/membersync"
	"github.com/Marina-Point-YC/raceday-api/internal/app/notify"
	"github.com/Marina-Point-YC/raceday-api/internal/clubspot"
	platformclock "github.com/Marina-Point-YC/raceday-api/internal/platform/clock"
	"github.com/Marina-Point-YC/raceday-api/internal/platform/config"
	"github.com/Marina-Point-YC/raceday-api/internal/platform/logging"
)

func main() {
	job := flag.String("job", "", "job to run: member-sync or crew-reminders")
	timeout := flag.Duration("timeout", 10*time.Minute, "abort the job after this long")
	flag.Parse()

	_ = godotenv.Load()
	log := logging.New("raceday-syncjob")

	csCfg, err := config.LoadClubspotConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid clubspot config")
	}
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	clk := platformclock.NewSystemClock()
	upstream := clubspot.New(clubspot.Config{APIKey: csCfg.APIKey, BaseURL: csCfg.BaseURL}, log)
	logbook := pgoplog.NewLog(pool)
	members := pgmemberstore.NewStore(pool)

	switch *job {
	case "member-sync":
		svc := membersync.NewService(upstream, members, logbook, clk, log)
		report, err := svc.RunScheduled(ctx, csCfg.ClubID)
		if err != nil {
			log.Fatal().Err(err).Msg("member sync failed")
		}
		log.Info().
			Int("new", report.NewCount).
			Int("updated", report.UpdatedCount).
			Int("unchanged", report.UnchangedCount).
			Int("errors", len(report.Errors)).
			Msg("member sync complete")

	case "crew-reminders":
		svc := notify.NewService(notify.Deps{
			Members:    members,
			CheckIns:   pgcheckinstore.NewStore(pool),
			Events:     pgeventstore.NewStore(pool),
			Broadcasts: pgbroadcaststore.NewStore(pool),
			Logbook:    logbook,
			Outbox:     pgoutbox.NewOutbox(pool),
			Push:       pushgateway.NewSender(os.Getenv("PUSH_ENDPOINT"), nil),
			Clock:      clk,
			Log:        log,
		})
		run, err := svc.RunCrewReminders(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("crew reminders failed")
		}
		log.Info().
			Int("events", run.EventsConsidered).
			Int("sent", run.RemindersSent).
			Int("failures", len(run.Failures)).
			Msg("crew reminders complete")

	default:
		log.Fatal().Str("job", *job).Msg("unknown job (want member-sync or crew-reminders)")
	}
}
