package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Marina-Point-YC/raceday-api/internal/adapters/httpapi"
	membroadcaststore "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/broadcaststore"
	memcheckinstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/checkinstore"
	memeventstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/eventstore"
	memlineitemstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/lineitemstore"
	memmemberstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/memberstore"
	memoplog "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/oplog"
	memoutbox "github.com/Marina-Point-YC/raceday-api/internal/adapters/memory/outbox"
	"github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres"
	pgbroadcaststore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/broadcaststore"
	pgcheckinstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/checkinstore"
	pgeventstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/eventstore"
	pglineitemstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/lineitemstore"
	pgmemberstore "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/memberstore"
	pgoplog "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/oplog"
	pgoutbox "github.com/Marina-Point-YC/raceday-api/internal/adapters/postgres/outbox"
	"github.com/Marina-Point-YC/raceday-api/internal/adapters/pushgateway"
	"github.com/Marina-Point-YC/raceday-api/internal/app/billing"
	"github.com/Marina-Point-YC/raceday-api/internal/app/membersync"
	"github.com/Marina-Point-YC/raceday-api/internal/app/notify"
	"github.com/Marina-Point-YC/raceday-api/internal/app/portal"
	"github.com/Marina-Point-YC/raceday-api/internal/app/scores"
	"github.com/Marina-Point-YC/raceday-api/internal/clubspot"
	"github.com/Marina-Point-YC/raceday-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/Marina-Point-YC/raceday-api/internal/platform/clock"
	"github.com/Marina-Point-YC/raceday-api/internal/platform/config"
	"github.com/Marina-Point-YC/raceday-api/internal/platform/logging"
	broadcaststoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/broadcaststore"
	checkinstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/checkinstore"
	eventstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/eventstore"
	lineitemstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/lineitemstore"
	memberstoreport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/memberstore"
	oplogport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/oplog"
	outboxport "github.com/Marina-Point-YC/raceday-api/internal/ports/out/outbox"
)

func main() {
	_ = godotenv.Load()
	log := logging.New("raceday-api")

	srvCfg := config.LoadServerConfigFromEnv()
	csCfg, err := config.LoadClubspotConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid clubspot config")
	}

	var authMW func(http.Handler) http.Handler
	if srvCfg.DevAuth {
		log.Warn().Msg("DEV_AUTH enabled; JWT verification is bypassed")
		authMW = httpapi.NewDevAuthMiddleware("dev|local")
	} else {
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid auth config")
		}
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))
	}

	clk := platformclock.NewSystemClock()
	upstream := clubspot.New(clubspot.Config{APIKey: csCfg.APIKey, BaseURL: csCfg.BaseURL}, log)

	var (
		members    memberstoreport.Store
		checkins   checkinstoreport.Store
		events     eventstoreport.Store
		broadcasts broadcaststoreport.Store
		items      lineitemstoreport.Store
		logbook    oplogport.Log
		mailbox    outboxport.Outbox
	)
	if srvCfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(context.Background(), srvCfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		defer pool.Close()

		members = pgmemberstore.NewStore(pool)
		checkins = pgcheckinstore.NewStore(pool)
		events = pgeventstore.NewStore(pool)
		broadcasts = pgbroadcaststore.NewStore(pool)
		items = pglineitemstore.NewStore(pool)
		logbook = pgoplog.NewLog(pool)
		mailbox = pgoutbox.NewOutbox(pool)
	} else {
		log.Warn().Msg("DATABASE_URL not set; using in-memory stores")
		members = memmemberstore.NewStore()
		checkins = memcheckinstore.NewStore()
		events = memeventstore.NewStore()
		broadcasts = membroadcaststore.NewStore()
		items = memlineitemstore.NewStore()
		logbook = memoplog.NewLog()
		mailbox = memoutbox.NewOutbox()
	}
	pusher := pushgateway.NewSender(os.Getenv("PUSH_ENDPOINT"), nil)

	api := &httpapi.Server{
		Sync: membersync.NewService(upstream, members, logbook, clk, log),
		Notify: notify.NewService(notify.Deps{
			Members:    members,
			CheckIns:   checkins,
			Events:     events,
			Broadcasts: broadcasts,
			Logbook:    logbook,
			Outbox:     mailbox,
			Push:       pusher,
			Clock:      clk,
			Log:        log,
		}),
		Scores:  scores.NewService(upstream, logbook, clk, log),
		Billing: billing.NewService(upstream, items, logbook, clk, log),
		Portal:  portal.NewService(upstream, log),
		Members: members,
		ClubID:  csCfg.ClubID,
	}

	srv := &http.Server{
		Addr:              srvCfg.Addr,
		Handler:           httpapi.NewRouter(api, authMW),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srvCfg.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
