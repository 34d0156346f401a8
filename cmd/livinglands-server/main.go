// Package main wires the living-world gameplay extension framework's
// modules into a running instance: scheduler, persistence, session
// registry, module runtime, event router, host services, and the four
// consumer modules. It owns no host game-server of its own — a real
// deployment embeds this framework inside a voxel host binding that
// supplies the internal/hostapi implementations in place of hostapitest's
// in-memory fakes used here for a standalone demo/verification run.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/moshpitcodes/livinglands-core/internal/hostapi"
	"github.com/moshpitcodes/livinglands-core/internal/hostapi/hostapitest"
	"github.com/moshpitcodes/livinglands-core/internal/hostservices"
	"github.com/moshpitcodes/livinglands-core/internal/modules/claims"
	"github.com/moshpitcodes/livinglands-core/internal/modules/hud"
	"github.com/moshpitcodes/livinglands-core/internal/modules/leveling"
	"github.com/moshpitcodes/livinglands-core/internal/modules/metabolismwrapper"
	"github.com/moshpitcodes/livinglands-core/internal/moduleruntime"
	"github.com/moshpitcodes/livinglands-core/internal/persistence"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
	"github.com/moshpitcodes/livinglands-core/internal/router"
	"github.com/moshpitcodes/livinglands-core/internal/scheduler"
	"github.com/moshpitcodes/livinglands-core/internal/session"
)

// instanceConfig is this process's own configuration document, loaded via
// moduleruntime.LoadConfig.
type instanceConfig struct {
	DataDir          string `json:"dataDir"`
	MetricsAddr      string `json:"metricsAddr"`
	AuditDBPath      string `json:"auditDbPath"`
	ClaimJanitorCron string `json:"claimJanitorCron"`
}

func defaultInstanceConfig() instanceConfig {
	return instanceConfig{
		DataDir:          "./data",
		MetricsAddr:      ":9090",
		AuditDBPath:      "./data/audit.db",
		ClaimJanitorCron: "0 3 * * *",
	}
}

func playerIDFromEvent(e hostapi.Event) string {
	return string(e.PlayerID[:])
}

func main() {
	configPath := flag.String("config", "./config/livinglands.json", "path to instance config")
	flag.Parse()

	log := logger.NewLogger()
	cfg := moduleruntime.LoadConfig(log, *configPath, defaultInstanceConfig)

	m := metrics.New()
	clock := scheduler.NewClock()
	sched := scheduler.New(clock, log)
	cron := scheduler.NewCronSchedule(log.With("component", "cron"))

	// A real deployment substitutes its own hostapi implementations here;
	// hostapitest stands in so this binary runs standalone for local
	// verification and demos.
	dispatcher := &hostapitest.WorldDispatcher{}
	bus := hostapitest.NewEventBus()
	assets := hostapitest.NewAssetMap(map[int]string{})

	sessions := session.NewRegistry(dispatcher, log.With("component", "session"), m)
	sink := persistence.NewFileSink(cfg.DataDir+"/playerdata", log.With("component", "persistence"), m)

	var audit *persistence.SQLiteAudit
	if a, err := persistence.OpenSQLiteAudit(cfg.AuditDBPath); err != nil {
		log.Error("audit ledger unavailable, recap disabled", err)
	} else {
		audit = a
		defer audit.Close()
	}

	runtimeCtx := &moduleruntime.Context{
		Logger:    log,
		Root:      cfg.DataDir,
		Bus:       bus,
		Sessions:  sessions,
		Sink:      sink,
		Clock:     clock,
		Scheduler: sched,
	}
	rt := moduleruntime.New(runtimeCtx, log.With("component", "runtime"), m)
	runtimeCtx.Runtime = rt

	metabolismMod := metabolismwrapper.New(assets)
	levelingMod := leveling.New()
	claimsMod := claims.New()
	hudMod := hud.New()

	rt.Register(metabolismMod)
	rt.Register(levelingMod)
	rt.Register(claimsMod)
	rt.Register(hudMod)

	if err := rt.SetupAll(); err != nil {
		log.Error("module setup failed", err)
		os.Exit(1)
	}
	if err := rt.StartAll(); err != nil {
		log.Error("module start failed", err)
	}

	evRouter := router.New(bus, metabolismMod.Engine(), levelingMod, log.With("component", "router"), m)
	if audit != nil {
		evRouter.SetAudit(audit)
	}
	_ = hostservices.NewNotifications(sessions, log.With("component", "hostservices"))

	if !cron.AddFunc(cfg.ClaimJanitorCron, func() {
		log.Event("CLAIM_JANITOR", "-", "tracked block count: "+strconv.Itoa(evRouter.Claims().Size()))
	}) {
		log.Warn("claim janitor cron spec invalid, janitor disabled")
	}
	cron.Start()
	defer cron.Stop()

	sched.SchedulePeriodic("persistence-flush", 5*time.Minute, func(at time.Time) {
		log.Event("PERSISTENCE_FLUSH_TICK", "-", "periodic flush checkpoint at "+at.Format(time.RFC3339))
	})

	// A real host binding calls sessions.Register/Unregister directly as
	// players join and leave the world; here that's driven by the host's
	// own connect/disconnect events so the demo binary has a single entry
	// point.
	bus.Register(hostapi.EventPlayerConnect, func(ctx context.Context, e hostapi.Event) {
		playerID := playerIDFromEvent(e)
		sessions.Register(playerID)
		metabolismMod.Track(playerID)
		levelingMod.Track(playerID)
		hudMod.Track(playerID)
	})
	bus.Register(hostapi.EventPlayerDisconnect, func(ctx context.Context, e hostapi.Event) {
		playerID := playerIDFromEvent(e)
		metabolismMod.Untrack(playerID)
		levelingMod.Untrack(playerID)
		hudMod.Untrack(playerID)
		sessions.Unregister(playerID)
	})

	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: m.Handler()}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", err)
		}
	}()

	log.Info("livinglands framework instance started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	sched.Shutdown(shutdownCtx)
	rt.ShutdownAll()
}
