// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-miniapp-gate/internal/config"
	"telegram-miniapp-gate/internal/domain/ports/adapter"
	"telegram-miniapp-gate/internal/domain/ports/repository"
	adsAdapter "telegram-miniapp-gate/internal/infra/adapters/ads"
	hostAdapter "telegram-miniapp-gate/internal/infra/adapters/host"
	"telegram-miniapp-gate/internal/infra/backend"
	"telegram-miniapp-gate/internal/infra/events"
	"telegram-miniapp-gate/internal/infra/logging"
	"telegram-miniapp-gate/internal/infra/memstore"
	"telegram-miniapp-gate/internal/infra/metrics"
	red "telegram-miniapp-gate/internal/infra/redis"
	"telegram-miniapp-gate/internal/infra/sched"
	"telegram-miniapp-gate/internal/infra/web"
	"telegram-miniapp-gate/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (bypass host checks)")
	flag.Parse()

	// .env is optional; the host shell may hand context over this way.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	runID := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0))
	rootLog := logger.With().Str("run_id", runID.String()).Logger()
	if cfg.Runtime.Dev {
		rootLog.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Durable flag store ----
	var flags repository.FlagStore
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			rootLog.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		host, _ := os.Hostname()
		flags = red.NewFlagRepo(redisClient, host)
	} else {
		rootLog.Warn().Msg("no redis configured; durable flags will not survive a restart")
		flags = memstore.NewFlags()
	}

	// ---- Boundaries ----
	api := backend.NewClient(cfg.Backend, &rootLog)
	bridge := hostAdapter.FromEnv()
	adRegistry := adsAdapter.NewRegistry(&rootLog)
	bus := events.NewBus()

	// ---- Use cases ----
	countryUC := usecase.NewCountryUseCase(api, flags, bridge, &rootLog)
	identityUC := usecase.NewIdentityUseCase(api, flags, bridge, cfg.Runtime.Dev, &rootLog)
	settingsUC := usecase.NewSettingsUseCase(api, &rootLog)
	gateUC := usecase.NewGateUseCase(countryUC, identityUC, adapter.NoopMembership{}, flags, bridge, cfg.Runtime.Dev, &rootLog)

	unsubscribe := bus.Subscribe(gateUC.ApplyCountryEvent)
	defer unsubscribe()

	// ---- Bootstrap gating sequence ----
	go gateUC.Bootstrap(ctx)

	// ---- Season poller (immediate + fixed interval) ----
	seasonWorker := sched.NewSeasonWorker(cfg.Gate.SeasonPollInterval, settingsUC, gateUC, &rootLog)
	go func() { _ = seasonWorker.Run(ctx) }()

	// ---- Optional country re-check worker ----
	if cfg.Gate.CountryRecheckInterval > 0 {
		countryWorker := sched.NewCountryWorker(cfg.Gate.CountryRecheckInterval, countryUC, gateUC, &rootLog)
		go func() { _ = countryWorker.Run(ctx) }()
	}

	// ---- Ad schedule driver ----
	adDriver := sched.NewAdDriver(cfg.Gate.AdInitialDelay, settingsUC, adRegistry, &rootLog)
	adDriver.Start(ctx)
	defer adDriver.Stop()

	// ---- Status API ----
	auth := web.NewAuthManager(cfg.Web.AdminSecret, !cfg.Runtime.Dev, cfg.Web.AdminSessionTTL)
	statusSrv := web.NewServer(gateUC, bus, auth, cfg.Web.AdminSecret, &rootLog)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: statusSrv.Router()}
	go func() {
		rootLog.Info().Str("addr", server.Addr).Msg("status api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			rootLog.Error().Err(err).Msg("status api server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	rootLog.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
