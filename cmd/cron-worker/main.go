package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/vyapaari/collect-backend/internal/cron"
	"github.com/vyapaari/collect-backend/internal/ledger"
	"github.com/vyapaari/collect-backend/internal/settlement"
	"github.com/vyapaari/collect-backend/pkg/config"
	"github.com/vyapaari/collect-backend/pkg/db"
	"github.com/vyapaari/collect-backend/pkg/logger"
	"github.com/vyapaari/collect-backend/pkg/metrics"
	"github.com/vyapaari/collect-backend/pkg/migrate"
	"github.com/vyapaari/collect-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	broadcaster := ledger.NewBroadcaster()
	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()), broadcaster, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	// The worker has no in-process timers of its own; it only sweeps rows the
	// API instance left pending past the TTL.
	scheduler, err := settlement.NewScheduler(settlement.SchedulerParams{
		Delay:  cfg.Settlement.Delay,
		Ledger: ledgerService,
		Payers: settlement.NewRandomPayerFactory(time.Now().UnixNano()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement scheduler", err)
		os.Exit(1)
	}

	expiryJob, err := cron.NewPendingExpiryJob(cron.PendingExpiryJobParams{
		Logger:     logg,
		Ledger:     ledgerService,
		Scheduler:  scheduler,
		PendingTTL: cfg.Settlement.PendingTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pending expiry job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker"), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(expiryJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	scheduler.Shutdown()
	var closeErr error
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
