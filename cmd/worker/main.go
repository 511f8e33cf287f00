// Package main is the entry point for the coopledger background worker.
// It archives the daily dividend snapshot, relays the outbox and expires
// idempotency keys. The worker needs STORAGE=postgres.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coopledger/internal/app"
	"coopledger/internal/config"
	"coopledger/internal/domain/settlement"
	"coopledger/internal/infrastructure/scheduler"
	"coopledger/internal/infrastructure/storage/postgres"
	"coopledger/pkg/logger"
)

// jobTimeout caps a single run of any job.
const jobTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.Storage != config.StoragePostgres {
		log.Fatalw("worker requires postgres storage", "storage", cfg.Storage)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithLogger(ctx, log)

	log.Info("starting coopledger worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatalw("failed to migrate database", "error", err)
		}
	}

	backend, err := app.PostgresBackend(pool, cfg.IdempotencyTTL)
	if err != nil {
		log.Fatalw("failed to build postgres backend", "error", err)
	}
	services := app.NewServices(backend, settlement.DefaultConfig(), nil)

	txm := postgres.NewTxManager(pool)
	idempotency := postgres.NewIdempotencyStore(txm, cfg.IdempotencyTTL)
	relay := postgres.NewOutboxRelay(txm, cfg.OutboxBatchSize, logHandler{log: log.WithComponent("outbox")})

	sched := scheduler.New(ctx, log, jobTimeout)

	jobs := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.ArchiveSchedule, scheduler.JobFunc{JobName: "dividend-archive", Fn: func(ctx context.Context) error {
			rec, _, err := services.Archiver.Archive(ctx)
			if err != nil {
				return err
			}
			if rec == nil {
				logger.Info(ctx, "no sales to archive")
				return nil
			}
			logger.Info(ctx, "daily dividend archived",
				"day", rec.Day.Format(time.DateOnly),
				"profit", rec.Profit.String(),
				"orders", rec.OrderCount,
			)
			return nil
		}}},
		{cfg.CleanupSchedule, scheduler.JobFunc{JobName: "idempotency-cleanup", Fn: func(ctx context.Context) error {
			n, err := idempotency.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info(ctx, "cleaned up idempotency keys", "count", n)
			}
			return nil
		}}},
		{"@every " + cfg.OutboxInterval.String(), scheduler.JobFunc{JobName: "outbox-relay", Fn: func(ctx context.Context) error {
			n, err := relay.ProcessBatch(ctx)
			if n > 0 {
				logger.Debug(ctx, "processed outbox batch", "count", n)
			}
			return err
		}}},
		{"@every 5m", scheduler.JobFunc{JobName: "pool-stats", Fn: func(ctx context.Context) error {
			pool.LogStats(ctx)
			return nil
		}}},
	}

	for _, j := range jobs {
		if err := sched.AddJob(j.schedule, j.job); err != nil {
			log.Fatalw("failed to schedule job", "job", j.job.Name(), "schedule", j.schedule, "error", err)
		}
	}

	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	sched.Stop()

	log.Info("worker stopped")
}

// logHandler delivers outbox messages to the log. Settlement events have no
// external consumer yet.
type logHandler struct {
	log *logger.Logger
}

func (h logHandler) Handle(_ context.Context, msg *postgres.OutboxMessage) error {
	h.log.Infow("outbox event",
		"message_id", msg.ID.String(),
		"aggregate_type", msg.AggregateType,
		"aggregate_id", msg.AggregateID,
		"event_type", msg.EventType,
		"payload", string(msg.Payload),
	)
	return nil
}
