// Package main is the entry point for the coopledger API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coopledger/internal/app"
	"coopledger/internal/config"
	"coopledger/internal/domain/settlement"
	v1 "coopledger/internal/infrastructure/http/v1"
	"coopledger/internal/infrastructure/metrics"
	"coopledger/internal/infrastructure/storage/memory"
	"coopledger/internal/infrastructure/storage/postgres"
	"coopledger/pkg/logger"
)

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

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting coopledger server", "storage", cfg.Storage)

	m := metrics.New(cfg.MetricsNamespace)

	var (
		backend app.Backend
		pool    *postgres.Pool
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err = postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatalw("failed to migrate database", "error", err)
			}
		}

		backend, err = app.PostgresBackend(pool, cfg.IdempotencyTTL)
		if err != nil {
			log.Fatalw("failed to build postgres backend", "error", err)
		}
	default:
		store := memory.New()
		if os.Getenv("SEED_DEMO_DATA") == "true" {
			app.SeedMemory(store)
			log.Info("in-memory store seeded with demo data")
		}
		backend = app.MemoryBackend(store, cfg.IdempotencyTTL)
	}

	engineCfg := settlement.DefaultConfig()
	engineCfg.MaxLineWorkers = cfg.MaxLineWorkers
	engineCfg.NumberPrefix = cfg.NumberPrefix

	router := v1.NewRouter(v1.RouterConfig{
		Logger:   log,
		Services: app.NewServices(backend, engineCfg, m),
		Metrics:  m,
		Pool:     pool,
		Storage:  cfg.Storage,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
