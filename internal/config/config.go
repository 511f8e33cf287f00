// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Env      string
	LogLevel string
	Port     string

	Storage     string
	DatabaseURL string
	AutoMigrate bool

	MaxLineWorkers int
	NumberPrefix   string
	IdempotencyTTL time.Duration

	// ArchiveSchedule is a cron expression for the daily summary job.
	ArchiveSchedule  string
	CleanupSchedule  string
	OutboxInterval   time.Duration
	OutboxBatchSize  int
	MetricsNamespace string
}

// Development reports whether the process runs in development mode.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Port:             getEnv("APP_PORT", "8080"),
		Storage:          strings.ToLower(getEnv("STORAGE", StorageMemory)),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		AutoMigrate:      getEnvAsBool("AUTO_MIGRATE", true),
		MaxLineWorkers:   getEnvAsInt("SETTLEMENT_LINE_WORKERS", 4),
		NumberPrefix:     getEnv("ORDER_NUMBER_PREFIX", "ORD"),
		IdempotencyTTL:   getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		ArchiveSchedule:  getEnv("ARCHIVE_SCHEDULE", "5 0 * * *"),
		CleanupSchedule:  getEnv("IDEMPOTENCY_CLEANUP_SCHEDULE", "@hourly"),
		OutboxInterval:   getEnvAsDuration("OUTBOX_INTERVAL", 5*time.Second),
		OutboxBatchSize:  getEnvAsInt("OUTBOX_BATCH_SIZE", 100),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "coopledger"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE %q (want %s or %s)", c.Storage, StorageMemory, StoragePostgres)
	}
	if c.MaxLineWorkers < 1 {
		return fmt.Errorf("SETTLEMENT_LINE_WORKERS must be at least 1")
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive")
	}
	if c.OutboxBatchSize < 1 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
