package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SETTLEMENT_LINE_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 4, cfg.MaxLineWorkers)
	assert.Equal(t, "ORD", cfg.NumberPrefix)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://coop@localhost/coop")
	t.Setenv("SETTLEMENT_LINE_WORKERS", "8")
	t.Setenv("IDEMPOTENCY_TTL", "90m")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 8, cfg.MaxLineWorkers)
	assert.Equal(t, 90*time.Minute, cfg.IdempotencyTTL)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without dsn", map[string]string{"STORAGE": "postgres", "DATABASE_URL": ""}},
		{"unknown storage", map[string]string{"STORAGE": "sqlite"}},
		{"zero workers", map[string]string{"STORAGE": "memory", "SETTLEMENT_LINE_WORKERS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
