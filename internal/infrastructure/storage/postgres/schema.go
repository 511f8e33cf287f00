package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"coopledger/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies schema.sql. Safe to run on every start.
func Migrate(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info(ctx, "schema applied")
	return nil
}
