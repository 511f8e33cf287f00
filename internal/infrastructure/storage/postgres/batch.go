package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchInserter bulk-loads rows with the COPY protocol. cmd/seed uses it for
// demo members and production lots.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// CopyFromSlice copies rows into table. Each row must match columns.
// MUST be called inside a transaction context.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx := b.txManager.GetTx(ctx)
	if tx == nil {
		return 0, fmt.Errorf("CopyFromSlice requires transaction context")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}

// Truncate empties tables and restarts their identity sequences.
// MUST be called inside a transaction context.
func (b *BatchInserter) Truncate(ctx context.Context, tables ...string) error {
	tx := b.txManager.GetTx(ctx)
	if tx == nil {
		return fmt.Errorf("Truncate requires transaction context")
	}
	for _, t := range tables {
		if _, err := tx.Exec(ctx, "TRUNCATE "+pgx.Identifier{t}.Sanitize()+" RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", t, err)
		}
	}
	return nil
}
