package dividend

import (
	"context"
	"fmt"
	"time"

	"coopledger/internal/core/apperror"
	"coopledger/internal/core/tx"
	"coopledger/internal/core/types"
	"coopledger/internal/domain/ledger"
	"coopledger/pkg/logger"
)

// ArchiveRecord is the daily automatic summary row kept in fin_ledger.
type ArchiveRecord struct {
	ID            int64       `db:"id" json:"id"`
	Day           time.Time   `db:"entry_date" json:"day"`
	Revenue       types.Money `db:"revenue" json:"revenue"`
	Cost          types.Money `db:"cost" json:"cost"`
	Profit        types.Money `db:"profit" json:"profit"`
	TotalDividend types.Money `db:"total_dividend" json:"totalDividend"`
	TotalShares   int64       `db:"total_shares" json:"totalShares"`
	OrderCount    int64       `db:"order_count" json:"orderCount"`
	Description   string      `db:"description" json:"description"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
}

// ArchiveRepository stores archived summaries.
type ArchiveRepository interface {
	// ReplaceDaily removes the automatic row for rec.Day and inserts rec.
	// Sets rec.ID on success.
	ReplaceDaily(ctx context.Context, rec *ArchiveRecord) error
	List(ctx context.Context, limit int) ([]ArchiveRecord, error)
}

// Archiver writes the current snapshot as today's summary row.
// The row is a side effect for reporting; nothing here reads it back.
type Archiver struct {
	calc      *Calculator
	repo      ArchiveRepository
	txManager tx.Manager
}

// NewArchiver creates a new archiver.
func NewArchiver(calc *Calculator, repo ArchiveRepository, txManager tx.Manager) *Archiver {
	return &Archiver{calc: calc, repo: repo, txManager: txManager}
}

// Archive computes the snapshot and replaces today's row with it.
// Returns (nil, nil) when there are no sales to summarize.
func (a *Archiver) Archive(ctx context.Context) (*ArchiveRecord, *Snapshot, error) {
	snap, err := a.calc.ComputeProfitSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	if snap.OrderCount == 0 && snap.Revenue.IsZero() {
		logger.Info(ctx, "archive skipped: no sales")
		return nil, snap, nil
	}

	rec := &ArchiveRecord{
		Day:           ledger.Day(snap.ComputedAt),
		Revenue:       snap.Revenue,
		Cost:          snap.Cost,
		Profit:        snap.Profit,
		TotalDividend: snap.TotalDividend,
		TotalShares:   snap.TotalShares,
		OrderCount:    snap.OrderCount,
		Description:   fmt.Sprintf("Income and expense summary (%d orders)", snap.OrderCount),
	}

	err = a.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return a.repo.ReplaceDaily(ctx, rec)
	})
	if err != nil {
		return nil, nil, apperror.NewPersistenceFailure("archive snapshot", err)
	}

	logger.Info(ctx, "snapshot archived",
		"record_id", rec.ID,
		"day", rec.Day.Format(time.DateOnly),
		"profit", rec.Profit.String(),
	)
	return rec, snap, nil
}

// History returns the most recent archived rows.
func (a *Archiver) History(ctx context.Context, limit int) ([]ArchiveRecord, error) {
	if limit <= 0 {
		limit = 30
	}
	return a.repo.List(ctx, limit)
}
