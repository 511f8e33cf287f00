// Package report_repo stores the daily income and expense archive.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coopledger/internal/domain/dividend"
	"coopledger/internal/infrastructure/storage/postgres"
)

const (
	ledgerTable = "fin_ledger"
	sourceAuto  = "auto"
)

// ArchiveRepo implements dividend.ArchiveRepository on fin_ledger.
// Only rows with source 'auto' are managed here.
type ArchiveRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	cols    []string
}

var _ dividend.ArchiveRepository = (*ArchiveRepo)(nil)

// NewArchiveRepo creates a new archive repository.
func NewArchiveRepo(txm *postgres.TxManager) *ArchiveRepo {
	return &ArchiveRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		cols:    postgres.ExtractDBColumns[dividend.ArchiveRecord](),
	}
}

func (r *ArchiveRepo) deleteDayQuery(rec *dividend.ArchiveRecord) squirrel.DeleteBuilder {
	return r.builder.
		Delete(ledgerTable).
		Where(squirrel.Eq{"entry_date": rec.Day, "source": sourceAuto})
}

func (r *ArchiveRepo) insertQuery(rec *dividend.ArchiveRecord) squirrel.InsertBuilder {
	data := postgres.InsertMap(rec, r.cols, "id", "created_at")
	data["source"] = sourceAuto
	return r.builder.
		Insert(ledgerTable).
		SetMap(data).
		Suffix("RETURNING id, created_at")
}

// ReplaceDaily should run inside a transaction so the day never has zero rows
// visible to readers.
func (r *ArchiveRepo) ReplaceDaily(ctx context.Context, rec *dividend.ArchiveRecord) error {
	q := r.txm.GetQuerier(ctx)

	sql, args, err := r.deleteDayQuery(rec).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete archived day: %w", err)
	}

	sql, args, err = r.insertQuery(rec).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("insert archived day: %w", err)
	}
	return nil
}

func (r *ArchiveRepo) List(ctx context.Context, limit int) ([]dividend.ArchiveRecord, error) {
	q := r.builder.
		Select(r.cols...).
		From(ledgerTable).
		Where(squirrel.Eq{"source": sourceAuto}).
		OrderBy("entry_date DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := make([]dividend.ArchiveRecord, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	return out, nil
}
