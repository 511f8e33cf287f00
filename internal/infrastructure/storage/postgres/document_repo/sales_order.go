// Package document_repo provides the PostgreSQL sales order header store.
package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"coopledger/internal/core/apperror"
	"coopledger/internal/domain/settlement"
	"coopledger/internal/infrastructure/storage/postgres"
)

const salesOrdersTable = "doc_sales_orders"

const uniqueViolation = "23505"

// SalesOrderRepo implements settlement.OrderRepository.
type SalesOrderRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	cols    []string
}

var _ settlement.OrderRepository = (*SalesOrderRepo)(nil)

// NewSalesOrderRepo creates a new sales order repository.
func NewSalesOrderRepo(txm *postgres.TxManager) *SalesOrderRepo {
	return &SalesOrderRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		cols:    postgres.ExtractDBColumns[settlement.Header](),
	}
}

func (r *SalesOrderRepo) Create(ctx context.Context, h *settlement.Header) error {
	sql, args, err := r.builder.
		Insert(salesOrdersTable).
		SetMap(postgres.InsertMap(h, r.cols, "id", "created_at", "updated_at")).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewConflict("order number already exists").
				WithDetail("orderNumber", h.Number).
				WithCause(err)
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	return nil
}

func (r *SalesOrderRepo) GetByNumber(ctx context.Context, number string) (*settlement.Header, error) {
	sql, args, err := r.builder.
		Select(r.cols...).
		From(salesOrdersTable).
		Where(squirrel.Eq{"order_number": number}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var h settlement.Header
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &h, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sales order", number)
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	return &h, nil
}

func (r *SalesOrderRepo) listQuery(f settlement.ListFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select(r.cols...).
		From(salesOrdersTable).
		OrderBy("order_date DESC", "id DESC")

	if f.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *f.CustomerID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}

func (r *SalesOrderRepo) List(ctx context.Context, f settlement.ListFilter) ([]settlement.Header, error) {
	sql, args, err := r.listQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := make([]settlement.Header, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	return out, nil
}

func (r *SalesOrderRepo) UpdateStatus(ctx context.Context, number string, status settlement.Status) error {
	sql, args, err := r.builder.
		Update(salesOrdersTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"order_number": number}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sales order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sales order", number)
	}
	return nil
}
