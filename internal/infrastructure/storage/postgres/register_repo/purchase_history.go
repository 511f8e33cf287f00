// Package register_repo provides the PostgreSQL purchase history log.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coopledger/internal/domain/purchase"
	"coopledger/internal/infrastructure/storage/postgres"
)

const purchaseHistoryTable = "sales_purchase_history"

// PurchaseHistoryRepo implements purchase.Repository.
// Rows are append-only: there is no update or delete path.
type PurchaseHistoryRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	cols    []string
}

var _ purchase.Repository = (*PurchaseHistoryRepo)(nil)

// NewPurchaseHistoryRepo creates a new purchase history repository.
func NewPurchaseHistoryRepo(txm *postgres.TxManager) *PurchaseHistoryRepo {
	return &PurchaseHistoryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		cols:    postgres.ExtractDBColumns[purchase.Line](),
	}
}

func (r *PurchaseHistoryRepo) insertQuery(line *purchase.Line) squirrel.InsertBuilder {
	return r.builder.
		Insert(purchaseHistoryTable).
		SetMap(postgres.InsertMap(line, r.cols, "id", "created_at")).
		Suffix("RETURNING id, created_at")
}

func (r *PurchaseHistoryRepo) Append(ctx context.Context, line *purchase.Line) (int64, error) {
	sql, args, err := r.insertQuery(line).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&line.ID, &line.CreatedAt); err != nil {
		return 0, fmt.Errorf("insert purchase history: %w", err)
	}
	return line.ID, nil
}

// CopyLines bulk loads historical lines with COPY. Must run inside a transaction.
func (r *PurchaseHistoryRepo) CopyLines(ctx context.Context, lines []purchase.Line) (int64, error) {
	if len(lines) == 0 {
		return 0, nil
	}

	columns := []string{
		"order_number", "customer_id", "product_name", "category", "quantity",
		"unit", "price_per_unit", "total_price", "purchase_date", "staff_name",
	}
	rows := make([][]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []any{
			l.OrderNumber, l.CustomerID, l.ProductName, l.Category, l.Quantity,
			l.Unit, l.PricePerUnit, l.Total, l.PurchaseDate, l.StaffName,
		})
	}

	n, err := postgres.NewBatchInserter(r.txm).CopyFromSlice(ctx, purchaseHistoryTable, columns, rows)
	if err != nil {
		return 0, fmt.Errorf("copy purchase history: %w", err)
	}
	return n, nil
}

func (r *PurchaseHistoryRepo) listQuery() squirrel.SelectBuilder {
	return r.builder.
		Select(r.cols...).
		From(purchaseHistoryTable).
		OrderBy("purchase_date DESC", "id DESC")
}

func (r *PurchaseHistoryRepo) ListByCustomer(ctx context.Context, customerID int64) ([]purchase.Line, error) {
	return r.selectLines(ctx, r.listQuery().Where(squirrel.Eq{"customer_id": customerID}))
}

func (r *PurchaseHistoryRepo) ListAll(ctx context.Context) ([]purchase.Line, error) {
	return r.selectLines(ctx, r.listQuery())
}

func (r *PurchaseHistoryRepo) ListByOrder(ctx context.Context, orderNumber string) ([]purchase.Line, error) {
	q := r.builder.
		Select(r.cols...).
		From(purchaseHistoryTable).
		Where(squirrel.Eq{"order_number": orderNumber}).
		OrderBy("id")
	return r.selectLines(ctx, q)
}

func (r *PurchaseHistoryRepo) selectLines(ctx context.Context, q squirrel.SelectBuilder) ([]purchase.Line, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]purchase.Line, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("list purchase history: %w", err)
	}
	return lines, nil
}

func (r *PurchaseHistoryRepo) totalsQuery() squirrel.SelectBuilder {
	return r.builder.
		Select(
			"COALESCE(SUM(total_price), 0) AS revenue",
			"COUNT(DISTINCT order_number) AS order_count",
		).
		From(purchaseHistoryTable)
}

func (r *PurchaseHistoryRepo) Totals(ctx context.Context) (purchase.Totals, error) {
	var t purchase.Totals

	sql, args, err := r.totalsQuery().ToSql()
	if err != nil {
		return t, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &t, sql, args...); err != nil {
		return t, fmt.Errorf("purchase totals: %w", err)
	}
	return t, nil
}
