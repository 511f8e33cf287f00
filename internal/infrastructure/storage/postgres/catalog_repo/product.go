// Package catalog_repo provides the PostgreSQL repositories for the
// reference data: production lots (inventory) and members.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coopledger/internal/core/apperror"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/infrastructure/storage/postgres"
)

const productsTable = "prod_products"

// decrementSQL is the single-statement stock decrement. The CTE locks the row
// and captures the old quantity; the update floors the new one at zero.
const decrementSQL = `WITH prev AS (
	SELECT id, quantity FROM prod_products WHERE id = $1 FOR UPDATE
)
UPDATE prod_products AS p
SET quantity = GREATEST(0, prev.quantity - $2)
FROM prev
WHERE p.id = prev.id
RETURNING prev.quantity, p.quantity`

// ProductRepo implements inventory.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
	cols    []string
}

var _ inventory.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		cols:    postgres.ExtractDBColumns[inventory.Product](),
	}
}

func (r *ProductRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(r.cols...).From(productsTable)
}

func (r *ProductRepo) List(ctx context.Context) ([]inventory.Product, error) {
	sql, args, err := r.baseSelect().OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	products := make([]inventory.Product, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID int64) (*inventory.Product, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": productID}).Limit(1), productID)
}

func (r *ProductRepo) GetByName(ctx context.Context, name string) (*inventory.Product, error) {
	return r.getOne(ctx, r.byNameQuery(name), name)
}

// byNameQuery picks the lowest id among exact-name matches.
func (r *ProductRepo) byNameQuery(name string) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		OrderBy("id").
		Limit(1)
}

func (r *ProductRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, ref any) (*inventory.Product, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p inventory.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewProductNotFound(ref)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) SetQuantity(ctx context.Context, productID, quantity int64) error {
	sql, args, err := r.builder.
		Update(productsTable).
		Set("quantity", quantity).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewProductNotFound(productID)
	}
	return nil
}

func (r *ProductRepo) Decrement(ctx context.Context, productID, sold int64) (inventory.StockChange, error) {
	change := inventory.StockChange{ProductID: productID}

	err := r.txm.GetQuerier(ctx).QueryRow(ctx, decrementSQL, productID, sold).Scan(&change.Before, &change.After)
	if err != nil {
		if pgxscan.NotFound(err) {
			return change, apperror.NewProductNotFound(productID)
		}
		return change, fmt.Errorf("decrement stock: %w", err)
	}
	return change, nil
}

// Insert adds a production lot. Used by cmd/seed and tests.
func (r *ProductRepo) Insert(ctx context.Context, p *inventory.Product) error {
	sql, args, err := r.builder.
		Insert(productsTable).
		SetMap(postgres.InsertMap(p, r.cols, "id", "created_at")).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}
