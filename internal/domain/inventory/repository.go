package inventory

import (
	"context"
)

// Repository defines data access for production/stock rows.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, productID int64) (*Product, error)

	// GetByName returns the exact-name match with the lowest id.
	// Returns apperror ProductNotFound when nothing matches.
	GetByName(ctx context.Context, name string) (*Product, error)

	// SetQuantity overwrites stock on hand (administrative restock).
	SetQuantity(ctx context.Context, productID int64, quantity int64) error

	// Decrement applies quantity = max(0, quantity - sold) as one atomic
	// update and reports the values on both sides of it.
	Decrement(ctx context.Context, productID int64, sold int64) (StockChange, error)
}
