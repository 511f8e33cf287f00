package purchase

import (
	"context"
)

// Repository defines data access for the purchase history log.
type Repository interface {
	// Append inserts a line and returns its id. Line.ID and CreatedAt are set on success.
	Append(ctx context.Context, line *Line) (int64, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]Line, error)
	ListAll(ctx context.Context) ([]Line, error)
	ListByOrder(ctx context.Context, orderNumber string) ([]Line, error)

	Totals(ctx context.Context) (Totals, error)
}
