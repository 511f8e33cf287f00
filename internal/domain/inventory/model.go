// Package inventory provides the production/stock catalog.
// Quantity is stock on hand and never goes below zero.
package inventory

import (
	"time"

	"coopledger/internal/core/types"
)

// Product is one production lot bought from a member and held for sale.
type Product struct {
	ID         int64       `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Category   string      `db:"category" json:"category"`
	MemberName string      `db:"member_name" json:"memberName"`
	Unit       string      `db:"unit" json:"unit"`
	Price      types.Money `db:"price" json:"price"`
	Quantity   int64       `db:"quantity" json:"quantity"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}

// CostBasis is price × quantity of what is still on hand.
func (p Product) CostBasis() types.Money {
	return types.LineTotal(p.Quantity, p.Price)
}

// StockChange is the outcome of one atomic decrement.
type StockChange struct {
	ProductID int64 `json:"productId"`
	Before    int64 `json:"before"`
	After     int64 `json:"after"`
}

// Decremented reports how many units the update actually removed.
func (c StockChange) Decremented() int64 {
	return c.Before - c.After
}

// OutOfStock is true once the product has nothing left.
func (c StockChange) OutOfStock() bool {
	return c.After == 0
}
