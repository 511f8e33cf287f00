// Package purchase provides the append-only purchase history log.
// One row per sold line; rows are never updated or deleted.
package purchase

import (
	"time"

	"coopledger/internal/core/types"
)

// WalkInCustomerID is used when an order names no customer.
const WalkInCustomerID int64 = 1

// Line is one persisted sale line.
// ProductName is denormalized; it is matched to inventory by name, not by key.
type Line struct {
	ID           int64       `db:"id" json:"id"`
	OrderNumber  string      `db:"order_number" json:"orderNumber"`
	CustomerID   int64       `db:"customer_id" json:"customerId"`
	ProductName  string      `db:"product_name" json:"productName"`
	Category     string      `db:"category" json:"category"`
	Quantity     int64       `db:"quantity" json:"quantity"`
	Unit         string      `db:"unit" json:"unit"`
	PricePerUnit types.Money `db:"price_per_unit" json:"pricePerUnit"`
	Total        types.Money `db:"total_price" json:"totalPrice"`
	PurchaseDate time.Time   `db:"purchase_date" json:"purchaseDate"`
	StaffName    string      `db:"staff_name" json:"staffName"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}

// NewLine builds a history row with Total = Quantity × PricePerUnit.
func NewLine(orderNumber string, customerID int64, productName, category, unit string,
	quantity int64, pricePerUnit types.Money, purchaseDate time.Time, staffName string) *Line {
	return &Line{
		OrderNumber:  orderNumber,
		CustomerID:   customerID,
		ProductName:  productName,
		Category:     category,
		Quantity:     quantity,
		Unit:         unit,
		PricePerUnit: pricePerUnit,
		Total:        types.LineTotal(quantity, pricePerUnit),
		PurchaseDate: purchaseDate,
		StaffName:    staffName,
	}
}

// Totals aggregates the whole log.
type Totals struct {
	Revenue    types.Money `db:"revenue"`
	OrderCount int64       `db:"order_count"`
}

// Summarize computes Totals from rows already loaded.
func Summarize(lines []Line) Totals {
	revenue := types.Zero()
	orders := make(map[string]struct{})
	for _, l := range lines {
		revenue = revenue.Add(l.Total)
		orders[l.OrderNumber] = struct{}{}
	}
	return Totals{Revenue: revenue, OrderCount: int64(len(orders))}
}
