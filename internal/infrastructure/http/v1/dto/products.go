package dto

import "coopledger/internal/domain/inventory"

// DeductStockRequest is the body of PATCH /products/:id/stock.
type DeductStockRequest struct {
	SoldQuantity int64 `json:"soldQuantity" binding:"required,gt=0"`
}

// RestockRequest is the body of PUT /products/:id/quantity.
type RestockRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}

// StockChangeResponse reports the effect of a deduction.
type StockChangeResponse struct {
	ProductID     int64 `json:"productId"`
	StockBefore   int64 `json:"stockBefore"`
	StockAfter    int64 `json:"stockAfter"`
	Decremented   int64 `json:"decremented"`
	IsOutOfStock  bool  `json:"isOutOfStock"`
	SoldRequested int64 `json:"soldQuantity"`
}

// FromStockChange builds the response for a deduction of sold units.
func FromStockChange(c inventory.StockChange, sold int64) StockChangeResponse {
	return StockChangeResponse{
		ProductID:     c.ProductID,
		StockBefore:   c.Before,
		StockAfter:    c.After,
		Decremented:   c.Decremented(),
		IsOutOfStock:  c.OutOfStock(),
		SoldRequested: sold,
	}
}
