package dto

import (
	"time"

	"coopledger/internal/core/types"
	"coopledger/internal/domain/purchase"
	"coopledger/internal/domain/settlement"
)

// SubmitOrderRequest is the body of POST /orders.
type SubmitOrderRequest struct {
	OrderNumber   string             `json:"orderNumber"`
	CustomerID    int64              `json:"customerId"`
	CustomerName  string             `json:"customerName"`
	StaffName     string             `json:"staffName"`
	PaymentMethod string             `json:"paymentMethod"`
	OrderDate     *time.Time         `json:"orderDate"`
	Lines         []OrderLineRequest `json:"lines"`
}

// OrderLineRequest is one requested line.
type OrderLineRequest struct {
	ProductID   *int64      `json:"productId"`
	ProductName string      `json:"productName"`
	Category    string      `json:"category"`
	Unit        string      `json:"unit"`
	Quantity    int64       `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
}

// ToOrder converts the request. Validation is left to the engine so the
// same rules apply to every caller.
func (r SubmitOrderRequest) ToOrder(idempotencyKey string) settlement.Order {
	o := settlement.Order{
		Number:         r.OrderNumber,
		CustomerID:     r.CustomerID,
		CustomerName:   r.CustomerName,
		StaffName:      r.StaffName,
		PaymentMethod:  r.PaymentMethod,
		Date:           r.OrderDate,
		IdempotencyKey: idempotencyKey,
		Lines:          make([]settlement.OrderLine, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		o.Lines = append(o.Lines, settlement.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Category:    l.Category,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return o
}

// UpdateOrderStatusRequest is the body of PATCH /orders/:number/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListRequest holds the query of GET /orders.
type OrderListRequest struct {
	CustomerID *int64 `form:"customerId"`
	Status     string `form:"status"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// OrderDetailResponse is an order header with its history lines.
type OrderDetailResponse struct {
	*settlement.Header
	Lines []purchase.Line `json:"lines"`
}
