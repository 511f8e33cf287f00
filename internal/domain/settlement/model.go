// Package settlement records sales orders. Every line is settled on its own:
// the purchase history row is authoritative and the stock decrement is best effort.
package settlement

import (
	"strings"
	"time"

	"coopledger/internal/core/apperror"
	"coopledger/internal/core/types"
)

// Order is a proposed sale.
type Order struct {
	// Number is generated when empty.
	Number         string      `json:"number,omitempty"`
	CustomerID     int64       `json:"customerId,omitempty"`
	CustomerName   string      `json:"customerName,omitempty"`
	StaffName      string      `json:"staffName,omitempty"`
	PaymentMethod  string      `json:"paymentMethod,omitempty"`
	Date           *time.Time  `json:"date,omitempty"`
	IdempotencyKey string      `json:"-"`
	Lines          []OrderLine `json:"lines"`
}

// OrderLine is one requested item. ProductID, when present, identifies the
// inventory row directly; otherwise ProductName is matched by exact name.
type OrderLine struct {
	ProductID   *int64      `json:"productId,omitempty"`
	ProductName string      `json:"productName"`
	Category    string      `json:"category,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	Quantity    int64       `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
}

// Total is Quantity × UnitPrice.
func (l OrderLine) Total() types.Money {
	return types.LineTotal(l.Quantity, l.UnitPrice)
}

// Validate rejects orders that must not produce any write.
func (o *Order) Validate() error {
	if len(o.Lines) == 0 {
		return apperror.NewInvalidOrder("order has no lines")
	}
	for i, l := range o.Lines {
		switch {
		case l.Quantity <= 0:
			return apperror.NewInvalidOrder("quantity must be positive").
				WithDetail("line", i).
				WithDetail("quantity", l.Quantity)
		case l.ProductID == nil && strings.TrimSpace(l.ProductName) == "":
			return apperror.NewInvalidOrder("line needs a product id or name").
				WithDetail("line", i)
		case l.ProductID != nil && *l.ProductID <= 0:
			return apperror.NewInvalidOrder("product id must be positive").
				WithDetail("line", i)
		case l.UnitPrice.IsNegative():
			return apperror.NewInvalidOrder("unit price must not be negative").
				WithDetail("line", i).
				WithDetail("unitPrice", l.UnitPrice.String())
		}
	}
	if o.CustomerID < 0 {
		return apperror.NewInvalidOrder("customer id must not be negative")
	}
	return nil
}

// Total sums all line totals.
func (o *Order) Total() types.Money {
	total := types.Zero()
	for _, l := range o.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// ProductNotFoundWarning is the stock warning of a line whose product is unknown.
const ProductNotFoundWarning = "product not found"

// LineResult is the outcome of one settled line.
// StockBefore/StockAfter are nil when no product was decremented.
type LineResult struct {
	LineIndex        int         `json:"lineIndex"`
	LineID           int64       `json:"lineId,omitempty"`
	ProductID        *int64      `json:"productId,omitempty"`
	ProductName      string      `json:"productName"`
	Quantity         int64       `json:"quantity"`
	StockBefore      *int64      `json:"stockBefore,omitempty"`
	StockAfter       *int64      `json:"stockAfter,omitempty"`
	Decremented      int64       `json:"decremented"`
	OutOfStock       bool        `json:"isOutOfStock"`
	StockUpdateError string      `json:"stockUpdateError,omitempty"`
	ErrorCode        string      `json:"errorCode,omitempty"`
	Error            string      `json:"error,omitempty"`
	Total            types.Money `json:"total"`
}

// Recorded reports whether the history row was written.
func (r LineResult) Recorded() bool {
	return r.Error == ""
}

// HasWarning reports a recorded line whose stock was not updated.
func (r LineResult) HasWarning() bool {
	return r.Recorded() && r.StockUpdateError != ""
}

// Summary is the order-level roll-up.
type Summary struct {
	OrderNumber            string      `json:"orderNumber"`
	LineCount              int         `json:"lineCount"`
	SettledCount           int         `json:"settledCount"`
	FailedCount            int         `json:"failedCount"`
	WarningCount           int         `json:"warningCount"`
	OutOfStockProductNames []string    `json:"outOfStockProducts"`
	TotalAmount            types.Money `json:"totalAmount"`
}

// Result is the answer to SubmitOrder.
type Result struct {
	OrderNumber string       `json:"orderNumber"`
	CustomerID  int64        `json:"customerId"`
	StaffName   string       `json:"staffName"`
	OrderDate   time.Time    `json:"orderDate"`
	Lines       []LineResult `json:"lines"`
	Summary     Summary      `json:"summary"`

	// Replayed is set when the result comes from a completed idempotency key.
	Replayed bool `json:"replayed"`
}

// Summarize builds the summary from line results. Line order is kept and
// out-of-stock names are listed once each.
func Summarize(orderNumber string, lines []LineResult) Summary {
	s := Summary{
		OrderNumber:            orderNumber,
		LineCount:              len(lines),
		OutOfStockProductNames: []string{},
		TotalAmount:            types.Zero(),
	}
	seen := make(map[string]struct{})
	for _, l := range lines {
		if !l.Recorded() {
			s.FailedCount++
			continue
		}
		s.SettledCount++
		s.TotalAmount = s.TotalAmount.Add(l.Total)
		if l.HasWarning() {
			s.WarningCount++
		}
		if l.OutOfStock {
			if _, ok := seen[l.ProductName]; !ok {
				seen[l.ProductName] = struct{}{}
				s.OutOfStockProductNames = append(s.OutOfStockProductNames, l.ProductName)
			}
		}
	}
	return s
}
