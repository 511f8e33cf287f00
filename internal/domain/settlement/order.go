package settlement

import (
	"context"
	"strings"
	"time"

	"coopledger/internal/core/apperror"
	"coopledger/internal/core/types"
	"coopledger/pkg/logger"
)

// Status is the lifecycle state of a sales order header.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", apperror.NewValidation("unknown order status").WithDetail("status", s)
}

// Header is the sales order record kept next to the history lines.
// It is informational: settlement never depends on it.
type Header struct {
	ID            int64       `db:"id" json:"id"`
	Number        string      `db:"order_number" json:"orderNumber"`
	CustomerID    int64       `db:"customer_id" json:"customerId"`
	CustomerName  string      `db:"customer_name" json:"customerName"`
	StaffName     string      `db:"staff_name" json:"staffName"`
	PaymentMethod string      `db:"payment_method" json:"paymentMethod"`
	Status        Status      `db:"status" json:"status"`
	TotalAmount   types.Money `db:"total_amount" json:"totalAmount"`
	LineCount     int         `db:"line_count" json:"lineCount"`
	OrderDate     time.Time   `db:"order_date" json:"orderDate"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// ListFilter narrows List.
type ListFilter struct {
	CustomerID *int64
	Status     Status
	Limit      int
	Offset     int
}

// OrderRepository stores order headers.
type OrderRepository interface {
	Create(ctx context.Context, h *Header) error
	GetByNumber(ctx context.Context, number string) (*Header, error)
	List(ctx context.Context, f ListFilter) ([]Header, error)
	UpdateStatus(ctx context.Context, number string, status Status) error
}

// OrderService manages order headers.
type OrderService struct {
	repo OrderRepository
}

// NewOrderService creates a new order service.
func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// List returns headers, newest first.
func (s *OrderService) List(ctx context.Context, f ListFilter) ([]Header, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

// GetByNumber returns one header.
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*Header, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, apperror.NewValidation("order number is required")
	}
	return s.repo.GetByNumber(ctx, number)
}

// UpdateStatus moves an order to a new status. A cancelled order stays cancelled.
func (s *OrderService) UpdateStatus(ctx context.Context, number string, status Status) (*Header, error) {
	h, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if h.Status == StatusCancelled && status != StatusCancelled {
		return nil, apperror.NewBusinessRule("ORDER_CANCELLED", "cancelled orders cannot change status").
			WithDetail("orderNumber", number)
	}
	if h.Status == status {
		return h, nil
	}

	if err := s.repo.UpdateStatus(ctx, number, status); err != nil {
		return nil, err
	}

	logger.Info(ctx, "order status changed",
		"order_number", number,
		"from", h.Status,
		"to", status,
	)
	h.Status = status
	return h, nil
}
