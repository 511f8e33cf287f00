package purchase

import (
	"context"

	"coopledger/internal/core/apperror"
)

// Service exposes read access to purchase history.
// Writes go through the settlement engine only.
type Service struct {
	repo Repository
}

// NewService creates a new purchase history service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the history for one customer, or all of it when customerID is nil.
func (s *Service) List(ctx context.Context, customerID *int64) ([]Line, error) {
	if customerID == nil {
		return s.repo.ListAll(ctx)
	}
	if *customerID <= 0 {
		return nil, apperror.NewValidation("customer id must be positive").
			WithDetail("customerId", *customerID)
	}
	return s.repo.ListByCustomer(ctx, *customerID)
}

// ListByOrder returns the lines recorded under an order number.
func (s *Service) ListByOrder(ctx context.Context, orderNumber string) ([]Line, error) {
	return s.repo.ListByOrder(ctx, orderNumber)
}
