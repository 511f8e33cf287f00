package inventory

import (
	"context"
	"fmt"
	"strings"

	"coopledger/internal/core/apperror"
	"coopledger/internal/core/types"
	"coopledger/pkg/logger"
)

// Service provides business operations over the inventory store.
type Service struct {
	repo Repository
}

// NewService creates a new inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every production row.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Resolve finds the product a sale line refers to. An explicit id wins;
// the name lookup is the legacy path for lines that only carry a name.
func (s *Service) Resolve(ctx context.Context, productID *int64, name string) (*Product, error) {
	if productID != nil {
		return s.repo.GetByID(ctx, *productID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewProductNotFound(name)
	}
	return s.repo.GetByName(ctx, name)
}

// Decrement removes sold units from stock through the atomic storage path.
func (s *Service) Decrement(ctx context.Context, productID, sold int64) (StockChange, error) {
	if sold <= 0 {
		return StockChange{}, apperror.NewValidation("sold quantity must be positive").
			WithDetail("soldQuantity", sold)
	}
	return s.repo.Decrement(ctx, productID, sold)
}

// DeductStock is the manual stock deduction used by the back office.
func (s *Service) DeductStock(ctx context.Context, productID, sold int64) (StockChange, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return StockChange{}, err
	}

	change, err := s.Decrement(ctx, productID, sold)
	if err != nil {
		return StockChange{}, err
	}

	logger.Info(ctx, "stock deducted",
		"product_id", productID,
		"before", change.Before,
		"after", change.After,
		"out_of_stock", change.OutOfStock(),
	)
	return change, nil
}

// Restock overwrites stock on hand.
func (s *Service) Restock(ctx context.Context, productID, quantity int64) error {
	if quantity < 0 {
		return apperror.NewValidation("quantity must not be negative").
			WithDetail("quantity", quantity)
	}
	return s.repo.SetQuantity(ctx, productID, quantity)
}

// CostBasis returns sum(price × quantity) over all production rows.
func (s *Service) CostBasis(ctx context.Context) (types.Money, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return types.Zero(), fmt.Errorf("list products: %w", err)
	}
	return TotalCost(products), nil
}

// TotalCost sums the cost basis of the given rows.
func TotalCost(products []Product) types.Money {
	total := types.Zero()
	for _, p := range products {
		total = total.Add(p.CostBasis())
	}
	return total
}
