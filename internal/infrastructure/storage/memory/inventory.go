package memory

import (
	"context"

	"coopledger/internal/core/apperror"
	"coopledger/internal/core/types"
	"coopledger/internal/domain/inventory"
)

// ProductRepo implements inventory.Repository.
type ProductRepo struct{ s *Store }

var _ inventory.Repository = (*ProductRepo)(nil)

// Products returns the inventory view of the store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) List(_ context.Context) ([]inventory.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]inventory.Product, len(r.s.products))
	copy(out, r.s.products)
	return out, nil
}

func (r *ProductRepo) GetByID(_ context.Context, productID int64) (*inventory.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i := r.s.productIndex(productID); i >= 0 {
		p := r.s.products[i]
		return &p, nil
	}
	return nil, apperror.NewProductNotFound(productID)
}

// GetByName relies on products being kept in id order.
func (r *ProductRepo) GetByName(_ context.Context, name string) (*inventory.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, apperror.NewProductNotFound(name)
}

func (r *ProductRepo) SetQuantity(_ context.Context, productID, quantity int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.productIndex(productID)
	if i < 0 {
		return apperror.NewProductNotFound(productID)
	}
	r.s.products[i].Quantity = quantity
	return nil
}

// Decrement reads and writes under one lock, so concurrent sales of the
// same product observe each other.
func (r *ProductRepo) Decrement(_ context.Context, productID, sold int64) (inventory.StockChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.s.productIndex(productID)
	if i < 0 {
		return inventory.StockChange{}, apperror.NewProductNotFound(productID)
	}

	before := r.s.products[i].Quantity
	after := types.FloorSub(before, sold)
	r.s.products[i].Quantity = after

	return inventory.StockChange{ProductID: productID, Before: before, After: after}, nil
}

func (s *Store) productIndex(productID int64) int {
	for i := range s.products {
		if s.products[i].ID == productID {
			return i
		}
	}
	return -1
}
