package memory

import (
	"context"
	"sort"

	"coopledger/internal/core/apperror"
	"coopledger/internal/domain/settlement"
)

// OrderRepo implements settlement.OrderRepository.
type OrderRepo struct{ s *Store }

var _ settlement.OrderRepository = (*OrderRepo)(nil)

// Orders returns the order header view of the store.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

func (r *OrderRepo) Create(_ context.Context, h *settlement.Header) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[h.Number]; ok {
		return apperror.NewConflict("order number already exists").WithDetail("orderNumber", h.Number)
	}
	r.s.nextOrderID++
	now := r.s.now().UTC()
	h.ID = r.s.nextOrderID
	h.CreatedAt = now
	h.UpdatedAt = now
	r.s.orders[h.Number] = *h
	return nil
}

func (r *OrderRepo) GetByNumber(_ context.Context, number string) (*settlement.Header, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	h, ok := r.s.orders[number]
	if !ok {
		return nil, apperror.NewNotFound("order", number)
	}
	return &h, nil
}

func (r *OrderRepo) List(_ context.Context, f settlement.ListFilter) ([]settlement.Header, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]settlement.Header, 0, len(r.s.orders))
	for _, h := range r.s.orders {
		if f.CustomerID != nil && h.CustomerID != *f.CustomerID {
			continue
		}
		if f.Status != "" && h.Status != f.Status {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if f.Offset >= len(out) {
		return []settlement.Header{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, number string, status settlement.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, ok := r.s.orders[number]
	if !ok {
		return apperror.NewNotFound("order", number)
	}
	h.Status = status
	h.UpdatedAt = r.s.now().UTC()
	r.s.orders[number] = h
	return nil
}
