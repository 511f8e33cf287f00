package memory

import (
	"context"
	"sort"

	"coopledger/internal/domain/purchase"
)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct{ s *Store }

var _ purchase.Repository = (*PurchaseRepo)(nil)

// Purchases returns the purchase history view of the store.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{s: s} }

func (r *PurchaseRepo) Append(_ context.Context, line *purchase.Line) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextPurchaseID++
	line.ID = r.s.nextPurchaseID
	line.CreatedAt = r.s.now().UTC()
	r.s.purchases = append(r.s.purchases, *line)
	return line.ID, nil
}

func (r *PurchaseRepo) ListByCustomer(_ context.Context, customerID int64) ([]purchase.Line, error) {
	return r.filter(func(l purchase.Line) bool { return l.CustomerID == customerID }), nil
}

func (r *PurchaseRepo) ListAll(_ context.Context) ([]purchase.Line, error) {
	return r.filter(func(purchase.Line) bool { return true }), nil
}

func (r *PurchaseRepo) ListByOrder(_ context.Context, orderNumber string) ([]purchase.Line, error) {
	return r.filter(func(l purchase.Line) bool { return l.OrderNumber == orderNumber }), nil
}

func (r *PurchaseRepo) Totals(ctx context.Context) (purchase.Totals, error) {
	lines, _ := r.ListAll(ctx)
	return purchase.Summarize(lines), nil
}

// filter returns matches newest first, like the postgres repository.
func (r *PurchaseRepo) filter(keep func(purchase.Line) bool) []purchase.Line {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]purchase.Line, 0)
	for _, l := range r.s.purchases {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.After(out[j].PurchaseDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
