package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopledger/internal/core/apperror"
	core "coopledger/internal/core/numerator"
	"coopledger/internal/core/types"
	"coopledger/internal/domain/dividend"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/purchase"
)

func TestProductRepo_GetByNameLowestID(t *testing.T) {
	s := New()
	first := s.AddProduct(inventory.Product{Name: "Mango", Quantity: 1})
	s.AddProduct(inventory.Product{Name: "Mango", Quantity: 9})

	p, err := s.Products().GetByName(context.Background(), "Mango")
	require.NoError(t, err)
	assert.Equal(t, first, p.ID)

	_, err = s.Products().GetByName(context.Background(), "mango")
	assert.True(t, apperror.HasCode(err, apperror.CodeProductNotFound))
}

func TestProductRepo_DecrementFloorsAtZero(t *testing.T) {
	s := New()
	id := s.AddProduct(inventory.Product{Name: "Rice", Quantity: 3})

	change, err := s.Products().Decrement(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), change.Before)
	assert.Equal(t, int64(0), change.After)
	assert.Equal(t, int64(3), change.Decremented())

	_, err = s.Products().Decrement(context.Background(), 99, 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProductRepo_ConcurrentDecrement(t *testing.T) {
	const stock, buyers = 7, 40

	s := New()
	id := s.AddProduct(inventory.Product{Name: "Durian", Quantity: stock})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		positive int
	)
	for range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			change, err := s.Products().Decrement(context.Background(), id, 1)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, change.After, int64(0))
			if change.Decremented() > 0 {
				mu.Lock()
				positive++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	p, err := s.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Quantity)
	assert.Equal(t, stock, positive)
}

func TestPurchaseRepo_TotalsAndFilters(t *testing.T) {
	s := New()
	repo := s.Purchases()
	ctx := context.Background()
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	_, err := repo.Append(ctx, purchase.NewLine("ORD-1", 1, "Mango", "fruit", "kg", 2, types.NewMoneyFromInt(100), day, "ann"))
	require.NoError(t, err)
	_, err = repo.Append(ctx, purchase.NewLine("ORD-1", 1, "Rice", "grain", "kg", 1, types.NewMoneyFromInt(50), day, "ann"))
	require.NoError(t, err)
	_, err = repo.Append(ctx, purchase.NewLine("ORD-2", 4, "Rice", "grain", "kg", 3, types.NewMoneyFromInt(50), day.AddDate(0, 0, 1), "ann"))
	require.NoError(t, err)

	totals, err := repo.Totals(ctx)
	require.NoError(t, err)
	assert.True(t, types.NewMoneyFromInt(400).Equal(totals.Revenue))
	assert.Equal(t, int64(2), totals.OrderCount)

	byCustomer, err := repo.ListByCustomer(ctx, 4)
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, "ORD-2", byCustomer[0].OrderNumber)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2", all[0].OrderNumber)

	byOrder, err := repo.ListByOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Len(t, byOrder, 2)
}

func TestIdempotencyStore(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return now })
	keys := s.Idempotency(time.Hour)
	ctx := context.Background()

	stored, err := keys.AcquireKey(ctx, "k1", "ann", "op", "h1")
	require.NoError(t, err)
	assert.Nil(t, stored)

	_, err = keys.AcquireKey(ctx, "k1", "ann", "op", "h1")
	assert.True(t, apperror.HasCode(err, apperror.CodeIdempotency))

	require.NoError(t, keys.CompleteKey(ctx, "k1", map[string]string{"ok": "yes"}))
	stored, err = keys.AcquireKey(ctx, "k1", "ann", "op", "h1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":"yes"}`, string(stored))

	_, err = keys.AcquireKey(ctx, "k1", "ann", "op", "other")
	assert.Error(t, err)

	_, err = keys.AcquireKey(ctx, "k2", "ann", "op", "h")
	require.NoError(t, err)
	require.NoError(t, keys.ReleaseKey(ctx, "k2"))
	stored, err = keys.AcquireKey(ctx, "k2", "ann", "op", "h")
	require.NoError(t, err)
	assert.Nil(t, stored)

	now = now.Add(2 * time.Hour)
	n, err := keys.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestNumbers_Sequential(t *testing.T) {
	s := New()
	period := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg := core.DefaultConfig("ORD")

	first, err := s.Numbers().GetNextNumber(context.Background(), cfg, nil, period)
	require.NoError(t, err)
	second, err := s.Numbers().GetNextNumber(context.Background(), cfg, nil, period)
	require.NoError(t, err)

	assert.Equal(t, "ORD-2026-00001", first)
	assert.Equal(t, "ORD-2026-00002", second)
}

func TestArchiveRepo_ReplaceDaily(t *testing.T) {
	s := New()
	repo := s.Archive()
	ctx := context.Background()
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.ReplaceDaily(ctx, &dividend.ArchiveRecord{Day: day, Profit: types.NewMoneyFromInt(1)}))
	require.NoError(t, repo.ReplaceDaily(ctx, &dividend.ArchiveRecord{Day: day, Profit: types.NewMoneyFromInt(2)}))
	require.NoError(t, repo.ReplaceDaily(ctx, &dividend.ArchiveRecord{Day: day.AddDate(0, 0, 1)}))

	rows, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Profit.Equal(types.NewMoneyFromInt(2)))
}
