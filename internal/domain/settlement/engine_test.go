package settlement_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopledger/internal/core/apperror"
	appctx "coopledger/internal/core/context"
	"coopledger/internal/core/numerator"
	"coopledger/internal/core/types"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/purchase"
	"coopledger/internal/domain/settlement"
	"coopledger/internal/infrastructure/storage/memory"
)

var settledAt = time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	engine *settlement.Engine
	mango  int64
}

func newFixture(t *testing.T, mutate func(*memory.Store, *settlement.Deps)) *fixture {
	t.Helper()

	store := memory.New().WithClock(func() time.Time { return settledAt })
	mango := store.AddProduct(inventory.Product{
		Name: "Mango", Category: "fruit", Unit: "kg", MemberName: "Ana",
		Price: types.NewMoneyFromInt(20), Quantity: 5,
	})

	deps := settlement.Deps{
		Inventory:   inventory.NewService(store.Products()),
		Purchases:   store.Purchases(),
		Orders:      store.Orders(),
		Numbers:     store.Numbers(),
		TxManager:   memory.TxManager{},
		Idempotency: store.Idempotency(time.Hour),
		Events:      store.Events(),
		Audit:       store.Audit(),
	}
	if mutate != nil {
		mutate(store, &deps)
	}

	engine := settlement.NewEngine(settlement.DefaultConfig(), deps).
		WithClock(func() time.Time { return settledAt })

	return &fixture{store: store, engine: engine, mango: mango}
}

func (f *fixture) stock(t *testing.T) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), f.mango)
	require.NoError(t, err)
	return p.Quantity
}

func line(name string, qty int64, price int64) settlement.OrderLine {
	return settlement.OrderLine{ProductName: name, Quantity: qty, UnitPrice: types.NewMoneyFromInt(price)}
}

func TestSubmitOrder_MixedLines(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.engine.SubmitOrder(context.Background(), settlement.Order{
		Lines: []settlement.OrderLine{line("Mango", 3, 30), line("Durian", 1, 100)},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-2026-00001", res.OrderNumber)
	assert.Equal(t, purchase.WalkInCustomerID, res.CustomerID)
	assert.Equal(t, appctx.DefaultStaffName, res.StaffName)
	require.Len(t, res.Lines, 2)

	mango := res.Lines[0]
	require.NotNil(t, mango.StockBefore)
	require.NotNil(t, mango.StockAfter)
	assert.Equal(t, int64(5), *mango.StockBefore)
	assert.Equal(t, int64(2), *mango.StockAfter)
	assert.False(t, mango.OutOfStock)
	assert.Empty(t, mango.StockUpdateError)
	assert.NotZero(t, mango.LineID)

	durian := res.Lines[1]
	assert.True(t, durian.Recorded())
	assert.NotZero(t, durian.LineID)
	assert.Equal(t, settlement.ProductNotFoundWarning, durian.StockUpdateError)
	assert.Nil(t, durian.StockBefore)

	assert.Equal(t, 2, res.Summary.SettledCount)
	assert.Equal(t, 1, res.Summary.WarningCount)
	assert.Equal(t, 0, res.Summary.FailedCount)
	assert.Empty(t, res.Summary.OutOfStockProductNames)
	assert.True(t, types.NewMoneyFromInt(190).Equal(res.Summary.TotalAmount))

	history, err := f.store.Purchases().ListByOrder(context.Background(), res.OrderNumber)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	header, err := f.store.Orders().GetByNumber(context.Background(), res.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusConfirmed, header.Status)

	events := f.store.Events().Published()
	require.Len(t, events, 1)
	assert.Equal(t, settlement.EventOrderSettled, events[0].EventType)
	assert.Len(t, f.store.Audit().Entries(), 1)
}

func TestSubmitOrder_OneHistoryRowPerLine(t *testing.T) {
	f := newFixture(t, nil)

	lines := []settlement.OrderLine{
		line("Mango", 1, 1), line("Mango", 10, 1), line("Nope", 2, 1), line("Nope", 1, 0),
	}
	res, err := f.engine.SubmitOrder(context.Background(), settlement.Order{Lines: lines})
	require.NoError(t, err)

	history, err := f.store.Purchases().ListByOrder(context.Background(), res.OrderNumber)
	require.NoError(t, err)
	assert.Len(t, history, len(lines))
	assert.Equal(t, int64(0), f.stock(t))
	assert.Equal(t, []string{"Mango"}, res.Summary.OutOfStockProductNames)
}

func TestSubmitOrder_ExplicitProductID(t *testing.T) {
	f := newFixture(t, nil)
	f.store.AddProduct(inventory.Product{Name: "Mango", Quantity: 50})

	res, err := f.engine.SubmitOrder(context.Background(), settlement.Order{
		Lines: []settlement.OrderLine{{ProductID: &f.mango, Quantity: 2, UnitPrice: types.NewMoneyFromInt(5)}},
	})
	require.NoError(t, err)

	l := res.Lines[0]
	assert.Equal(t, "Mango", l.ProductName)
	require.NotNil(t, l.ProductID)
	assert.Equal(t, f.mango, *l.ProductID)
	assert.Equal(t, int64(3), f.stock(t))

	history, err := f.store.Purchases().ListByOrder(context.Background(), res.OrderNumber)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "kg", history[0].Unit)
	assert.Equal(t, "fruit", history[0].Category)
}

func TestSubmitOrder_InvalidOrderWritesNothing(t *testing.T) {
	f := newFixture(t, nil)
	zero := int64(0)

	cases := map[string]settlement.Order{
		"no lines":       {},
		"zero quantity":  {Lines: []settlement.OrderLine{line("Mango", 0, 1)}},
		"negative qty":   {Lines: []settlement.OrderLine{line("Mango", 1, 1), line("Mango", -1, 1)}},
		"no product ref": {Lines: []settlement.OrderLine{line("  ", 1, 1)}},
		"bad product id": {Lines: []settlement.OrderLine{{ProductID: &zero, Quantity: 1}}},
		"negative price": {Lines: []settlement.OrderLine{line("Mango", 1, -5)}},
	}

	for name, order := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := f.engine.SubmitOrder(context.Background(), order)
			assert.Nil(t, res)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOrder), "got %v", err)
		})
	}

	all, err := f.store.Purchases().ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, int64(5), f.stock(t))
}

func TestSubmitOrder_ResubmitWithoutKeyDecrementsTwice(t *testing.T) {
	f := newFixture(t, nil)
	order := settlement.Order{Number: "POS-1", Lines: []settlement.OrderLine{line("Mango", 2, 10)}}

	_, err := f.engine.SubmitOrder(context.Background(), order)
	require.NoError(t, err)
	_, err = f.engine.SubmitOrder(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.stock(t))
	history, err := f.store.Purchases().ListByOrder(context.Background(), "POS-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSubmitOrder_ResubmitWithKeyReplays(t *testing.T) {
	f := newFixture(t, nil)
	order := settlement.Order{IdempotencyKey: "till-7-0042", Lines: []settlement.OrderLine{line("Mango", 2, 10)}}

	first, err := f.engine.SubmitOrder(context.Background(), order)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := f.engine.SubmitOrder(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	require.Len(t, second.Lines, 1)
	assert.Equal(t, int64(3), *second.Lines[0].StockAfter)

	assert.Equal(t, int64(3), f.stock(t))
	all, err := f.store.Purchases().ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	changed := order
	changed.Lines = []settlement.OrderLine{line("Mango", 1, 10)}
	_, err = f.engine.SubmitOrder(context.Background(), changed)
	assert.Error(t, err)
	assert.Equal(t, int64(3), f.stock(t))
}

func TestSubmitOrder_NumberFailureReleasesKey(t *testing.T) {
	calls := 0
	f := newFixture(t, func(_ *memory.Store, d *settlement.Deps) {
		d.Numbers = &numerator.MockGenerator{
			GetNextNumberFunc: func(context.Context, numerator.Config, *numerator.Options, time.Time) (string, error) {
				calls++
				if calls == 1 {
					return "", errors.New("sequence table locked")
				}
				return "ORD-2026-00077", nil
			},
		}
	})
	order := settlement.Order{IdempotencyKey: "k", Lines: []settlement.OrderLine{line("Mango", 1, 1)}}

	_, err := f.engine.SubmitOrder(context.Background(), order)
	require.Error(t, err)
	assert.Equal(t, int64(5), f.stock(t))

	res, err := f.engine.SubmitOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00077", res.OrderNumber)
	assert.Equal(t, int64(4), f.stock(t))
}

type failingHistory struct {
	purchase.Repository
	failOn string
}

func (r failingHistory) Append(ctx context.Context, l *purchase.Line) (int64, error) {
	if l.ProductName == r.failOn {
		return 0, errors.New("insert failed")
	}
	return r.Repository.Append(ctx, l)
}

func TestSubmitOrder_HistoryFailureLeavesStock(t *testing.T) {
	f := newFixture(t, func(_ *memory.Store, d *settlement.Deps) {
		d.Purchases = failingHistory{Repository: d.Purchases, failOn: "Mango"}
	})
	f.store.AddProduct(inventory.Product{Name: "Rice", Quantity: 10})

	res, err := f.engine.SubmitOrder(context.Background(), settlement.Order{
		Lines: []settlement.OrderLine{line("Mango", 2, 1), line("Rice", 4, 1)},
	})
	require.NoError(t, err)

	assert.Equal(t, apperror.CodePersistenceFailure, res.Lines[0].ErrorCode)
	assert.False(t, res.Lines[0].Recorded())
	assert.Nil(t, res.Lines[0].StockAfter)
	assert.Equal(t, int64(5), f.stock(t))

	assert.True(t, res.Lines[1].Recorded())
	assert.Equal(t, int64(6), *res.Lines[1].StockAfter)

	assert.Equal(t, 1, res.Summary.FailedCount)
	assert.Equal(t, 1, res.Summary.SettledCount)
}

type failingStock struct {
	inventory.Repository
}

func (failingStock) Decrement(context.Context, int64, int64) (inventory.StockChange, error) {
	return inventory.StockChange{}, errors.New("lock timeout")
}

func TestSubmitOrder_StockFailureIsWarning(t *testing.T) {
	f := newFixture(t, func(store *memory.Store, d *settlement.Deps) {
		d.Inventory = inventory.NewService(failingStock{Repository: store.Products()})
	})

	res, err := f.engine.SubmitOrder(context.Background(), settlement.Order{
		Lines: []settlement.OrderLine{line("Mango", 2, 1)},
	})
	require.NoError(t, err)

	l := res.Lines[0]
	assert.True(t, l.Recorded())
	assert.True(t, l.HasWarning())
	assert.Contains(t, l.StockUpdateError, "lock timeout")
	assert.Equal(t, 1, res.Summary.SettledCount)
	assert.Equal(t, 1, res.Summary.WarningCount)
}

func TestSubmitOrder_ConcurrentSettlements(t *testing.T) {
	const buyers = 25

	f := newFixture(t, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		positive int
	)
	for range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.engine.SubmitOrder(context.Background(), settlement.Order{
				Lines: []settlement.OrderLine{line("Mango", 1, 20)},
			})
			if !assert.NoError(t, err) {
				return
			}
			if res.Lines[0].Decremented > 0 {
				mu.Lock()
				positive++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), f.stock(t))
	assert.Equal(t, 5, positive)

	all, err := f.store.Purchases().ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, buyers)
}

func TestSubmitOrder_UsesActorAndDate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := appctx.WithActor(context.Background(), &appctx.Actor{StaffName: "Noi", Source: "http"})
	when := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

	res, err := f.engine.SubmitOrder(ctx, settlement.Order{
		CustomerID: 12,
		Date:       &when,
		Lines:      []settlement.OrderLine{line("Mango", 1, 20)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Noi", res.StaffName)
	assert.Equal(t, int64(12), res.CustomerID)

	history, err := f.store.Purchases().ListByCustomer(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Noi", history[0].StaffName)
	assert.True(t, when.Equal(history[0].PurchaseDate))
}
