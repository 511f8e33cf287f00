package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopledger/internal/domain/ledger"
	"coopledger/internal/domain/settlement"
	"coopledger/internal/infrastructure/storage/memory"
)

func TestNewServices_MemoryRoundTrip(t *testing.T) {
	store := memory.New()
	SeedMemory(store)

	svc := NewServices(MemoryBackend(store, time.Hour), settlement.DefaultConfig(), nil)
	ctx := context.Background()

	res, err := svc.Engine.SubmitOrder(ctx, settlement.Order{
		Lines: []settlement.OrderLine{{ProductName: "Mango", Quantity: 2, UnitPrice: DemoProducts()[0].Price}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.SettledCount)

	snap, err := svc.Calculator.ComputeProfitSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(18), snap.TotalShares)
	assert.Equal(t, int64(1), snap.OrderCount)

	view, err := svc.Ledger.GetLedger(ctx, ledger.Query{IncludeDividends: true})
	require.NoError(t, err)

	var kinds = map[ledger.Kind]int{}
	for _, e := range view.Entries {
		kinds[e.Kind]++
	}
	assert.Equal(t, 3, kinds[ledger.KindShareCapital])
	assert.Equal(t, 1, kinds[ledger.KindSale])
	assert.Equal(t, 4, kinds[ledger.KindProductionCost])
	assert.Equal(t, 3, kinds[ledger.KindDividend])
}
