package dividend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopledger/internal/core/apperror"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/members"
	"coopledger/internal/domain/purchase"
)

type stubPurchases struct {
	purchase.Repository
	totals purchase.Totals
	err    error
}

func (s stubPurchases) Totals(context.Context) (purchase.Totals, error) { return s.totals, s.err }

type stubProducts struct {
	inventory.Repository
	rows []inventory.Product
	err  error
}

func (s stubProducts) List(context.Context) ([]inventory.Product, error) { return s.rows, s.err }

type stubMembers struct {
	rows []members.Member
	err  error
}

func (s stubMembers) List(context.Context) ([]members.Member, error) { return s.rows, s.err }

type stubArchive struct {
	saved []ArchiveRecord
	err   error
}

func (s *stubArchive) ReplaceDaily(_ context.Context, rec *ArchiveRecord) error {
	if s.err != nil {
		return s.err
	}
	kept := s.saved[:0]
	for _, r := range s.saved {
		if !r.Day.Equal(rec.Day) {
			kept = append(kept, r)
		}
	}
	rec.ID = int64(len(kept) + 1)
	s.saved = append(kept, *rec)
	return nil
}

func (s *stubArchive) List(context.Context, int) ([]ArchiveRecord, error) { return s.saved, nil }

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func newTestCalculator(revenue int64, orders int64) *Calculator {
	return NewCalculator(
		stubPurchases{totals: purchase.Totals{Revenue: money(revenue), OrderCount: orders}},
		stubProducts{rows: []inventory.Product{
			{ID: 1, Name: "Mango", Price: money(2000), Quantity: 10},
			{ID: 2, Name: "Rice", Price: money(1000), Quantity: 20},
		}},
		stubMembers{rows: []members.Member{{ID: 1, Name: "A", ShareCount: 10}}},
		nil,
	).WithClock(func() time.Time { return now })
}

func TestCalculator_ScenarioOne(t *testing.T) {
	calc := newTestCalculator(100000, 4)

	snap, err := calc.ComputeProfitSnapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, money(40000).Equal(snap.Cost))
	assert.True(t, money(1800).Equal(snap.DividendPerShare))
	assert.Equal(t, int64(4), snap.OrderCount)

	entries, _, err := calc.ComputeDividends(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, money(18000).Equal(entries[0].Amount))

	run, err := calc.DividendRun(context.Background())
	require.NoError(t, err)
	assert.False(t, run.IsLoss)
	assert.True(t, money(60000).Equal(run.Profit))
}

func TestCalculator_SourceFailure(t *testing.T) {
	calc := NewCalculator(
		stubPurchases{err: errors.New("connection refused")},
		stubProducts{},
		stubMembers{},
		nil,
	)

	_, err := calc.ComputeProfitSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purchase totals")
}

func TestArchiver_ReplacesDailyRow(t *testing.T) {
	repo := &stubArchive{}
	arch := NewArchiver(newTestCalculator(100000, 4), repo, passthroughTx{})

	rec, snap, err := arch.Archive(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, money(60000).Equal(rec.Profit))
	assert.True(t, money(18000).Equal(rec.TotalDividend))
	assert.Equal(t, "Income and expense summary (4 orders)", rec.Description)
	assert.True(t, snap.Profit.Equal(rec.Profit))

	_, _, err = arch.Archive(context.Background())
	require.NoError(t, err)

	history, err := arch.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestArchiver_NoSales(t *testing.T) {
	repo := &stubArchive{}
	arch := NewArchiver(newTestCalculator(0, 0), repo, passthroughTx{})

	rec, snap, err := arch.Archive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NotNil(t, snap)
	assert.Empty(t, repo.saved)
}

func TestArchiver_WriteFailure(t *testing.T) {
	repo := &stubArchive{err: errors.New("disk full")}
	arch := NewArchiver(newTestCalculator(100000, 4), repo, passthroughTx{})

	_, _, err := arch.Archive(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodePersistenceFailure))
}
