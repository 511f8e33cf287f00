package dividend

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopledger/internal/core/types"
	"coopledger/internal/domain/ledger"
	"coopledger/internal/domain/members"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func money(v int64) types.Money { return types.NewMoneyFromInt(v) }

func TestCompute_Profit(t *testing.T) {
	res := Compute(money(100000), money(40000), []members.Member{{ID: 1, Name: "A", ShareCount: 10}}, now)

	s := res.Snapshot
	assert.True(t, money(60000).Equal(s.Profit))
	assert.True(t, money(1800).Equal(s.DividendPerShare), s.DividendPerShare.String())
	assert.False(t, s.IsLoss)
	assert.Equal(t, int64(10), s.TotalShares)

	require.Len(t, res.Allocations, 1)
	assert.True(t, money(18000).Equal(res.Allocations[0].Amount))

	entries := res.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.TypeIncome, entries[0].Type())
	assert.Equal(t, ledger.CategoryDividend, entries[0].Category())
	assert.False(t, entries[0].IsLoss)
	assert.Equal(t, ledger.Day(now), entries[0].TransactionDate)
}

func TestCompute_LossKeepsSign(t *testing.T) {
	res := Compute(money(10000), money(50000), []members.Member{{ID: 1, Name: "A", ShareCount: 10}}, now)

	s := res.Snapshot
	assert.True(t, money(-40000).Equal(s.Profit))
	assert.True(t, money(-1200).Equal(s.DividendPerShare))
	assert.True(t, s.IsLoss)

	entries := res.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.True(t, money(-12000).Equal(e.Amount))
	assert.True(t, e.IsLoss)
	assert.Equal(t, ledger.TypeExpense, e.Type())
	assert.True(t, money(12000).Equal(e.Expense()))
	assert.Contains(t, e.Description, "1200.00")
	assert.NotContains(t, e.Description, "-")
}

func TestCompute_ZeroShares(t *testing.T) {
	all := []members.Member{{ID: 1, Name: "A", ShareCount: 0}}

	res := Compute(money(5000), money(1000), all, now)
	assert.True(t, res.Snapshot.DividendPerShare.IsZero())
	assert.True(t, money(4000).Equal(res.Snapshot.Profit))
	assert.True(t, money(5000).Equal(res.Snapshot.Revenue))
	assert.Empty(t, res.Allocations)
	assert.Empty(t, res.Entries())

	res = Compute(money(5000), money(1000), nil, now)
	assert.True(t, res.Snapshot.DividendPerShare.IsZero())
}

func TestCompute_Reconciles(t *testing.T) {
	all := []members.Member{
		{ID: 1, Name: "A", ShareCount: 3},
		{ID: 2, Name: "B", ShareCount: 7},
		{ID: 3, Name: "C", ShareCount: 11},
		{ID: 4, Name: "D", ShareCount: 0},
	}

	cases := []struct{ revenue, cost string }{
		{"100000", "40000"},
		{"12345.67", "2345.01"},
		{"100", "99999.99"},
		{"0", "0"},
	}

	tolerance := decimal.RequireFromString("0.0001")
	for _, c := range cases {
		res := Compute(types.MustMoney(c.revenue), types.MustMoney(c.cost), all, now)
		s := res.Snapshot

		assert.True(t, types.MustMoney(c.revenue).Sub(types.MustMoney(c.cost)).Equal(s.Profit))
		assert.Equal(t, int64(21), s.TotalShares)
		assert.Len(t, res.Allocations, 3)

		expected := s.DividendPerShare.Mul(decimal.NewFromInt(s.TotalShares))
		assert.True(t, expected.Sub(s.TotalDividend).Abs().LessThanOrEqual(tolerance),
			"rate × shares %s vs distributed %s", expected, s.TotalDividend)

		payout := s.Profit.Mul(PayoutRatio)
		assert.True(t, payout.Sub(s.TotalDividend).Abs().LessThanOrEqual(tolerance),
			"payout %s vs distributed %s", payout, s.TotalDividend)
	}
}
