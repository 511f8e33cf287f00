package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coopledger/internal/core/types"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/members"
	"coopledger/internal/domain/purchase"
)

var (
	today     = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	yesterday = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
)

func TestShareCapitalEntries_SkipsZeroHolders(t *testing.T) {
	entries := ShareCapitalEntries([]members.Member{
		{ID: 1, Name: "Ana", ShareCount: 10},
		{ID: 2, Name: "Ben", ShareCount: 0},
	}, today)

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, KindShareCapital, e.Kind)
	assert.Equal(t, TypeIncome, e.Type())
	assert.Equal(t, CategoryStock, e.Category())
	assert.True(t, types.NewMoneyFromInt(10000).Equal(e.Amount))
	assert.Equal(t, int64(10), e.ShareCount)
	assert.Equal(t, Day(today), e.TransactionDate)
}

func TestProductionCostEntries_SkipsEmptyLots(t *testing.T) {
	entries := ProductionCostEntries([]inventory.Product{
		{ID: 1, Name: "Mango", MemberName: "Ana", Unit: "kg", Price: types.NewMoneyFromInt(2000), Quantity: 5},
		{ID: 2, Name: "Rice", MemberName: "Ben", Unit: "kg", Price: types.NewMoneyFromInt(1000), Quantity: 0},
		{ID: 3, Name: "Free", MemberName: "Ben", Unit: "kg", Price: types.Zero(), Quantity: 3},
	}, today)

	require.Len(t, entries, 1)
	assert.Equal(t, TypeExpense, entries[0].Type())
	assert.Equal(t, CategoryProduction, entries[0].Category())
	assert.True(t, types.NewMoneyFromInt(10000).Equal(entries[0].Amount))
	assert.Equal(t, "Ana", entries[0].PersonName)
}

func TestMaterialize_OrderAndIndex(t *testing.T) {
	sales := SaleEntries([]purchase.Line{
		{CustomerID: 7, ProductName: "Mango", Quantity: 1, Unit: "kg", Total: types.NewMoneyFromInt(3000), PurchaseDate: yesterday},
		{CustomerID: 2, ProductName: "Mango", Quantity: 2, Unit: "kg", Total: types.NewMoneyFromInt(6000), PurchaseDate: today},
	})
	shares := ShareCapitalEntries([]members.Member{{Name: "Zed", ShareCount: 1}, {Name: "Ana", ShareCount: 2}}, today)

	got := Materialize(shares, sales)
	require.Len(t, got, 4)

	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.PersonName
		assert.Equal(t, i+1, e.Index)
	}
	assert.Equal(t, []string{"Ana", "Customer #2", "Zed", "Customer #7"}, names)
}

func TestMaterialize_Empty(t *testing.T) {
	assert.Empty(t, Materialize())
	assert.Empty(t, Materialize(nil, nil))
}

func TestFilter_KeepsIndexes(t *testing.T) {
	all := Materialize(
		ShareCapitalEntries([]members.Member{{Name: "Ana", ShareCount: 2}}, today),
		ProductionCostEntries([]inventory.Product{{Name: "Mango", MemberName: "Bob", Unit: "kg", Price: types.NewMoneyFromInt(10), Quantity: 1}}, today),
		SaleEntries([]purchase.Line{{CustomerID: 1, Total: types.NewMoneyFromInt(5), PurchaseDate: today}}),
	)
	require.Len(t, all, 3)

	tests := []struct {
		name    string
		filter  Filter
		indexes []int
	}{
		{name: "no filter", filter: Filter{}, indexes: []int{1, 2, 3}},
		{name: "income", filter: Filter{Type: TypeIncome}, indexes: []int{1, 3}},
		{name: "production", filter: Filter{Category: CategoryProduction}, indexes: []int{2}},
		{name: "person case-insensitive", filter: Filter{Person: "ana"}, indexes: []int{1}},
		{name: "and semantics", filter: Filter{Type: TypeExpense, Person: "ana"}, indexes: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(all)
			idx := make([]int, 0, len(got))
			for _, e := range got {
				idx = append(idx, e.Index)
			}
			assert.Equal(t, tt.indexes, idx)
		})
	}
}

func TestDividendEntrySide(t *testing.T) {
	gain := Entry{Kind: KindDividend, Amount: types.NewMoneyFromInt(18000)}
	loss := Entry{Kind: KindDividend, Amount: types.NewMoneyFromInt(-12000), IsLoss: true}

	assert.Equal(t, TypeIncome, gain.Type())
	assert.Equal(t, TypeExpense, loss.Type())
	assert.True(t, types.NewMoneyFromInt(12000).Equal(loss.Expense()))
	assert.True(t, loss.Income().IsZero())

	income, expense := Totals([]Entry{gain, loss})
	assert.True(t, types.NewMoneyFromInt(18000).Equal(income))
	assert.True(t, types.NewMoneyFromInt(12000).Equal(expense))
}

func TestParseFilters(t *testing.T) {
	_, ok := ParseType("income")
	assert.True(t, ok)
	_, ok = ParseType("refund")
	assert.False(t, ok)

	c, ok := ParseCategory("dividend")
	assert.True(t, ok)
	assert.Equal(t, CategoryDividend, c)
	_, ok = ParseCategory("")
	assert.False(t, ok)
}
