package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"coopledger/internal/core/types"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/members"
	"coopledger/internal/domain/purchase"
)

// Day truncates t to its calendar date; ledger dates carry no time of day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ShareCapitalEntries produces one income row per member holding shares.
// Share capital carries no date of its own; asOf stands in for it.
func ShareCapitalEntries(all []members.Member, asOf time.Time) []Entry {
	holders := members.Shareholders(all)
	out := make([]Entry, 0, len(holders))
	for _, m := range holders {
		out = append(out, Entry{
			Kind:            KindShareCapital,
			PersonName:      m.Name,
			Amount:          m.ShareValue(),
			Description:     fmt.Sprintf("Share investment (%d shares)", m.ShareCount),
			TransactionDate: Day(asOf),
			ShareCount:      m.ShareCount,
		})
	}
	return out
}

// SaleEntries produces one income row per purchase history line.
func SaleEntries(lines []purchase.Line) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, l := range lines {
		out = append(out, Entry{
			Kind:            KindSale,
			PersonName:      fmt.Sprintf("Customer #%d", l.CustomerID),
			Amount:          l.Total,
			Description:     fmt.Sprintf("Bought %s (%d %s)", l.ProductName, l.Quantity, l.Unit),
			TransactionDate: Day(l.PurchaseDate),
		})
	}
	return out
}

// ProductionCostEntries produces one expense row per production lot that
// still has a positive price and quantity.
func ProductionCostEntries(products []inventory.Product, asOf time.Time) []Entry {
	out := make([]Entry, 0, len(products))
	for _, p := range products {
		if !p.Price.IsPositive() || p.Quantity <= 0 {
			continue
		}
		out = append(out, Entry{
			Kind:            KindProductionCost,
			PersonName:      p.MemberName,
			Amount:          p.CostBasis(),
			Description:     fmt.Sprintf("Purchased %s (%d %s)", p.Name, p.Quantity, p.Unit),
			TransactionDate: Day(asOf),
		})
	}
	return out
}

// Materialize concatenates the row sets, orders them by
// (TransactionDate desc, PersonName asc) and numbers them from 1.
// The index is positional and changes whenever the sources change.
func Materialize(sets ...[]Entry) []Entry {
	var n int
	for _, s := range sets {
		n += len(s)
	}

	out := make([]Entry, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].PersonName < out[j].PersonName
	})

	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

// Filter selects ledger entries. Empty fields match everything; set fields AND together.
type Filter struct {
	Type     Type
	Category Category
	Person   string
}

// Match reports whether e passes every set predicate.
func (f Filter) Match(e Entry) bool {
	if f.Type != "" && e.Type() != f.Type {
		return false
	}
	if f.Category != "" && e.Category() != f.Category {
		return false
	}
	if p := strings.TrimSpace(f.Person); p != "" {
		if !strings.Contains(strings.ToLower(e.PersonName), strings.ToLower(p)) {
			return false
		}
	}
	return true
}

// Apply returns the entries matching f, keeping their indexes.
func (f Filter) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Totals sums the presentation columns.
func Totals(entries []Entry) (income, expense types.Money) {
	income, expense = types.Zero(), types.Zero()
	for _, e := range entries {
		income = income.Add(e.Income())
		expense = expense.Add(e.Expense())
	}
	return income, expense
}
