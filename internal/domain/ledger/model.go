// Package ledger materializes the unified income/expense view from share
// capital, sales history, production cost and computed dividends.
// Entries are snapshots rebuilt on every request and never stored.
package ledger

import (
	"time"

	"coopledger/internal/core/types"
)

// Kind is the origin of an entry.
type Kind string

const (
	KindShareCapital   Kind = "share_capital"
	KindSale           Kind = "sale"
	KindProductionCost Kind = "production_cost"
	KindDividend       Kind = "dividend"
)

// Type is the income/expense side of an entry.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Category groups entries for filtering.
type Category string

const (
	CategoryStock      Category = "stock"
	CategorySale       Category = "sale"
	CategoryProduction Category = "production"
	CategoryDividend   Category = "dividend"
)

// Entry is one row of the ledger view.
// Amount is signed: a dividend under a loss is negative. Presentation code
// uses Income/Expense, which always return non-negative values.
type Entry struct {
	Index           int         `json:"index"`
	Kind            Kind        `json:"kind"`
	PersonName      string      `json:"personName"`
	Amount          types.Money `json:"amount"`
	Description     string      `json:"description"`
	TransactionDate time.Time   `json:"transactionDate"`
	ShareCount      int64       `json:"shareCount"`
	IsLoss          bool        `json:"isLoss"`
}

// Type derives the side from the kind; dividends flip to expense on a loss.
func (e Entry) Type() Type {
	switch e.Kind {
	case KindShareCapital, KindSale:
		return TypeIncome
	case KindProductionCost:
		return TypeExpense
	case KindDividend:
		if e.IsLoss {
			return TypeExpense
		}
		return TypeIncome
	}
	return TypeExpense
}

// Category maps the kind onto its reporting category.
func (e Entry) Category() Category {
	switch e.Kind {
	case KindShareCapital:
		return CategoryStock
	case KindSale:
		return CategorySale
	case KindProductionCost:
		return CategoryProduction
	default:
		return CategoryDividend
	}
}

// Income is |Amount| for income entries, zero otherwise.
func (e Entry) Income() types.Money {
	if e.Type() == TypeIncome {
		return e.Amount.Abs()
	}
	return types.Zero()
}

// Expense is |Amount| for expense entries, zero otherwise.
func (e Entry) Expense() types.Money {
	if e.Type() == TypeExpense {
		return e.Amount.Abs()
	}
	return types.Zero()
}

// ParseType validates a type filter value.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeIncome, TypeExpense:
		return Type(s), true
	}
	return "", false
}

// ParseCategory validates a category filter value.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryStock, CategorySale, CategoryProduction, CategoryDividend:
		return Category(s), true
	}
	return "", false
}
