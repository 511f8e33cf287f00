// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// SharePrice is the fixed value of one cooperative share.
var SharePrice = decimal.NewFromInt(1000)

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromInt creates a Money value from whole currency units.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// LineTotal returns quantity × unit price.
func LineTotal(quantity int64, unitPrice Money) Money {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// ShareValue returns the capital contributed by shareCount shares.
func ShareValue(shareCount int64) Money {
	return SharePrice.Mul(decimal.NewFromInt(shareCount))
}

// FloorSub returns max(0, stock - sold). It is the only stock arithmetic the
// settlement path uses; storage adapters express the same rule in one update.
func FloorSub(stock, sold int64) int64 {
	if sold >= stock {
		return 0
	}
	return stock - sold
}
