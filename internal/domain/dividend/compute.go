// Package dividend computes profit and the 30% share-proportional dividend
// allocation from the current state of the stores. Nothing here is cached:
// every call recomputes from scratch.
package dividend

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"coopledger/internal/core/types"
	"coopledger/internal/domain/ledger"
	"coopledger/internal/domain/members"
)

// PayoutRatio is the share of profit distributed to members.
var PayoutRatio = decimal.RequireFromString("0.30")

// Snapshot is a point-in-time profit figure.
// Profit, DividendPerShare and TotalDividend keep their sign; a loss yields
// negative values and IsLoss.
type Snapshot struct {
	Revenue          types.Money `json:"revenue"`
	Cost             types.Money `json:"cost"`
	Profit           types.Money `json:"profit"`
	TotalShares      int64       `json:"totalShares"`
	DividendPerShare types.Money `json:"dividendPerShare"`
	TotalDividend    types.Money `json:"totalDividend"`
	IsLoss           bool        `json:"isLoss"`
	MemberCount      int         `json:"memberCount"`
	OrderCount       int64       `json:"orderCount"`
	ComputedAt       time.Time   `json:"computedAt"`
}

// Allocation is one member's share of the dividend.
type Allocation struct {
	MemberID   int64
	MemberName string
	ShareCount int64
	Amount     types.Money
}

// Result is the output of Compute.
type Result struct {
	Snapshot    Snapshot
	Allocations []Allocation
}

// Compute applies the dividend formula. It never fails: with no shares
// outstanding the rate is zero and no allocations are produced.
func Compute(revenue, cost types.Money, all []members.Member, now time.Time) Result {
	profit := revenue.Sub(cost)
	holders := members.Shareholders(all)
	totalShares := members.TotalShares(all)

	snap := Snapshot{
		Revenue:          revenue,
		Cost:             cost,
		Profit:           profit,
		TotalShares:      totalShares,
		DividendPerShare: types.Zero(),
		TotalDividend:    types.Zero(),
		IsLoss:           profit.IsNegative(),
		MemberCount:      len(holders),
		ComputedAt:       now,
	}

	if totalShares <= 0 {
		return Result{Snapshot: snap}
	}

	rate := profit.Mul(PayoutRatio).Div(decimal.NewFromInt(totalShares))
	snap.DividendPerShare = rate

	allocations := make([]Allocation, 0, len(holders))
	total := types.Zero()
	for _, m := range holders {
		amount := rate.Mul(decimal.NewFromInt(m.ShareCount))
		total = total.Add(amount)
		allocations = append(allocations, Allocation{
			MemberID:   m.ID,
			MemberName: m.Name,
			ShareCount: m.ShareCount,
			Amount:     amount,
		})
	}
	snap.TotalDividend = total

	return Result{Snapshot: snap, Allocations: allocations}
}

// Entries turns allocations into dividend ledger rows dated on the
// computation day. Descriptions use the absolute rate.
func (r Result) Entries() []ledger.Entry {
	out := make([]ledger.Entry, 0, len(r.Allocations))
	rate := r.Snapshot.DividendPerShare.Abs().StringFixed(2)
	for _, a := range r.Allocations {
		desc := fmt.Sprintf("Dividend for %d shares at %s per share", a.ShareCount, rate)
		if r.Snapshot.IsLoss {
			desc = fmt.Sprintf("Loss allocation for %d shares at %s per share", a.ShareCount, rate)
		}
		out = append(out, ledger.Entry{
			Kind:            ledger.KindDividend,
			PersonName:      a.MemberName,
			Amount:          a.Amount,
			Description:     desc,
			TransactionDate: ledger.Day(r.Snapshot.ComputedAt),
			ShareCount:      a.ShareCount,
			IsLoss:          r.Snapshot.IsLoss,
		})
	}
	return out
}
