package dividend

import (
	"context"
	"fmt"
	"time"

	"coopledger/internal/core/tx"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/ledger"
	"coopledger/internal/domain/members"
	"coopledger/internal/domain/purchase"
	"coopledger/pkg/logger"
)

// Calculator reads revenue, cost basis and shares from the stores and runs Compute.
type Calculator struct {
	purchases purchase.Repository
	products  inventory.Repository
	members   members.Repository
	txManager tx.ReadOnlyManager
	now       func() time.Time
}

// NewCalculator creates a new calculator. txManager may be nil.
func NewCalculator(
	purchaseRepo purchase.Repository,
	productRepo inventory.Repository,
	memberRepo members.Repository,
	txManager tx.ReadOnlyManager,
) *Calculator {
	return &Calculator{
		purchases: purchaseRepo,
		products:  productRepo,
		members:   memberRepo,
		txManager: txManager,
		now:       time.Now,
	}
}

// WithClock overrides the time source.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	c.now = now
	return c
}

func (c *Calculator) compute(ctx context.Context) (Result, error) {
	var (
		totals   purchase.Totals
		products []inventory.Product
		all      []members.Member
	)

	load := func(ctx context.Context) error {
		var err error
		if totals, err = c.purchases.Totals(ctx); err != nil {
			return fmt.Errorf("purchase totals: %w", err)
		}
		if products, err = c.products.List(ctx); err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if all, err = c.members.List(ctx); err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		return nil
	}

	var err error
	if c.txManager != nil {
		err = c.txManager.ReadOnly(ctx, load)
	} else {
		err = load(ctx)
	}
	if err != nil {
		return Result{}, err
	}

	res := Compute(totals.Revenue, inventory.TotalCost(products), all, c.now())
	res.Snapshot.OrderCount = totals.OrderCount

	logger.Debug(ctx, "profit computed",
		"revenue", res.Snapshot.Revenue.String(),
		"cost", res.Snapshot.Cost.String(),
		"profit", res.Snapshot.Profit.String(),
		"total_shares", res.Snapshot.TotalShares,
	)
	return res, nil
}

// ComputeProfitSnapshot returns the current profit figures.
func (c *Calculator) ComputeProfitSnapshot(ctx context.Context) (*Snapshot, error) {
	res, err := c.compute(ctx)
	if err != nil {
		return nil, err
	}
	return &res.Snapshot, nil
}

// ComputeDividends returns one dividend entry per shareholder along with the
// snapshot they were derived from.
func (c *Calculator) ComputeDividends(ctx context.Context) ([]ledger.Entry, *Snapshot, error) {
	res, err := c.compute(ctx)
	if err != nil {
		return nil, nil, err
	}
	return res.Entries(), &res.Snapshot, nil
}

// DividendRun implements ledger.DividendSource.
func (c *Calculator) DividendRun(ctx context.Context) (*ledger.DividendRun, error) {
	entries, snap, err := c.ComputeDividends(ctx)
	if err != nil {
		return nil, err
	}
	return &ledger.DividendRun{
		Entries:          entries,
		DividendPerShare: snap.DividendPerShare,
		Profit:           snap.Profit,
		IsLoss:           snap.IsLoss,
	}, nil
}
