package ledger

import (
	"context"
	"fmt"
	"time"

	"coopledger/internal/core/tx"
	"coopledger/internal/core/types"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/members"
	"coopledger/internal/domain/purchase"
	"coopledger/pkg/logger"
)

// DividendRun is what the ledger needs from the dividend calculator.
type DividendRun struct {
	Entries          []Entry
	DividendPerShare types.Money
	Profit           types.Money
	IsLoss           bool
}

// DividendSource computes the current dividend allocation.
type DividendSource interface {
	DividendRun(ctx context.Context) (*DividendRun, error)
}

// Query selects what GetLedger returns.
type Query struct {
	Filter Filter

	// IncludeDividends adds the computed dividend rows. They are left out by
	// default because they restate profit already visible in the raw rows.
	IncludeDividends bool
}

// View is the materialized ledger plus the dividend headline figures.
type View struct {
	Entries          []Entry     `json:"entries"`
	DividendPerShare types.Money `json:"dividendPerShare"`
	IsProfit         bool        `json:"isProfit"`
	TotalProfit      types.Money `json:"totalProfit"`
	TotalIncome      types.Money `json:"totalIncome"`
	TotalExpense     types.Money `json:"totalExpense"`
	GeneratedAt      time.Time   `json:"generatedAt"`
}

// Service builds ledger views from the raw stores.
type Service struct {
	members   members.Repository
	purchases purchase.Repository
	products  inventory.Repository
	dividends DividendSource
	txManager tx.ReadOnlyManager // Optional. Nil reads without a shared snapshot.
	now       func() time.Time
}

// NewService creates a new ledger service.
func NewService(
	memberRepo members.Repository,
	purchaseRepo purchase.Repository,
	productRepo inventory.Repository,
	dividends DividendSource,
	txManager tx.ReadOnlyManager,
) *Service {
	return &Service{
		members:   memberRepo,
		purchases: purchaseRepo,
		products:  productRepo,
		dividends: dividends,
		txManager: txManager,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetLedger rebuilds the ledger. Any source failure fails the whole request;
// a partial ledger would not reconcile.
func (s *Service) GetLedger(ctx context.Context, q Query) (*View, error) {
	asOf := s.now()

	var (
		memberRows  []members.Member
		lines       []purchase.Line
		products    []inventory.Product
		dividendRun *DividendRun
	)

	load := func(ctx context.Context) error {
		var err error
		if memberRows, err = s.members.List(ctx); err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		if lines, err = s.purchases.ListAll(ctx); err != nil {
			return fmt.Errorf("list purchase history: %w", err)
		}
		if products, err = s.products.List(ctx); err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if dividendRun, err = s.dividends.DividendRun(ctx); err != nil {
			return fmt.Errorf("compute dividends: %w", err)
		}
		return nil
	}

	var err error
	if s.txManager != nil {
		err = s.txManager.ReadOnly(ctx, load)
	} else {
		err = load(ctx)
	}
	if err != nil {
		return nil, err
	}

	sets := [][]Entry{
		ShareCapitalEntries(memberRows, asOf),
		SaleEntries(lines),
		ProductionCostEntries(products, asOf),
	}
	if q.IncludeDividends {
		sets = append(sets, dividendRun.Entries)
	}

	entries := q.Filter.Apply(Materialize(sets...))
	income, expense := Totals(entries)

	logger.Debug(ctx, "ledger materialized",
		"entries", len(entries),
		"include_dividends", q.IncludeDividends,
	)

	return &View{
		Entries:          entries,
		DividendPerShare: dividendRun.DividendPerShare.Abs(),
		IsProfit:         !dividendRun.IsLoss,
		TotalProfit:      dividendRun.Profit,
		TotalIncome:      income,
		TotalExpense:     expense,
		GeneratedAt:      asOf,
	}, nil
}
