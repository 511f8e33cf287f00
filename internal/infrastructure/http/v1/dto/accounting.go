package dto

import (
	"time"

	"coopledger/internal/core/types"
	"coopledger/internal/domain/dividend"
	"coopledger/internal/domain/ledger"
)

// LedgerRequest holds the query of GET /accounting/ledger.
type LedgerRequest struct {
	Type             string `form:"type"`
	Category         string `form:"category"`
	Person           string `form:"person"`
	IncludeDividends bool   `form:"includeDividends"`
}

// LedgerEntryResponse is one ledger row with its derived columns.
type LedgerEntryResponse struct {
	Index           int             `json:"index"`
	Kind            ledger.Kind     `json:"kind"`
	Type            ledger.Type     `json:"type"`
	Category        ledger.Category `json:"category"`
	PersonName      string          `json:"personName"`
	Amount          types.Money     `json:"amount"`
	Income          types.Money     `json:"income"`
	Expense         types.Money     `json:"expense"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transactionDate"`
	ShareCount      int64           `json:"shareCount,omitempty"`
	IsLoss          bool            `json:"isLoss,omitempty"`
}

// LedgerResponse is the materialized ledger.
type LedgerResponse struct {
	Entries          []LedgerEntryResponse `json:"entries"`
	Total            int                   `json:"total"`
	DividendPerShare types.Money           `json:"dividendPerShare"`
	IsProfit         bool                  `json:"isProfit"`
	TotalProfit      types.Money           `json:"totalProfit"`
	TotalIncome      types.Money           `json:"totalIncome"`
	TotalExpense     types.Money           `json:"totalExpense"`
	GeneratedAt      time.Time             `json:"generatedAt"`
}

// FromLedgerEntries converts entries, formatting dates as YYYY-MM-DD.
func FromLedgerEntries(entries []ledger.Entry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			Index:           e.Index,
			Kind:            e.Kind,
			Type:            e.Type(),
			Category:        e.Category(),
			PersonName:      e.PersonName,
			Amount:          e.Amount,
			Income:          e.Income(),
			Expense:         e.Expense(),
			Description:     e.Description,
			TransactionDate: e.TransactionDate.Format(time.DateOnly),
			ShareCount:      e.ShareCount,
			IsLoss:          e.IsLoss,
		}
	}
	return out
}

// FromLedgerView converts a ledger view.
func FromLedgerView(v *ledger.View) LedgerResponse {
	return LedgerResponse{
		Entries:          FromLedgerEntries(v.Entries),
		Total:            len(v.Entries),
		DividendPerShare: v.DividendPerShare,
		IsProfit:         v.IsProfit,
		TotalProfit:      v.TotalProfit,
		TotalIncome:      v.TotalIncome,
		TotalExpense:     v.TotalExpense,
		GeneratedAt:      v.GeneratedAt,
	}
}

// DividendsResponse is the body of GET /accounting/dividends.
type DividendsResponse struct {
	Snapshot *dividend.Snapshot    `json:"snapshot"`
	Entries  []LedgerEntryResponse `json:"entries"`
}

// ArchiveResponse is the body of POST /accounting/auto-calculate.
type ArchiveResponse struct {
	Archived bool                    `json:"archived"`
	Record   *dividend.ArchiveRecord `json:"record,omitempty"`
	Snapshot *dividend.Snapshot      `json:"snapshot"`
}
