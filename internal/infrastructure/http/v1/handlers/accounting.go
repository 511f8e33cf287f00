package handlers

import (
	"github.com/gin-gonic/gin"

	"coopledger/internal/core/apperror"
	"coopledger/internal/domain/dividend"
	"coopledger/internal/domain/ledger"
	"coopledger/internal/infrastructure/http/v1/dto"
)

// AccountingHandler serves profit, dividends, the ledger and the daily archive.
type AccountingHandler struct {
	*BaseHandler
	calc     *dividend.Calculator
	ledger   *ledger.Service
	archiver *dividend.Archiver
}

// NewAccountingHandler creates a new accounting handler.
func NewAccountingHandler(base *BaseHandler, calc *dividend.Calculator, ledgerSvc *ledger.Service, archiver *dividend.Archiver) *AccountingHandler {
	return &AccountingHandler{
		BaseHandler: base,
		calc:        calc,
		ledger:      ledgerSvc,
		archiver:    archiver,
	}
}

// RegisterRoutes registers the accounting endpoints.
func (h *AccountingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profit", h.Profit)
	rg.GET("/dividends", h.Dividends)
	rg.GET("/ledger", h.Ledger)
	rg.GET("/archive", h.ArchiveHistory)
	rg.POST("/auto-calculate", h.AutoCalculate)
}

// Profit handles GET /accounting/profit.
func (h *AccountingHandler) Profit(c *gin.Context) {
	snap, err := h.calc.ComputeProfitSnapshot(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, snap)
}

// Dividends handles GET /accounting/dividends.
func (h *AccountingHandler) Dividends(c *gin.Context) {
	entries, snap, err := h.calc.ComputeDividends(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.DividendsResponse{
		Snapshot: snap,
		Entries:  dto.FromLedgerEntries(ledger.Materialize(entries)),
	})
}

// Ledger handles GET /accounting/ledger.
func (h *AccountingHandler) Ledger(c *gin.Context) {
	var req dto.LedgerRequest
	if !h.BindQuery(c, &req) {
		return
	}

	q := ledger.Query{IncludeDividends: req.IncludeDividends}
	q.Filter.Person = req.Person
	if req.Type != "" {
		t, ok := ledger.ParseType(req.Type)
		if !ok {
			h.Error(c, apperror.NewValidation("unknown ledger type").WithDetail("type", req.Type))
			return
		}
		q.Filter.Type = t
	}
	if req.Category != "" {
		cat, ok := ledger.ParseCategory(req.Category)
		if !ok {
			h.Error(c, apperror.NewValidation("unknown ledger category").WithDetail("category", req.Category))
			return
		}
		q.Filter.Category = cat
	}

	view, err := h.ledger.GetLedger(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromLedgerView(view))
}

// AutoCalculate handles POST /accounting/auto-calculate.
func (h *AccountingHandler) AutoCalculate(c *gin.Context) {
	rec, snap, err := h.archiver.Archive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ArchiveResponse{Archived: rec != nil, Record: rec, Snapshot: snap})
}

// ArchiveHistory handles GET /accounting/archive.
func (h *AccountingHandler) ArchiveHistory(c *gin.Context) {
	var q struct {
		Limit int `form:"limit"`
	}
	if !h.BindQuery(c, &q) {
		return
	}

	records, err := h.archiver.History(c.Request.Context(), q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(records))
}
