package handlers

import (
	"github.com/gin-gonic/gin"

	"coopledger/internal/domain/purchase"
	"coopledger/internal/infrastructure/http/v1/dto"
)

// PurchaseHistoryHandler serves the purchase history log.
type PurchaseHistoryHandler struct {
	*BaseHandler
	purchases *purchase.Service
}

// NewPurchaseHistoryHandler creates a new purchase history handler.
func NewPurchaseHistoryHandler(base *BaseHandler, svc *purchase.Service) *PurchaseHistoryHandler {
	return &PurchaseHistoryHandler{BaseHandler: base, purchases: svc}
}

type purchaseHistoryQuery struct {
	CustomerID *int64 `form:"customerId"`
}

// List handles GET /purchase-history and GET /purchase-history/:customerId.
func (h *PurchaseHistoryHandler) List(c *gin.Context) {
	var q purchaseHistoryQuery
	if !h.BindQuery(c, &q) {
		return
	}
	if c.Param("customerId") != "" {
		id, ok := h.PathInt64(c, "customerId")
		if !ok {
			return
		}
		q.CustomerID = &id
	}

	lines, err := h.purchases.List(c.Request.Context(), q.CustomerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(lines))
}
