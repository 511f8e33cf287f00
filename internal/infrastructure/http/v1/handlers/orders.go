package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"coopledger/internal/domain/purchase"
	"coopledger/internal/domain/settlement"
	"coopledger/internal/infrastructure/http/v1/dto"
)

// HeaderIdempotencyKey carries the client's retry key for order submission.
const HeaderIdempotencyKey = "X-Idempotency-Key"

// OrdersHandler handles order submission and the order header records.
type OrdersHandler struct {
	*BaseHandler
	engine    *settlement.Engine
	orders    *settlement.OrderService
	purchases *purchase.Service
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(base *BaseHandler, engine *settlement.Engine, orders *settlement.OrderService, purchases *purchase.Service) *OrdersHandler {
	return &OrdersHandler{
		BaseHandler: base,
		engine:      engine,
		orders:      orders,
		purchases:   purchases,
	}
}

// RegisterRoutes registers the order endpoints.
func (h *OrdersHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
	rg.GET("", h.List)
	rg.GET("/:number", h.Get)
	rg.PATCH("/:number/status", h.UpdateStatus)
}

// Submit handles POST /orders.
// A replayed submission answers 200 with the stored result; a fresh one 201.
func (h *OrdersHandler) Submit(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	res, err := h.engine.SubmitOrder(c.Request.Context(), req.ToOrder(key))
	if err != nil {
		h.Error(c, err)
		return
	}

	if res.Replayed {
		h.OK(c, res)
		return
	}
	h.Created(c, res)
}

// List handles GET /orders.
func (h *OrdersHandler) List(c *gin.Context) {
	var req dto.OrderListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	f := settlement.ListFilter{
		CustomerID: req.CustomerID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if req.Status != "" {
		st, err := settlement.ParseStatus(req.Status)
		if err != nil {
			h.Error(c, err)
			return
		}
		f.Status = st
	}

	headers, err := h.orders.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(headers))
}

// Get handles GET /orders/:number.
func (h *OrdersHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	number := c.Param("number")

	header, err := h.orders.GetByNumber(ctx, number)
	if err != nil {
		h.Error(c, err)
		return
	}

	lines, err := h.purchases.ListByOrder(ctx, header.Number)
	if err != nil {
		h.Error(c, err)
		return
	}
	if lines == nil {
		lines = []purchase.Line{}
	}

	h.OK(c, dto.OrderDetailResponse{Header: header, Lines: lines})
}

// UpdateStatus handles PATCH /orders/:number/status.
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	status, err := settlement.ParseStatus(req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	header, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("number"), status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, header)
}
