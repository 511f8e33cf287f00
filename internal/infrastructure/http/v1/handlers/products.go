package handlers

import (
	"github.com/gin-gonic/gin"

	"coopledger/internal/domain/inventory"
	"coopledger/internal/infrastructure/http/v1/dto"
)

// ProductsHandler handles production lots and stock.
type ProductsHandler struct {
	*BaseHandler
	inventory *inventory.Service
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(base *BaseHandler, inv *inventory.Service) *ProductsHandler {
	return &ProductsHandler{BaseHandler: base, inventory: inv}
}

// RegisterRoutes registers the product endpoints.
func (h *ProductsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.PATCH("/:id/stock", h.DeductStock)
	rg.PUT("/:id/quantity", h.Restock)
}

// List handles GET /products.
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.inventory.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(products))
}

// DeductStock handles PATCH /products/:id/stock.
func (h *ProductsHandler) DeductStock(c *gin.Context) {
	productID, ok := h.PathInt64(c, "id")
	if !ok {
		return
	}

	var req dto.DeductStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	change, err := h.inventory.DeductStock(c.Request.Context(), productID, req.SoldQuantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStockChange(change, req.SoldQuantity))
}

// Restock handles PUT /products/:id/quantity.
func (h *ProductsHandler) Restock(c *gin.Context) {
	productID, ok := h.PathInt64(c, "id")
	if !ok {
		return
	}

	var req dto.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.inventory.Restock(c.Request.Context(), productID, *req.Quantity); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"productId": productID, "quantity": *req.Quantity})
}
