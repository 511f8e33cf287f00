package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coopledger/internal/infrastructure/storage/postgres"
)

// HealthHandler provides liveness and readiness probes.
type HealthHandler struct {
	pool    *postgres.Pool // nil for the in-memory backend
	storage string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *postgres.Pool, storage string) *HealthHandler {
	return &HealthHandler{pool: pool, storage: storage}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pool == nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"checks": map[string]string{"storage": h.storage},
		})
		return
	}

	if err := h.pool.Healthy(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{"database": "unhealthy: " + err.Error()},
		})
		return
	}

	stats := h.pool.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{"database": "healthy"},
		"pool":   stats,
	})
}
