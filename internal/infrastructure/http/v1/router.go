// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"coopledger/internal/domain/dividend"
	"coopledger/internal/domain/inventory"
	"coopledger/internal/domain/ledger"
	"coopledger/internal/domain/members"
	"coopledger/internal/domain/purchase"
	"coopledger/internal/domain/settlement"
	"coopledger/internal/infrastructure/http/v1/handlers"
	"coopledger/internal/infrastructure/http/v1/middleware"
	"coopledger/internal/infrastructure/metrics"
	"coopledger/internal/infrastructure/storage/postgres"
	"coopledger/pkg/logger"
)

// Services are the domain services behind the API.
type Services struct {
	Engine     *settlement.Engine
	Orders     *settlement.OrderService
	Inventory  *inventory.Service
	Purchases  *purchase.Service
	Members    *members.Service
	Calculator *dividend.Calculator
	Ledger     *ledger.Service
	Archiver   *dividend.Archiver
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	Logger   *logger.Logger
	Services Services

	// Metrics is optional. When set, /metrics is served and requests are counted.
	Metrics *metrics.Metrics

	// Pool is nil for the in-memory backend.
	Pool    *postgres.Pool
	Storage string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	var rec middleware.RequestRecorder
	if cfg.Metrics != nil {
		rec = cfg.Metrics
	}

	router := gin.New()

	// Order matters: the error handler must see errors from every later handler.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Actor())
	router.Use(middleware.Logger(cfg.Logger, rec))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Storage)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	base := handlers.NewBaseHandler()
	svc := cfg.Services

	api := router.Group("/api/v1")
	{
		handlers.NewOrdersHandler(base, svc.Engine, svc.Orders, svc.Purchases).
			RegisterRoutes(api.Group("/orders"))

		handlers.NewProductsHandler(base, svc.Inventory).
			RegisterRoutes(api.Group("/products"))

		membersHandler := handlers.NewMembersHandler(base, svc.Members)
		api.GET("/members", membersHandler.List)

		historyHandler := handlers.NewPurchaseHistoryHandler(base, svc.Purchases)
		api.GET("/purchase-history", historyHandler.List)
		api.GET("/purchase-history/:customerId", historyHandler.List)

		handlers.NewAccountingHandler(base, svc.Calculator, svc.Ledger, svc.Archiver).
			RegisterRoutes(api.Group("/accounting"))
	}

	return router
}
