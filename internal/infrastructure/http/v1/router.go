// Package v1 wires the HTTP API surface.
package v1

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/catalog"
	"stockbook/internal/domain/checkpoint"
	"stockbook/internal/domain/importer"
	"stockbook/internal/domain/stock"
	"stockbook/internal/infrastructure/http/v1/handlers"
	"stockbook/internal/infrastructure/http/v1/middleware"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/pkg/logger"
)

// Services groups the domain services the router exposes.
type Services struct {
	Stocks      *stock.Service
	Checkpoints *checkpoint.Service
	Imports     *importer.Service
	Products    catalog.Store
	Cache       *stock.Cache

	// Pool and AuditLog are nil when running on the in-memory store.
	Pool     *postgres.Pool
	AuditLog handlers.SessionLister
}

// NewRouter builds the Gin engine with all middleware and routes.
func NewRouter(svc Services, log *logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	health := handlers.NewHealthHandler(svc.Pool)
	router.GET("/health/live", health.Live)
	router.GET("/health/ready", health.Ready)
	router.GET("/health/info", health.Info)

	base := handlers.NewBaseHandler()
	products := handlers.NewProductHandler(base, svc.Products, svc.Cache)
	stocks := handlers.NewStockHandler(base, svc.Stocks, svc.Products)
	imports := handlers.NewImportHandler(base, svc.Imports, svc.AuditLog)
	checkpoints := handlers.NewCheckpointHandler(base, svc.Checkpoints)

	api := router.Group("/api/v1")
	{
		api.GET("/products", products.List)
		api.DELETE("/products", products.Delete)

		api.GET("/stock", stocks.Get)
		api.GET("/stock/movements", stocks.Movements)
		api.GET("/stock/as-of", stocks.AsOf)
		api.GET("/stock/audit", stocks.Audit)

		api.GET("/imports/templates", imports.Templates)
		api.POST("/imports/sales/preview", imports.PreviewSales)
		api.POST("/imports/sales", imports.CommitSales)
		api.POST("/imports/stock/preview", imports.PreviewQuantities)
		api.POST("/imports/stock", imports.ApplyQuantities)
		if svc.AuditLog != nil {
			api.GET("/imports/sessions", imports.Sessions)
		}

		api.GET("/checkpoints", checkpoints.Get)
		api.POST("/checkpoints/preview", checkpoints.Preview)
		api.PUT("/checkpoints", checkpoints.Put)
	}

	return router
}
