// Package v1 assembles the HTTP surface of the service.
package v1

import (
	"github.com/gin-gonic/gin"

	"balcao/internal/infrastructure/http/v1/handlers"
	"balcao/internal/infrastructure/http/v1/middleware"
	"balcao/pkg/logger"
)

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	Logger         *logger.Logger
	TokenValidator middleware.TokenValidator
	RateLimiter    *middleware.RateLimiter

	Auth     *handlers.AuthHandler
	Products *handlers.ProductHandler
	Movement *handlers.MovementHandler
	Stats    *handlers.StatsHandler
	Health   *handlers.HealthHandler

	// Debug enables gin debug mode, paired with development logging.
	Debug bool
}

// NewRouter builds the gin engine with the full middleware chain and all
// routes mounted.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.Trace(),
		middleware.Logger(cfg.Logger),
		middleware.ErrorHandler(),
	)
	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Handler())
	}

	health := router.Group("/health")
	{
		health.GET("/live", cfg.Health.Live)
		health.GET("/ready", cfg.Health.Ready)
	}

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.Auth.Register)
		auth.POST("/login", cfg.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.TokenValidator))
	{
		products := protected.Group("/products")
		{
			products.POST("", cfg.Products.Create)
			products.GET("", cfg.Products.List)
			products.GET("/low-stock", cfg.Products.LowStock)
			products.GET("/:id", cfg.Products.Get)
			products.PATCH("/:id/price", cfg.Products.UpdateSalePrice)
			products.DELETE("/:id", cfg.Products.Delete)
			products.GET("/:id/movements", cfg.Movement.ListByProduct)
		}

		movements := protected.Group("/movements")
		{
			movements.POST("/entry", cfg.Movement.RecordEntry)
			movements.POST("/exit", cfg.Movement.RecordExit)
			movements.POST("/:id/payment", cfg.Movement.RecordPayment)
		}

		protected.GET("/receivables", cfg.Movement.ListReceivables)

		stats := protected.Group("/stats")
		{
			stats.GET("", cfg.Stats.Summary)
			stats.GET("/products", cfg.Stats.ByProduct)
			stats.GET("/monthly", cfg.Stats.Monthly)
		}
	}

	return router
}
