package handlers

import (
	"net/http"

	"github.com/SscSPs/stock_insights_api/cmd/docs"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/middleware"
	"github.com/SscSPs/stock_insights_api/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// metricsHandler and apiLimiter are optional.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	metricsHandler http.Handler,
	apiLimiter *limiter.Limiter,
) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	setupAPIRoutes(r, cfg, services, apiLimiter)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIRoutes configures the /api group and delegates to specific entity route registrations
func setupAPIRoutes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	apiLimiter *limiter.Limiter,
) {
	api := r.Group("/api")
	if apiLimiter != nil {
		api.Use(middleware.RateLimit(apiLimiter))
	}

	admin := middleware.AdminAuth(cfg.AdminPassword)

	registerStatusRoutes(api)
	RegisterExchangeRateRoutes(api, service.ExchangeRate)
	RegisterTickerRoutes(api, service.Ticker, admin)
	RegisterStockRoutes(api, service.Stock, admin)
	RegisterProjectionRoutes(api, service.Projection)
	RegisterAnalysisRoutes(api, service.Analysis)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
