package handlers

import (
	"net/http"

	"github.com/SscSPs/travel_settlement/cmd/docs"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/middleware"
	"github.com/SscSPs/travel_settlement/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes. The mutating middlewares,
// typically the rate limiter, wrap every route that posts to the ledger.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	mutating ...gin.HandlerFunc,
) {
	r.GET("/health", healthCheck)

	setupAPIV1Routes(r, cfg, services, mutating)

	setupSwaggerRoutes(r, cfg)
}

// healthCheck godoc
// @Summary Show the status of server.
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	mutating []gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	RegisterAccountRoutes(v1, services.Account)
	RegisterSettlementRoutes(v1, services.Settlement, mutating...)
	RegisterEventRoutes(v1, services.Events, services.Account, mutating...)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
