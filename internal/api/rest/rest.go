package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/spraitoken/presale-tracker/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Submit a claimed purchase for validation and tracking
		v1.POST("/transactions", handler.SubmitTransaction)

		// Per-wallet purchase history (public read access)
		v1.GET("/transactions/user/:wallet", handler.GetWalletTransactions)

		// Presale statistics (public read access)
		v1.GET("/transactions/stats", handler.GetStats)

		// Full paginated listing (operator monitoring, requires authentication)
		v1.GET("/transactions", middleware.Auth(authCfg), handler.ListTransactions)
	}
}
