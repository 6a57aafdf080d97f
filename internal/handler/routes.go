package handler

import (
	"github.com/labasubagia22/money-app-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, cashFlowHandler *CashFlowHandler, categoryHandler *CategoryHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)

	// Cash flow routes
	cashFlows := api.Group("/cashflows")
	cashFlows.GET("/summary", cashFlowHandler.GetSummary)
	cashFlows.GET("", cashFlowHandler.GetCashFlows)
	cashFlows.POST("", cashFlowHandler.CreateCashFlow)
	cashFlows.GET("/:id", cashFlowHandler.GetCashFlow)
	cashFlows.PUT("/:id", cashFlowHandler.UpdateCashFlow)
	cashFlows.DELETE("/:id", cashFlowHandler.DeleteCashFlow)

	// Category routes
	categories := api.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
}
