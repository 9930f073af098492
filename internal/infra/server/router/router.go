// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	categoryController    *controller.CategoryController
	transactionController *controller.TransactionController
	budgetController      *controller.BudgetController
	statisticsController  *controller.StatisticsController
	heavyRateLimiter      *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	budgetController *controller.BudgetController,
	statisticsController *controller.StatisticsController,
	heavyRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		categoryController:    categoryController,
		transactionController: transactionController,
		budgetController:      budgetController,
		statisticsController:  statisticsController,
		heavyRateLimiter:      heavyRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every ledger route requires authentication.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())

	categories := v1.Group("/categories")
	{
		categories.GET("", r.categoryController.List)
		categories.POST("", r.categoryController.Create)
		categories.PATCH("/:id", r.categoryController.Update)
		categories.DELETE("/:id", r.categoryController.Delete)
	}

	transactions := v1.Group("/transactions")
	{
		transactions.GET("", r.transactionController.List)
		transactions.POST("", r.transactionController.Create)
		transactions.POST("/import", r.heavyRateLimiter.Middleware(), r.transactionController.Import)
		transactions.GET("/:id", r.transactionController.Get)
		transactions.PATCH("/:id", r.transactionController.Update)
		transactions.DELETE("/:id", r.transactionController.Delete)
		transactions.POST("/:id/archive", r.transactionController.Archive)
	}

	budgets := v1.Group("/budgets")
	{
		budgets.GET("", r.budgetController.List)
		budgets.POST("", r.budgetController.Create)
		budgets.GET("/summary", r.budgetController.Summary)
		budgets.GET("/renewals", r.budgetController.RenewalsDue)
		budgets.GET("/:id", r.budgetController.Get)
		budgets.PATCH("/:id", r.budgetController.Update)
		budgets.DELETE("/:id", r.budgetController.Delete)
		budgets.POST("/:id/renew", r.budgetController.Renew)
	}

	stats := v1.Group("/statistics")
	{
		stats.GET("", r.statisticsController.UserStats)
		stats.GET("/overview", r.statisticsController.Overview)
		stats.GET("/trend", r.statisticsController.MonthlyTrend)
		stats.GET("/categories", r.statisticsController.CategoryRanking)
		stats.GET("/payment-methods", r.statisticsController.PaymentMethods)
		stats.GET("/time-of-day", r.statisticsController.TimeOfDay)
		stats.POST("/reconcile", r.heavyRateLimiter.Middleware(), r.statisticsController.Reconcile)
	}
}
