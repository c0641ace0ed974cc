// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/budget-planner/backend/internal/integration/entrypoint/controller"
	"github.com/budget-planner/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	transactionController *controller.TransactionController
	recurringController   *controller.RecurringController
	insightController     *controller.InsightController
	analysisRateLimiter   *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	transactionController *controller.TransactionController,
	recurringController *controller.RecurringController,
	insightController *controller.InsightController,
	analysisRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:      healthController,
		transactionController: transactionController,
		recurringController:   recurringController,
		insightController:     insightController,
		analysisRateLimiter:   analysisRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Transaction ingestion routes
		if r.transactionController != nil {
			transactions := v1.Group("/transactions")
			{
				transactions.POST("", r.transactionController.Ingest)
			}
		}

		// Recurring pattern routes
		if r.recurringController != nil {
			recurring := v1.Group("/recurring")
			{
				recurring.GET("", r.recurringController.List)
				recurring.GET("/due-soon", r.recurringController.GetDueSoon)
				recurring.GET("/overdue", r.recurringController.GetOverdue)
				recurring.GET("/totals", r.recurringController.GetMonthlyTotals)
				recurring.PATCH("/:id", r.recurringController.Update)
				recurring.DELETE("/:id", r.recurringController.Deactivate)
				recurring.POST("/sweep", r.recurringController.TriggerSweep)

				// Batch analysis routes; the trigger is rate limited since
				// each run scans the full transaction window
				if r.analysisRateLimiter != nil {
					recurring.POST("/analyze", r.analysisRateLimiter.Middleware(), r.recurringController.TriggerAnalysis)
				} else {
					recurring.POST("/analyze", r.recurringController.TriggerAnalysis)
				}
				recurring.GET("/analyze/status", r.recurringController.GetAnalysisStatus)
			}
		}

		// AI insight routes
		if r.insightController != nil {
			insights := v1.Group("/insights")
			{
				insights.GET("/spending", r.insightController.GetSpendingInsight)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
