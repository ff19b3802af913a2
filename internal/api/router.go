package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retail-cash-ledger/internal/api/handler"
	"github.com/retail-cash-ledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	movementHandler *handler.MovementHandler,
	expenseHandler *handler.ExpenseHandler,
	debtHandler *handler.DebtHandler,
	cashStateHandler *handler.CashStateHandler,
	reportHandler *handler.ReportHandler,
	rateHandler *handler.RateHandler,
	autoSyncHandler *handler.AutoSyncHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Cash movement operations
		movements := v1.Group("/cash-movements")
		{
			movements.POST("", movementHandler.Create)
			movements.GET("", movementHandler.List)
			movements.GET("/:id", movementHandler.GetByID)
			movements.POST("/:id/reverse", movementHandler.Reverse)
		}

		// Expense operations
		expenses := v1.Group("/expenses")
		{
			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.List)
			expenses.PATCH("/:id", expenseHandler.Amend)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		// Customer debt operations
		debts := v1.Group("/customer-debts")
		{
			debts.POST("", debtHandler.Create)
			debts.GET("", debtHandler.List)
			debts.GET("/:id", debtHandler.GetByID)
			debts.POST("/:id/cancel", debtHandler.Cancel)
		}
		v1.POST("/debt-payments", debtHandler.ApplyPayment)

		// Real-time cash state projection
		v1.GET("/cash/realtime-state", cashStateHandler.RealTimeState)

		// Daily report operations
		reports := v1.Group("/daily-reports")
		{
			reports.POST("/generate", reportHandler.Generate)
			reports.GET("", reportHandler.GetByDate)
			reports.GET("/snapshot", reportHandler.GetSnapshot)
		}

		// Reconciliation loop controls
		autoSync := v1.Group("/auto-sync")
		{
			autoSync.POST("/start", autoSyncHandler.Start)
			autoSync.POST("/stop", autoSyncHandler.Stop)
			autoSync.GET("/status", autoSyncHandler.Status)
		}

		// Exchange rate operations
		rates := v1.Group("/exchange-rates")
		{
			rates.PUT("", rateHandler.Set)
			rates.GET("", rateHandler.Current)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
