package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retail-cash-ledger/internal/api/handler"
	"github.com/retail-cash-ledger/internal/api/service"
	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/reconciler"
)

// Services bundles the application services the HTTP surface exposes
type Services struct {
	Movements service.MovementService
	Expenses  service.ExpenseService
	Debts     service.DebtService
	CashState service.CashStateService
	Reports   service.ReportService
	Rates     service.RateService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services Services, monitor *reconciler.Monitor) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()
	location := cfg.Ledger.Location()

	movementHandler := handler.NewMovementHandler(log, services.Movements, location)
	expenseHandler := handler.NewExpenseHandler(log, services.Expenses, location)
	debtHandler := handler.NewDebtHandler(log, services.Debts, location)
	cashStateHandler := handler.NewCashStateHandler(log, services.CashState)
	reportHandler := handler.NewReportHandler(log, services.Reports, location)
	rateHandler := handler.NewRateHandler(log, services.Rates)
	autoSyncHandler := handler.NewAutoSyncHandler(log, monitor)

	setupRouter(log, httpRouter, movementHandler, expenseHandler, debtHandler,
		cashStateHandler, reportHandler, rateHandler, autoSyncHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	// Use server's write timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
