package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/retail-cash-ledger/internal/api"
	"github.com/retail-cash-ledger/internal/api/service"
	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/data/mongo"
	"github.com/retail-cash-ledger/internal/data/postgres"
	"github.com/retail-cash-ledger/internal/logger"
	"github.com/retail-cash-ledger/internal/platform/persistence"
	"github.com/retail-cash-ledger/internal/reconciler"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	movementRepo := postgres.NewMovementRepository(log, postgresDB)
	expenseRepo := postgres.NewExpenseRepository(log, postgresDB)
	debtRepo := postgres.NewDebtRepository(log, postgresDB)
	reportRepo := postgres.NewReportRepository(log, postgresDB)
	rateRepo := postgres.NewRateRepository(log, postgresDB)
	snapshotRepo := mongo.NewSnapshotRepository(log, mongoDB.Database())
	directoryRepo := postgres.NewDirectoryRepository(log, postgresDB)
	ordersReader := postgres.NewOrdersReader(log, postgresDB)

	// Initialize services
	rateService := service.NewRateService(log, rateRepo, &cfg.Ledger)
	movementService := service.NewMovementService(log, movementRepo, rateService, directoryRepo)
	expenseService := service.NewExpenseService(log, expenseRepo, directoryRepo)
	debtService := service.NewDebtService(log, debtRepo, directoryRepo, postgresDB)
	cashStateService := service.NewCashStateService(log, movementRepo, expenseRepo, debtRepo, &cfg.Ledger)
	reportService := service.NewReportService(log, movementRepo, expenseRepo, debtRepo, reportRepo, snapshotRepo, directoryRepo, &cfg.Ledger)

	// Initialize the reconciliation monitor
	monitor := reconciler.NewMonitor(log, movementService, ordersReader, &cfg.Reconciler, &cfg.Ledger)

	// Initialize REST server
	server := api.NewServer(log, cfg, api.Services{
		Movements: movementService,
		Expenses:  expenseService,
		Debts:     debtService,
		CashState: cashStateService,
		Reports:   reportService,
		Rates:     rateService,
	}, monitor)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Stop all reconciliation loops and wait for in-flight cycles
	monitor.StopAll()

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
