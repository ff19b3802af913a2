package components

import (
	"log/slog"

	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/payment_processor/service"
)

// CreateProcessingService creates a new ProcessingService with all its dependencies.
func CreateProcessingService(
	recorder service.LedgerRecorder,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewPaymentValidator(logger)

	baseService := service.NewProcessingService(
		validator,
		recorder,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
