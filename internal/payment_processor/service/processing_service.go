package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/retail-cash-ledger/internal/domain/directory"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

type ProcessingServiceImpl struct {
	validator PaymentValidator
	recorder  LedgerRecorder
	logger    *slog.Logger
}

func NewProcessingService(
	validator PaymentValidator,
	recorder LedgerRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		validator: validator,
		recorder:  recorder,
		logger:    logger,
	}
}

// ProcessPayment records the venta movement for a posted payment. Redelivery
// of an already-recorded order is success: the dedup key resolves to the
// existing movement.
func (s *ProcessingServiceImpl) ProcessPayment(ctx context.Context, event *shared.PaymentPostedEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Processing posted payment",
		"order_id", event.OrderID,
		"client_id", event.ClientID,
		"amount", event.Amount.String(),
		"currency", event.Currency,
	)

	if err := s.validator.Validate(ctx, event); err != nil {
		logger.Error("Payment event validation failed", "order_id", event.OrderID, "error", err)
		return fmt.Errorf("%w: %s", ErrRejectedEvent, err.Error())
	}

	movement, created, err := s.recorder.RecordPaidOrder(ctx, event.ClientID, event.OrderID,
		event.Amount, event.Currency, event.UserID, event.CustomerID)
	if err != nil {
		// An event referencing a user or customer the tenant does not have
		// will never succeed on redelivery.
		if errors.Is(err, directory.ErrUserNotFound{}) || errors.Is(err, directory.ErrCustomerNotFound{}) {
			logger.Error("Payment event references unknown directory entry", "order_id", event.OrderID, "error", err)
			return fmt.Errorf("%w: %s", ErrRejectedEvent, err.Error())
		}
		// Transient failures propagate so Kafka redelivers
		return fmt.Errorf("recording paid order %s failed: %w", event.OrderID, err)
	}

	if !created {
		logger.Info("Payment already recorded, acknowledging redelivery",
			"order_id", event.OrderID,
			"movement_id", movement.ID.String(),
		)
		return nil
	}

	logger.Info("Recorded sale for posted payment",
		"order_id", event.OrderID,
		"movement_id", movement.ID.String(),
		"amount", movement.Amount.String(),
	)
	return nil
}
