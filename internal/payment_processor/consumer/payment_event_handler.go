package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/retail-cash-ledger/internal/domain/shared"
	"github.com/retail-cash-ledger/internal/payment_processor/service"
	"github.com/retail-cash-ledger/internal/platform/messaging/producers"
)

// PaymentEventHandler handles incoming payment.posted messages from Kafka
type PaymentEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewPaymentEventHandler creates a new handler
func NewPaymentEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *PaymentEventHandler {
	return &PaymentEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *PaymentEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.PaymentPostedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal payment event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)
		return h.sendToDLQ(ctx, key, value, fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error()), err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received payment event for processing",
		"order_id", event.OrderID,
		"client_id", event.ClientID,
		"amount", event.Amount.String(),
		"currency", event.Currency,
	)

	if err := h.processingService.ProcessPayment(ctx, &event); err != nil {
		if errors.Is(err, service.ErrRejectedEvent) {
			// Permanently unprocessable; retrying cannot help
			logger.Error("Payment event rejected", "order_id", event.OrderID, "error", err)
			return h.sendToDLQ(ctx, key, value, err.Error(), err)
		}

		logger.Error("Failed to process payment event",
			"order_id", event.OrderID,
			"client_id", event.ClientID,
			"error", err,
		)
		return fmt.Errorf("processing payment for order %s failed: %w", event.OrderID, err)
	}

	logger.Info("Successfully processed payment event", "order_id", event.OrderID)
	return nil // Success, commit offset
}

// sendToDLQ routes a poison message to the dead letter topic. Returns nil
// when the DLQ accepted the message so the offset commits; without a
// producer, or when the DLQ write fails, the original error propagates and
// Kafka retries.
func (h *PaymentEventHandler) sendToDLQ(ctx context.Context, key []byte, value []byte, reason string, originalErr error) error {
	if h.producer == nil {
		return fmt.Errorf("unprocessable payment message: %w", originalErr)
	}

	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", originalErr,
			"message_key", string(key),
		)
		return fmt.Errorf("unprocessable payment message: %w", originalErr)
	}

	h.logger.Info("Successfully published unprocessable message to DLQ",
		"message_key", string(key),
		"reason", reason,
	)
	return nil
}
