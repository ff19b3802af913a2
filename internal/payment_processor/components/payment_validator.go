package components

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/retail-cash-ledger/internal/domain/shared"
	"github.com/retail-cash-ledger/internal/payment_processor/service"
)

// ErrMissingOrderID indicates a payment event without an order reference.
// The order id is the ledger dedup key, so the event cannot be recorded.
var ErrMissingOrderID = errors.New("payment event carries no order id")

// ErrMissingUserID indicates a payment event without the employee who took
// the payment
var ErrMissingUserID = errors.New("payment event carries no user id")

type PaymentValidatorImpl struct {
	logger *slog.Logger
}

func NewPaymentValidator(logger *slog.Logger) service.PaymentValidator {
	return &PaymentValidatorImpl{
		logger: logger,
	}
}

// Validate checks payment event validity
func (v *PaymentValidatorImpl) Validate(ctx context.Context, event *shared.PaymentPostedEvent) error {
	logger := v.logger
	if event.CorrelationID != "" {
		logger = v.logger.With("correlation_id", event.CorrelationID)
	}

	if event.OrderID == "" {
		logger.Error("Payment event without order id", "client_id", event.ClientID)
		return ErrMissingOrderID
	}

	if event.ClientID <= 0 {
		logger.Error("Invalid client id", "order_id", event.OrderID, "client_id", event.ClientID)
		return shared.ErrInvalidClientID
	}

	if !event.Amount.IsPositive() {
		logger.Error("Invalid amount", "order_id", event.OrderID, "amount", event.Amount.String())
		return shared.ErrInvalidAmount
	}

	if !shared.KnownCurrency(event.Currency) {
		logger.Error("Unknown currency", "order_id", event.OrderID, "currency", event.Currency)
		return shared.ErrUnknownCurrency
	}

	if event.UserID == uuid.Nil {
		logger.Error("Payment event without user id", "order_id", event.OrderID)
		return ErrMissingUserID
	}

	return nil
}
