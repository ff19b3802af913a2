package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// ErrRejectedEvent marks a payment event that can never be recorded, no
// matter how often it is redelivered. The consumer routes these to the DLQ
// instead of retrying.
var ErrRejectedEvent = errors.New("payment event rejected")

// ProcessingService defines the interface for processing payment events.
type ProcessingService interface {
	ProcessPayment(ctx context.Context, event *shared.PaymentPostedEvent) error
}

// PaymentValidator validates payment events before they reach the ledger
type PaymentValidator interface {
	Validate(ctx context.Context, event *shared.PaymentPostedEvent) error
}

// LedgerRecorder writes venta movements for paid orders. The movement
// service satisfies it; the order id doubles as the ledger dedup key.
type LedgerRecorder interface {
	RecordPaidOrder(ctx context.Context, clientID int64, orderID string, amount decimal.Decimal, currency string, userID uuid.UUID, customerID *uuid.UUID) (*ledger.Movement, bool, error)
}
