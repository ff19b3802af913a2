package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentPostedEvent is the Kafka message published by the Orders/Payments
// subsystem when a payment posts against an order. The order id doubles as
// the ledger dedup key (sourceRef), so redelivery never creates a second
// movement.
type PaymentPostedEvent struct {
	OrderID       string          `json:"order_id"`
	ClientID      int64           `json:"client_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	UserID        uuid.UUID       `json:"user_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	PostedAt      time.Time       `json:"posted_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}
