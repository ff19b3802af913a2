// Package orders exposes the Orders/Payments collaborator at its interface
// boundary: read-only access to orders with a recorded payment. Order ids are
// stable and double as the ledger dedup key (sourceRef) during reconciliation.
package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaidOrder is an order whose payment has posted in the authoritative record
type PaidOrder struct {
	OrderID    string
	ClientID   int64
	Amount     decimal.Decimal
	Currency   string
	UserID     uuid.UUID
	CustomerID *uuid.UUID
	PaidAt     time.Time
}

// Reader lists paid orders for reconciliation
type Reader interface {
	// PaidOrders returns orders with a payment posted inside [from, to),
	// oldest first, up to limit rows.
	PaidOrders(ctx context.Context, clientID int64, from, to time.Time, limit int) ([]*PaidOrder, error)
}
