package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/retail-cash-ledger/internal/domain/orders"
	"github.com/retail-cash-ledger/internal/platform/persistence"
)

// OrdersReader implements orders.Reader over the orders/order_payments
// collaborator tables. Read-only: reconciliation never touches the
// authoritative order record.
type OrdersReader struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOrdersReader creates a new PostgreSQL paid-order reader
func NewOrdersReader(logger *slog.Logger, db *persistence.PostgresDB) orders.Reader {
	return &OrdersReader{
		querier: db.Pool(),
		logger:  logger,
	}
}

// PaidOrders returns orders with a payment posted inside [from, to), oldest
// first. The join guarantees only orders with a recorded payment appear.
func (r *OrdersReader) PaidOrders(ctx context.Context, clientID int64, from, to time.Time, limit int) ([]*orders.PaidOrder, error) {
	query := `
		SELECT o.id, o.client_id, p.amount, p.currency, o.user_id, o.customer_id, p.paid_at
		FROM orders o
		JOIN order_payments p ON p.order_id = o.id
		WHERE o.client_id = $1 AND p.paid_at >= $2 AND p.paid_at < $3
		ORDER BY p.paid_at ASC
		LIMIT $4`

	rows, err := r.querier.Query(ctx, query, clientID, from, to, limit)
	if err != nil {
		r.logger.Error("Failed to list paid orders", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to list paid orders: %w", err)
	}
	defer rows.Close()

	var result []*orders.PaidOrder
	for rows.Next() {
		var o orders.PaidOrder
		if err := rows.Scan(&o.OrderID, &o.ClientID, &o.Amount, &o.Currency, &o.UserID, &o.CustomerID, &o.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan paid order row: %w", err)
		}
		result = append(result, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read paid order rows: %w", err)
	}

	return result, nil
}
