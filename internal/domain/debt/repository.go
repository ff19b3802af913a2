package debt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/shared"
)

// Repository manages debt and payment persistence, scoped by clientID.
// LockDebt must run inside a transaction (via WithTx) so the payment insert
// and the remaining-amount update commit or roll back together.
type Repository interface {
	CreateDebt(ctx context.Context, d *CustomerDebt) error
	GetDebt(ctx context.Context, clientID int64, id uuid.UUID) (*CustomerDebt, error)

	// LockDebt acquires a row lock on the debt for the duration of the
	// surrounding transaction, serializing concurrent payments.
	LockDebt(ctx context.Context, clientID int64, id uuid.UUID) (*CustomerDebt, error)

	// ListDebts returns debts newest first; a nil status returns all states
	ListDebts(ctx context.Context, clientID int64, status *shared.DebtStatus, limit, offset int) ([]*CustomerDebt, error)

	// UpdateDebt persists remaining amount and status after a lifecycle change
	UpdateDebt(ctx context.Context, d *CustomerDebt) error

	CreatePayment(ctx context.Context, p *Payment) error

	// ListPaymentsByWindow returns payments dated inside [from, to), newest first
	ListPaymentsByWindow(ctx context.Context, clientID int64, from, to time.Time, limit, offset int) ([]*Payment, error)

	// SumPaymentsByWindow totals payment amounts dated inside [from, to)
	SumPaymentsByWindow(ctx context.Context, clientID int64, from, to time.Time) (decimal.Decimal, error)

	// SumRemainingByStatus totals remaining amounts over debts in the status
	SumRemainingByStatus(ctx context.Context, clientID int64, status shared.DebtStatus) (decimal.Decimal, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrDebtNotFound indicates a missing debt
type ErrDebtNotFound struct {
	DebtID uuid.UUID
}

func (e ErrDebtNotFound) Error() string {
	return "customer debt not found: " + e.DebtID.String()
}

// Is implements the errors.Is interface for ErrDebtNotFound
func (e ErrDebtNotFound) Is(target error) bool {
	t, ok := target.(ErrDebtNotFound)
	if !ok {
		return false
	}
	if t.DebtID == uuid.Nil {
		return true
	}
	return e.DebtID == t.DebtID
}
