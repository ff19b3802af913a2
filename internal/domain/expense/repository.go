package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository manages expense persistence, scoped by clientID
type Repository interface {
	Create(ctx context.Context, exp *Expense) error
	GetByID(ctx context.Context, clientID int64, id uuid.UUID) (*Expense, error)

	// List returns expenses with expense dates inside [from, to), newest first
	List(ctx context.Context, clientID int64, from, to time.Time, limit, offset int) ([]*Expense, error)

	Update(ctx context.Context, exp *Expense) error

	// Delete removes the expense row. Hard delete is allowed here.
	Delete(ctx context.Context, clientID int64, id uuid.UUID) error

	// SumByWindow totals expense amounts with expense dates inside [from, to)
	SumByWindow(ctx context.Context, clientID int64, from, to time.Time) (decimal.Decimal, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrExpenseNotFound indicates a missing expense
type ErrExpenseNotFound struct {
	ExpenseID uuid.UUID
}

func (e ErrExpenseNotFound) Error() string {
	return "expense not found: " + e.ExpenseID.String()
}

// Is implements the errors.Is interface for ErrExpenseNotFound
func (e ErrExpenseNotFound) Is(target error) bool {
	t, ok := target.(ErrExpenseNotFound)
	if !ok {
		return false
	}
	if t.ExpenseID == uuid.Nil {
		return true
	}
	return e.ExpenseID == t.ExpenseID
}
