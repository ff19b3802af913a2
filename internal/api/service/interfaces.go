// Package service implements the application services behind the REST API.
// Services validate through the domain constructors, coordinate repositories
// (with a transaction where a write spans rows) and stay free of transport
// concerns.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/debt"
	"github.com/retail-cash-ledger/internal/domain/expense"
	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/rate"
	"github.com/retail-cash-ledger/internal/domain/report"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// TxRunner runs a function inside a database transaction.
// *persistence.PostgresDB satisfies it.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// RecordMovementInput carries the fields of a manual movement write
type RecordMovementInput struct {
	ClientID   int64
	Type       shared.MovementType
	Amount     decimal.Decimal
	Currency   string
	UserID     uuid.UUID
	CustomerID *uuid.UUID
	SourceRef  *string
	Note       string
}

// MovementService defines the interface for cash movement operations
type MovementService interface {
	// Record converts the amount to the base currency and stores the movement.
	// Returns ErrDuplicateSourceRef when the dedup key is already taken.
	Record(ctx context.Context, input RecordMovementInput) (*ledger.Movement, error)

	// RecordPaidOrder records a venta movement for a paid order, with the order
	// id as sourceRef. The second return reports whether a movement was newly
	// created; a duplicate dedup key resolves to the existing movement with
	// created=false and no error, making redelivery and repair idempotent.
	RecordPaidOrder(ctx context.Context, clientID int64, orderID string, amount decimal.Decimal, currency string, userID uuid.UUID, customerID *uuid.UUID) (*ledger.Movement, bool, error)

	// Get retrieves a movement by id within the tenant
	Get(ctx context.Context, clientID int64, id uuid.UUID) (*ledger.Movement, error)

	// BySourceRef resolves the movement carrying the given dedup key.
	// Returns nil, nil when no movement references it.
	BySourceRef(ctx context.Context, clientID int64, sourceRef string) (*ledger.Movement, error)

	// List retrieves movements newest first, optionally filtered
	List(ctx context.Context, clientID int64, filter ledger.Filter, limit, offset int) ([]*ledger.Movement, error)

	// Reverse records the compensating movement for an existing one. This is
	// the only sanctioned way to undo a movement.
	Reverse(ctx context.Context, clientID int64, id uuid.UUID, userID uuid.UUID, note string) (*ledger.Movement, error)
}

// ExpenseService defines the interface for expense operations
type ExpenseService interface {
	Create(ctx context.Context, clientID int64, category string, amount decimal.Decimal, expenseDate time.Time, userID uuid.UUID) (*expense.Expense, error)

	// List returns expenses dated inside [from, to), newest first
	List(ctx context.Context, clientID int64, from, to time.Time, limit, offset int) ([]*expense.Expense, error)

	// Amend corrects category and/or amount; nil leaves a field unchanged
	Amend(ctx context.Context, clientID int64, id uuid.UUID, category *string, amount *decimal.Decimal) (*expense.Expense, error)

	Delete(ctx context.Context, clientID int64, id uuid.UUID) error
}

// PaymentResult is the outcome of applying a payment to a debt
type PaymentResult struct {
	Payment *debt.Payment      `json:"payment"`
	Debt    *debt.CustomerDebt `json:"debt"`
	// Excess is the portion of the payment above the debt's remaining balance
	Excess decimal.Decimal `json:"excess"`
}

// DebtService defines the interface for customer debt operations
type DebtService interface {
	CreateDebt(ctx context.Context, clientID int64, customerID uuid.UUID, amount decimal.Decimal, note string) (*debt.CustomerDebt, error)

	GetDebt(ctx context.Context, clientID int64, id uuid.UUID) (*debt.CustomerDebt, error)

	// ListDebts returns debts newest first; nil status returns all states
	ListDebts(ctx context.Context, clientID int64, status *shared.DebtStatus, limit, offset int) ([]*debt.CustomerDebt, error)

	// ApplyPayment records a payment and decrements the debt in one
	// transaction under a row lock. Terminal debts return ErrDebtClosed.
	ApplyPayment(ctx context.Context, clientID int64, debtID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, userID uuid.UUID) (*PaymentResult, error)

	// CancelDebt moves the debt to the cancelada terminal state
	CancelDebt(ctx context.Context, clientID int64, debtID uuid.UUID) (*debt.CustomerDebt, error)
}

// CashState is the real-time balance projection for one tenant's current day
type CashState struct {
	ClientID         int64           `json:"client_id"`
	TotalBalance     decimal.Decimal `json:"total_balance_usd"`
	DailySales       decimal.Decimal `json:"daily_sales_usd"`
	DailyExpenses    decimal.Decimal `json:"daily_expenses_usd"`
	TotalActiveDebts decimal.Decimal `json:"total_active_debts_usd"`
	LastUpdated      time.Time       `json:"last_updated"`
}

// CashStateService defines the interface for the balance projection
type CashStateService interface {
	// RealTimeState recomputes the projection from the latest committed state
	// on every call. No caching.
	RealTimeState(ctx context.Context, clientID int64) (*CashState, error)
}

// ReportService defines the interface for daily report operations
type ReportService interface {
	// Generate builds (or rebuilds) the report for the tenant's calendar date.
	// Regeneration replaces the existing row and snapshot, never duplicates.
	Generate(ctx context.Context, clientID int64, date time.Time, autoGenerated bool) (*report.DailyReport, error)

	GetByDate(ctx context.Context, clientID int64, date time.Time) (*report.DailyReport, error)

	// Snapshot returns the archived movement/expense/payment detail behind
	// the date's report
	Snapshot(ctx context.Context, clientID int64, date time.Time) (*report.Snapshot, error)
}

// RateService defines the interface for exchange rate operations
type RateService interface {
	// SetRate records a new administrator-entered rate for the currency
	SetRate(ctx context.Context, clientID int64, currency string, value decimal.Decimal, enteredBy uuid.UUID) (*rate.ExchangeRate, error)

	// CurrentRate returns the most recent rate entered for the currency
	CurrentRate(ctx context.Context, clientID int64, currency string) (*rate.ExchangeRate, error)

	// ToBase converts an amount into the base currency using the current
	// rate. The base currency converts by identity without a lookup.
	ToBase(ctx context.Context, clientID int64, amount decimal.Decimal, currency string) (decimal.Decimal, error)
}
