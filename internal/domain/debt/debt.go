package debt

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/shared"
)

var (
	// ErrDebtClosed indicates a write against a debt in a terminal state
	ErrDebtClosed = errors.New("debt is in a terminal state")

	ErrMissingCustomer = errors.New("debt requires a customer")
)

// CustomerDebt is an amount a customer owes a tenant, reduced only by
// recorded payments. RemainingAmount never goes below zero and only this
// package's methods move Status; once pagada or cancelada nothing leaves
// that state.
type CustomerDebt struct {
	ID              uuid.UUID         `json:"id"`
	ClientID        int64             `json:"client_id"`
	CustomerID      uuid.UUID         `json:"customer_id"`
	OriginalAmount  decimal.Decimal   `json:"original_amount"`
	RemainingAmount decimal.Decimal   `json:"remaining_amount"`
	Status          shared.DebtStatus `json:"status"`
	Note            string            `json:"note,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// CustomerName is a read-model decoration resolved from the directory
	// on reads, never persisted.
	CustomerName string `json:"customer_name,omitempty"`
}

// Payment is an append-only record of money received against a debt. The
// recorded amount is what the customer actually handed over, even when it
// exceeds the remaining balance; clamping happens on the debt, not here.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	DebtID      uuid.UUID       `json:"debt_id"`
	ClientID    int64           `json:"client_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	UserID      uuid.UUID       `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewDebt validates and builds a debt in the vigente state
func NewDebt(clientID int64, customerID uuid.UUID, originalAmount decimal.Decimal, note string) (*CustomerDebt, error) {
	if clientID <= 0 {
		return nil, shared.ErrInvalidClientID
	}
	if customerID == uuid.Nil {
		return nil, ErrMissingCustomer
	}
	if !originalAmount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}

	now := time.Now().UTC()
	return &CustomerDebt{
		ID:              uuid.New(),
		ClientID:        clientID,
		CustomerID:      customerID,
		OriginalAmount:  originalAmount,
		RemainingAmount: originalAmount,
		Status:          shared.DebtStatusVigente,
		Note:            note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ApplyPayment reduces the remaining balance by amount, clamping at zero.
// The excess above the remaining balance is returned so callers can surface
// it; it is never silently absorbed. Status flips to pagada exactly when the
// balance reaches zero. Terminal debts reject payments with ErrDebtClosed.
func (d *CustomerDebt) ApplyPayment(amount decimal.Decimal) (decimal.Decimal, error) {
	if d.Status.Terminal() {
		return decimal.Zero, ErrDebtClosed
	}
	if !amount.IsPositive() {
		return decimal.Zero, shared.ErrInvalidAmount
	}

	excess := decimal.Zero
	if amount.GreaterThan(d.RemainingAmount) {
		excess = amount.Sub(d.RemainingAmount)
		d.RemainingAmount = decimal.Zero
	} else {
		d.RemainingAmount = d.RemainingAmount.Sub(amount)
	}

	if d.RemainingAmount.IsZero() {
		d.Status = shared.DebtStatusPagada
	}
	d.UpdatedAt = time.Now().UTC()

	return excess, nil
}

// Cancel moves the debt to the cancelada terminal state. Only an explicit
// administrative action reaches this state, never a payment.
func (d *CustomerDebt) Cancel() error {
	if d.Status.Terminal() {
		return ErrDebtClosed
	}
	d.Status = shared.DebtStatusCancelada
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// NewPayment validates and builds a payment record
func NewPayment(debtID uuid.UUID, clientID int64, amount decimal.Decimal, paymentDate time.Time, userID uuid.UUID) (*Payment, error) {
	if debtID == uuid.Nil {
		return nil, errors.New("payment requires a debt")
	}
	if clientID <= 0 {
		return nil, shared.ErrInvalidClientID
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	if userID == uuid.Nil {
		return nil, errors.New("payment requires a recording user")
	}

	return &Payment{
		ID:          uuid.New(),
		DebtID:      debtID,
		ClientID:    clientID,
		Amount:      amount,
		PaymentDate: paymentDate,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
