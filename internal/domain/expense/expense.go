package expense

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/shared"
)

var ErrEmptyCategory = errors.New("expense category cannot be empty")

// Expense is an operating cost charged against a tenant's day. Unlike cash
// movements, expenses are correctable and hard-deletable: there is no audit
// requirement on them.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    int64           `json:"client_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	UserID      uuid.UUID       `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// UserName is a read-model decoration resolved from the directory on
	// reads, never persisted.
	UserName string `json:"user_name,omitempty"`
}

// NewExpense validates and builds an expense
func NewExpense(clientID int64, category string, amount decimal.Decimal, expenseDate time.Time, userID uuid.UUID) (*Expense, error) {
	if clientID <= 0 {
		return nil, shared.ErrInvalidClientID
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrEmptyCategory
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	if userID == uuid.Nil {
		return nil, errors.New("expense requires a recording user")
	}

	now := time.Now().UTC()
	return &Expense{
		ID:          uuid.New(),
		ClientID:    clientID,
		Category:    category,
		Amount:      amount,
		ExpenseDate: expenseDate,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Amend corrects category and/or amount. Nil arguments leave the field as is.
func (e *Expense) Amend(category *string, amount *decimal.Decimal) error {
	if category != nil {
		if strings.TrimSpace(*category) == "" {
			return ErrEmptyCategory
		}
		e.Category = *category
	}
	if amount != nil {
		if !amount.IsPositive() {
			return shared.ErrInvalidAmount
		}
		e.Amount = *amount
	}
	e.UpdatedAt = time.Now().UTC()
	return nil
}
