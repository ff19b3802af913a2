package rate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/shared"
)

var (
	ErrNonPositiveRate = errors.New("exchange rate must be positive")

	// ErrBaseCurrencyRate rejects entering a rate for the base currency,
	// whose conversion is identity.
	ErrBaseCurrencyRate = errors.New("base currency does not take an exchange rate")
)

// ExchangeRate is an administrator-entered conversion factor: one unit of
// Currency equals Rate units of the base currency. Rates are timestamped and
// append-only; a conversion always names the rate it used rather than
// reading an ambient constant.
type ExchangeRate struct {
	ID        uuid.UUID       `json:"id"`
	ClientID  int64           `json:"client_id"`
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	ValidFrom time.Time       `json:"valid_from"`
	EnteredBy uuid.UUID       `json:"entered_by"`
}

// NewExchangeRate validates and builds a rate entry
func NewExchangeRate(clientID int64, currency string, value decimal.Decimal, enteredBy uuid.UUID) (*ExchangeRate, error) {
	if clientID <= 0 {
		return nil, shared.ErrInvalidClientID
	}
	if !shared.KnownCurrency(currency) {
		return nil, shared.ErrUnknownCurrency
	}
	if !value.IsPositive() {
		return nil, ErrNonPositiveRate
	}

	return &ExchangeRate{
		ID:        uuid.New(),
		ClientID:  clientID,
		Currency:  currency,
		Rate:      value,
		ValidFrom: time.Now().UTC(),
		EnteredBy: enteredBy,
	}, nil
}

// ToBase converts an amount denominated in r.Currency into the base currency
func (r *ExchangeRate) ToBase(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Rate)
}

// Repository manages exchange rate persistence, scoped by clientID
type Repository interface {
	Create(ctx context.Context, r *ExchangeRate) error

	// Latest returns the most recent rate for the currency.
	// Returns ErrRateNotFound when the tenant has never entered one.
	Latest(ctx context.Context, clientID int64, currency string) (*ExchangeRate, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrRateNotFound indicates no rate has been entered for the currency
type ErrRateNotFound struct {
	Currency string
}

func (e ErrRateNotFound) Error() string {
	return "no exchange rate entered for currency: " + e.Currency
}

// Is implements the errors.Is interface for ErrRateNotFound
func (e ErrRateNotFound) Is(target error) bool {
	t, ok := target.(ErrRateNotFound)
	if !ok {
		return false
	}
	if t.Currency == "" {
		return true
	}
	return e.Currency == t.Currency
}
