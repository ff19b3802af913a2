package shared

import "errors"

var (
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrUnknownCurrency     = errors.New("unknown currency code")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidClientID     = errors.New("client id must be positive")
)

// MovementType defines the possible kinds of cash movements
type MovementType string

const (
	MovementTypeIngreso MovementType = "ingreso"
	MovementTypeEgreso  MovementType = "egreso"
	MovementTypeVenta   MovementType = "venta"
	MovementTypeAjuste  MovementType = "ajuste"
)

// Valid reports whether the type is one of the known movement types
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIngreso, MovementTypeEgreso, MovementTypeVenta, MovementTypeAjuste:
		return true
	}
	return false
}

// IncomeTypes are the movement types counted as income by the balance
// projection and the daily report generator.
func IncomeTypes() []MovementType {
	return []MovementType{MovementTypeVenta, MovementTypeIngreso}
}

// DebtStatus defines the customer debt lifecycle states
type DebtStatus string

const (
	DebtStatusVigente   DebtStatus = "vigente"
	DebtStatusPagada    DebtStatus = "pagada"
	DebtStatusCancelada DebtStatus = "cancelada"
)

// Valid reports whether the status is one of the known debt states
func (s DebtStatus) Valid() bool {
	switch s {
	case DebtStatusVigente, DebtStatusPagada, DebtStatusCancelada:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave the status.
// Both pagada and cancelada are terminal.
func (s DebtStatus) Terminal() bool {
	return s == DebtStatusPagada || s == DebtStatusCancelada
}

// Currencies the ledger accepts. Everything is converted to the base
// currency (USD) on write using an administrator-entered rate.
const (
	CurrencyUSD  = "USD"
	CurrencyARS  = "ARS"
	CurrencyUSDT = "USDT"
)

// KnownCurrency reports whether the code is one the ledger can convert
func KnownCurrency(code string) bool {
	switch code {
	case CurrencyUSD, CurrencyARS, CurrencyUSDT:
		return true
	}
	return false
}
