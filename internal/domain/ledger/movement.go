package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/shared"
)

// Movement is a single dated monetary event in a tenant's cash ledger.
// Amounts are kept in the base currency; Currency records what the money
// actually arrived in. Movements are immutable once created: the only way
// to undo one is a compensating movement created with Reversal.
type Movement struct {
	ID         uuid.UUID           `json:"id"`
	ClientID   int64               `json:"client_id"`
	Type       shared.MovementType `json:"type"`
	Amount     decimal.Decimal     `json:"amount"`
	Currency   string              `json:"currency"`
	UserID     uuid.UUID           `json:"user_id"`
	CustomerID *uuid.UUID          `json:"customer_id,omitempty"`
	SourceRef  *string             `json:"source_ref,omitempty"`
	Note       string              `json:"note,omitempty"`
	ReversalOf *uuid.UUID          `json:"reversal_of,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`

	// UserName and CustomerName are read-model decorations resolved from
	// the directory on reads. They are never persisted with the movement.
	UserName     string `json:"user_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// NewMovement validates and builds a movement. The amount must already be
// converted to the base currency by the caller; it must be strictly positive
// here because direction is carried by the movement type.
func NewMovement(clientID int64, movementType shared.MovementType, amount decimal.Decimal, currency string, userID uuid.UUID, customerID *uuid.UUID, sourceRef *string, note string) (*Movement, error) {
	if clientID <= 0 {
		return nil, shared.ErrInvalidClientID
	}
	if !movementType.Valid() {
		return nil, shared.ErrInvalidMovementType
	}
	if !shared.KnownCurrency(currency) {
		return nil, shared.ErrUnknownCurrency
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if sourceRef != nil && strings.TrimSpace(*sourceRef) == "" {
		return nil, ErrEmptySourceRef
	}

	return &Movement{
		ID:         uuid.New(),
		ClientID:   clientID,
		Type:       movementType,
		Amount:     amount,
		Currency:   currency,
		UserID:     userID,
		CustomerID: customerID,
		SourceRef:  sourceRef,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Reversal builds the compensating movement for m: same type, negated amount,
// linked through ReversalOf so the audit trail stays navigable. A movement
// that is itself a reversal cannot be reversed again.
func (m *Movement) Reversal(userID uuid.UUID, note string) (*Movement, error) {
	if m.ReversalOf != nil {
		return nil, ErrAlreadyReversal{MovementID: m.ID}
	}
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}

	original := m.ID
	return &Movement{
		ID:         uuid.New(),
		ClientID:   m.ClientID,
		Type:       m.Type,
		Amount:     m.Amount.Neg(),
		Currency:   m.Currency,
		UserID:     userID,
		CustomerID: m.CustomerID,
		Note:       note,
		ReversalOf: &original,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IsIncome reports whether the movement counts toward income aggregates
func (m *Movement) IsIncome() bool {
	return m.Type == shared.MovementTypeVenta || m.Type == shared.MovementTypeIngreso
}
