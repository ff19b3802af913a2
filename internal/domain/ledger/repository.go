package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/shared"
)

var (
	ErrMissingUser    = errors.New("movement requires a recording user")
	ErrEmptySourceRef = errors.New("source ref cannot be blank")
)

// Filter narrows movement listings. Nil fields are ignored.
type Filter struct {
	Type *shared.MovementType
	From *time.Time
	To   *time.Time
}

// Repository manages cash movement persistence. Every operation is scoped by
// clientID; rows of one tenant are never visible to another.
type Repository interface {
	Create(ctx context.Context, movement *Movement) error
	GetByID(ctx context.Context, clientID int64, id uuid.UUID) (*Movement, error)

	// GetBySourceRef resolves the movement carrying the given dedup key.
	// Returns nil, nil when no movement references it.
	GetBySourceRef(ctx context.Context, clientID int64, sourceRef string) (*Movement, error)

	// List returns movements newest first, optionally filtered
	List(ctx context.Context, clientID int64, filter Filter, limit, offset int) ([]*Movement, error)

	// SumByTypes totals movement amounts of the given types inside [from, to)
	SumByTypes(ctx context.Context, clientID int64, types []shared.MovementType, from, to time.Time) (decimal.Decimal, error)

	// CountByWindow counts movements created inside [from, to)
	CountByWindow(ctx context.Context, clientID int64, from, to time.Time) (int64, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrMovementNotFound indicates a missing movement
type ErrMovementNotFound struct {
	MovementID uuid.UUID
}

func (e ErrMovementNotFound) Error() string {
	return "cash movement not found: " + e.MovementID.String()
}

// Is implements the errors.Is interface for ErrMovementNotFound
func (e ErrMovementNotFound) Is(target error) bool {
	t, ok := target.(ErrMovementNotFound)
	if !ok {
		return false
	}
	if t.MovementID == uuid.Nil {
		return true
	}
	return e.MovementID == t.MovementID
}

// ErrDuplicateSourceRef indicates the (clientID, sourceRef) dedup key is taken
type ErrDuplicateSourceRef struct {
	ClientID  int64
	SourceRef string
}

func (e ErrDuplicateSourceRef) Error() string {
	return fmt.Sprintf("movement already recorded for client %d source ref %s", e.ClientID, e.SourceRef)
}

// Is implements the errors.Is interface for ErrDuplicateSourceRef
func (e ErrDuplicateSourceRef) Is(target error) bool {
	t, ok := target.(ErrDuplicateSourceRef)
	if !ok {
		return false
	}
	if t.SourceRef == "" {
		return true
	}
	return e.ClientID == t.ClientID && e.SourceRef == t.SourceRef
}

// ErrAlreadyReversal indicates an attempt to reverse a compensating movement
type ErrAlreadyReversal struct {
	MovementID uuid.UUID
}

func (e ErrAlreadyReversal) Error() string {
	return "movement is itself a reversal: " + e.MovementID.String()
}

// Is implements the errors.Is interface for ErrAlreadyReversal
func (e ErrAlreadyReversal) Is(target error) bool {
	t, ok := target.(ErrAlreadyReversal)
	if !ok {
		return false
	}
	if t.MovementID == uuid.Nil {
		return true
	}
	return e.MovementID == t.MovementID
}
