// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// strict tenant scoping for the cash ledger system.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/shared"
	"github.com/retail-cash-ledger/internal/platform/persistence"
)

const uniqueViolationCode = "23505"

// MovementRepository implements the ledger.Repository interface for PostgreSQL
type MovementRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewMovementRepository creates a new PostgreSQL cash movement repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewMovementRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &MovementRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so movement writes can share
// atomicity with other repository calls.
func (r *MovementRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &MovementRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new cash movement. The partial unique index on
// (client_id, source_ref) turns a dedup collision into ErrDuplicateSourceRef.
func (r *MovementRepository) Create(ctx context.Context, m *ledger.Movement) error {
	query := `
		INSERT INTO cash_movements (id, client_id, type, amount, currency, user_id, customer_id, source_ref, note, reversal_of, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		m.ID,
		m.ClientID,
		string(m.Type),
		m.Amount,
		m.Currency,
		m.UserID,
		m.CustomerID,
		m.SourceRef,
		m.Note,
		m.ReversalOf,
		m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && m.SourceRef != nil {
			return ledger.ErrDuplicateSourceRef{ClientID: m.ClientID, SourceRef: *m.SourceRef}
		}
		r.logger.Error("Failed to create cash movement", "movement_id", m.ID.String(), "client_id", m.ClientID, "error", err)
		return fmt.Errorf("failed to create cash movement: %w", err)
	}

	return nil
}

// GetByID retrieves a movement by id within the tenant
func (r *MovementRepository) GetByID(ctx context.Context, clientID int64, id uuid.UUID) (*ledger.Movement, error) {
	query := `
		SELECT id, client_id, type, amount, currency, user_id, customer_id, source_ref, note, reversal_of, created_at
		FROM cash_movements
		WHERE client_id = $1 AND id = $2
	`

	m, err := r.scanMovement(r.querier.QueryRow(ctx, query, clientID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrMovementNotFound{MovementID: id}
		}
		r.logger.Error("Failed to get cash movement", "movement_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get cash movement: %w", err)
	}

	return m, nil
}

// GetBySourceRef retrieves the movement holding the dedup key.
// Returns nil, nil when no movement references it.
func (r *MovementRepository) GetBySourceRef(ctx context.Context, clientID int64, sourceRef string) (*ledger.Movement, error) {
	query := `
		SELECT id, client_id, type, amount, currency, user_id, customer_id, source_ref, note, reversal_of, created_at
		FROM cash_movements
		WHERE client_id = $1 AND source_ref = $2
	`

	m, err := r.scanMovement(r.querier.QueryRow(ctx, query, clientID, sourceRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No movement carries this source ref
		}
		r.logger.Error("Failed to get cash movement by source ref", "client_id", clientID, "source_ref", sourceRef, "error", err)
		return nil, fmt.Errorf("failed to get cash movement by source ref: %w", err)
	}

	return m, nil
}

// List retrieves movements newest first, applying any filter fields set
func (r *MovementRepository) List(ctx context.Context, clientID int64, filter ledger.Filter, limit, offset int) ([]*ledger.Movement, error) {
	query := `
		SELECT id, client_id, type, amount, currency, user_id, customer_id, source_ref, note, reversal_of, created_at
		FROM cash_movements
		WHERE client_id = $1
		  AND ($2::text IS NULL OR type = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at < $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`

	var typeArg *string
	if filter.Type != nil {
		s := string(*filter.Type)
		typeArg = &s
	}

	rows, err := r.querier.Query(ctx, query, clientID, typeArg, filter.From, filter.To, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list cash movements", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to list cash movements: %w", err)
	}
	defer rows.Close()

	var movements []*ledger.Movement
	for rows.Next() {
		m, err := r.scanMovement(rows)
		if err != nil {
			r.logger.Error("Failed to scan cash movement row", "client_id", clientID, "error", err)
			return nil, fmt.Errorf("failed to scan cash movement row: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cash movement rows: %w", err)
	}

	return movements, nil
}

// SumByTypes totals amounts of the given movement types inside [from, to)
func (r *MovementRepository) SumByTypes(ctx context.Context, clientID int64, types []shared.MovementType, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM cash_movements
		WHERE client_id = $1 AND type = ANY($2) AND created_at >= $3 AND created_at < $4
	`

	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	var total decimal.Decimal
	err := r.querier.QueryRow(ctx, query, clientID, typeNames, from, to).Scan(&total)
	if err != nil {
		r.logger.Error("Failed to sum cash movements", "client_id", clientID, "error", err)
		return decimal.Zero, fmt.Errorf("failed to sum cash movements: %w", err)
	}

	return total, nil
}

// CountByWindow counts movements created inside [from, to)
func (r *MovementRepository) CountByWindow(ctx context.Context, clientID int64, from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM cash_movements
		WHERE client_id = $1 AND created_at >= $2 AND created_at < $3
	`

	var count int64
	err := r.querier.QueryRow(ctx, query, clientID, from, to).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count cash movements", "client_id", clientID, "error", err)
		return 0, fmt.Errorf("failed to count cash movements: %w", err)
	}

	return count, nil
}

func (r *MovementRepository) scanMovement(row pgx.Row) (*ledger.Movement, error) {
	var m ledger.Movement
	var movementType string
	err := row.Scan(
		&m.ID,
		&m.ClientID,
		&movementType,
		&m.Amount,
		&m.Currency,
		&m.UserID,
		&m.CustomerID,
		&m.SourceRef,
		&m.Note,
		&m.ReversalOf,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = shared.MovementType(movementType)
	return &m, nil
}
