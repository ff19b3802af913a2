package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/retail-cash-ledger/internal/domain/directory"
	"github.com/retail-cash-ledger/internal/platform/persistence"
)

// DirectoryRepository implements directory.Repository over the Users and
// Customers collaborator tables. Read-only by construction: no write methods.
type DirectoryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewDirectoryRepository creates a new PostgreSQL directory repository
func NewDirectoryRepository(logger *slog.Logger, db *persistence.PostgresDB) directory.Repository {
	return &DirectoryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// UserName resolves a user display name within the tenant
func (r *DirectoryRepository) UserName(ctx context.Context, clientID int64, userID uuid.UUID) (string, error) {
	query := `SELECT display_name FROM users WHERE client_id = $1 AND id = $2`

	var name string
	err := r.querier.QueryRow(ctx, query, clientID, userID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", directory.ErrUserNotFound{UserID: userID}
		}
		r.logger.Error("Failed to resolve user name", "client_id", clientID, "user_id", userID.String(), "error", err)
		return "", fmt.Errorf("failed to resolve user name: %w", err)
	}

	return name, nil
}

// CustomerName resolves a customer display name within the tenant
func (r *DirectoryRepository) CustomerName(ctx context.Context, clientID int64, customerID uuid.UUID) (string, error) {
	query := `SELECT display_name FROM customers WHERE client_id = $1 AND id = $2`

	var name string
	err := r.querier.QueryRow(ctx, query, clientID, customerID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", directory.ErrCustomerNotFound{CustomerID: customerID}
		}
		r.logger.Error("Failed to resolve customer name", "client_id", clientID, "customer_id", customerID.String(), "error", err)
		return "", fmt.Errorf("failed to resolve customer name: %w", err)
	}

	return name, nil
}

// UserNames bulk-resolves user display names within the tenant
func (r *DirectoryRepository) UserNames(ctx context.Context, clientID int64, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return r.names(ctx, `SELECT id, display_name FROM users WHERE client_id = $1 AND id = ANY($2)`, clientID, ids)
}

// CustomerNames bulk-resolves customer display names within the tenant
func (r *DirectoryRepository) CustomerNames(ctx context.Context, clientID int64, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return r.names(ctx, `SELECT id, display_name FROM customers WHERE client_id = $1 AND id = ANY($2)`, clientID, ids)
}

func (r *DirectoryRepository) names(ctx context.Context, query string, clientID int64, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	result := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.querier.Query(ctx, query, clientID, ids)
	if err != nil {
		r.logger.Error("Failed to bulk-resolve display names", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to bulk-resolve display names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan display name row: %w", err)
		}
		result[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read display name rows: %w", err)
	}

	return result, nil
}
