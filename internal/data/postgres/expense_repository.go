package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/expense"
	"github.com/retail-cash-ledger/internal/platform/persistence"
)

// ExpenseRepository implements the expense.Repository interface for PostgreSQL
type ExpenseRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewExpenseRepository creates a new PostgreSQL expense repository
func NewExpenseRepository(logger *slog.Logger, db *persistence.PostgresDB) expense.Repository {
	return &ExpenseRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *ExpenseRepository) WithTx(tx pgx.Tx) expense.Repository {
	return &ExpenseRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new expense
func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	query := `
		INSERT INTO expenses (id, client_id, category, amount, expense_date, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		exp.ID,
		exp.ClientID,
		exp.Category,
		exp.Amount,
		exp.ExpenseDate,
		exp.UserID,
		exp.CreatedAt,
		exp.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", "expense_id", exp.ID.String(), "client_id", exp.ClientID, "error", err)
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetByID retrieves an expense by id within the tenant
func (r *ExpenseRepository) GetByID(ctx context.Context, clientID int64, id uuid.UUID) (*expense.Expense, error) {
	query := `
		SELECT id, client_id, category, amount, expense_date, user_id, created_at, updated_at
		FROM expenses
		WHERE client_id = $1 AND id = $2
	`

	var exp expense.Expense
	err := r.querier.QueryRow(ctx, query, clientID, id).Scan(
		&exp.ID,
		&exp.ClientID,
		&exp.Category,
		&exp.Amount,
		&exp.ExpenseDate,
		&exp.UserID,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, expense.ErrExpenseNotFound{ExpenseID: id}
		}
		r.logger.Error("Failed to get expense", "expense_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return &exp, nil
}

// List retrieves expenses dated inside [from, to), newest first
func (r *ExpenseRepository) List(ctx context.Context, clientID int64, from, to time.Time, limit, offset int) ([]*expense.Expense, error) {
	query := `
		SELECT id, client_id, category, amount, expense_date, user_id, created_at, updated_at
		FROM expenses
		WHERE client_id = $1 AND expense_date >= $2 AND expense_date < $3
		ORDER BY expense_date DESC, created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.querier.Query(ctx, query, clientID, from, to, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list expenses", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	for rows.Next() {
		var exp expense.Expense
		err := rows.Scan(
			&exp.ID,
			&exp.ClientID,
			&exp.Category,
			&exp.Amount,
			&exp.ExpenseDate,
			&exp.UserID,
			&exp.CreatedAt,
			&exp.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan expense row", "client_id", clientID, "error", err)
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, &exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expense rows: %w", err)
	}

	return expenses, nil
}

// Update persists a corrected expense
func (r *ExpenseRepository) Update(ctx context.Context, exp *expense.Expense) error {
	query := `
		UPDATE expenses
		SET category = $1, amount = $2, updated_at = $3
		WHERE client_id = $4 AND id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		exp.Category,
		exp.Amount,
		exp.UpdatedAt,
		exp.ClientID,
		exp.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update expense", "expense_id", exp.ID.String(), "error", err)
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound{ExpenseID: exp.ID}
	}

	return nil
}

// Delete hard-deletes the expense row
func (r *ExpenseRepository) Delete(ctx context.Context, clientID int64, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE client_id = $1 AND id = $2`

	result, err := r.querier.Exec(ctx, query, clientID, id)
	if err != nil {
		r.logger.Error("Failed to delete expense", "expense_id", id.String(), "error", err)
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if result.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound{ExpenseID: id}
	}

	return nil
}

// SumByWindow totals expense amounts dated inside [from, to)
func (r *ExpenseRepository) SumByWindow(ctx context.Context, clientID int64, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE client_id = $1 AND expense_date >= $2 AND expense_date < $3
	`

	var total decimal.Decimal
	err := r.querier.QueryRow(ctx, query, clientID, from, to).Scan(&total)
	if err != nil {
		r.logger.Error("Failed to sum expenses", "client_id", clientID, "error", err)
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return total, nil
}
