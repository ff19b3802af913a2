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

	"github.com/retail-cash-ledger/internal/domain/debt"
	"github.com/retail-cash-ledger/internal/domain/shared"
	"github.com/retail-cash-ledger/internal/platform/persistence"
)

// DebtRepository implements the debt.Repository interface for PostgreSQL
type DebtRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewDebtRepository creates a new PostgreSQL debt repository
func NewDebtRepository(logger *slog.Logger, db *persistence.PostgresDB) debt.Repository {
	return &DebtRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction. Payment application relies
// on this so LockDebt, CreatePayment and UpdateDebt share one transaction.
func (r *DebtRepository) WithTx(tx pgx.Tx) debt.Repository {
	return &DebtRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// CreateDebt stores a new customer debt
func (r *DebtRepository) CreateDebt(ctx context.Context, d *debt.CustomerDebt) error {
	query := `
		INSERT INTO customer_debts (id, client_id, customer_id, original_amount, remaining_amount, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		d.ID,
		d.ClientID,
		d.CustomerID,
		d.OriginalAmount,
		d.RemainingAmount,
		string(d.Status),
		d.Note,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create customer debt", "debt_id", d.ID.String(), "client_id", d.ClientID, "error", err)
		return fmt.Errorf("failed to create customer debt: %w", err)
	}

	return nil
}

// GetDebt retrieves a debt by id within the tenant
func (r *DebtRepository) GetDebt(ctx context.Context, clientID int64, id uuid.UUID) (*debt.CustomerDebt, error) {
	query := debtSelect + ` WHERE client_id = $1 AND id = $2`
	return r.queryDebt(ctx, query, clientID, id)
}

// LockDebt retrieves the debt under FOR UPDATE, serializing concurrent
// payments against it. Must run inside a transaction via WithTx.
func (r *DebtRepository) LockDebt(ctx context.Context, clientID int64, id uuid.UUID) (*debt.CustomerDebt, error) {
	query := debtSelect + ` WHERE client_id = $1 AND id = $2 FOR UPDATE`
	return r.queryDebt(ctx, query, clientID, id)
}

const debtSelect = `
		SELECT id, client_id, customer_id, original_amount, remaining_amount, status, note, created_at, updated_at
		FROM customer_debts`

func (r *DebtRepository) queryDebt(ctx context.Context, query string, clientID int64, id uuid.UUID) (*debt.CustomerDebt, error) {
	var d debt.CustomerDebt
	var status string
	err := r.querier.QueryRow(ctx, query, clientID, id).Scan(
		&d.ID,
		&d.ClientID,
		&d.CustomerID,
		&d.OriginalAmount,
		&d.RemainingAmount,
		&status,
		&d.Note,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, debt.ErrDebtNotFound{DebtID: id}
		}
		r.logger.Error("Failed to get customer debt", "debt_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get customer debt: %w", err)
	}
	d.Status = shared.DebtStatus(status)

	return &d, nil
}

// ListDebts retrieves debts newest first, optionally filtered by status
func (r *DebtRepository) ListDebts(ctx context.Context, clientID int64, status *shared.DebtStatus, limit, offset int) ([]*debt.CustomerDebt, error) {
	query := debtSelect + `
		WHERE client_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.querier.Query(ctx, query, clientID, statusArg, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list customer debts", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to list customer debts: %w", err)
	}
	defer rows.Close()

	var debts []*debt.CustomerDebt
	for rows.Next() {
		var d debt.CustomerDebt
		var st string
		err := rows.Scan(
			&d.ID,
			&d.ClientID,
			&d.CustomerID,
			&d.OriginalAmount,
			&d.RemainingAmount,
			&st,
			&d.Note,
			&d.CreatedAt,
			&d.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan customer debt row", "client_id", clientID, "error", err)
			return nil, fmt.Errorf("failed to scan customer debt row: %w", err)
		}
		d.Status = shared.DebtStatus(st)
		debts = append(debts, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customer debt rows: %w", err)
	}

	return debts, nil
}

// UpdateDebt persists remaining amount and status after a lifecycle change
func (r *DebtRepository) UpdateDebt(ctx context.Context, d *debt.CustomerDebt) error {
	query := `
		UPDATE customer_debts
		SET remaining_amount = $1, status = $2, updated_at = $3
		WHERE client_id = $4 AND id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		d.RemainingAmount,
		string(d.Status),
		d.UpdatedAt,
		d.ClientID,
		d.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update customer debt", "debt_id", d.ID.String(), "error", err)
		return fmt.Errorf("failed to update customer debt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return debt.ErrDebtNotFound{DebtID: d.ID}
	}

	return nil
}

// CreatePayment stores a new debt payment
func (r *DebtRepository) CreatePayment(ctx context.Context, p *debt.Payment) error {
	query := `
		INSERT INTO debt_payments (id, debt_id, client_id, amount, payment_date, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		p.ID,
		p.DebtID,
		p.ClientID,
		p.Amount,
		p.PaymentDate,
		p.UserID,
		p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create debt payment", "payment_id", p.ID.String(), "debt_id", p.DebtID.String(), "error", err)
		return fmt.Errorf("failed to create debt payment: %w", err)
	}

	return nil
}

// ListPaymentsByWindow retrieves payments dated inside [from, to), newest first
func (r *DebtRepository) ListPaymentsByWindow(ctx context.Context, clientID int64, from, to time.Time, limit, offset int) ([]*debt.Payment, error) {
	query := `
		SELECT id, debt_id, client_id, amount, payment_date, user_id, created_at
		FROM debt_payments
		WHERE client_id = $1 AND payment_date >= $2 AND payment_date < $3
		ORDER BY payment_date DESC, created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.querier.Query(ctx, query, clientID, from, to, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list debt payments", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to list debt payments: %w", err)
	}
	defer rows.Close()

	var payments []*debt.Payment
	for rows.Next() {
		var p debt.Payment
		err := rows.Scan(
			&p.ID,
			&p.DebtID,
			&p.ClientID,
			&p.Amount,
			&p.PaymentDate,
			&p.UserID,
			&p.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan debt payment row", "client_id", clientID, "error", err)
			return nil, fmt.Errorf("failed to scan debt payment row: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read debt payment rows: %w", err)
	}

	return payments, nil
}

// SumPaymentsByWindow totals payment amounts dated inside [from, to)
func (r *DebtRepository) SumPaymentsByWindow(ctx context.Context, clientID int64, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM debt_payments
		WHERE client_id = $1 AND payment_date >= $2 AND payment_date < $3
	`

	var total decimal.Decimal
	err := r.querier.QueryRow(ctx, query, clientID, from, to).Scan(&total)
	if err != nil {
		r.logger.Error("Failed to sum debt payments", "client_id", clientID, "error", err)
		return decimal.Zero, fmt.Errorf("failed to sum debt payments: %w", err)
	}

	return total, nil
}

// SumRemainingByStatus totals remaining amounts over debts in the status
func (r *DebtRepository) SumRemainingByStatus(ctx context.Context, clientID int64, status shared.DebtStatus) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(remaining_amount), 0)
		FROM customer_debts
		WHERE client_id = $1 AND status = $2
	`

	var total decimal.Decimal
	err := r.querier.QueryRow(ctx, query, clientID, string(status)).Scan(&total)
	if err != nil {
		r.logger.Error("Failed to sum remaining debt", "client_id", clientID, "status", string(status), "error", err)
		return decimal.Zero, fmt.Errorf("failed to sum remaining debt: %w", err)
	}

	return total, nil
}
