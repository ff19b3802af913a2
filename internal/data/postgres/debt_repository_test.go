package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail-cash-ledger/internal/domain/debt"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

func testDebt(clientID int64) *debt.CustomerDebt {
	now := time.Now().UTC()
	return &debt.CustomerDebt{
		ID:              uuid.New(),
		ClientID:        clientID,
		CustomerID:      uuid.New(),
		OriginalAmount:  decimal.RequireFromString("500"),
		RemainingAmount: decimal.RequireFromString("300"),
		Status:          shared.DebtStatusVigente,
		Note:            "phone on installments",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func debtRow(d *debt.CustomerDebt) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "client_id", "customer_id", "original_amount", "remaining_amount", "status", "note", "created_at", "updated_at"}).
		AddRow(d.ID, d.ClientID, d.CustomerID, d.OriginalAmount, d.RemainingAmount, string(d.Status), d.Note, d.CreatedAt, d.UpdatedAt)
}

func TestDebtRepository_CreateDebt(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DebtRepository{querier: mock, logger: logger}
	d := testDebt(7)

	query := `
		INSERT INTO customer_debts \(id, client_id, customer_id, original_amount, remaining_amount, status, note, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(d.ID, d.ClientID, d.CustomerID, d.OriginalAmount, d.RemainingAmount, string(d.Status), d.Note, d.CreatedAt, d.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.CreateDebt(ctx, d)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(d.ID, d.ClientID, d.CustomerID, d.OriginalAmount, d.RemainingAmount, string(d.Status), d.Note, d.CreatedAt, d.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.CreateDebt(ctx, d)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create customer debt")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDebtRepository_GetDebt(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DebtRepository{querier: mock, logger: logger}
	expected := testDebt(7)

	query := `
		SELECT id, client_id, customer_id, original_amount, remaining_amount, status, note, created_at, updated_at
		FROM customer_debts WHERE client_id = \$1 AND id = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ClientID, expected.ID).WillReturnRows(debtRow(expected))

		d, err := repo.GetDebt(ctx, expected.ClientID, expected.ID)
		assert.NoError(t, err)
		assert.Equal(t, expected, d)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ClientID, expected.ID).WillReturnError(pgx.ErrNoRows)

		d, err := repo.GetDebt(ctx, expected.ClientID, expected.ID)
		assert.Error(t, err)
		assert.Nil(t, d)
		var notFoundErr debt.ErrDebtNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, expected.ID, notFoundErr.DebtID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDebtRepository_LockDebt(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DebtRepository{querier: mock, logger: logger}
	expected := testDebt(7)

	query := `
		SELECT id, client_id, customer_id, original_amount, remaining_amount, status, note, created_at, updated_at
		FROM customer_debts WHERE client_id = \$1 AND id = \$2 FOR UPDATE
	`

	mock.ExpectQuery(query).WithArgs(expected.ClientID, expected.ID).WillReturnRows(debtRow(expected))

	d, err := repo.LockDebt(ctx, expected.ClientID, expected.ID)
	assert.NoError(t, err)
	assert.Equal(t, expected, d)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepository_UpdateDebt(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DebtRepository{querier: mock, logger: logger}
	d := testDebt(7)

	query := `
		UPDATE customer_debts
		SET remaining_amount = \$1, status = \$2, updated_at = \$3
		WHERE client_id = \$4 AND id = \$5
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(d.RemainingAmount, string(d.Status), d.UpdatedAt, d.ClientID, d.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateDebt(ctx, d)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(d.RemainingAmount, string(d.Status), d.UpdatedAt, d.ClientID, d.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateDebt(ctx, d)
		assert.Error(t, err)
		assert.ErrorIs(t, err, debt.ErrDebtNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDebtRepository_CreatePayment(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DebtRepository{querier: mock, logger: logger}
	p := &debt.Payment{
		ID:          uuid.New(),
		DebtID:      uuid.New(),
		ClientID:    7,
		Amount:      decimal.RequireFromString("200"),
		PaymentDate: time.Now().UTC(),
		UserID:      uuid.New(),
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO debt_payments \(id, debt_id, client_id, amount, payment_date, user_id, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)
	`

	mock.ExpectExec(query).
		WithArgs(p.ID, p.DebtID, p.ClientID, p.Amount, p.PaymentDate, p.UserID, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.CreatePayment(ctx, p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepository_SumPaymentsByWindow(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DebtRepository{querier: mock, logger: logger}
	from := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	query := `
		SELECT COALESCE\(SUM\(amount\), 0\)
		FROM debt_payments
		WHERE client_id = \$1 AND payment_date >= \$2 AND payment_date < \$3
	`

	mock.ExpectQuery(query).
		WithArgs(int64(7), from, to).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("600")))

	total, err := repo.SumPaymentsByWindow(ctx, 7, from, to)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("600")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebtRepository_SumRemainingByStatus(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DebtRepository{querier: mock, logger: logger}

	query := `
		SELECT COALESCE\(SUM\(remaining_amount\), 0\)
		FROM customer_debts
		WHERE client_id = \$1 AND status = \$2
	`

	mock.ExpectQuery(query).
		WithArgs(int64(7), "vigente").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("1100")))

	total, err := repo.SumRemainingByStatus(ctx, 7, shared.DebtStatusVigente)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1100")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
