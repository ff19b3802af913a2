package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testMovement(clientID int64) *ledger.Movement {
	ref := "order-1001"
	return &ledger.Movement{
		ID:        uuid.New(),
		ClientID:  clientID,
		Type:      shared.MovementTypeVenta,
		Amount:    decimal.RequireFromString("150.00"),
		Currency:  "USD",
		UserID:    uuid.New(),
		SourceRef: &ref,
		Note:      "iPhone 12 sale",
		CreatedAt: time.Now().UTC(),
	}
}

func TestMovementRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &MovementRepository{querier: mock, logger: logger}
	m := testMovement(7)

	query := `
		INSERT INTO cash_movements \(id, client_id, type, amount, currency, user_id, customer_id, source_ref, note, reversal_of, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(m.ID, m.ClientID, string(m.Type), m.Amount, m.Currency, m.UserID, m.CustomerID, m.SourceRef, m.Note, m.ReversalOf, m.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, m)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate source ref", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(m.ID, m.ClientID, string(m.Type), m.Amount, m.Currency, m.UserID, m.CustomerID, m.SourceRef, m.Note, m.ReversalOf, m.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

		err := repo.Create(ctx, m)
		assert.Error(t, err)
		var dupErr ledger.ErrDuplicateSourceRef
		assert.ErrorAs(t, err, &dupErr)
		assert.Equal(t, m.ClientID, dupErr.ClientID)
		assert.Equal(t, *m.SourceRef, dupErr.SourceRef)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(m.ID, m.ClientID, string(m.Type), m.Amount, m.Currency, m.UserID, m.CustomerID, m.SourceRef, m.Note, m.ReversalOf, m.CreatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, m)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create cash movement")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func movementColumns() []string {
	return []string{"id", "client_id", "type", "amount", "currency", "user_id", "customer_id", "source_ref", "note", "reversal_of", "created_at"}
}

func movementRow(m *ledger.Movement) *pgxmock.Rows {
	return pgxmock.NewRows(movementColumns()).
		AddRow(m.ID, m.ClientID, string(m.Type), m.Amount, m.Currency, m.UserID, m.CustomerID, m.SourceRef, m.Note, m.ReversalOf, m.CreatedAt)
}

func TestMovementRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &MovementRepository{querier: mock, logger: logger}
	expected := testMovement(7)

	query := `
		SELECT id, client_id, type, amount, currency, user_id, customer_id, source_ref, note, reversal_of, created_at
		FROM cash_movements
		WHERE client_id = \$1 AND id = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ClientID, expected.ID).WillReturnRows(movementRow(expected))

		m, err := repo.GetByID(ctx, expected.ClientID, expected.ID)
		assert.NoError(t, err)
		assert.Equal(t, expected, m)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ClientID, expected.ID).WillReturnError(pgx.ErrNoRows)

		m, err := repo.GetByID(ctx, expected.ClientID, expected.ID)
		assert.Error(t, err)
		assert.Nil(t, m)
		var notFoundErr ledger.ErrMovementNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, expected.ID, notFoundErr.MovementID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMovementRepository_GetBySourceRef(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &MovementRepository{querier: mock, logger: logger}
	expected := testMovement(7)

	query := `
		SELECT id, client_id, type, amount, currency, user_id, customer_id, source_ref, note, reversal_of, created_at
		FROM cash_movements
		WHERE client_id = \$1 AND source_ref = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ClientID, *expected.SourceRef).WillReturnRows(movementRow(expected))

		m, err := repo.GetBySourceRef(ctx, expected.ClientID, *expected.SourceRef)
		assert.NoError(t, err)
		assert.Equal(t, expected, m)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ClientID, "order-9999").WillReturnError(pgx.ErrNoRows)

		m, err := repo.GetBySourceRef(ctx, expected.ClientID, "order-9999")
		assert.NoError(t, err)
		assert.Nil(t, m)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(expected.ClientID, *expected.SourceRef).WillReturnError(expectedErr)

		m, err := repo.GetBySourceRef(ctx, expected.ClientID, *expected.SourceRef)
		assert.Error(t, err)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMovementRepository_List(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &MovementRepository{querier: mock, logger: logger}
	expected := testMovement(7)

	query := `
		SELECT id, client_id, type, amount, currency, user_id, customer_id, source_ref, note, reversal_of, created_at
		FROM cash_movements
		WHERE client_id = \$1
		  AND \(\$2::text IS NULL OR type = \$2\)
		  AND \(\$3::timestamptz IS NULL OR created_at >= \$3\)
		  AND \(\$4::timestamptz IS NULL OR created_at < \$4\)
		ORDER BY created_at DESC
		LIMIT \$5 OFFSET \$6
	`

	t.Run("unfiltered", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(expected.ClientID, (*string)(nil), (*time.Time)(nil), (*time.Time)(nil), 50, 0).
			WillReturnRows(movementRow(expected))

		movements, err := repo.List(ctx, expected.ClientID, ledger.Filter{}, 50, 0)
		assert.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, expected, movements[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered by type", func(t *testing.T) {
		movType := shared.MovementTypeVenta
		typeArg := string(movType)
		mock.ExpectQuery(query).
			WithArgs(expected.ClientID, &typeArg, (*time.Time)(nil), (*time.Time)(nil), 50, 0).
			WillReturnRows(movementRow(expected))

		movements, err := repo.List(ctx, expected.ClientID, ledger.Filter{Type: &movType}, 50, 0)
		assert.NoError(t, err)
		require.Len(t, movements, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(expected.ClientID, (*string)(nil), (*time.Time)(nil), (*time.Time)(nil), 50, 0).
			WillReturnError(expectedErr)

		movements, err := repo.List(ctx, expected.ClientID, ledger.Filter{}, 50, 0)
		assert.Error(t, err)
		assert.Nil(t, movements)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMovementRepository_SumByTypes(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &MovementRepository{querier: mock, logger: logger}
	from := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	query := `
		SELECT COALESCE\(SUM\(amount\), 0\)
		FROM cash_movements
		WHERE client_id = \$1 AND type = ANY\(\$2\) AND created_at >= \$3 AND created_at < \$4
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(7), []string{"venta", "ingreso"}, from, to).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("1250.50")))

		total, err := repo.SumByTypes(ctx, 7, shared.IncomeTypes(), from, to)
		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("1250.50")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(int64(7), []string{"venta", "ingreso"}, from, to).
			WillReturnError(expectedErr)

		total, err := repo.SumByTypes(ctx, 7, shared.IncomeTypes(), from, to)
		assert.Error(t, err)
		assert.True(t, total.IsZero())
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMovementRepository_CountByWindow(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &MovementRepository{querier: mock, logger: logger}
	from := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	query := `
		SELECT COUNT\(\*\)
		FROM cash_movements
		WHERE client_id = \$1 AND created_at >= \$2 AND created_at < \$3
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(7), from, to).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

		count, err := repo.CountByWindow(ctx, 7, from, to)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
