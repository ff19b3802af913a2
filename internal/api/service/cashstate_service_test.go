package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

func TestCashStateServiceImpl_RealTimeState(t *testing.T) {
	ctx := context.Background()

	// Fixed clock: 2024-05-01 18:30 in Buenos Aires (UTC-3).
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	clock := time.Date(2024, 5, 1, 18, 30, 0, 0, loc)
	from, to := shared.DayWindow(clock, loc)

	newService := func(movements *MockMovementRepository, expenses *MockExpenseRepository, debts *MockDebtRepository) *CashStateServiceImpl {
		svc := NewCashStateService(testServiceLogger(), movements, expenses, debts, &config.LedgerConfig{
			Timezone:       "America/Argentina/Buenos_Aires",
			BaseCurrency:   "USD",
			OpeningBalance: "1000",
		})
		impl := svc.(*CashStateServiceImpl)
		impl.now = func() time.Time { return clock }
		return impl
	}

	t.Run("ProjectsCurrentLocalDay", func(t *testing.T) {
		mockMovements := new(MockMovementRepository)
		mockExpenses := new(MockExpenseRepository)
		mockDebts := new(MockDebtRepository)

		mockMovements.On("SumByTypes", mock.Anything, int64(1), shared.IncomeTypes(), from, to).
			Return(decimal.RequireFromString("540.00"), nil).Once()
		mockMovements.On("SumByTypes", mock.Anything, int64(1), []shared.MovementType{shared.MovementTypeVenta}, from, to).
			Return(decimal.RequireFromString("500.00"), nil).Once()
		mockExpenses.On("SumByWindow", mock.Anything, int64(1), from, to).
			Return(decimal.RequireFromString("120.00"), nil).Once()
		mockDebts.On("SumRemainingByStatus", mock.Anything, int64(1), shared.DebtStatusVigente).
			Return(decimal.RequireFromString("75.00"), nil).Once()

		svc := newService(mockMovements, mockExpenses, mockDebts)
		state, err := svc.RealTimeState(ctx, 1)

		require.NoError(t, err)
		assert.True(t, state.TotalBalance.Equal(decimal.RequireFromString("1420.00")))
		assert.True(t, state.DailySales.Equal(decimal.RequireFromString("500.00")))
		assert.True(t, state.DailyExpenses.Equal(decimal.RequireFromString("120.00")))
		assert.True(t, state.TotalActiveDebts.Equal(decimal.RequireFromString("75.00")))
		assert.Equal(t, clock.UTC(), state.LastUpdated)
		mockMovements.AssertExpectations(t)
		mockExpenses.AssertExpectations(t)
		mockDebts.AssertExpectations(t)
	})

	t.Run("InvalidClientID", func(t *testing.T) {
		svc := newService(new(MockMovementRepository), new(MockExpenseRepository), new(MockDebtRepository))

		_, err := svc.RealTimeState(ctx, 0)

		assert.ErrorIs(t, err, shared.ErrInvalidClientID)
	})

	t.Run("RepositoryFailurePropagates", func(t *testing.T) {
		mockMovements := new(MockMovementRepository)
		mockMovements.On("SumByTypes", mock.Anything, int64(1), shared.IncomeTypes(), from, to).
			Return(decimal.Zero, errors.New("database error")).Once()

		svc := newService(mockMovements, new(MockExpenseRepository), new(MockDebtRepository))
		_, err := svc.RealTimeState(ctx, 1)

		assert.Error(t, err)
		mockMovements.AssertExpectations(t)
	})
}

func TestNewCashStateService_InvalidOpeningBalanceFallsBackToZero(t *testing.T) {
	svc := NewCashStateService(testServiceLogger(), new(MockMovementRepository), new(MockExpenseRepository), new(MockDebtRepository), &config.LedgerConfig{
		Timezone:       "UTC",
		BaseCurrency:   "USD",
		OpeningBalance: "not-a-number",
	})

	impl := svc.(*CashStateServiceImpl)
	assert.True(t, impl.openingBalance.IsZero())
}
