package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/domain/debt"
	"github.com/retail-cash-ledger/internal/domain/expense"
	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// CashStateServiceImpl implements the CashStateService interface
type CashStateServiceImpl struct {
	movementRepo   ledger.Repository
	expenseRepo    expense.Repository
	debtRepo       debt.Repository
	location       *time.Location
	openingBalance decimal.Decimal
	logger         *slog.Logger
	now            func() time.Time
}

// NewCashStateService creates a new balance projection service. The opening
// balance string comes from configuration and is validated at load time.
func NewCashStateService(logger *slog.Logger, movementRepo ledger.Repository, expenseRepo expense.Repository, debtRepo debt.Repository, ledgerCfg *config.LedgerConfig) CashStateService {
	opening, err := decimal.NewFromString(ledgerCfg.OpeningBalance)
	if err != nil {
		logger.Warn("Invalid opening balance in configuration, using zero",
			"opening_balance", ledgerCfg.OpeningBalance,
		)
		opening = decimal.Zero
	}

	return &CashStateServiceImpl{
		movementRepo:   movementRepo,
		expenseRepo:    expenseRepo,
		debtRepo:       debtRepo,
		location:       ledgerCfg.Location(),
		openingBalance: opening,
		logger:         logger,
		now:            time.Now,
	}
}

// RealTimeState recomputes the projection for the tenant's current local day.
// Every call reads the latest committed state; nothing is cached.
func (s *CashStateServiceImpl) RealTimeState(ctx context.Context, clientID int64) (*CashState, error) {
	if clientID <= 0 {
		return nil, shared.ErrInvalidClientID
	}

	now := s.now()
	from, to := shared.DayWindow(now, s.location)

	income, err := s.movementRepo.SumByTypes(ctx, clientID, shared.IncomeTypes(), from, to)
	if err != nil {
		return nil, err
	}

	sales, err := s.movementRepo.SumByTypes(ctx, clientID, []shared.MovementType{shared.MovementTypeVenta}, from, to)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.SumByWindow(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	activeDebts, err := s.debtRepo.SumRemainingByStatus(ctx, clientID, shared.DebtStatusVigente)
	if err != nil {
		return nil, err
	}

	return &CashState{
		ClientID:         clientID,
		TotalBalance:     s.openingBalance.Add(income).Sub(expenses),
		DailySales:       sales,
		DailyExpenses:    expenses,
		TotalActiveDebts: activeDebts,
		LastUpdated:      now.UTC(),
	}, nil
}
