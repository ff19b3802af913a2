package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/retail-cash-ledger/internal/domain/debt"
	"github.com/retail-cash-ledger/internal/domain/expense"
	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/rate"
	"github.com/retail-cash-ledger/internal/domain/report"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// fakeTxRunner executes the function directly without a real transaction
type fakeTxRunner struct{}

func (fakeTxRunner) ExecuteTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *ledger.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) GetByID(ctx context.Context, clientID int64, id uuid.UUID) (*ledger.Movement, error) {
	args := m.Called(ctx, clientID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) GetBySourceRef(ctx context.Context, clientID int64, sourceRef string) (*ledger.Movement, error) {
	args := m.Called(ctx, clientID, sourceRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) List(ctx context.Context, clientID int64, filter ledger.Filter, limit, offset int) ([]*ledger.Movement, error) {
	args := m.Called(ctx, clientID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Movement), args.Error(1)
}

func (m *MockMovementRepository) SumByTypes(ctx context.Context, clientID int64, types []shared.MovementType, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, clientID, types, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMovementRepository) CountByWindow(ctx context.Context, clientID int64, from, to time.Time) (int64, error) {
	args := m.Called(ctx, clientID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) WithTx(tx pgx.Tx) ledger.Repository {
	args := m.Called(tx)
	return args.Get(0).(ledger.Repository)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, clientID int64, id uuid.UUID) (*expense.Expense, error) {
	args := m.Called(ctx, clientID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) List(ctx context.Context, clientID int64, from, to time.Time, limit, offset int) ([]*expense.Expense, error) {
	args := m.Called(ctx, clientID, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*expense.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Update(ctx context.Context, exp *expense.Expense) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, clientID int64, id uuid.UUID) error {
	args := m.Called(ctx, clientID, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) SumByWindow(ctx context.Context, clientID int64, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, clientID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) WithTx(tx pgx.Tx) expense.Repository {
	args := m.Called(tx)
	return args.Get(0).(expense.Repository)
}

type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) CreateDebt(ctx context.Context, d *debt.CustomerDebt) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDebtRepository) GetDebt(ctx context.Context, clientID int64, id uuid.UUID) (*debt.CustomerDebt, error) {
	args := m.Called(ctx, clientID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*debt.CustomerDebt), args.Error(1)
}

func (m *MockDebtRepository) LockDebt(ctx context.Context, clientID int64, id uuid.UUID) (*debt.CustomerDebt, error) {
	args := m.Called(ctx, clientID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*debt.CustomerDebt), args.Error(1)
}

func (m *MockDebtRepository) ListDebts(ctx context.Context, clientID int64, status *shared.DebtStatus, limit, offset int) ([]*debt.CustomerDebt, error) {
	args := m.Called(ctx, clientID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*debt.CustomerDebt), args.Error(1)
}

func (m *MockDebtRepository) UpdateDebt(ctx context.Context, d *debt.CustomerDebt) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDebtRepository) CreatePayment(ctx context.Context, p *debt.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockDebtRepository) ListPaymentsByWindow(ctx context.Context, clientID int64, from, to time.Time, limit, offset int) ([]*debt.Payment, error) {
	args := m.Called(ctx, clientID, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*debt.Payment), args.Error(1)
}

func (m *MockDebtRepository) SumPaymentsByWindow(ctx context.Context, clientID int64, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, clientID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDebtRepository) SumRemainingByStatus(ctx context.Context, clientID int64, status shared.DebtStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, clientID, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDebtRepository) WithTx(tx pgx.Tx) debt.Repository {
	args := m.Called(tx)
	return args.Get(0).(debt.Repository)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Upsert(ctx context.Context, r *report.DailyReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepository) GetByDate(ctx context.Context, clientID int64, reportDate time.Time) (*report.DailyReport, error) {
	args := m.Called(ctx, clientID, reportDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DailyReport), args.Error(1)
}

func (m *MockReportRepository) GetLatestBefore(ctx context.Context, clientID int64, reportDate time.Time) (*report.DailyReport, error) {
	args := m.Called(ctx, clientID, reportDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DailyReport), args.Error(1)
}

func (m *MockReportRepository) WithTx(tx pgx.Tx) report.Repository {
	args := m.Called(tx)
	return args.Get(0).(report.Repository)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Replace(ctx context.Context, snap *report.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetByDate(ctx context.Context, clientID int64, reportDate string) (*report.Snapshot, error) {
	args := m.Called(ctx, clientID, reportDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Snapshot), args.Error(1)
}

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) Create(ctx context.Context, r *rate.ExchangeRate) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRateRepository) Latest(ctx context.Context, clientID int64, currency string) (*rate.ExchangeRate, error) {
	args := m.Called(ctx, clientID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rate.ExchangeRate), args.Error(1)
}

func (m *MockRateRepository) WithTx(tx pgx.Tx) rate.Repository {
	args := m.Called(tx)
	return args.Get(0).(rate.Repository)
}

type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) SetRate(ctx context.Context, clientID int64, currency string, value decimal.Decimal, enteredBy uuid.UUID) (*rate.ExchangeRate, error) {
	args := m.Called(ctx, clientID, currency, value, enteredBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rate.ExchangeRate), args.Error(1)
}

func (m *MockRateService) CurrentRate(ctx context.Context, clientID int64, currency string) (*rate.ExchangeRate, error) {
	args := m.Called(ctx, clientID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rate.ExchangeRate), args.Error(1)
}

func (m *MockRateService) ToBase(ctx context.Context, clientID int64, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	args := m.Called(ctx, clientID, amount, currency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// knownDirectory returns a directory mock that resolves every id, for tests
// exercising paths other than the existence checks
func knownDirectory() *MockDirectoryRepository {
	dir := new(MockDirectoryRepository)
	dir.On("UserName", mock.Anything, mock.Anything, mock.Anything).Return("Lucia Fernandez", nil).Maybe()
	dir.On("CustomerName", mock.Anything, mock.Anything, mock.Anything).Return("Marcos Paz", nil).Maybe()
	dir.On("UserNames", mock.Anything, mock.Anything, mock.Anything).Return(map[uuid.UUID]string{}, nil).Maybe()
	dir.On("CustomerNames", mock.Anything, mock.Anything, mock.Anything).Return(map[uuid.UUID]string{}, nil).Maybe()
	return dir
}

type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) UserName(ctx context.Context, clientID int64, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, clientID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockDirectoryRepository) CustomerName(ctx context.Context, clientID int64, customerID uuid.UUID) (string, error) {
	args := m.Called(ctx, clientID, customerID)
	return args.String(0), args.Error(1)
}

func (m *MockDirectoryRepository) UserNames(ctx context.Context, clientID int64, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, clientID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

func (m *MockDirectoryRepository) CustomerNames(ctx context.Context, clientID int64, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, clientID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}
