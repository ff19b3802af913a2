package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/directory"
	"github.com/retail-cash-ledger/internal/domain/expense"
)

// ExpenseServiceImpl implements the ExpenseService interface
type ExpenseServiceImpl struct {
	expenseRepo expense.Repository
	directory   directory.Repository
	logger      *slog.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(logger *slog.Logger, expenseRepo expense.Repository, directoryRepo directory.Repository) ExpenseService {
	return &ExpenseServiceImpl{
		expenseRepo: expenseRepo,
		directory:   directoryRepo,
		logger:      logger,
	}
}

// Create validates and stores a new expense. The recording user must exist
// in the tenant's directory.
func (s *ExpenseServiceImpl) Create(ctx context.Context, clientID int64, category string, amount decimal.Decimal, expenseDate time.Time, userID uuid.UUID) (*expense.Expense, error) {
	exp, err := expense.NewExpense(clientID, category, amount, expenseDate, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.directory.UserName(ctx, clientID, userID); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Create(ctx, exp); err != nil {
		return nil, err
	}

	s.logger.Info("Expense recorded",
		"expense_id", exp.ID.String(),
		"client_id", clientID,
		"category", category,
		"amount", amount.String(),
	)
	return exp, nil
}

// List returns expenses dated inside [from, to), newest first, with the
// recording users' display names stamped on
func (s *ExpenseServiceImpl) List(ctx context.Context, clientID int64, from, to time.Time, limit, offset int) ([]*expense.Expense, error) {
	expenses, err := s.expenseRepo.List(ctx, clientID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	s.decorateNames(ctx, clientID, expenses)
	return expenses, nil
}

// decorateNames is a read-model decoration; resolution failure leaves the
// bare ids rather than failing the read.
func (s *ExpenseServiceImpl) decorateNames(ctx context.Context, clientID int64, expenses []*expense.Expense) {
	if len(expenses) == 0 {
		return
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, e := range expenses {
		if _, ok := seen[e.UserID]; !ok {
			seen[e.UserID] = struct{}{}
			ids = append(ids, e.UserID)
		}
	}

	names, err := s.directory.UserNames(ctx, clientID, ids)
	if err != nil {
		s.logger.Warn("User name resolution failed, returning bare ids", "client_id", clientID, "error", err)
		return
	}
	for _, e := range expenses {
		e.UserName = names[e.UserID]
	}
}

// Amend corrects category and/or amount on an existing expense
func (s *ExpenseServiceImpl) Amend(ctx context.Context, clientID int64, id uuid.UUID, category *string, amount *decimal.Decimal) (*expense.Expense, error) {
	exp, err := s.expenseRepo.GetByID(ctx, clientID, id)
	if err != nil {
		return nil, err
	}

	if err := exp.Amend(category, amount); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Update(ctx, exp); err != nil {
		return nil, err
	}

	s.logger.Info("Expense amended", "expense_id", id.String(), "client_id", clientID)
	return exp, nil
}

// Delete hard-deletes the expense
func (s *ExpenseServiceImpl) Delete(ctx context.Context, clientID int64, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, clientID, id); err != nil {
		return err
	}

	s.logger.Info("Expense deleted", "expense_id", id.String(), "client_id", clientID)
	return nil
}
