package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/debt"
	"github.com/retail-cash-ledger/internal/domain/directory"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// DebtServiceImpl implements the DebtService interface
type DebtServiceImpl struct {
	debtRepo  debt.Repository
	directory directory.Repository
	tx        TxRunner
	logger    *slog.Logger
}

// NewDebtService creates a new customer debt service
func NewDebtService(logger *slog.Logger, debtRepo debt.Repository, directoryRepo directory.Repository, tx TxRunner) DebtService {
	return &DebtServiceImpl{
		debtRepo:  debtRepo,
		directory: directoryRepo,
		tx:        tx,
		logger:    logger,
	}
}

// CreateDebt validates and stores a new debt in the vigente state. The
// customer must exist in the tenant's directory.
func (s *DebtServiceImpl) CreateDebt(ctx context.Context, clientID int64, customerID uuid.UUID, amount decimal.Decimal, note string) (*debt.CustomerDebt, error) {
	d, err := debt.NewDebt(clientID, customerID, amount, note)
	if err != nil {
		return nil, err
	}

	if _, err := s.directory.CustomerName(ctx, clientID, customerID); err != nil {
		return nil, err
	}

	if err := s.debtRepo.CreateDebt(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Customer debt created",
		"debt_id", d.ID.String(),
		"client_id", clientID,
		"customer_id", customerID.String(),
		"amount", amount.String(),
	)
	return d, nil
}

// GetDebt retrieves a debt by id within the tenant
func (s *DebtServiceImpl) GetDebt(ctx context.Context, clientID int64, id uuid.UUID) (*debt.CustomerDebt, error) {
	d, err := s.debtRepo.GetDebt(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	s.decorateNames(ctx, clientID, []*debt.CustomerDebt{d})
	return d, nil
}

// ListDebts returns debts newest first with customer display names stamped
// on; nil status returns all states
func (s *DebtServiceImpl) ListDebts(ctx context.Context, clientID int64, status *shared.DebtStatus, limit, offset int) ([]*debt.CustomerDebt, error) {
	debts, err := s.debtRepo.ListDebts(ctx, clientID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	s.decorateNames(ctx, clientID, debts)
	return debts, nil
}

// decorateNames is a read-model decoration; resolution failure leaves the
// bare ids rather than failing the read.
func (s *DebtServiceImpl) decorateNames(ctx context.Context, clientID int64, debts []*debt.CustomerDebt) {
	if len(debts) == 0 {
		return
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, d := range debts {
		if _, ok := seen[d.CustomerID]; !ok {
			seen[d.CustomerID] = struct{}{}
			ids = append(ids, d.CustomerID)
		}
	}

	names, err := s.directory.CustomerNames(ctx, clientID, ids)
	if err != nil {
		s.logger.Warn("Customer name resolution failed, returning bare ids", "client_id", clientID, "error", err)
		return
	}
	for _, d := range debts {
		d.CustomerName = names[d.CustomerID]
	}
}

// ApplyPayment records a payment and decrements the debt atomically. The debt
// row is locked for the duration of the transaction so concurrent payments
// serialize; the payment row keeps the full handed-over amount while the debt
// clamps at zero, with the excess surfaced in the result.
func (s *DebtServiceImpl) ApplyPayment(ctx context.Context, clientID int64, debtID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, userID uuid.UUID) (*PaymentResult, error) {
	if _, err := s.directory.UserName(ctx, clientID, userID); err != nil {
		return nil, err
	}

	var result *PaymentResult

	err := s.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.debtRepo.WithTx(tx)

		d, err := repo.LockDebt(ctx, clientID, debtID)
		if err != nil {
			return err
		}

		excess, err := d.ApplyPayment(amount)
		if err != nil {
			return err
		}

		p, err := debt.NewPayment(debtID, clientID, amount, paymentDate, userID)
		if err != nil {
			return err
		}

		if err := repo.CreatePayment(ctx, p); err != nil {
			return err
		}
		if err := repo.UpdateDebt(ctx, d); err != nil {
			return err
		}

		result = &PaymentResult{Payment: p, Debt: d, Excess: excess}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Debt payment applied",
		"debt_id", debtID.String(),
		"client_id", clientID,
		"amount", amount.String(),
		"remaining", result.Debt.RemainingAmount.String(),
		"status", string(result.Debt.Status),
		"excess", result.Excess.String(),
	)
	return result, nil
}

// CancelDebt moves the debt to the cancelada terminal state
func (s *DebtServiceImpl) CancelDebt(ctx context.Context, clientID int64, debtID uuid.UUID) (*debt.CustomerDebt, error) {
	var cancelled *debt.CustomerDebt

	err := s.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.debtRepo.WithTx(tx)

		d, err := repo.LockDebt(ctx, clientID, debtID)
		if err != nil {
			return err
		}

		if err := d.Cancel(); err != nil {
			return err
		}

		if err := repo.UpdateDebt(ctx, d); err != nil {
			return err
		}

		cancelled = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer debt cancelled", "debt_id", debtID.String(), "client_id", clientID)
	return cancelled, nil
}
