package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/domain/directory"
	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// MovementServiceImpl implements the MovementService interface
type MovementServiceImpl struct {
	movementRepo ledger.Repository
	rates        RateService
	directory    directory.Repository
	logger       *slog.Logger
}

// NewMovementService creates a new cash movement service
func NewMovementService(logger *slog.Logger, movementRepo ledger.Repository, rates RateService, directoryRepo directory.Repository) MovementService {
	return &MovementServiceImpl{
		movementRepo: movementRepo,
		rates:        rates,
		directory:    directoryRepo,
		logger:       logger,
	}
}

// Record converts the amount to the base currency and stores the movement.
// The referenced user and customer must exist in the tenant's directory.
func (s *MovementServiceImpl) Record(ctx context.Context, input RecordMovementInput) (*ledger.Movement, error) {
	if !shared.KnownCurrency(input.Currency) {
		return nil, shared.ErrUnknownCurrency
	}

	if input.UserID == uuid.Nil {
		return nil, ledger.ErrMissingUser
	}
	if _, err := s.directory.UserName(ctx, input.ClientID, input.UserID); err != nil {
		return nil, err
	}
	if input.CustomerID != nil {
		if _, err := s.directory.CustomerName(ctx, input.ClientID, *input.CustomerID); err != nil {
			return nil, err
		}
	}

	baseAmount, err := s.rates.ToBase(ctx, input.ClientID, input.Amount, input.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to convert movement amount: %w", err)
	}

	m, err := ledger.NewMovement(input.ClientID, input.Type, baseAmount, input.Currency,
		input.UserID, input.CustomerID, input.SourceRef, input.Note)
	if err != nil {
		return nil, err
	}

	if err := s.movementRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Cash movement recorded",
		"movement_id", m.ID.String(),
		"client_id", m.ClientID,
		"type", string(m.Type),
		"amount", m.Amount.String(),
		"currency", m.Currency,
	)
	return m, nil
}

// RecordPaidOrder records a venta movement for a paid order. A dedup key
// collision resolves to the already-recorded movement: the Kafka consumer
// hits this on redelivery, the reconciler on a repair race.
func (s *MovementServiceImpl) RecordPaidOrder(ctx context.Context, clientID int64, orderID string, amount decimal.Decimal, currency string, userID uuid.UUID, customerID *uuid.UUID) (*ledger.Movement, bool, error) {
	sourceRef := orderID
	m, err := s.Record(ctx, RecordMovementInput{
		ClientID:   clientID,
		Type:       shared.MovementTypeVenta,
		Amount:     amount,
		Currency:   currency,
		UserID:     userID,
		CustomerID: customerID,
		SourceRef:  &sourceRef,
		Note:       "sale for order " + orderID,
	})
	if err == nil {
		return m, true, nil
	}

	if errors.Is(err, ledger.ErrDuplicateSourceRef{}) {
		existing, lookupErr := s.movementRepo.GetBySourceRef(ctx, clientID, orderID)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		s.logger.Debug("Paid order already recorded",
			"client_id", clientID,
			"order_id", orderID,
		)
		return existing, false, nil
	}

	return nil, false, err
}

// Get retrieves a movement by id within the tenant
func (s *MovementServiceImpl) Get(ctx context.Context, clientID int64, id uuid.UUID) (*ledger.Movement, error) {
	m, err := s.movementRepo.GetByID(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	s.decorateNames(ctx, clientID, []*ledger.Movement{m})
	return m, nil
}

// BySourceRef resolves the movement carrying the given dedup key
func (s *MovementServiceImpl) BySourceRef(ctx context.Context, clientID int64, sourceRef string) (*ledger.Movement, error) {
	return s.movementRepo.GetBySourceRef(ctx, clientID, sourceRef)
}

// List retrieves movements newest first, optionally filtered
func (s *MovementServiceImpl) List(ctx context.Context, clientID int64, filter ledger.Filter, limit, offset int) ([]*ledger.Movement, error) {
	movements, err := s.movementRepo.List(ctx, clientID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	s.decorateNames(ctx, clientID, movements)
	return movements, nil
}

// decorateNames stamps user and customer display names onto the movements.
// Names are a read-model decoration: resolution failure leaves the bare ids
// rather than failing the read.
func (s *MovementServiceImpl) decorateNames(ctx context.Context, clientID int64, movements []*ledger.Movement) {
	if len(movements) == 0 {
		return
	}

	userSeen := make(map[uuid.UUID]struct{})
	customerSeen := make(map[uuid.UUID]struct{})
	var userIDs, customerIDs []uuid.UUID
	for _, m := range movements {
		if _, ok := userSeen[m.UserID]; !ok {
			userSeen[m.UserID] = struct{}{}
			userIDs = append(userIDs, m.UserID)
		}
		if m.CustomerID != nil {
			if _, ok := customerSeen[*m.CustomerID]; !ok {
				customerSeen[*m.CustomerID] = struct{}{}
				customerIDs = append(customerIDs, *m.CustomerID)
			}
		}
	}

	users, err := s.directory.UserNames(ctx, clientID, userIDs)
	if err != nil {
		s.logger.Warn("User name resolution failed, returning bare ids", "client_id", clientID, "error", err)
		return
	}
	customers := map[uuid.UUID]string{}
	if len(customerIDs) > 0 {
		customers, err = s.directory.CustomerNames(ctx, clientID, customerIDs)
		if err != nil {
			s.logger.Warn("Customer name resolution failed, returning bare ids", "client_id", clientID, "error", err)
			customers = map[uuid.UUID]string{}
		}
	}

	for _, m := range movements {
		m.UserName = users[m.UserID]
		if m.CustomerID != nil {
			m.CustomerName = customers[*m.CustomerID]
		}
	}
}

// Reverse records the compensating movement for an existing one
func (s *MovementServiceImpl) Reverse(ctx context.Context, clientID int64, id uuid.UUID, userID uuid.UUID, note string) (*ledger.Movement, error) {
	original, err := s.movementRepo.GetByID(ctx, clientID, id)
	if err != nil {
		return nil, err
	}

	if userID == uuid.Nil {
		return nil, ledger.ErrMissingUser
	}
	if _, err := s.directory.UserName(ctx, clientID, userID); err != nil {
		return nil, err
	}

	reversal, err := original.Reversal(userID, note)
	if err != nil {
		return nil, err
	}

	if err := s.movementRepo.Create(ctx, reversal); err != nil {
		return nil, err
	}

	s.logger.Info("Cash movement reversed",
		"movement_id", id.String(),
		"reversal_id", reversal.ID.String(),
		"client_id", clientID,
	)
	return reversal, nil
}
