package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/domain/rate"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// RateServiceImpl implements the RateService interface
type RateServiceImpl struct {
	rateRepo     rate.Repository
	baseCurrency string
	logger       *slog.Logger
}

// NewRateService creates a new exchange rate service
func NewRateService(logger *slog.Logger, rateRepo rate.Repository, ledgerCfg *config.LedgerConfig) RateService {
	return &RateServiceImpl{
		rateRepo:     rateRepo,
		baseCurrency: ledgerCfg.BaseCurrency,
		logger:       logger,
	}
}

// SetRate records a new administrator-entered rate for the currency
func (s *RateServiceImpl) SetRate(ctx context.Context, clientID int64, currency string, value decimal.Decimal, enteredBy uuid.UUID) (*rate.ExchangeRate, error) {
	if currency == s.baseCurrency {
		return nil, rate.ErrBaseCurrencyRate
	}

	er, err := rate.NewExchangeRate(clientID, currency, value, enteredBy)
	if err != nil {
		return nil, err
	}

	if err := s.rateRepo.Create(ctx, er); err != nil {
		return nil, err
	}

	s.logger.Info("Exchange rate entered",
		"client_id", clientID,
		"currency", currency,
		"rate", value.String(),
		"entered_by", enteredBy.String(),
	)
	return er, nil
}

// CurrentRate returns the most recent rate entered for the currency
func (s *RateServiceImpl) CurrentRate(ctx context.Context, clientID int64, currency string) (*rate.ExchangeRate, error) {
	if !shared.KnownCurrency(currency) {
		return nil, shared.ErrUnknownCurrency
	}
	return s.rateRepo.Latest(ctx, clientID, currency)
}

// ToBase converts an amount into the base currency using the current rate
func (s *RateServiceImpl) ToBase(ctx context.Context, clientID int64, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	if currency == s.baseCurrency {
		return amount, nil
	}

	er, err := s.rateRepo.Latest(ctx, clientID, currency)
	if err != nil {
		return decimal.Zero, err
	}

	return er.ToBase(amount), nil
}
