package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/retail-cash-ledger/internal/domain/rate"
	"github.com/retail-cash-ledger/internal/platform/persistence"
)

// RateRepository implements rate.Repository using PostgreSQL
type RateRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewRateRepository creates a new PostgreSQL exchange rate repository
func NewRateRepository(logger *slog.Logger, db *persistence.PostgresDB) rate.Repository {
	return &RateRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *RateRepository) WithTx(tx pgx.Tx) rate.Repository {
	return &RateRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends a new exchange rate entry. Rates are never updated in place.
func (r *RateRepository) Create(ctx context.Context, er *rate.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (id, client_id, currency, rate, valid_from, entered_by)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.querier.Exec(ctx, query,
		er.ID, er.ClientID, er.Currency, er.Rate, er.ValidFrom, er.EnteredBy)
	if err != nil {
		r.logger.Error("Failed to create exchange rate", "client_id", er.ClientID, "currency", er.Currency, "error", err)
		return fmt.Errorf("failed to create exchange rate: %w", err)
	}

	return nil
}

// Latest returns the most recent rate entry for the currency
func (r *RateRepository) Latest(ctx context.Context, clientID int64, currency string) (*rate.ExchangeRate, error) {
	query := `
		SELECT id, client_id, currency, rate, valid_from, entered_by
		FROM exchange_rates
		WHERE client_id = $1 AND currency = $2
		ORDER BY valid_from DESC
		LIMIT 1`

	var er rate.ExchangeRate
	err := r.querier.QueryRow(ctx, query, clientID, currency).Scan(
		&er.ID, &er.ClientID, &er.Currency, &er.Rate, &er.ValidFrom, &er.EnteredBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rate.ErrRateNotFound{Currency: currency}
		}
		r.logger.Error("Failed to get latest exchange rate", "client_id", clientID, "currency", currency, "error", err)
		return nil, fmt.Errorf("failed to get latest exchange rate: %w", err)
	}

	return &er, nil
}
