package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/retail-cash-ledger/internal/domain/report"
	"github.com/retail-cash-ledger/internal/platform/persistence"
)

// ReportRepository implements the report.Repository interface for PostgreSQL
type ReportRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewReportRepository creates a new PostgreSQL daily report repository
func NewReportRepository(logger *slog.Logger, db *persistence.PostgresDB) report.Repository {
	return &ReportRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *ReportRepository) WithTx(tx pgx.Tx) report.Repository {
	return &ReportRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Upsert replaces any existing report for (client_id, report_date). The
// conflict branch keeps the existing row's id so regeneration never grows
// the table, and the RETURNING clause hands the surviving id back.
func (r *ReportRepository) Upsert(ctx context.Context, rep *report.DailyReport) error {
	query := `
		INSERT INTO daily_reports (id, client_id, report_date, opening_balance, total_income, total_expenses,
			total_debt_payments, net_profit, closing_balance, total_movements, is_auto_generated, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (client_id, report_date) DO UPDATE SET
			opening_balance = EXCLUDED.opening_balance,
			total_income = EXCLUDED.total_income,
			total_expenses = EXCLUDED.total_expenses,
			total_debt_payments = EXCLUDED.total_debt_payments,
			net_profit = EXCLUDED.net_profit,
			closing_balance = EXCLUDED.closing_balance,
			total_movements = EXCLUDED.total_movements,
			is_auto_generated = EXCLUDED.is_auto_generated,
			generated_at = EXCLUDED.generated_at
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		rep.ID,
		rep.ClientID,
		rep.ReportDate,
		rep.OpeningBalance,
		rep.TotalIncome,
		rep.TotalExpenses,
		rep.TotalDebtPayments,
		rep.NetProfit,
		rep.ClosingBalance,
		rep.TotalMovements,
		rep.IsAutoGenerated,
		rep.GeneratedAt,
	).Scan(&rep.ID)
	if err != nil {
		r.logger.Error("Failed to upsert daily report", "client_id", rep.ClientID, "report_date", rep.ReportDate.Format("2006-01-02"), "error", err)
		return fmt.Errorf("failed to upsert daily report: %w", err)
	}

	return nil
}

const reportSelect = `
		SELECT id, client_id, report_date, opening_balance, total_income, total_expenses,
			total_debt_payments, net_profit, closing_balance, total_movements, is_auto_generated, generated_at
		FROM daily_reports`

// GetByDate retrieves the report for the given tenant and calendar date
func (r *ReportRepository) GetByDate(ctx context.Context, clientID int64, reportDate time.Time) (*report.DailyReport, error) {
	query := reportSelect + ` WHERE client_id = $1 AND report_date = $2`

	rep, err := r.scanReport(r.querier.QueryRow(ctx, query, clientID, reportDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, report.ErrReportNotFound{ClientID: clientID, ReportDate: reportDate}
		}
		r.logger.Error("Failed to get daily report", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to get daily report: %w", err)
	}

	return rep, nil
}

// GetLatestBefore retrieves the most recent report strictly before the date.
// Returns nil, nil when the tenant has no earlier report.
func (r *ReportRepository) GetLatestBefore(ctx context.Context, clientID int64, reportDate time.Time) (*report.DailyReport, error) {
	query := reportSelect + `
		WHERE client_id = $1 AND report_date < $2
		ORDER BY report_date DESC
		LIMIT 1`

	rep, err := r.scanReport(r.querier.QueryRow(ctx, query, clientID, reportDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No earlier report; caller seeds from configuration
		}
		r.logger.Error("Failed to get previous daily report", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to get previous daily report: %w", err)
	}

	return rep, nil
}

func (r *ReportRepository) scanReport(row pgx.Row) (*report.DailyReport, error) {
	var rep report.DailyReport
	err := row.Scan(
		&rep.ID,
		&rep.ClientID,
		&rep.ReportDate,
		&rep.OpeningBalance,
		&rep.TotalIncome,
		&rep.TotalExpenses,
		&rep.TotalDebtPayments,
		&rep.NetProfit,
		&rep.ClosingBalance,
		&rep.TotalMovements,
		&rep.IsAutoGenerated,
		&rep.GeneratedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
