package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/config"
	"github.com/retail-cash-ledger/internal/domain/debt"
	"github.com/retail-cash-ledger/internal/domain/directory"
	"github.com/retail-cash-ledger/internal/domain/expense"
	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/report"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// snapshotLineCap bounds the detail lists archived per report. A retail
// tenant's day stays far below this.
const snapshotLineCap = 10000

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	movementRepo   ledger.Repository
	expenseRepo    expense.Repository
	debtRepo       debt.Repository
	reportRepo     report.Repository
	snapshotRepo   report.SnapshotRepository
	directory      directory.Repository
	location       *time.Location
	openingBalance decimal.Decimal
	logger         *slog.Logger
}

// NewReportService creates a new daily report service
func NewReportService(logger *slog.Logger, movementRepo ledger.Repository, expenseRepo expense.Repository, debtRepo debt.Repository, reportRepo report.Repository, snapshotRepo report.SnapshotRepository, directoryRepo directory.Repository, ledgerCfg *config.LedgerConfig) ReportService {
	opening, err := decimal.NewFromString(ledgerCfg.OpeningBalance)
	if err != nil {
		logger.Warn("Invalid opening balance in configuration, using zero",
			"opening_balance", ledgerCfg.OpeningBalance,
		)
		opening = decimal.Zero
	}

	return &ReportServiceImpl{
		movementRepo:   movementRepo,
		expenseRepo:    expenseRepo,
		debtRepo:       debtRepo,
		reportRepo:     reportRepo,
		snapshotRepo:   snapshotRepo,
		directory:      directoryRepo,
		location:       ledgerCfg.Location(),
		openingBalance: opening,
		logger:         logger,
	}
}

// Generate builds the report for the tenant calendar date named by the
// year/month/day of date. The sums cover [startOfDay, endOfDay) in the
// tenant timezone; the closing balance chains from the previous report's
// closing, seeded from the configured opening balance when none exists.
// Regeneration upserts the same row and replaces the archived snapshot.
func (s *ReportServiceImpl) Generate(ctx context.Context, clientID int64, date time.Time, autoGenerated bool) (*report.DailyReport, error) {
	if clientID <= 0 {
		return nil, shared.ErrInvalidClientID
	}

	year, month, day := date.Date()
	from, to := shared.DayWindowForDate(year, month, day, s.location)
	reportDate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	totalIncome, err := s.movementRepo.SumByTypes(ctx, clientID, shared.IncomeTypes(), from, to)
	if err != nil {
		return nil, err
	}

	totalExpenses, err := s.expenseRepo.SumByWindow(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	totalDebtPayments, err := s.debtRepo.SumPaymentsByWindow(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	totalMovements, err := s.movementRepo.CountByWindow(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	previous, err := s.reportRepo.GetLatestBefore(ctx, clientID, reportDate)
	if err != nil {
		return nil, err
	}

	openingBalance := s.openingBalance
	if previous != nil {
		openingBalance = previous.ClosingBalance
	}

	netProfit := totalIncome.Sub(totalExpenses)

	rep := &report.DailyReport{
		ID:                uuid.New(),
		ClientID:          clientID,
		ReportDate:        reportDate,
		OpeningBalance:    openingBalance,
		TotalIncome:       totalIncome,
		TotalExpenses:     totalExpenses,
		TotalDebtPayments: totalDebtPayments,
		NetProfit:         netProfit,
		ClosingBalance:    openingBalance.Add(netProfit),
		TotalMovements:    totalMovements,
		IsAutoGenerated:   autoGenerated,
		GeneratedAt:       time.Now().UTC(),
	}

	// Upsert keeps the surviving row's id on regeneration
	if err := s.reportRepo.Upsert(ctx, rep); err != nil {
		return nil, err
	}

	if err := s.archiveSnapshot(ctx, rep, from, to); err != nil {
		return nil, err
	}

	s.logger.Info("Daily report generated",
		"client_id", clientID,
		"report_date", reportDate.Format("2006-01-02"),
		"net_profit", rep.NetProfit.String(),
		"closing_balance", rep.ClosingBalance.String(),
		"auto_generated", autoGenerated,
	)
	return rep, nil
}

// GetByDate retrieves the report for the tenant calendar date
func (s *ReportServiceImpl) GetByDate(ctx context.Context, clientID int64, date time.Time) (*report.DailyReport, error) {
	year, month, day := date.Date()
	reportDate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return s.reportRepo.GetByDate(ctx, clientID, reportDate)
}

// Snapshot retrieves the archived detail behind the date's report. Returns
// ErrReportNotFound when the date was never reported.
func (s *ReportServiceImpl) Snapshot(ctx context.Context, clientID int64, date time.Time) (*report.Snapshot, error) {
	if clientID <= 0 {
		return nil, shared.ErrInvalidClientID
	}
	return s.snapshotRepo.GetByDate(ctx, clientID, date.Format("2006-01-02"))
}

// archiveSnapshot replaces the detail document backing the report, so the
// report stays reproducible independent of later ledger changes.
func (s *ReportServiceImpl) archiveSnapshot(ctx context.Context, rep *report.DailyReport, from, to time.Time) error {
	movements, err := s.movementRepo.List(ctx, rep.ClientID, ledger.Filter{From: &from, To: &to}, snapshotLineCap, 0)
	if err != nil {
		return err
	}

	expenses, err := s.expenseRepo.List(ctx, rep.ClientID, from, to, snapshotLineCap, 0)
	if err != nil {
		return err
	}

	payments, err := s.debtRepo.ListPaymentsByWindow(ctx, rep.ClientID, from, to, snapshotLineCap, 0)
	if err != nil {
		return err
	}

	names := s.resolveNames(ctx, rep.ClientID, movements, expenses, payments)

	snap := &report.Snapshot{
		ClientID:     rep.ClientID,
		ReportDate:   rep.ReportDate.Format("2006-01-02"),
		ReportID:     rep.ID,
		Movements:    make([]report.SnapshotLine, 0, len(movements)),
		Expenses:     make([]report.SnapshotLine, 0, len(expenses)),
		DebtPayments: make([]report.SnapshotLine, 0, len(payments)),
		Totals: map[string]string{
			"opening_balance":     rep.OpeningBalance.String(),
			"total_income":        rep.TotalIncome.String(),
			"total_expenses":      rep.TotalExpenses.String(),
			"total_debt_payments": rep.TotalDebtPayments.String(),
			"net_profit":          rep.NetProfit.String(),
			"closing_balance":     rep.ClosingBalance.String(),
		},
		GeneratedAt: rep.GeneratedAt,
	}

	for _, m := range movements {
		line := report.SnapshotLine{
			ID:         m.ID,
			Kind:       string(m.Type),
			Amount:     m.Amount.String(),
			Currency:   m.Currency,
			RecordedBy: names[m.UserID],
			At:         m.CreatedAt,
		}
		if m.SourceRef != nil {
			line.SourceRef = *m.SourceRef
		}
		snap.Movements = append(snap.Movements, line)
	}
	for _, e := range expenses {
		snap.Expenses = append(snap.Expenses, report.SnapshotLine{
			ID:         e.ID,
			Kind:       "expense",
			Amount:     e.Amount.String(),
			Category:   e.Category,
			RecordedBy: names[e.UserID],
			At:         e.ExpenseDate,
		})
	}
	for _, p := range payments {
		snap.DebtPayments = append(snap.DebtPayments, report.SnapshotLine{
			ID:         p.ID,
			Kind:       "debt_payment",
			Amount:     p.Amount.String(),
			SourceRef:  p.DebtID.String(),
			RecordedBy: names[p.UserID],
			At:         p.PaymentDate,
		})
	}

	return s.snapshotRepo.Replace(ctx, snap)
}

// resolveNames bulk-resolves the employee display names appearing in the
// archived lines. The directory may drift after the fact, so the names are
// captured at archive time; a resolution failure degrades the snapshot
// rather than failing the report.
func (s *ReportServiceImpl) resolveNames(ctx context.Context, clientID int64, movements []*ledger.Movement, expenses []*expense.Expense, payments []*debt.Payment) map[uuid.UUID]string {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(movements)+len(expenses)+len(payments))
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, m := range movements {
		add(m.UserID)
	}
	for _, e := range expenses {
		add(e.UserID)
	}
	for _, p := range payments {
		add(p.UserID)
	}
	if len(ids) == 0 {
		return nil
	}

	names, err := s.directory.UserNames(ctx, clientID, ids)
	if err != nil {
		s.logger.Warn("Failed to resolve employee names for snapshot",
			"client_id", clientID,
			"error", err,
		)
		return nil
	}
	return names
}
