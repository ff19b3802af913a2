package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyReport is the end-of-day financial snapshot for one tenant and one
// calendar date. Write-once per (clientID, reportDate): regeneration replaces
// the row under the same id, never appends a second one.
type DailyReport struct {
	ID                uuid.UUID       `json:"id"`
	ClientID          int64           `json:"client_id"`
	ReportDate        time.Time       `json:"report_date"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	TotalDebtPayments decimal.Decimal `json:"total_debt_payments"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	ClosingBalance    decimal.Decimal `json:"closing_balance"`
	TotalMovements    int64           `json:"total_movements"`
	IsAutoGenerated   bool            `json:"is_auto_generated"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// Snapshot is the reproducibility payload behind a daily report: the raw
// movement, expense and payment lists the sums were computed from, archived
// so the report stays auditable independent of later ledger changes.
// Amounts are decimal strings so the document round-trips exactly.
type Snapshot struct {
	ClientID     int64             `bson:"client_id"`
	ReportDate   string            `bson:"report_date"` // 2006-01-02 in the tenant timezone
	ReportID     uuid.UUID         `bson:"report_id"`
	Movements    []SnapshotLine    `bson:"movements"`
	Expenses     []SnapshotLine    `bson:"expenses"`
	DebtPayments []SnapshotLine    `bson:"debt_payments"`
	Totals       map[string]string `bson:"totals"`
	GeneratedAt  time.Time         `bson:"generated_at"`
}

// SnapshotLine is one row of the archived detail. RecordedBy carries the
// employee display name resolved at archive time, since the directory may
// change after the fact.
type SnapshotLine struct {
	ID         uuid.UUID `bson:"id"`
	Kind       string    `bson:"kind"`
	Amount     string    `bson:"amount"`
	Currency   string    `bson:"currency,omitempty"`
	SourceRef  string    `bson:"source_ref,omitempty"`
	Category   string    `bson:"category,omitempty"`
	RecordedBy string    `bson:"recorded_by,omitempty"`
	At         time.Time `bson:"at"`
}
