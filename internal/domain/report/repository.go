package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Repository manages daily report rows in the system of record
type Repository interface {
	// Upsert replaces any existing report for (clientID, reportDate), keeping
	// the prior row's id so N regenerations still yield exactly one row.
	Upsert(ctx context.Context, r *DailyReport) error

	GetByDate(ctx context.Context, clientID int64, reportDate time.Time) (*DailyReport, error)

	// GetLatestBefore returns the most recent report strictly before the date,
	// used to seed the opening balance chain. Returns nil, nil when none exists.
	GetLatestBefore(ctx context.Context, clientID int64, reportDate time.Time) (*DailyReport, error)

	WithTx(tx pgx.Tx) Repository
}

// SnapshotRepository archives the report detail documents. Replace-only:
// regenerating a report swaps the whole document for that (clientID, date).
type SnapshotRepository interface {
	Replace(ctx context.Context, snap *Snapshot) error
	GetByDate(ctx context.Context, clientID int64, reportDate string) (*Snapshot, error)
}

// ErrReportNotFound indicates a missing daily report
type ErrReportNotFound struct {
	ClientID   int64
	ReportDate time.Time
}

func (e ErrReportNotFound) Error() string {
	return fmt.Sprintf("daily report not found for client %d on %s", e.ClientID, e.ReportDate.Format("2006-01-02"))
}

// Is implements the errors.Is interface for ErrReportNotFound
func (e ErrReportNotFound) Is(target error) bool {
	t, ok := target.(ErrReportNotFound)
	if !ok {
		return false
	}
	if t.ClientID == 0 {
		return true
	}
	return e.ClientID == t.ClientID && e.ReportDate.Equal(t.ReportDate)
}
