package handler

// Money travels as decimal-formatted strings and day-granular dates as
// 2006-01-02 in the tenant's operating timezone.

// CreateMovementRequest represents a request to record a cash movement
type CreateMovementRequest struct {
	ClientID   int64  `json:"client_id" binding:"required,gt=0"`
	Type       string `json:"type" binding:"required,oneof=ingreso egreso venta ajuste"`
	Amount     string `json:"amount" binding:"required"`
	Currency   string `json:"currency" binding:"required,oneof=USD ARS USDT"`
	UserID     string `json:"user_id" binding:"required,uuid"`
	CustomerID string `json:"customer_id,omitempty" binding:"omitempty,uuid"`
	SourceRef  string `json:"source_ref,omitempty"`
	Note       string `json:"note,omitempty"`
}

// ReverseMovementRequest represents a request to record a compensating movement
type ReverseMovementRequest struct {
	ClientID int64  `json:"client_id" binding:"required,gt=0"`
	UserID   string `json:"user_id" binding:"required,uuid"`
	Note     string `json:"note,omitempty"`
}

// ListMovementsQuery represents movement listing filters. end_date is
// inclusive; the handler widens it to a half-open window.
type ListMovementsQuery struct {
	ClientID  int64  `form:"client_id" binding:"required,gt=0"`
	Type      string `form:"type" binding:"omitempty,oneof=ingreso egreso venta ajuste"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	Offset    int    `form:"offset,default=0" binding:"min=0"`
}

// MovementResponse represents a cash movement in API responses. Display
// names come from the tenant directory at read time; an id whose directory
// row has since vanished renders without one.
type MovementResponse struct {
	ID           string `json:"id"`
	ClientID     int64  `json:"client_id"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name,omitempty"`
	CustomerID   string `json:"customer_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	SourceRef    string `json:"source_ref,omitempty"`
	Note         string `json:"note,omitempty"`
	ReversalOf   string `json:"reversal_of,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	ClientID    int64  `json:"client_id" binding:"required,gt=0"`
	Category    string `json:"category" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	ExpenseDate string `json:"expense_date" binding:"required,datetime=2006-01-02"`
	UserID      string `json:"user_id" binding:"required,uuid"`
}

// AmendExpenseRequest represents a request to correct an expense.
// Omitted fields stay unchanged.
type AmendExpenseRequest struct {
	ClientID int64   `json:"client_id" binding:"required,gt=0"`
	Category *string `json:"category,omitempty"`
	Amount   *string `json:"amount,omitempty"`
}

// ListExpensesQuery represents expense listing filters
type ListExpensesQuery struct {
	ClientID  int64  `form:"client_id" binding:"required,gt=0"`
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"required,datetime=2006-01-02"`
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	Offset    int    `form:"offset,default=0" binding:"min=0"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          string `json:"id"`
	ClientID    int64  `json:"client_id"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	ExpenseDate string `json:"expense_date"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateDebtRequest represents a request to open a customer debt
type CreateDebtRequest struct {
	ClientID   int64  `json:"client_id" binding:"required,gt=0"`
	CustomerID string `json:"customer_id" binding:"required,uuid"`
	Amount     string `json:"amount" binding:"required"`
	Note       string `json:"note,omitempty"`
}

// CancelDebtRequest represents a request to cancel a debt
type CancelDebtRequest struct {
	ClientID int64 `json:"client_id" binding:"required,gt=0"`
}

// ListDebtsQuery represents debt listing filters
type ListDebtsQuery struct {
	ClientID int64  `form:"client_id" binding:"required,gt=0"`
	Status   string `form:"status" binding:"omitempty,oneof=vigente pagada cancelada"`
	Limit    int    `form:"limit,default=50" binding:"min=1,max=500"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
}

// DebtResponse represents a customer debt in API responses
type DebtResponse struct {
	ID              string `json:"id"`
	ClientID        int64  `json:"client_id"`
	CustomerID      string `json:"customer_id"`
	CustomerName    string `json:"customer_name,omitempty"`
	OriginalAmount  string `json:"original_amount"`
	RemainingAmount string `json:"remaining_amount"`
	Status          string `json:"status"`
	Note            string `json:"note,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// CreatePaymentRequest represents a request to apply a payment to a debt.
// payment_date defaults to the current time when omitted.
type CreatePaymentRequest struct {
	ClientID    int64  `json:"client_id" binding:"required,gt=0"`
	DebtID      string `json:"debt_id" binding:"required,uuid"`
	Amount      string `json:"amount" binding:"required"`
	PaymentDate string `json:"payment_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	UserID      string `json:"user_id" binding:"required,uuid"`
}

// PaymentResponse represents a debt payment in API responses
type PaymentResponse struct {
	ID          string `json:"id"`
	DebtID      string `json:"debt_id"`
	ClientID    int64  `json:"client_id"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
	UserID      string `json:"user_id"`
	CreatedAt   string `json:"created_at"`
}

// PaymentResultResponse represents a payment outcome, surfacing any excess
// above the debt's remaining balance
type PaymentResultResponse struct {
	Payment PaymentResponse `json:"payment"`
	Debt    DebtResponse    `json:"debt"`
	Excess  string          `json:"excess"`
}

// CashStateQuery selects the tenant for the real-time projection
type CashStateQuery struct {
	ClientID int64 `form:"client_id" binding:"required,gt=0"`
}

// CashStateResponse represents the real-time balance projection
type CashStateResponse struct {
	ClientID         int64  `json:"client_id"`
	TotalBalance     string `json:"total_balance_usd"`
	DailySales       string `json:"daily_sales_usd"`
	DailyExpenses    string `json:"daily_expenses_usd"`
	TotalActiveDebts string `json:"total_active_debts_usd"`
	LastUpdated      string `json:"last_updated"`
}

// GenerateReportRequest represents a request to build (or rebuild) the daily
// report for a tenant calendar date
type GenerateReportRequest struct {
	ClientID int64  `json:"client_id" binding:"required,gt=0"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
}

// GetReportQuery selects a report by tenant and date
type GetReportQuery struct {
	ClientID int64  `form:"client_id" binding:"required,gt=0"`
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
}

// ReportResponse represents a daily report in API responses
type ReportResponse struct {
	ID                string `json:"id"`
	ClientID          int64  `json:"client_id"`
	ReportDate        string `json:"report_date"`
	OpeningBalance    string `json:"opening_balance"`
	TotalIncome       string `json:"total_income"`
	TotalExpenses     string `json:"total_expenses"`
	TotalDebtPayments string `json:"total_debt_payments"`
	NetProfit         string `json:"net_profit"`
	ClosingBalance    string `json:"closing_balance"`
	TotalMovements    int64  `json:"total_movements"`
	IsAutoGenerated   bool   `json:"is_auto_generated"`
	GeneratedAt       string `json:"generated_at"`
}

// SnapshotLineResponse represents one archived detail row of a report
// snapshot
type SnapshotLineResponse struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency,omitempty"`
	SourceRef  string `json:"source_ref,omitempty"`
	Category   string `json:"category,omitempty"`
	RecordedBy string `json:"recorded_by,omitempty"`
	At         string `json:"at"`
}

// SnapshotResponse represents the archived detail behind a daily report
type SnapshotResponse struct {
	ClientID     int64                  `json:"client_id"`
	ReportDate   string                 `json:"report_date"`
	ReportID     string                 `json:"report_id"`
	Movements    []SnapshotLineResponse `json:"movements"`
	Expenses     []SnapshotLineResponse `json:"expenses"`
	DebtPayments []SnapshotLineResponse `json:"debt_payments"`
	Totals       map[string]string      `json:"totals"`
	GeneratedAt  string                 `json:"generated_at"`
}

// StartAutoSyncRequest represents a request to start a tenant's
// reconciliation loop
type StartAutoSyncRequest struct {
	ClientID        int64 `json:"client_id" binding:"required,gt=0"`
	IntervalSeconds int   `json:"interval_seconds,omitempty" binding:"omitempty,min=1"`
}

// StopAutoSyncRequest represents a request to stop a tenant's
// reconciliation loop
type StopAutoSyncRequest struct {
	ClientID int64 `json:"client_id" binding:"required,gt=0"`
}

// AutoSyncStatusQuery selects the tenant for a reconciliation status read
type AutoSyncStatusQuery struct {
	ClientID int64 `form:"client_id" binding:"required,gt=0"`
}

// AutoSyncStatusResponse represents one tenant's reconciliation state
type AutoSyncStatusResponse struct {
	ClientID        int64  `json:"client_id"`
	IsRunning       bool   `json:"is_running"`
	IntervalSeconds int    `json:"interval_seconds,omitempty"`
	StartedAt       string `json:"started_at,omitempty"`
	LastCheck       string `json:"last_check,omitempty"`
	NextCheck       string `json:"next_check,omitempty"`
	IssuesFound     int64  `json:"issues_found"`
	IssuesFixed     int64  `json:"issues_fixed"`
}

// SetRateRequest represents an administrator entering an exchange rate
type SetRateRequest struct {
	ClientID  int64  `json:"client_id" binding:"required,gt=0"`
	Currency  string `json:"currency" binding:"required,oneof=USD ARS USDT"`
	Rate      string `json:"rate" binding:"required"`
	EnteredBy string `json:"entered_by" binding:"required,uuid"`
}

// GetRateQuery selects the current rate for a currency
type GetRateQuery struct {
	ClientID int64  `form:"client_id" binding:"required,gt=0"`
	Currency string `form:"currency" binding:"required,oneof=USD ARS USDT"`
}

// RateResponse represents an exchange rate in API responses
type RateResponse struct {
	ID        string `json:"id"`
	ClientID  int64  `json:"client_id"`
	Currency  string `json:"currency"`
	Rate      string `json:"rate"`
	ValidFrom string `json:"valid_from"`
	EnteredBy string `json:"entered_by"`
}
