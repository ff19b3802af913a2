package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retail-cash-ledger/internal/api/service"
	"github.com/retail-cash-ledger/internal/domain/report"
)

// ReportHandler handles HTTP requests for daily report operations
type ReportHandler struct {
	reportService service.ReportService
	location      *time.Location
	logger        *slog.Logger
}

// NewReportHandler creates a new daily report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService, location *time.Location) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		location:      location,
		logger:        logger,
	}
}

// Generate builds (or rebuilds) the report for a tenant calendar date.
// Regenerating an already-reported date replaces the row, never appends a
// second one.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// Parsed in the tenant timezone so the date's calendar components are
	// already tenant-local.
	date, err := time.ParseInLocation("2006-01-02", req.Date, h.location)
	if err != nil {
		RespondBadRequest(c, "Invalid date")
		return
	}

	rep, err := h.reportService.Generate(c.Request.Context(), req.ClientID, date, false)
	if err != nil {
		h.logger.Error("Failed to generate report", "client_id", req.ClientID, "date", req.Date, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapReportToResponse(rep))
}

// GetByDate retrieves the report for a tenant calendar date
func (h *ReportHandler) GetByDate(c *gin.Context) {
	var query GetReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	date, err := time.ParseInLocation("2006-01-02", query.Date, h.location)
	if err != nil {
		RespondBadRequest(c, "Invalid date")
		return
	}

	rep, err := h.reportService.GetByDate(c.Request.Context(), query.ClientID, date)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound{}) {
			RespondNotFound(c, "No report generated for this date")
			return
		}
		h.logger.Error("Failed to get report", "client_id", query.ClientID, "date", query.Date, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapReportToResponse(rep))
}

// GetSnapshot retrieves the archived movement/expense/payment detail behind
// a generated report
func (h *ReportHandler) GetSnapshot(c *gin.Context) {
	var query GetReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	date, err := time.ParseInLocation("2006-01-02", query.Date, h.location)
	if err != nil {
		RespondBadRequest(c, "Invalid date")
		return
	}

	snap, err := h.reportService.Snapshot(c.Request.Context(), query.ClientID, date)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound{}) {
			RespondNotFound(c, "No snapshot archived for this date")
			return
		}
		h.logger.Error("Failed to get report snapshot", "client_id", query.ClientID, "date", query.Date, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapSnapshotToResponse(snap))
}

// mapReportToResponse maps a daily report entity to a report response DTO.
// ReportDate is stored as UTC midnight of the tenant calendar date.
func mapReportToResponse(rep *report.DailyReport) ReportResponse {
	return ReportResponse{
		ID:                rep.ID.String(),
		ClientID:          rep.ClientID,
		ReportDate:        rep.ReportDate.UTC().Format("2006-01-02"),
		OpeningBalance:    rep.OpeningBalance.String(),
		TotalIncome:       rep.TotalIncome.String(),
		TotalExpenses:     rep.TotalExpenses.String(),
		TotalDebtPayments: rep.TotalDebtPayments.String(),
		NetProfit:         rep.NetProfit.String(),
		ClosingBalance:    rep.ClosingBalance.String(),
		TotalMovements:    rep.TotalMovements,
		IsAutoGenerated:   rep.IsAutoGenerated,
		GeneratedAt:       rep.GeneratedAt.Format(time.RFC3339),
	}
}

// mapSnapshotToResponse maps an archived snapshot to its response DTO
func mapSnapshotToResponse(snap *report.Snapshot) SnapshotResponse {
	mapLines := func(lines []report.SnapshotLine) []SnapshotLineResponse {
		out := make([]SnapshotLineResponse, 0, len(lines))
		for _, line := range lines {
			out = append(out, SnapshotLineResponse{
				ID:         line.ID.String(),
				Kind:       line.Kind,
				Amount:     line.Amount,
				Currency:   line.Currency,
				SourceRef:  line.SourceRef,
				Category:   line.Category,
				RecordedBy: line.RecordedBy,
				At:         line.At.Format(time.RFC3339),
			})
		}
		return out
	}

	return SnapshotResponse{
		ClientID:     snap.ClientID,
		ReportDate:   snap.ReportDate,
		ReportID:     snap.ReportID.String(),
		Movements:    mapLines(snap.Movements),
		Expenses:     mapLines(snap.Expenses),
		DebtPayments: mapLines(snap.DebtPayments),
		Totals:       snap.Totals,
		GeneratedAt:  snap.GeneratedAt.Format(time.RFC3339),
	}
}
