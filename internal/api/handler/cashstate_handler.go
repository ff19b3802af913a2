package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retail-cash-ledger/internal/api/service"
)

// CashStateHandler handles HTTP requests for the real-time balance projection
type CashStateHandler struct {
	cashStateService service.CashStateService
	logger           *slog.Logger
}

// NewCashStateHandler creates a new cash state handler
func NewCashStateHandler(logger *slog.Logger, cashStateService service.CashStateService) *CashStateHandler {
	return &CashStateHandler{
		cashStateService: cashStateService,
		logger:           logger,
	}
}

// RealTimeState recomputes and returns the tenant's projection for the
// current operating day
func (h *CashStateHandler) RealTimeState(c *gin.Context) {
	var query CashStateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "client_id is required")
		return
	}

	state, err := h.cashStateService.RealTimeState(c.Request.Context(), query.ClientID)
	if err != nil {
		h.logger.Error("Failed to compute cash state", "client_id", query.ClientID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, CashStateResponse{
		ClientID:         state.ClientID,
		TotalBalance:     state.TotalBalance.String(),
		DailySales:       state.DailySales.String(),
		DailyExpenses:    state.DailyExpenses.String(),
		TotalActiveDebts: state.TotalActiveDebts.String(),
		LastUpdated:      state.LastUpdated.Format(time.RFC3339),
	})
}
