package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retail-cash-ledger/internal/reconciler"
)

// AutoSyncHandler handles HTTP requests for the per-tenant reconciliation
// loops
type AutoSyncHandler struct {
	monitor *reconciler.Monitor
	logger  *slog.Logger
}

// NewAutoSyncHandler creates a new auto-sync handler
func NewAutoSyncHandler(logger *slog.Logger, monitor *reconciler.Monitor) *AutoSyncHandler {
	return &AutoSyncHandler{
		monitor: monitor,
		logger:  logger,
	}
}

// Start launches the tenant's reconciliation loop. Starting an
// already-running tenant is a no-op that returns the current status.
func (h *AutoSyncHandler) Start(c *gin.Context) {
	var req StartAutoSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	interval := time.Duration(req.IntervalSeconds) * time.Second
	status := h.monitor.Start(req.ClientID, interval)
	RespondOK(c, mapStatusToResponse(status))
}

// Stop halts the tenant's reconciliation loop. The in-flight cycle, if any,
// finishes before the loop exits.
func (h *AutoSyncHandler) Stop(c *gin.Context) {
	var req StopAutoSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status := h.monitor.Stop(req.ClientID)
	RespondOK(c, mapStatusToResponse(status))
}

// Status reads the tenant's current reconciliation state
func (h *AutoSyncHandler) Status(c *gin.Context) {
	var query AutoSyncStatusQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "client_id is required")
		return
	}

	RespondOK(c, mapStatusToResponse(h.monitor.Status(query.ClientID)))
}

// mapStatusToResponse maps a reconciliation status to its response DTO
func mapStatusToResponse(status reconciler.Status) AutoSyncStatusResponse {
	response := AutoSyncStatusResponse{
		ClientID:        status.ClientID,
		IsRunning:       status.IsRunning,
		IntervalSeconds: int(status.Interval / time.Second),
		IssuesFound:     status.IssuesFound,
		IssuesFixed:     status.IssuesFixed,
	}

	if !status.StartedAt.IsZero() {
		response.StartedAt = status.StartedAt.Format(time.RFC3339)
	}
	if !status.LastCheck.IsZero() {
		response.LastCheck = status.LastCheck.Format(time.RFC3339)
	}
	if !status.NextCheck.IsZero() {
		response.NextCheck = status.NextCheck.Format(time.RFC3339)
	}

	return response
}
