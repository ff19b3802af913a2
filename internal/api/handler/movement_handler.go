package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/api/service"
	"github.com/retail-cash-ledger/internal/domain/directory"
	"github.com/retail-cash-ledger/internal/domain/ledger"
	"github.com/retail-cash-ledger/internal/domain/rate"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// MovementHandler handles HTTP requests for cash movement operations
type MovementHandler struct {
	movementService service.MovementService
	location        *time.Location
	logger          *slog.Logger
}

// NewMovementHandler creates a new cash movement handler
func NewMovementHandler(logger *slog.Logger, movementService service.MovementService, location *time.Location) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
		location:        location,
		logger:          logger,
	}
}

// Create records a new cash movement, converting the amount to the base
// currency with the current exchange rate
func (h *MovementHandler) Create(c *gin.Context) {
	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	var customerID *uuid.UUID
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			RespondBadRequest(c, "Invalid customer ID")
			return
		}
		customerID = &id
	}

	var sourceRef *string
	if req.SourceRef != "" {
		sourceRef = &req.SourceRef
	}

	m, err := h.movementService.Record(c.Request.Context(), service.RecordMovementInput{
		ClientID:   req.ClientID,
		Type:       shared.MovementType(req.Type),
		Amount:     amount,
		Currency:   req.Currency,
		UserID:     userID,
		CustomerID: customerID,
		SourceRef:  sourceRef,
		Note:       req.Note,
	})
	if err != nil {
		h.respondMovementError(c, err)
		return
	}

	RespondCreated(c, mapMovementToResponse(m))
}

// GetByID retrieves a cash movement by its ID within the tenant
func (h *MovementHandler) GetByID(c *gin.Context) {
	clientID, ok := bindClientID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid movement ID")
		return
	}

	m, err := h.movementService.Get(c.Request.Context(), clientID, id)
	if err != nil {
		if errors.Is(err, ledger.ErrMovementNotFound{}) {
			RespondNotFound(c, "Cash movement not found")
			return
		}
		h.logger.Error("Failed to get movement", "movement_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapMovementToResponse(m))
}

// List retrieves movements for a tenant, newest first, optionally filtered
// by type and date range
func (h *MovementHandler) List(c *gin.Context) {
	var query ListMovementsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var filter ledger.Filter
	if query.Type != "" {
		movementType := shared.MovementType(query.Type)
		filter.Type = &movementType
	}
	if query.StartDate != "" {
		from, err := time.ParseInLocation("2006-01-02", query.StartDate, h.location)
		if err != nil {
			RespondBadRequest(c, "Invalid start_date")
			return
		}
		filter.From = &from
	}
	if query.EndDate != "" {
		day, err := time.ParseInLocation("2006-01-02", query.EndDate, h.location)
		if err != nil {
			RespondBadRequest(c, "Invalid end_date")
			return
		}
		to := day.AddDate(0, 0, 1)
		filter.To = &to
	}

	movements, err := h.movementService.List(c.Request.Context(), query.ClientID, filter, query.Limit, query.Offset)
	if err != nil {
		h.logger.Error("Failed to list movements", "client_id", query.ClientID, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		responses = append(responses, mapMovementToResponse(m))
	}
	RespondOK(c, responses)
}

// Reverse records the compensating movement for an existing one. Movements
// are never deleted; this is the only way to undo one.
func (h *MovementHandler) Reverse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid movement ID")
		return
	}

	var req ReverseMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	reversal, err := h.movementService.Reverse(c.Request.Context(), req.ClientID, id, userID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrMovementNotFound{}):
			RespondNotFound(c, "Cash movement not found")
		case errors.Is(err, directory.ErrUserNotFound{}):
			RespondNotFound(c, "User not found in this tenant")
		case errors.Is(err, ledger.ErrAlreadyReversal{}):
			RespondConflict(c, "Movement is itself a reversal and cannot be reversed again")
		default:
			h.logger.Error("Failed to reverse movement", "movement_id", id.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapMovementToResponse(reversal))
}

func (h *MovementHandler) respondMovementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidAmount),
		errors.Is(err, shared.ErrUnknownCurrency),
		errors.Is(err, shared.ErrInvalidMovementType),
		errors.Is(err, shared.ErrInvalidClientID),
		errors.Is(err, ledger.ErrMissingUser),
		errors.Is(err, ledger.ErrEmptySourceRef):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, directory.ErrUserNotFound{}):
		RespondNotFound(c, "User not found in this tenant")
	case errors.Is(err, directory.ErrCustomerNotFound{}):
		RespondNotFound(c, "Customer not found in this tenant")
	case errors.Is(err, rate.ErrRateNotFound{}):
		RespondBadRequest(c, "No exchange rate entered for this currency")
	case errors.Is(err, ledger.ErrDuplicateSourceRef{}):
		RespondConflict(c, "A movement already references this source_ref")
	default:
		h.logger.Error("Failed to record movement", "error", err)
		RespondInternalError(c)
	}
}

// bindClientID reads the mandatory client_id query parameter
func bindClientID(c *gin.Context) (int64, bool) {
	var query CashStateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "client_id is required")
		return 0, false
	}
	return query.ClientID, true
}

// mapMovementToResponse maps a movement entity to a movement response DTO
func mapMovementToResponse(m *ledger.Movement) MovementResponse {
	response := MovementResponse{
		ID:           m.ID.String(),
		ClientID:     m.ClientID,
		Type:         string(m.Type),
		Amount:       m.Amount.String(),
		Currency:     m.Currency,
		UserID:       m.UserID.String(),
		UserName:     m.UserName,
		CustomerName: m.CustomerName,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}

	if m.CustomerID != nil {
		response.CustomerID = m.CustomerID.String()
	}
	if m.SourceRef != nil {
		response.SourceRef = *m.SourceRef
	}
	if m.ReversalOf != nil {
		response.ReversalOf = m.ReversalOf.String()
	}

	return response
}
