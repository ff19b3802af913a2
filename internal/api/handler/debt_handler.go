package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/api/service"
	"github.com/retail-cash-ledger/internal/domain/debt"
	"github.com/retail-cash-ledger/internal/domain/directory"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// DebtHandler handles HTTP requests for customer debt operations
type DebtHandler struct {
	debtService service.DebtService
	location    *time.Location
	logger      *slog.Logger
}

// NewDebtHandler creates a new customer debt handler
func NewDebtHandler(logger *slog.Logger, debtService service.DebtService, location *time.Location) *DebtHandler {
	return &DebtHandler{
		debtService: debtService,
		location:    location,
		logger:      logger,
	}
}

// Create opens a new customer debt in the vigente state
func (h *DebtHandler) Create(c *gin.Context) {
	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		RespondBadRequest(c, "Invalid customer ID")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return
	}

	d, err := h.debtService.CreateDebt(c.Request.Context(), req.ClientID, customerID, amount, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrInvalidAmount), errors.Is(err, debt.ErrMissingCustomer):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, directory.ErrCustomerNotFound{}):
			RespondNotFound(c, "Customer not found in this tenant")
		default:
			h.logger.Error("Failed to create debt", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, h.mapDebtToResponse(d))
}

// GetByID retrieves a customer debt by its ID within the tenant
func (h *DebtHandler) GetByID(c *gin.Context) {
	clientID, ok := bindClientID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid debt ID")
		return
	}

	d, err := h.debtService.GetDebt(c.Request.Context(), clientID, id)
	if err != nil {
		if errors.Is(err, debt.ErrDebtNotFound{}) {
			RespondNotFound(c, "Customer debt not found")
			return
		}
		h.logger.Error("Failed to get debt", "debt_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, h.mapDebtToResponse(d))
}

// List retrieves a tenant's debts, newest first, optionally filtered by status
func (h *DebtHandler) List(c *gin.Context) {
	var query ListDebtsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var status *shared.DebtStatus
	if query.Status != "" {
		s := shared.DebtStatus(query.Status)
		status = &s
	}

	debts, err := h.debtService.ListDebts(c.Request.Context(), query.ClientID, status, query.Limit, query.Offset)
	if err != nil {
		h.logger.Error("Failed to list debts", "client_id", query.ClientID, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]DebtResponse, 0, len(debts))
	for _, d := range debts {
		responses = append(responses, h.mapDebtToResponse(d))
	}
	RespondOK(c, responses)
}

// ApplyPayment records a payment against a debt. Any amount above the
// remaining balance is clamped on the debt and surfaced as excess in the
// response, never silently absorbed.
func (h *DebtHandler) ApplyPayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	debtID, err := uuid.Parse(req.DebtID)
	if err != nil {
		RespondBadRequest(c, "Invalid debt ID")
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

	paymentDate := time.Now().In(h.location)
	if req.PaymentDate != "" {
		paymentDate, err = time.ParseInLocation("2006-01-02", req.PaymentDate, h.location)
		if err != nil {
			RespondBadRequest(c, "Invalid payment_date")
			return
		}
	}

	result, err := h.debtService.ApplyPayment(c.Request.Context(), req.ClientID, debtID, amount, paymentDate, userID)
	if err != nil {
		switch {
		case errors.Is(err, debt.ErrDebtNotFound{}):
			RespondNotFound(c, "Customer debt not found")
		case errors.Is(err, directory.ErrUserNotFound{}):
			RespondNotFound(c, "User not found in this tenant")
		case errors.Is(err, debt.ErrDebtClosed):
			RespondConflict(c, "Debt is in a terminal state and takes no further payments")
		case errors.Is(err, shared.ErrInvalidAmount):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to apply payment", "debt_id", debtID.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, PaymentResultResponse{
		Payment: h.mapPaymentToResponse(result.Payment),
		Debt:    h.mapDebtToResponse(result.Debt),
		Excess:  result.Excess.String(),
	})
}

// Cancel moves a debt to the cancelada terminal state
func (h *DebtHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid debt ID")
		return
	}

	var req CancelDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	d, err := h.debtService.CancelDebt(c.Request.Context(), req.ClientID, id)
	if err != nil {
		switch {
		case errors.Is(err, debt.ErrDebtNotFound{}):
			RespondNotFound(c, "Customer debt not found")
		case errors.Is(err, debt.ErrDebtClosed):
			RespondConflict(c, "Debt is already in a terminal state")
		default:
			h.logger.Error("Failed to cancel debt", "debt_id", id.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, h.mapDebtToResponse(d))
}

// mapDebtToResponse maps a debt entity to a debt response DTO
func (h *DebtHandler) mapDebtToResponse(d *debt.CustomerDebt) DebtResponse {
	return DebtResponse{
		ID:              d.ID.String(),
		ClientID:        d.ClientID,
		CustomerID:      d.CustomerID.String(),
		CustomerName:    d.CustomerName,
		OriginalAmount:  d.OriginalAmount.String(),
		RemainingAmount: d.RemainingAmount.String(),
		Status:          string(d.Status),
		Note:            d.Note,
		CreatedAt:       d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       d.UpdatedAt.Format(time.RFC3339),
	}
}

// mapPaymentToResponse maps a payment entity to a payment response DTO
func (h *DebtHandler) mapPaymentToResponse(p *debt.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID.String(),
		DebtID:      p.DebtID.String(),
		ClientID:    p.ClientID,
		Amount:      p.Amount.String(),
		PaymentDate: p.PaymentDate.In(h.location).Format("2006-01-02"),
		UserID:      p.UserID.String(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
