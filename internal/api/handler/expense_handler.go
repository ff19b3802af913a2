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
	"github.com/retail-cash-ledger/internal/domain/expense"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// ExpenseHandler handles HTTP requests for expense operations
type ExpenseHandler struct {
	expenseService service.ExpenseService
	location       *time.Location
	logger         *slog.Logger
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(logger *slog.Logger, expenseService service.ExpenseService, location *time.Location) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		location:       location,
		logger:         logger,
	}
}

// Create records a new expense dated on a tenant calendar day
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
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

	expenseDate, err := time.ParseInLocation("2006-01-02", req.ExpenseDate, h.location)
	if err != nil {
		RespondBadRequest(c, "Invalid expense_date")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	exp, err := h.expenseService.Create(c.Request.Context(), req.ClientID, req.Category, amount, expenseDate, userID)
	if err != nil {
		switch {
		case errors.Is(err, expense.ErrEmptyCategory), errors.Is(err, shared.ErrInvalidAmount):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, directory.ErrUserNotFound{}):
			RespondNotFound(c, "User not found in this tenant")
		default:
			h.logger.Error("Failed to create expense", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, h.mapExpenseToResponse(exp))
}

// List retrieves a tenant's expenses inside a date range, newest first
func (h *ExpenseHandler) List(c *gin.Context) {
	var query ListExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	from, err := time.ParseInLocation("2006-01-02", query.StartDate, h.location)
	if err != nil {
		RespondBadRequest(c, "Invalid start_date")
		return
	}
	endDay, err := time.ParseInLocation("2006-01-02", query.EndDate, h.location)
	if err != nil {
		RespondBadRequest(c, "Invalid end_date")
		return
	}
	to := endDay.AddDate(0, 0, 1)

	expenses, err := h.expenseService.List(c.Request.Context(), query.ClientID, from, to, query.Limit, query.Offset)
	if err != nil {
		h.logger.Error("Failed to list expenses", "client_id", query.ClientID, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, exp := range expenses {
		responses = append(responses, h.mapExpenseToResponse(exp))
	}
	RespondOK(c, responses)
}

// Amend corrects category and/or amount on an existing expense
func (h *ExpenseHandler) Amend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid expense ID")
		return
	}

	var req AmendExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		parsed, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			RespondBadRequest(c, "Invalid amount")
			return
		}
		amount = &parsed
	}

	exp, err := h.expenseService.Amend(c.Request.Context(), req.ClientID, id, req.Category, amount)
	if err != nil {
		switch {
		case errors.Is(err, expense.ErrExpenseNotFound{}):
			RespondNotFound(c, "Expense not found")
		case errors.Is(err, expense.ErrEmptyCategory), errors.Is(err, shared.ErrInvalidAmount):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to amend expense", "expense_id", id.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, h.mapExpenseToResponse(exp))
}

// Delete hard-deletes an expense. Expenses carry no audit requirement,
// unlike cash movements.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	clientID, ok := bindClientID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), clientID, id); err != nil {
		if errors.Is(err, expense.ErrExpenseNotFound{}) {
			RespondNotFound(c, "Expense not found")
			return
		}
		h.logger.Error("Failed to delete expense", "expense_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// mapExpenseToResponse maps an expense entity to an expense response DTO.
// The expense date renders as a calendar day in the tenant timezone.
func (h *ExpenseHandler) mapExpenseToResponse(exp *expense.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          exp.ID.String(),
		ClientID:    exp.ClientID,
		Category:    exp.Category,
		Amount:      exp.Amount.String(),
		ExpenseDate: exp.ExpenseDate.In(h.location).Format("2006-01-02"),
		UserID:      exp.UserID.String(),
		UserName:    exp.UserName,
		CreatedAt:   exp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   exp.UpdatedAt.Format(time.RFC3339),
	}
}
