package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retail-cash-ledger/internal/api/service"
	"github.com/retail-cash-ledger/internal/domain/rate"
	"github.com/retail-cash-ledger/internal/domain/shared"
)

// RateHandler handles HTTP requests for exchange rate operations
type RateHandler struct {
	rateService service.RateService
	logger      *slog.Logger
}

// NewRateHandler creates a new exchange rate handler
func NewRateHandler(logger *slog.Logger, rateService service.RateService) *RateHandler {
	return &RateHandler{
		rateService: rateService,
		logger:      logger,
	}
}

// Set records a new administrator-entered rate. Rates are append-only;
// conversions always use the most recent entry.
func (h *RateHandler) Set(c *gin.Context) {
	var req SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	value, err := decimal.NewFromString(req.Rate)
	if err != nil {
		RespondBadRequest(c, "Invalid rate")
		return
	}

	enteredBy, err := uuid.Parse(req.EnteredBy)
	if err != nil {
		RespondBadRequest(c, "Invalid entered_by")
		return
	}

	er, err := h.rateService.SetRate(c.Request.Context(), req.ClientID, req.Currency, value, enteredBy)
	if err != nil {
		switch {
		case errors.Is(err, rate.ErrBaseCurrencyRate),
			errors.Is(err, rate.ErrNonPositiveRate),
			errors.Is(err, shared.ErrUnknownCurrency):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to set exchange rate", "currency", req.Currency, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapRateToResponse(er))
}

// Current retrieves the most recent rate entered for a currency
func (h *RateHandler) Current(c *gin.Context) {
	var query GetRateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	er, err := h.rateService.CurrentRate(c.Request.Context(), query.ClientID, query.Currency)
	if err != nil {
		switch {
		case errors.Is(err, rate.ErrRateNotFound{}):
			RespondNotFound(c, "No exchange rate entered for this currency")
		case errors.Is(err, shared.ErrUnknownCurrency):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to get exchange rate", "currency", query.Currency, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapRateToResponse(er))
}

// mapRateToResponse maps an exchange rate entity to a rate response DTO
func mapRateToResponse(er *rate.ExchangeRate) RateResponse {
	return RateResponse{
		ID:        er.ID.String(),
		ClientID:  er.ClientID,
		Currency:  er.Currency,
		Rate:      er.Rate.String(),
		ValidFrom: er.ValidFrom.Format(time.RFC3339),
		EnteredBy: er.EnteredBy.String(),
	}
}
