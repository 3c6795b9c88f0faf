package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-gateway/internal/cache"
	"github.com/akylbek/payment-system/payment-gateway/internal/models"
	"github.com/akylbek/payment-system/payment-gateway/internal/result"
	"github.com/akylbek/payment-system/payment-gateway/internal/service"
	"github.com/akylbek/payment-system/payment-gateway/internal/validation"
)

type PaymentHandler struct {
	orchestrator *service.Orchestrator
	validator    *validation.Validator
	cache        *cache.PaymentCache
	logger       *zap.Logger
}

func NewPaymentHandler(orchestrator *service.Orchestrator, validator *validation.Validator, paymentCache *cache.PaymentCache, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{
		orchestrator: orchestrator,
		validator:    validator,
		cache:        paymentCache,
		logger:       logger,
	}
}

type postPaymentRequest struct {
	CardNumber  string `json:"card_number"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	CVV         string `json:"cvv"`
}

type paymentResponse struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CardNumberLastFour string `json:"card_number_last_four"`
	ExpiryMonth        int    `json:"expiry_month"`
	ExpiryYear         int    `json:"expiry_year"`
	Currency           string `json:"currency"`
	Amount             int64  `json:"amount"`
}

func toPaymentResponse(record models.PaymentRecord) paymentResponse {
	return paymentResponse{
		ID:                 record.ID,
		Status:             string(record.Status),
		CardNumberLastFour: record.CardLastFour,
		ExpiryMonth:        record.ExpiryMonth,
		ExpiryYear:         record.ExpiryYear,
		Currency:           record.Currency,
		Amount:             record.Amount,
	}
}

func (h *PaymentHandler) PostPayment(c *gin.Context) {
	var req postPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if errs := h.validator.Validate(req.CardNumber, req.ExpiryMonth, req.ExpiryYear, req.Currency, req.Amount, req.CVV); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	command := models.PaymentCommand{
		CardNumber:  req.CardNumber,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Amount:      req.Amount,
		CVV:         req.CVV,
	}

	res, err := h.orchestrator.ProcessPayment(c.Request.Context(), command)
	if err != nil {
		if c.Request.Context().Err() != nil {
			// Client closed request; 499 in the nginx convention.
			c.JSON(499, gin.H{"error": "request canceled"})
			return
		}
		h.logger.Error("Payment processing fault", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream service unavailable"})
		return
	}

	if res.IsFailure() {
		c.JSON(statusFor(res.Err()), gin.H{"error": res.Err().Message})
		return
	}

	record := res.Data()
	h.cache.Put(c.Request.Context(), record)
	c.JSON(http.StatusOK, toPaymentResponse(record))
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id := c.Param("id")

	if record, ok := h.cache.Get(c.Request.Context(), id); ok {
		c.JSON(http.StatusOK, toPaymentResponse(record))
		return
	}

	res := h.orchestrator.GetPayment(c.Request.Context(), id)
	if res.IsFailure() {
		c.JSON(statusFor(res.Err()), gin.H{"error": res.Err().Message})
		return
	}

	record := res.Data()
	h.cache.Put(c.Request.Context(), record)
	c.JSON(http.StatusOK, toPaymentResponse(record))
}

// statusFor maps a typed failure to a transport status: the error's own hint
// when it carries one, otherwise a default per kind.
func statusFor(e *result.Error) int {
	if e.Code != 0 {
		return e.Code
	}
	switch e.Kind {
	case result.Validation:
		return http.StatusBadRequest
	case result.Conflict:
		return http.StatusConflict
	case result.NotFound:
		return http.StatusNotFound
	case result.Transient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
