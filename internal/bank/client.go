package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-gateway/internal/models"
	"github.com/akylbek/payment-system/payment-gateway/internal/result"
	"github.com/akylbek/payment-system/payment-gateway/internal/telemetry"
)

// Client talks to the acquiring bank over HTTP. It is stateless and safe
// for unrestricted concurrent reuse; the transport enforces the request
// timeout and honors context cancellation at the network wait.
type Client struct {
	httpClient *http.Client
	baseURL    string
	route      string
	logger     *zap.Logger
}

func NewClient(baseURL, route string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 50,
				IdleConnTimeout:     30 * time.Second,
			},
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		route:   strings.TrimPrefix(route, "/"),
		logger:  logger,
	}
}

type bankRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	CVV        string `json:"cvv"`
}

type bankResponse struct {
	Authorized        bool    `json:"authorized"`
	AuthorizationCode *string `json:"authorization_code"`
}

// ProcessPayment issues a single authorization attempt. 400 and 503 come
// back as typed failures; every other unexpected condition is a fault
// returned as a plain error.
func (c *Client) ProcessPayment(ctx context.Context, command models.PaymentCommand) (result.Result[models.BankResponse], error) {
	ctx, span := otel.Tracer("acquiring-bank").Start(ctx, "bank.ProcessPayment")
	defer span.End()

	payload := bankRequest{
		CardNumber: command.CardNumber,
		ExpiryDate: command.ExpiryDate(),
		Currency:   strings.ToUpper(command.Currency),
		Amount:     command.Amount,
		CVV:        command.CVV,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return result.Result[models.BankResponse]{}, fmt.Errorf("marshal bank request: %w", err)
	}

	url := c.baseURL + "/" + c.route
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return result.Result[models.BankResponse]{}, fmt.Errorf("build bank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.BankRequestDuration.WithLabelValues("fault").Observe(time.Since(start).Seconds())
		return result.Result[models.BankResponse]{}, fmt.Errorf("bank request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("bank.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		telemetry.BankRequestDuration.WithLabelValues("fault").Observe(time.Since(start).Seconds())
		return result.Result[models.BankResponse]{}, fmt.Errorf("read bank response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var parsed bankResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			telemetry.BankRequestDuration.WithLabelValues("fault").Observe(time.Since(start).Seconds())
			return result.Result[models.BankResponse]{}, fmt.Errorf("parse bank response: %w", err)
		}

		outcome := "declined"
		if parsed.Authorized {
			outcome = "authorized"
		}
		telemetry.BankRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

		response := models.BankResponse{Authorized: parsed.Authorized}
		if parsed.AuthorizationCode != nil {
			response.AuthorizationCode = *parsed.AuthorizationCode
		}
		return result.Success(response), nil

	case http.StatusBadRequest:
		telemetry.BankRequestDuration.WithLabelValues("client_error").Observe(time.Since(start).Seconds())
		c.logger.Warn("Bank rejected payment request", zap.ByteString("body", respBody))
		return result.Failure[models.BankResponse](result.Unexpected, string(respBody), http.StatusBadRequest), nil

	case http.StatusServiceUnavailable:
		telemetry.BankRequestDuration.WithLabelValues("unavailable").Observe(time.Since(start).Seconds())
		c.logger.Warn("Bank unavailable", zap.ByteString("body", respBody))
		return result.Failure[models.BankResponse](result.Transient, string(respBody), http.StatusServiceUnavailable), nil

	default:
		telemetry.BankRequestDuration.WithLabelValues("fault").Observe(time.Since(start).Seconds())
		return result.Result[models.BankResponse]{}, fmt.Errorf("bank returned unexpected status %d", resp.StatusCode)
	}
}
