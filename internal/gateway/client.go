// Package gateway implements the payment processor's confirm API over
// HTTP. The secret key stays server-side: it is encoded into a Basic
// Authorization header and never appears in any value returned to callers.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/minshop/storefront/internal/domain"
	"github.com/minshop/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const confirmPath = "/v1/payments/confirm"

type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, secretKey string, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}

	if secretKey == "" {
		return nil, fmt.Errorf("secretKey is empty")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	// Basic auth with the secret key as username and no password.
	encoded := base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))

	return &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + encoded,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// Amount goes out as a bare JSON number; decimal.Decimal would marshal
// itself as a quoted string.
type confirmRequest struct {
	PaymentKey string      `json:"paymentKey"`
	OrderID    string      `json:"orderId"`
	Amount     json.Number `json:"amount"`
}

type confirmResponse struct {
	PaymentKey  string          `json:"paymentKey"`
	OrderID     string          `json:"orderId"`
	OrderName   string          `json:"orderName"`
	Status      string          `json:"status"`
	Method      string          `json:"method"`
	Currency    string          `json:"currency"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	RequestedAt time.Time       `json:"requestedAt"`
	ApprovedAt  *time.Time      `json:"approvedAt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) Confirm(ctx context.Context, req port.ConfirmRequest) (domain.Settlement, error) {
	var s domain.Settlement

	if req.PaymentKey == "" {
		return s, fmt.Errorf("paymentKey is empty")
	}

	if req.OrderID == "" {
		return s, fmt.Errorf("orderID is empty")
	}

	body, err := json.Marshal(confirmRequest{
		PaymentKey: req.PaymentKey,
		OrderID:    req.OrderID,
		Amount:     json.Number(req.Amount.Amount.String()),
	})
	if err != nil {
		return s, fmt.Errorf("json.Marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+confirmPath, bytes.NewReader(body))
	if err != nil {
		return s, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	httpReq.Header.Set("Authorization", c.authHeader)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return s, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var errBody errorResponse
		// best effort, the status code alone is enough to fail
		_ = json.NewDecoder(resp.Body).Decode(&errBody)

		c.logger.Error("payment confirm rejected",
			zap.String("order_id", req.OrderID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("gateway_code", errBody.Code),
			zap.String("gateway_message", errBody.Message))

		return s, domain.GatewayError{
			StatusCode: resp.StatusCode,
			Code:       errBody.Code,
			Message:    errBody.Message,
		}
	}

	var confirmed confirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&confirmed); err != nil {
		return s, fmt.Errorf("json.Decode: %w", err)
	}

	settlement, err := mapConfirmResponseToDomain(confirmed)
	if err != nil {
		return s, fmt.Errorf("mapConfirmResponseToDomain: %w", err)
	}

	c.logger.Info("payment confirmed",
		zap.String("order_id", settlement.OrderID),
		zap.String("status", settlement.Status),
		zap.String("total_amount", settlement.TotalAmount.Amount.String()))

	return settlement, nil
}

func mapConfirmResponseToDomain(resp confirmResponse) (domain.Settlement, error) {
	parsedCurrency, err := currency.ParseISO(resp.Currency)
	if err != nil {
		return domain.Settlement{}, fmt.Errorf("currency[%s] is not valid: %w", resp.Currency, err)
	}

	return domain.Settlement{
		PaymentKey:  resp.PaymentKey,
		OrderID:     resp.OrderID,
		OrderName:   resp.OrderName,
		Status:      resp.Status,
		Method:      resp.Method,
		TotalAmount: domain.Money{Amount: resp.TotalAmount, Currency: parsedCurrency},
		RequestedAt: resp.RequestedAt,
		ApprovedAt:  resp.ApprovedAt,
	}, nil
}
