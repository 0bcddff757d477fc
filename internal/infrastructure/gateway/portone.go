// Package gateway implements the PortOne payment gateway client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	appgateway "grapplay/internal/application/settlement/gateway"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/shared/config"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

// PortOneClient talks to the PortOne V2 REST API. Authentication is a
// short-lived bearer token fetched per invocation; tokens are deliberately
// not cached across concurrent settlements.
type PortOneClient struct {
	baseURL    string
	apiSecret  string
	orderLabel string
	httpClient *http.Client
	logger     logger.Interface
}

func NewPortOneClient(cfg *config.GatewayConfig, logger logger.Interface) *PortOneClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PortOneClient{
		baseURL:    cfg.BaseURL,
		apiSecret:  cfg.APISecret,
		orderLabel: cfg.OrderLabel,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type paymentResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
	Amount   struct {
		Total int64 `json:"total"`
	} `json:"amount"`
	Customer struct {
		ID string `json:"id"`
	} `json:"customer"`
	PaidAt *time.Time `json:"paidAt"`
}

type billingKeyPaymentResponse struct {
	Payment paymentResponse `json:"payment"`
}

type scheduleResponse struct {
	Schedule struct {
		ID string `json:"id"`
	} `json:"schedule"`
}

func (c *PortOneClient) VerifyPayment(ctx context.Context, paymentID string) (*settlement.SettledPayment, error) {
	token, err := c.fetchToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, token, nil)
	if err != nil {
		return nil, err
	}

	var resp paymentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewGatewayRejectedError("unparseable payment response", err.Error())
	}
	return settledFromResponse(&resp), nil
}

func (c *PortOneClient) ChargeWithStoredCredential(ctx context.Context, req appgateway.ChargeRequest) (*settlement.SettledPayment, error) {
	token, err := c.fetchToken(ctx)
	if err != nil {
		return nil, err
	}

	// A fresh payment ID per attempt keeps retried requests from silently
	// reusing a prior charge.
	paymentID := "recurring_" + uuid.NewString()
	payload := map[string]interface{}{
		"billingKey": req.BillingKey,
		"orderName":  orderName(req.OrderName, c.orderLabel),
		"amount":     map[string]int64{"total": req.AmountMinor},
		"currency":   req.Currency,
		"customer":   map[string]string{"id": req.CustomerID},
	}

	body, err := c.do(ctx, http.MethodPost, "/payments/"+paymentID+"/billing-key", token, payload)
	if err != nil {
		// A 4xx on the billing-key endpoint means the stored credential
		// was refused.
		if errors.IsType(err, errors.ErrorTypeGatewayRejected) {
			appErr := errors.GetAppError(err)
			return nil, errors.NewCredentialInvalidError("billing key rejected", appErr.Details)
		}
		return nil, err
	}

	var resp billingKeyPaymentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewGatewayRejectedError("unparseable charge response", err.Error())
	}
	settled := settledFromResponse(&resp.Payment)
	if settled.GatewayPaymentID == "" {
		settled.GatewayPaymentID = paymentID
	}
	// The billing-key endpoint answers 2xx only for an executed charge.
	if settled.Status == "" {
		settled.Status = settlement.StatusPaid
	}
	if settled.AmountMinor == 0 {
		settled.AmountMinor = req.AmountMinor
	}
	if settled.CurrencyCode == "" {
		settled.CurrencyCode = req.Currency
	}
	return settled, nil
}

func (c *PortOneClient) ScheduleNextCharge(ctx context.Context, req appgateway.ScheduleRequest) (string, bool) {
	token, err := c.fetchToken(ctx)
	if err != nil {
		c.logger.Errorw("schedule token fetch failed", "error", err)
		return "", false
	}

	paymentID := "scheduled_" + uuid.NewString()
	payload := map[string]interface{}{
		"payment": map[string]interface{}{
			"billingKey": req.BillingKey,
			"orderName":  orderName(req.OrderName, c.orderLabel),
			"amount":     map[string]int64{"total": req.AmountMinor},
			"currency":   req.Currency,
			"customer":   map[string]string{"id": req.CustomerID},
		},
		"timeToPay": req.ChargeAt.UTC().Format(time.RFC3339),
	}

	body, err := c.do(ctx, http.MethodPost, "/payments/"+paymentID+"/schedule", token, payload)
	if err != nil {
		c.logger.Errorw("schedule registration failed", "error", err, "charge_at", req.ChargeAt)
		return "", false
	}

	var resp scheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Schedule.ID == "" {
		// The schedule may still exist gateway-side under paymentID; keep
		// that as the handle.
		return paymentID, true
	}
	return resp.Schedule.ID, true
}

// fetchToken exchanges the API secret for a short-lived access token.
func (c *PortOneClient) fetchToken(ctx context.Context) (string, error) {
	payload := map[string]string{"apiSecret": c.apiSecret}
	body, err := c.do(ctx, http.MethodPost, "/login/api-secret", "", payload)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeGatewayRejected) {
			return "", errors.NewCredentialInvalidError("gateway authentication failed")
		}
		return "", err
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.AccessToken == "" {
		return "", errors.NewCredentialInvalidError("gateway returned no access token")
	}
	return resp.AccessToken, nil
}

func (c *PortOneClient) do(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewGatewayUnreachableError("gateway request failed", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewGatewayUnreachableError("failed to read gateway response", err.Error())
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, errors.NewGatewayUnreachableError(
			fmt.Sprintf("gateway returned %d", resp.StatusCode), string(body))
	case resp.StatusCode >= 400:
		return nil, errors.NewGatewayRejectedError(
			fmt.Sprintf("gateway returned %d", resp.StatusCode), string(body))
	}
	return body, nil
}

func settledFromResponse(resp *paymentResponse) *settlement.SettledPayment {
	return &settlement.SettledPayment{
		GatewayPaymentID: resp.ID,
		Status:           settlement.PaymentStatus(resp.Status),
		AmountMinor:      resp.Amount.Total,
		CurrencyCode:     resp.Currency,
		PayerID:          resp.Customer.ID,
		PaidAt:           resp.PaidAt,
	}
}

func orderName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
