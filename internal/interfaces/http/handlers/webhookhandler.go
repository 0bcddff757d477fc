package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"grapplay/internal/application/settlement/usecases"
	"grapplay/internal/shared/logger"
	"grapplay/internal/shared/utils"
)

// SignatureVerifier checks a webhook's HMAC signature against the raw body.
type SignatureVerifier interface {
	Verify(webhookID, timestamp, signatureHeader string, body []byte) error
}

type WebhookHandler struct {
	verifier  SignatureVerifier
	processUC *usecases.ProcessRenewalWebhookUseCase
	logger    logger.Interface
}

func NewWebhookHandler(verifier SignatureVerifier, processUC *usecases.ProcessRenewalWebhookUseCase, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		processUC: processUC,
		logger:    logger,
	}
}

// webhookPayload is the gateway's billing event body. Amounts arrive in
// minor units already.
type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		PaymentID   string `json:"paymentId"`
		BillingKey  string `json:"billingKey"`
		TotalAmount int64  `json:"totalAmount"`
	} `json:"data"`
}

// HandleRenewal applies a gateway billing event. A verified event is always
// acknowledged with 200, even when processing fails, because the gateway
// retries non-2xx deliveries and renewal processing is idempotent only
// through our own dedup, not through replay.
func (h *WebhookHandler) HandleRenewal(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "unreadable body")
		return
	}

	err = h.verifier.Verify(
		c.GetHeader("webhook-id"),
		c.GetHeader("webhook-timestamp"),
		c.GetHeader("webhook-signature"),
		body,
	)
	if err != nil {
		h.logger.Warnw("webhook signature rejected",
			"webhook_id", c.GetHeader("webhook-id"),
			"error", err,
		)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid signature")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}

	result, err := h.processUC.Execute(c.Request.Context(), usecases.ProcessRenewalWebhookCommand{
		Event:            usecases.RenewalEvent(payload.Type),
		BillingKey:       payload.Data.BillingKey,
		GatewayPaymentID: payload.Data.PaymentID,
		AmountMinor:      payload.Data.TotalAmount,
	})
	if err != nil {
		h.logger.Errorw("renewal webhook processing failed",
			"event", payload.Type,
			"gateway_payment_id", payload.Data.PaymentID,
			"error", err,
		)
		utils.SuccessResponse(c)
		return
	}

	if !result.Handled {
		h.logger.Infow("renewal webhook ignored",
			"event", payload.Type,
			"gateway_payment_id", payload.Data.PaymentID,
		)
	}

	utils.SuccessResponse(c)
}
