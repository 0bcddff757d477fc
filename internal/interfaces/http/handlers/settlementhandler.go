package handlers

import (
	"github.com/gin-gonic/gin"

	"grapplay/internal/application/settlement/usecases"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
	"grapplay/internal/shared/utils"
)

type SettlementHandler struct {
	settleUC *usecases.SettlePurchaseUseCase
	logger   logger.Interface
}

func NewSettlementHandler(settleUC *usecases.SettlePurchaseUseCase, logger logger.Interface) *SettlementHandler {
	return &SettlementHandler{
		settleUC: settleUC,
		logger:   logger,
	}
}

// SettleRequest is the checkout client's settlement call. PaymentID and
// BillingKey are mutually exclusive: one verifies a payment the client
// already made, the other charges a stored billing key.
type SettleRequest struct {
	PaymentID  string `json:"paymentId"`
	Mode       string `json:"mode" binding:"required"`
	ID         string `json:"id"`
	UserID     string `json:"userId" binding:"required"`
	BillingKey string `json:"billingKey"`
	Amount     int64  `json:"amount"`
	OrderName  string `json:"orderName"`
}

// Settle verifies or executes a payment and fulfills whatever it bought.
func (h *SettlementHandler) Settle(c *gin.Context) {
	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, 400, "invalid request body")
		return
	}

	mode := settlement.Mode(req.Mode)
	settlementReq := settlement.SettlementRequest{
		PaymentID:   req.PaymentID,
		BillingKey:  req.BillingKey,
		UserID:      req.UserID,
		Mode:        mode,
		ProductID:   req.ID,
		AmountMinor: req.Amount,
		OrderName:   req.OrderName,
	}
	if mode == settlement.ModeSubscriptionUpgrade {
		// The wire id names the subscription being upgraded.
		settlementReq.PriorSubscriptionID = req.ID
	}

	result, err := h.settleUC.Execute(c.Request.Context(), usecases.SettlePurchaseCommand{
		Request: settlementReq,
	})
	if err != nil {
		if errors.IsType(err, errors.ErrorTypePartialFulfillment) {
			// Some grants landed and money moved; the caller still gets a
			// success, reconciliation works from the logs and audit row.
			h.logger.Errorw("settlement fulfilled partially",
				"user_id", req.UserID,
				"mode", req.Mode,
				"product_id", req.ID,
				"error", err,
			)
			utils.SuccessResponse(c)
			return
		}

		h.logger.Warnw("settlement failed",
			"user_id", req.UserID,
			"mode", req.Mode,
			"product_id", req.ID,
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.AlreadySettled {
		h.logger.Infow("settlement replayed",
			"gateway_payment_id", result.GatewayPaymentID,
			"user_id", req.UserID,
		)
	}

	utils.SuccessResponse(c)
}
