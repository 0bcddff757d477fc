package usecases

import (
	"context"

	"grapplay/internal/application/settlement/gateway"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

// ResolvePaymentCommand carries the settlement request to resolve.
type ResolvePaymentCommand struct {
	Request settlement.SettlementRequest
}

// ResolvePaymentUseCase turns a settlement request into a settled payment,
// either by verifying an existing payment or by charging a stored billing
// key. The result always has status Paid; anything else is an error.
type ResolvePaymentUseCase struct {
	gateway  gateway.Client
	currency string
	logger   logger.Interface
}

func NewResolvePaymentUseCase(gw gateway.Client, currency string, logger logger.Interface) *ResolvePaymentUseCase {
	return &ResolvePaymentUseCase{
		gateway:  gw,
		currency: currency,
		logger:   logger,
	}
}

func (uc *ResolvePaymentUseCase) Execute(ctx context.Context, cmd ResolvePaymentCommand) (*settlement.SettledPayment, error) {
	req := cmd.Request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var settled *settlement.SettledPayment
	var err error
	if req.IsCharge() {
		settled, err = uc.gateway.ChargeWithStoredCredential(ctx, gateway.ChargeRequest{
			BillingKey:  req.BillingKey,
			AmountMinor: req.AmountMinor,
			Currency:    uc.currency,
			OrderName:   req.OrderName,
			CustomerID:  req.UserID,
		})
		if err != nil {
			uc.logger.Errorw("billing key charge failed",
				"error", err,
				"user_id", req.UserID,
				"mode", req.Mode,
			)
			return nil, err
		}
	} else {
		settled, err = uc.gateway.VerifyPayment(ctx, req.PaymentID)
		if err != nil {
			uc.logger.Errorw("payment verification failed",
				"error", err,
				"payment_id", req.PaymentID,
				"user_id", req.UserID,
			)
			return nil, err
		}
	}

	if !settled.Status.IsPaid() {
		uc.logger.Warnw("payment not settled",
			"gateway_payment_id", settled.GatewayPaymentID,
			"status", settled.Status,
			"user_id", req.UserID,
		)
		return nil, errors.NewPaymentNotSettledError("payment is not in paid status", settled.Status.String())
	}

	uc.logger.Infow("payment resolved",
		"gateway_payment_id", settled.GatewayPaymentID,
		"amount_minor", settled.AmountMinor,
		"mode", req.Mode,
	)
	return settled, nil
}
