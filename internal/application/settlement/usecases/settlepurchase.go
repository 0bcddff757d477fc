package usecases

import (
	"context"

	"github.com/google/uuid"

	"grapplay/internal/domain/entitlement"
	"grapplay/internal/domain/payment"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/domain/subscription"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

// SettlePurchaseCommand carries one settlement request end to end.
type SettlePurchaseCommand struct {
	Request settlement.SettlementRequest
}

// SettlePurchaseResult is the orchestrator's answer.
type SettlePurchaseResult struct {
	GatewayPaymentID string

	// AlreadySettled is true when the payment was settled by an earlier
	// invocation; no new writes happened.
	AlreadySettled bool

	EntitlementCreated bool
	Members            []entitlement.MemberResult
	Subscription       *subscription.Subscription
}

// SettlePurchaseUseCase sequences one settlement: resolve the payment,
// write the audit row, dispatch fulfillment by mode, and recognize revenue.
// The payments table's unique gateway payment ID makes the whole sequence
// idempotent across duplicate invocations.
type SettlePurchaseUseCase struct {
	payments  payment.Repository
	resolve   *ResolvePaymentUseCase
	fulfill   *FulfillEntitlementsUseCase
	activate  *ActivateSubscriptionUseCase
	recognize *RecognizeRevenueUseCase
	logger    logger.Interface
}

func NewSettlePurchaseUseCase(
	payments payment.Repository,
	resolve *ResolvePaymentUseCase,
	fulfill *FulfillEntitlementsUseCase,
	activate *ActivateSubscriptionUseCase,
	recognize *RecognizeRevenueUseCase,
	logger logger.Interface,
) *SettlePurchaseUseCase {
	return &SettlePurchaseUseCase{
		payments:  payments,
		resolve:   resolve,
		fulfill:   fulfill,
		activate:  activate,
		recognize: recognize,
		logger:    logger,
	}
}

func (uc *SettlePurchaseUseCase) Execute(ctx context.Context, cmd SettlePurchaseCommand) (*SettlePurchaseResult, error) {
	req := cmd.Request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	settled, err := uc.resolve.Execute(ctx, ResolvePaymentCommand{Request: req})
	if err != nil {
		return nil, err
	}

	// Ledger appends are not idempotent, so duplicates must be caught
	// before any write. The lookup handles the common retry; the audit
	// insert below is the real gate.
	existing, err := uc.payments.GetByGatewayPaymentID(ctx, settled.GatewayPaymentID)
	if err != nil {
		return nil, errors.NewPersistenceFailedError("failed to check for prior settlement", err.Error())
	}
	if existing != nil {
		uc.logger.Infow("settlement already processed",
			"gateway_payment_id", settled.GatewayPaymentID,
			"user_id", req.UserID,
		)
		return &SettlePurchaseResult{
			GatewayPaymentID: settled.GatewayPaymentID,
			AlreadySettled:   true,
		}, nil
	}

	// The audit row's unique gateway payment ID gates the whole sequence:
	// it is inserted before any ledger or entitlement write, so of two
	// concurrent duplicate invocations only the one that wins the insert
	// proceeds. Writing it first also keeps a paid-but-unfulfilled payment
	// visible for reconciliation.
	if auditErr := uc.writeAudit(ctx, req, settled); auditErr != nil {
		if errors.IsDuplicateError(auditErr) {
			uc.logger.Infow("lost settlement race to a concurrent duplicate",
				"gateway_payment_id", settled.GatewayPaymentID,
				"user_id", req.UserID,
			)
			return &SettlePurchaseResult{
				GatewayPaymentID: settled.GatewayPaymentID,
				AlreadySettled:   true,
			}, nil
		}
		return nil, errors.NewPersistenceFailedError("failed to write payment audit row", auditErr.Error())
	}

	result := &SettlePurchaseResult{GatewayPaymentID: settled.GatewayPaymentID}
	recognizeCmd := RecognizeRevenueCommand{
		UserID:           req.UserID,
		Mode:             req.Mode,
		ProductID:        req.ProductID,
		GatewayPaymentID: settled.GatewayPaymentID,
		AmountMinor:      settled.AmountMinor,
	}

	var settleErr error
	if req.Mode.IsSubscription() {
		activation, actErr := uc.activate.Execute(ctx, ActivateSubscriptionCommand{
			UserID:              req.UserID,
			Mode:                req.Mode,
			PlanID:              req.ProductID,
			BillingKey:          req.BillingKey,
			GatewayPaymentID:    settled.GatewayPaymentID,
			AmountMinor:         settled.AmountMinor,
			PriorSubscriptionID: req.PriorSubscriptionID,
		})
		if actErr != nil {
			settleErr = actErr
		} else {
			result.Subscription = activation.Subscription
			recognizeCmd.SubscriptionID = activation.Subscription.ID()
			recognizeCmd.Interval = activation.Subscription.Interval()
			recognizeCmd.PriorSubscriptionID = req.PriorSubscriptionID
			recognizeCmd.ProrationCreditMinor = activation.ProrationCreditMinor
		}
	} else {
		fulfillment, fulErr := uc.fulfill.Execute(ctx, FulfillEntitlementsCommand{
			UserID:           req.UserID,
			Mode:             req.Mode,
			ProductID:        req.ProductID,
			AmountMinor:      settled.AmountMinor,
			GatewayPaymentID: settled.GatewayPaymentID,
		})
		if fulfillment != nil {
			result.EntitlementCreated = fulfillment.Created
			result.Members = fulfillment.Members
		}
		// Partial bundle fulfillment keeps its grants and still recognizes
		// revenue; the audit row is already in place for reconciliation.
		if fulErr != nil {
			settleErr = fulErr
		}
	}

	if settleErr == nil || errors.IsType(settleErr, errors.ErrorTypePartialFulfillment) {
		if recErr := uc.recognize.Execute(ctx, recognizeCmd); recErr != nil && settleErr == nil {
			settleErr = recErr
		}
	}

	if settleErr != nil {
		uc.logger.Errorw("settlement finished with error",
			"error", settleErr,
			"gateway_payment_id", settled.GatewayPaymentID,
			"mode", req.Mode,
		)
		return result, settleErr
	}

	uc.logger.Infow("settlement completed",
		"gateway_payment_id", settled.GatewayPaymentID,
		"user_id", req.UserID,
		"mode", req.Mode,
		"amount_minor", settled.AmountMinor,
	)
	return result, nil
}

func (uc *SettlePurchaseUseCase) writeAudit(ctx context.Context, req settlement.SettlementRequest, settled *settlement.SettledPayment) error {
	audit, err := payment.NewPayment(
		uuid.NewString(),
		settled.GatewayPaymentID,
		req.UserID,
		req.Mode,
		req.ProductID,
		settled.AmountMinor,
		settled.CurrencyCode,
		settled.Status,
	)
	if err != nil {
		return err
	}
	return uc.payments.Create(ctx, audit)
}
