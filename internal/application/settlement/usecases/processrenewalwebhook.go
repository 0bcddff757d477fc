package usecases

import (
	"context"

	"github.com/google/uuid"

	"grapplay/internal/domain/payment"
	"grapplay/internal/domain/revenue"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/domain/subscription"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

// RenewalEvent is the webhook event type, using the gateway's vocabulary.
type RenewalEvent string

const (
	EventTransactionPaid   RenewalEvent = "Transaction.Paid"
	EventTransactionFailed RenewalEvent = "Transaction.Failed"
	EventBillingKeyDeleted RenewalEvent = "BillingKey.Deleted"
)

// PaymentFailureNotifier tells the user a renewal charge failed.
type PaymentFailureNotifier interface {
	NotifyPaymentFailed(ctx context.Context, userID, subscriptionID string) error
}

// TransactionRunner runs a function inside a database transaction, with the
// transaction carried on the context for the repositories to pick up.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProcessRenewalWebhookCommand is one verified gateway webhook event.
type ProcessRenewalWebhookCommand struct {
	Event            RenewalEvent
	BillingKey       string
	GatewayPaymentID string
	AmountMinor      int64
}

// ProcessRenewalWebhookResult reports what the event changed.
type ProcessRenewalWebhookResult struct {
	// Handled is false for events that matched no live subscription or
	// carried an unknown type. The webhook is still acknowledged.
	Handled bool

	Subscription *subscription.Subscription
}

// ProcessRenewalWebhookUseCase applies gateway billing events to the
// subscription lifecycle: successful renewals roll into a new cycle, failed
// charges go past due, deleted billing keys cancel.
type ProcessRenewalWebhookUseCase struct {
	subscriptions subscription.Repository
	userFlags     subscription.UserFlagStore
	payments      payment.Repository
	ledger        revenue.LedgerRepository
	activate      *ActivateSubscriptionUseCase
	notifier      PaymentFailureNotifier
	tx            TransactionRunner
	currency      string
	logger        logger.Interface
}

func NewProcessRenewalWebhookUseCase(
	subscriptions subscription.Repository,
	userFlags subscription.UserFlagStore,
	payments payment.Repository,
	ledger revenue.LedgerRepository,
	activate *ActivateSubscriptionUseCase,
	currency string,
	logger logger.Interface,
) *ProcessRenewalWebhookUseCase {
	return &ProcessRenewalWebhookUseCase{
		subscriptions: subscriptions,
		userFlags:     userFlags,
		payments:      payments,
		ledger:        ledger,
		activate:      activate,
		currency:      currency,
		logger:        logger,
	}
}

// SetPaymentFailureNotifier sets the failure notifier (optional).
func (uc *ProcessRenewalWebhookUseCase) SetPaymentFailureNotifier(notifier PaymentFailureNotifier) {
	uc.notifier = notifier
}

// SetTransactionRunner makes the cycle roll atomic (optional).
func (uc *ProcessRenewalWebhookUseCase) SetTransactionRunner(tx TransactionRunner) {
	uc.tx = tx
}

func (uc *ProcessRenewalWebhookUseCase) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if uc.tx == nil {
		return fn(ctx)
	}
	return uc.tx.RunInTransaction(ctx, fn)
}

func (uc *ProcessRenewalWebhookUseCase) Execute(ctx context.Context, cmd ProcessRenewalWebhookCommand) (*ProcessRenewalWebhookResult, error) {
	sub, err := uc.subscriptions.GetByBillingKey(ctx, cmd.BillingKey)
	if err != nil {
		return nil, errors.NewPersistenceFailedError("failed to look up subscription", err.Error())
	}
	if sub == nil {
		// The gateway retries webhooks; a key with no live subscription is
		// acknowledged, not failed, so retries stop.
		uc.logger.Warnw("webhook for unknown billing key",
			"event", cmd.Event,
			"gateway_payment_id", cmd.GatewayPaymentID,
		)
		return &ProcessRenewalWebhookResult{Handled: false}, nil
	}

	switch cmd.Event {
	case EventTransactionPaid:
		return uc.handlePaid(ctx, sub, cmd)
	case EventTransactionFailed:
		return uc.handleFailed(ctx, sub)
	case EventBillingKeyDeleted:
		return uc.handleKeyDeleted(ctx, sub)
	default:
		uc.logger.Warnw("ignoring unknown webhook event", "event", cmd.Event)
		return &ProcessRenewalWebhookResult{Handled: false}, nil
	}
}

func (uc *ProcessRenewalWebhookUseCase) handlePaid(ctx context.Context, sub *subscription.Subscription, cmd ProcessRenewalWebhookCommand) (*ProcessRenewalWebhookResult, error) {
	// Retried webhooks for the same charge are dropped here, before any
	// ledger or subscription write.
	existing, err := uc.payments.GetByGatewayPaymentID(ctx, cmd.GatewayPaymentID)
	if err != nil {
		return nil, errors.NewPersistenceFailedError("failed to check for prior renewal", err.Error())
	}
	if existing != nil {
		uc.logger.Infow("renewal already processed", "gateway_payment_id", cmd.GatewayPaymentID)
		return &ProcessRenewalWebhookResult{Handled: false, Subscription: sub}, nil
	}

	amount := cmd.AmountMinor
	if amount <= 0 {
		amount = sub.AmountMinor()
	}

	next, err := sub.NextCycle(uuid.NewString(), cmd.GatewayPaymentID)
	if err != nil {
		return nil, errors.NewInvalidSettlementRequestError("subscription cannot renew", err.Error())
	}

	audit, err := payment.NewPayment(uuid.NewString(), cmd.GatewayPaymentID, next.UserID(), settlement.ModeSubscription, next.ID(), amount, uc.currency, settlement.StatusPaid)
	if err != nil {
		return nil, errors.NewPersistenceFailedError("failed to build renewal audit row", err.Error())
	}

	// The audit insert, the cycle roll, and the ledger entry land in one
	// transaction. The audit row's unique gateway payment ID gates racing
	// deliveries of the same charge, and a failure anywhere rolls the gate
	// back so a later retry can still apply the renewal.
	err = uc.runTx(ctx, func(ctx context.Context) error {
		if err := uc.payments.Create(ctx, audit); err != nil {
			return err
		}
		if err := uc.subscriptions.Create(ctx, next); err != nil {
			return err
		}
		if err := sub.MarkRenewed(); err == nil {
			if updErr := uc.subscriptions.Update(ctx, sub); updErr != nil {
				uc.logger.Errorw("failed to close renewed cycle", "error", updErr, "subscription_id", sub.ID())
			}
		}
		return uc.ledger.Append(ctx, revenue.NewMonthlySubscriptionEntry(next.UserID(), next.ID(), cmd.GatewayPaymentID, amount))
	})
	if err != nil {
		if errors.IsDuplicateError(err) {
			uc.logger.Infow("lost renewal race to a concurrent delivery", "gateway_payment_id", cmd.GatewayPaymentID)
			return &ProcessRenewalWebhookResult{Handled: false, Subscription: sub}, nil
		}
		return nil, errors.NewPersistenceFailedError("failed to apply renewal", err.Error())
	}
	if err := uc.userFlags.SetSubscriber(ctx, next.UserID(), next.Tier(), next.PeriodEnd()); err != nil {
		return nil, errors.NewPersistenceFailedError("failed to update subscriber flag", err.Error())
	}

	uc.activate.scheduleRenewal(ctx, next)

	uc.logger.Infow("subscription renewed",
		"subscription_id", next.ID(),
		"user_id", next.UserID(),
		"period_end", next.PeriodEnd(),
		"gateway_payment_id", cmd.GatewayPaymentID,
	)
	return &ProcessRenewalWebhookResult{Handled: true, Subscription: next}, nil
}

func (uc *ProcessRenewalWebhookUseCase) handleFailed(ctx context.Context, sub *subscription.Subscription) (*ProcessRenewalWebhookResult, error) {
	if err := sub.MarkPastDue(); err != nil {
		uc.logger.Warnw("cannot mark subscription past due",
			"error", err,
			"subscription_id", sub.ID(),
			"status", sub.Status(),
		)
		return &ProcessRenewalWebhookResult{Handled: false, Subscription: sub}, nil
	}
	if err := uc.subscriptions.Update(ctx, sub); err != nil {
		return nil, errors.NewPersistenceFailedError("failed to update subscription", err.Error())
	}

	if uc.notifier != nil {
		if err := uc.notifier.NotifyPaymentFailed(ctx, sub.UserID(), sub.ID()); err != nil {
			uc.logger.Errorw("payment failure notification failed", "error", err, "subscription_id", sub.ID())
		}
	}

	uc.logger.Warnw("subscription past due",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
	)
	return &ProcessRenewalWebhookResult{Handled: true, Subscription: sub}, nil
}

func (uc *ProcessRenewalWebhookUseCase) handleKeyDeleted(ctx context.Context, sub *subscription.Subscription) (*ProcessRenewalWebhookResult, error) {
	if err := sub.Cancel(); err != nil {
		return nil, errors.NewInvalidSettlementRequestError("subscription cannot be cancelled", err.Error())
	}
	if err := uc.subscriptions.Update(ctx, sub); err != nil {
		return nil, errors.NewPersistenceFailedError("failed to update subscription", err.Error())
	}
	if err := uc.userFlags.ClearSubscriber(ctx, sub.UserID()); err != nil {
		return nil, errors.NewPersistenceFailedError("failed to clear subscriber flag", err.Error())
	}

	uc.logger.Infow("subscription cancelled after billing key deletion",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
	)
	return &ProcessRenewalWebhookResult{Handled: true, Subscription: sub}, nil
}
