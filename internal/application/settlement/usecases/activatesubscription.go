package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"grapplay/internal/application/settlement/gateway"
	"grapplay/internal/domain/revenue"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/domain/subscription"
	"grapplay/internal/shared/biztime"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

// ScheduleFailure records a renewal charge that could not be registered
// with the gateway. The settlement itself succeeded; the row exists so the
// missed schedule can be replayed manually.
type ScheduleFailure struct {
	SubscriptionID string
	UserID         string
	BillingKey     string
	AmountMinor    int64
	ChargeAt       time.Time
	Reason         string
}

// ScheduleFailureRecorder persists schedule failures for manual follow-up.
type ScheduleFailureRecorder interface {
	Record(ctx context.Context, failure ScheduleFailure) error
}

// ActivateSubscriptionCommand describes a subscription-mode settlement.
type ActivateSubscriptionCommand struct {
	UserID           string
	Mode             settlement.Mode
	PlanID           string
	BillingKey       string
	GatewayPaymentID string
	AmountMinor      int64

	// PriorSubscriptionID is set for upgrades and names the subscription
	// being replaced.
	PriorSubscriptionID string
}

// ActivateSubscriptionResult reports the new cycle and, for upgrades, the
// proration credit owed against the replaced subscription.
type ActivateSubscriptionResult struct {
	Subscription         *subscription.Subscription
	ProrationCreditMinor int64
}

// ActivateSubscriptionUseCase creates the subscription row for a settled
// subscription payment, mirrors the state onto the user record, and for
// monthly plans registers the next renewal charge with the gateway.
type ActivateSubscriptionUseCase struct {
	subscriptions subscription.Repository
	userFlags     subscription.UserFlagStore
	plans         subscription.PlanCatalog
	gateway       gateway.Client
	failures      ScheduleFailureRecorder
	currency      string
	logger        logger.Interface
}

func NewActivateSubscriptionUseCase(
	subscriptions subscription.Repository,
	userFlags subscription.UserFlagStore,
	plans subscription.PlanCatalog,
	gw gateway.Client,
	currency string,
	logger logger.Interface,
) *ActivateSubscriptionUseCase {
	return &ActivateSubscriptionUseCase{
		subscriptions: subscriptions,
		userFlags:     userFlags,
		plans:         plans,
		gateway:       gw,
		currency:      currency,
		logger:        logger,
	}
}

// SetScheduleFailureRecorder sets the dead-letter store for failed schedule
// registrations (optional).
func (uc *ActivateSubscriptionUseCase) SetScheduleFailureRecorder(recorder ScheduleFailureRecorder) {
	uc.failures = recorder
}

func (uc *ActivateSubscriptionUseCase) Execute(ctx context.Context, cmd ActivateSubscriptionCommand) (*ActivateSubscriptionResult, error) {
	var plan subscription.Plan
	var prorationCredit int64

	if cmd.Mode == settlement.ModeSubscriptionUpgrade {
		prior, err := uc.subscriptions.GetByID(ctx, cmd.PriorSubscriptionID)
		if err != nil {
			return nil, errors.NewPersistenceFailedError("failed to load prior subscription", err.Error())
		}
		if prior == nil {
			return nil, errors.NewNotFoundError("prior subscription not found", cmd.PriorSubscriptionID)
		}
		if prior.UserID() != cmd.UserID {
			return nil, errors.NewInvalidSettlementRequestError("prior subscription belongs to a different user")
		}

		// Upgrade keeps the tier and always moves to annual billing.
		found := false
		plan, found = uc.plans.PlanFor(prior.Tier(), subscription.IntervalYear)
		if !found {
			return nil, errors.NewInvalidSettlementRequestError("no annual plan for tier", string(prior.Tier()))
		}

		prorationCredit = revenue.ProrationCredit(prior.AmountMinor(), prior.RemainingDays(biztime.NowUTC()))
		if err := prior.MarkUpgraded(); err != nil {
			return nil, errors.NewInvalidSettlementRequestError("prior subscription cannot be upgraded", err.Error())
		}
		if err := uc.subscriptions.Update(ctx, prior); err != nil {
			return nil, errors.NewPersistenceFailedError("failed to close prior subscription", err.Error())
		}
	} else {
		found := false
		plan, found = uc.plans.PlanByID(cmd.PlanID)
		if !found {
			return nil, errors.NewInvalidSettlementRequestError("unknown plan", cmd.PlanID)
		}
	}

	sub, err := subscription.NewSubscription(
		uuid.NewString(),
		cmd.UserID,
		plan.ID,
		plan.Tier,
		plan.Interval,
		cmd.AmountMinor,
		cmd.GatewayPaymentID,
		cmd.BillingKey,
	)
	if err != nil {
		return nil, errors.NewInvalidSettlementRequestError("invalid subscription", err.Error())
	}
	if err := uc.subscriptions.Create(ctx, sub); err != nil {
		return nil, errors.NewPersistenceFailedError("failed to create subscription", err.Error())
	}
	if err := uc.userFlags.SetSubscriber(ctx, cmd.UserID, sub.Tier(), sub.PeriodEnd()); err != nil {
		return nil, errors.NewPersistenceFailedError("failed to update subscriber flag", err.Error())
	}

	// Annual cycles are fully prepaid; only monthly cycles with a billing
	// key pre-register the next charge.
	if sub.Interval() == subscription.IntervalMonth && sub.BillingKey() != "" {
		uc.scheduleRenewal(ctx, sub)
	}

	uc.logger.Infow("subscription activated",
		"subscription_id", sub.ID(),
		"user_id", cmd.UserID,
		"tier", sub.Tier(),
		"interval", sub.Interval(),
		"period_end", sub.PeriodEnd(),
		"proration_credit_minor", prorationCredit,
	)
	return &ActivateSubscriptionResult{
		Subscription:         sub,
		ProrationCreditMinor: prorationCredit,
	}, nil
}

// scheduleRenewal registers the next charge with the gateway. Failure does
// not fail the activation: the current payment has already settled, so the
// miss is recorded for manual replay instead.
func (uc *ActivateSubscriptionUseCase) scheduleRenewal(ctx context.Context, sub *subscription.Subscription) {
	scheduleID, ok := uc.gateway.ScheduleNextCharge(ctx, gateway.ScheduleRequest{
		BillingKey:  sub.BillingKey(),
		AmountMinor: sub.AmountMinor(),
		Currency:    uc.currency,
		OrderName:   "subscription renewal",
		CustomerID:  sub.UserID(),
		ChargeAt:    sub.PeriodEnd(),
	})
	if !ok {
		uc.logger.Errorw("renewal schedule registration failed",
			"subscription_id", sub.ID(),
			"user_id", sub.UserID(),
			"charge_at", sub.PeriodEnd(),
		)
		if uc.failures != nil {
			if err := uc.failures.Record(ctx, ScheduleFailure{
				SubscriptionID: sub.ID(),
				UserID:         sub.UserID(),
				BillingKey:     sub.BillingKey(),
				AmountMinor:    sub.AmountMinor(),
				ChargeAt:       sub.PeriodEnd(),
				Reason:         "gateway schedule registration failed",
			}); err != nil {
				uc.logger.Errorw("schedule failure record failed", "error", err, "subscription_id", sub.ID())
			}
		}
		return
	}

	sub.SetNextScheduleID(scheduleID)
	if err := uc.subscriptions.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to record schedule ID", "error", err, "subscription_id", sub.ID())
	}
}
