package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"grapplay/internal/application/settlement/gateway"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/domain/subscription"
	"grapplay/internal/shared/errors"
	"grapplay/internal/shared/logger"
)

func TestActivateSubscriptionUseCase_NewMonthly(t *testing.T) {
	var created *subscription.Subscription
	subs := &mockSubscriptionRepository{
		CreateFunc: func(ctx context.Context, sub *subscription.Subscription) error {
			created = sub
			return nil
		},
	}
	var scheduled gateway.ScheduleRequest
	gw := &mockGatewayClient{
		ScheduleNextChargeFunc: func(ctx context.Context, req gateway.ScheduleRequest) (string, bool) {
			scheduled = req
			return "sched-1", true
		},
	}
	flagTier := subscription.Tier("")
	flags := &mockUserFlagStore{
		SetSubscriberFunc: func(ctx context.Context, userID string, tier subscription.Tier, periodEnd time.Time) error {
			flagTier = tier
			return nil
		},
	}
	uc := NewActivateSubscriptionUseCase(subs, flags, testPlanCatalog(), gw, "KRW", logger.NewLogger())

	result, err := uc.Execute(context.Background(), ActivateSubscriptionCommand{
		UserID:           "user-1",
		Mode:             settlement.ModeSubscription,
		PlanID:           "premium-monthly",
		BillingKey:       "bk-1",
		GatewayPaymentID: "pay-1",
		AmountMinor:      20000,
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, subscription.TierPremium, result.Subscription.Tier())
	assert.Equal(t, subscription.IntervalMonth, result.Subscription.Interval())
	assert.Equal(t, subscription.TierPremium, flagTier)
	// next renewal charge registered at period end
	assert.Equal(t, "bk-1", scheduled.BillingKey)
	assert.True(t, scheduled.ChargeAt.Equal(result.Subscription.PeriodEnd()))
	if assert.NotNil(t, result.Subscription.NextScheduleID()) {
		assert.Equal(t, "sched-1", *result.Subscription.NextScheduleID())
	}
}

func TestActivateSubscriptionUseCase_AnnualNeverSchedules(t *testing.T) {
	scheduleCalled := false
	gw := &mockGatewayClient{
		ScheduleNextChargeFunc: func(ctx context.Context, req gateway.ScheduleRequest) (string, bool) {
			scheduleCalled = true
			return "sched-1", true
		},
	}
	uc := NewActivateSubscriptionUseCase(&mockSubscriptionRepository{}, &mockUserFlagStore{}, testPlanCatalog(), gw, "KRW", logger.NewLogger())

	result, err := uc.Execute(context.Background(), ActivateSubscriptionCommand{
		UserID:           "user-1",
		Mode:             settlement.ModeSubscription,
		PlanID:           "premium-yearly",
		BillingKey:       "bk-1",
		GatewayPaymentID: "pay-1",
		AmountMinor:      200000,
	})

	assert.NoError(t, err)
	assert.False(t, scheduleCalled)
	assert.Nil(t, result.Subscription.NextScheduleID())
	wantEnd := result.Subscription.PeriodStart().AddDate(1, 0, 0)
	assert.True(t, result.Subscription.PeriodEnd().Equal(wantEnd))
}

func TestActivateSubscriptionUseCase_ScheduleFailureRecorded(t *testing.T) {
	gw := &mockGatewayClient{
		ScheduleNextChargeFunc: func(ctx context.Context, req gateway.ScheduleRequest) (string, bool) {
			return "", false
		},
	}
	var recorded *ScheduleFailure
	recorder := &mockScheduleFailureRecorder{
		RecordFunc: func(ctx context.Context, failure ScheduleFailure) error {
			recorded = &failure
			return nil
		},
	}
	uc := NewActivateSubscriptionUseCase(&mockSubscriptionRepository{}, &mockUserFlagStore{}, testPlanCatalog(), gw, "KRW", logger.NewLogger())
	uc.SetScheduleFailureRecorder(recorder)

	result, err := uc.Execute(context.Background(), ActivateSubscriptionCommand{
		UserID:           "user-1",
		Mode:             settlement.ModeSubscription,
		PlanID:           "basic-monthly",
		BillingKey:       "bk-1",
		GatewayPaymentID: "pay-1",
		AmountMinor:      10000,
	})

	// a missed schedule must not fail the settlement
	assert.NoError(t, err)
	assert.Nil(t, result.Subscription.NextScheduleID())
	if assert.NotNil(t, recorded) {
		assert.Equal(t, result.Subscription.ID(), recorded.SubscriptionID)
		assert.Equal(t, "bk-1", recorded.BillingKey)
	}
}

func TestActivateSubscriptionUseCase_UpgradeInheritsTierAndForcesYear(t *testing.T) {
	periodStart := time.Now().UTC().AddDate(0, 0, -15)
	periodEnd := periodStart.AddDate(0, 1, 0)
	prior := subscription.ReconstructSubscription(
		"sub-old", "user-1", "premium-monthly",
		subscription.TierPremium, subscription.IntervalMonth, subscription.StatusActive,
		20000, "pay-0", "bk-1", periodStart, periodEnd, nil, periodStart, periodStart,
	)
	var updated *subscription.Subscription
	subs := &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*subscription.Subscription, error) {
			if id == "sub-old" {
				return prior, nil
			}
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, sub *subscription.Subscription) error {
			updated = sub
			return nil
		},
	}
	uc := NewActivateSubscriptionUseCase(subs, &mockUserFlagStore{}, testPlanCatalog(), &mockGatewayClient{}, "KRW", logger.NewLogger())

	result, err := uc.Execute(context.Background(), ActivateSubscriptionCommand{
		UserID:              "user-1",
		Mode:                settlement.ModeSubscriptionUpgrade,
		BillingKey:          "bk-1",
		GatewayPaymentID:    "pay-1",
		AmountMinor:         200000,
		PriorSubscriptionID: "sub-old",
	})

	assert.NoError(t, err)
	assert.Equal(t, subscription.TierPremium, result.Subscription.Tier())
	assert.Equal(t, subscription.IntervalYear, result.Subscription.Interval())
	// prior cycle closed as upgraded
	if assert.NotNil(t, updated) {
		assert.Equal(t, subscription.StatusUpgraded, updated.Status())
	}
	// roughly half the monthly amount remains as credit
	remaining := prior.RemainingDays(time.Now().UTC())
	assert.Equal(t, int64(20000)*int64(remaining)/30, result.ProrationCreditMinor)
	assert.Positive(t, result.ProrationCreditMinor)
}

func TestActivateSubscriptionUseCase_UpgradeWrongUser(t *testing.T) {
	prior := subscription.ReconstructSubscription(
		"sub-old", "user-2", "premium-monthly",
		subscription.TierPremium, subscription.IntervalMonth, subscription.StatusActive,
		20000, "pay-0", "bk-1", time.Now(), time.Now().AddDate(0, 1, 0), nil, time.Now(), time.Now(),
	)
	subs := &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*subscription.Subscription, error) {
			return prior, nil
		},
	}
	uc := NewActivateSubscriptionUseCase(subs, &mockUserFlagStore{}, testPlanCatalog(), &mockGatewayClient{}, "KRW", logger.NewLogger())

	_, err := uc.Execute(context.Background(), ActivateSubscriptionCommand{
		UserID:              "user-1",
		Mode:                settlement.ModeSubscriptionUpgrade,
		GatewayPaymentID:    "pay-1",
		AmountMinor:         200000,
		PriorSubscriptionID: "sub-old",
	})

	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidSettlementRequest))
}

func TestActivateSubscriptionUseCase_UnknownPlan(t *testing.T) {
	uc := NewActivateSubscriptionUseCase(&mockSubscriptionRepository{}, &mockUserFlagStore{}, testPlanCatalog(), &mockGatewayClient{}, "KRW", logger.NewLogger())

	_, err := uc.Execute(context.Background(), ActivateSubscriptionCommand{
		UserID:           "user-1",
		Mode:             settlement.ModeSubscription,
		PlanID:           "nonexistent",
		GatewayPaymentID: "pay-1",
		AmountMinor:      10000,
	})

	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidSettlementRequest))
}
