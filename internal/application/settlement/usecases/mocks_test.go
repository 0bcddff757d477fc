package usecases

import (
	"context"
	"time"

	"grapplay/internal/application/settlement/gateway"
	"grapplay/internal/domain/entitlement"
	"grapplay/internal/domain/payment"
	"grapplay/internal/domain/revenue"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/domain/subscription"
)

type mockGatewayClient struct {
	VerifyPaymentFunc              func(ctx context.Context, paymentID string) (*settlement.SettledPayment, error)
	ChargeWithStoredCredentialFunc func(ctx context.Context, req gateway.ChargeRequest) (*settlement.SettledPayment, error)
	ScheduleNextChargeFunc         func(ctx context.Context, req gateway.ScheduleRequest) (string, bool)
}

func (m *mockGatewayClient) VerifyPayment(ctx context.Context, paymentID string) (*settlement.SettledPayment, error) {
	if m.VerifyPaymentFunc != nil {
		return m.VerifyPaymentFunc(ctx, paymentID)
	}
	return &settlement.SettledPayment{GatewayPaymentID: paymentID, Status: settlement.StatusPaid}, nil
}

func (m *mockGatewayClient) ChargeWithStoredCredential(ctx context.Context, req gateway.ChargeRequest) (*settlement.SettledPayment, error) {
	if m.ChargeWithStoredCredentialFunc != nil {
		return m.ChargeWithStoredCredentialFunc(ctx, req)
	}
	return &settlement.SettledPayment{GatewayPaymentID: "recurring-test", Status: settlement.StatusPaid, AmountMinor: req.AmountMinor}, nil
}

func (m *mockGatewayClient) ScheduleNextCharge(ctx context.Context, req gateway.ScheduleRequest) (string, bool) {
	if m.ScheduleNextChargeFunc != nil {
		return m.ScheduleNextChargeFunc(ctx, req)
	}
	return "sched-test", true
}

type mockPaymentRepository struct {
	CreateFunc                func(ctx context.Context, p *payment.Payment) error
	GetByGatewayPaymentIDFunc func(ctx context.Context, gatewayPaymentID string) (*payment.Payment, error)
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *mockPaymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*payment.Payment, error) {
	if m.GetByGatewayPaymentIDFunc != nil {
		return m.GetByGatewayPaymentIDFunc(ctx, gatewayPaymentID)
	}
	return nil, nil
}

type mockEntitlementStore struct {
	UpsertGrantFunc       func(ctx context.Context, grant entitlement.Grant) (bool, error)
	UpsertBundleGrantFunc func(ctx context.Context, grant entitlement.Grant) (bool, error)
	UnlockFeedbackFunc    func(ctx context.Context, userID, feedbackRequestID string) error
}

func (m *mockEntitlementStore) UpsertGrant(ctx context.Context, grant entitlement.Grant) (bool, error) {
	if m.UpsertGrantFunc != nil {
		return m.UpsertGrantFunc(ctx, grant)
	}
	return true, nil
}

func (m *mockEntitlementStore) UpsertBundleGrant(ctx context.Context, grant entitlement.Grant) (bool, error) {
	if m.UpsertBundleGrantFunc != nil {
		return m.UpsertBundleGrantFunc(ctx, grant)
	}
	return true, nil
}

func (m *mockEntitlementStore) UnlockFeedback(ctx context.Context, userID, feedbackRequestID string) error {
	if m.UnlockFeedbackFunc != nil {
		return m.UnlockFeedbackFunc(ctx, userID, feedbackRequestID)
	}
	return nil
}

type mockBundleRepository struct {
	GetByIDFunc func(ctx context.Context, id string) (*entitlement.Bundle, error)
}

func (m *mockBundleRepository) GetByID(ctx context.Context, id string) (*entitlement.Bundle, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockLedgerRepository struct {
	AppendFunc                   func(ctx context.Context, entries ...revenue.LedgerEntry) error
	ListByGatewayPaymentIDFunc   func(ctx context.Context, gatewayPaymentID string) ([]revenue.LedgerEntry, error)
}

func (m *mockLedgerRepository) Append(ctx context.Context, entries ...revenue.LedgerEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entries...)
	}
	return nil
}

func (m *mockLedgerRepository) ListByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) ([]revenue.LedgerEntry, error) {
	if m.ListByGatewayPaymentIDFunc != nil {
		return m.ListByGatewayPaymentIDFunc(ctx, gatewayPaymentID)
	}
	return nil, nil
}

type mockSubscriptionRepository struct {
	CreateFunc             func(ctx context.Context, sub *subscription.Subscription) error
	UpdateFunc             func(ctx context.Context, sub *subscription.Subscription) error
	GetByIDFunc            func(ctx context.Context, id string) (*subscription.Subscription, error)
	GetActiveByUserIDFunc  func(ctx context.Context, userID string) (*subscription.Subscription, error)
	GetByBillingKeyFunc    func(ctx context.Context, billingKey string) (*subscription.Subscription, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetActiveByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	if m.GetActiveByUserIDFunc != nil {
		return m.GetActiveByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByBillingKey(ctx context.Context, billingKey string) (*subscription.Subscription, error) {
	if m.GetByBillingKeyFunc != nil {
		return m.GetByBillingKeyFunc(ctx, billingKey)
	}
	return nil, nil
}

type mockUserFlagStore struct {
	SetSubscriberFunc   func(ctx context.Context, userID string, tier subscription.Tier, periodEnd time.Time) error
	ClearSubscriberFunc func(ctx context.Context, userID string) error
}

func (m *mockUserFlagStore) SetSubscriber(ctx context.Context, userID string, tier subscription.Tier, periodEnd time.Time) error {
	if m.SetSubscriberFunc != nil {
		return m.SetSubscriberFunc(ctx, userID, tier, periodEnd)
	}
	return nil
}

func (m *mockUserFlagStore) ClearSubscriber(ctx context.Context, userID string) error {
	if m.ClearSubscriberFunc != nil {
		return m.ClearSubscriberFunc(ctx, userID)
	}
	return nil
}

type mockCreatorResolver struct {
	ResolveCreatorFunc func(ctx context.Context, mode settlement.Mode, productID string) (string, error)
}

func (m *mockCreatorResolver) ResolveCreator(ctx context.Context, mode settlement.Mode, productID string) (string, error) {
	if m.ResolveCreatorFunc != nil {
		return m.ResolveCreatorFunc(ctx, mode, productID)
	}
	return "creator-test", nil
}

type mockScheduleFailureRecorder struct {
	RecordFunc func(ctx context.Context, failure ScheduleFailure) error
}

func (m *mockScheduleFailureRecorder) Record(ctx context.Context, failure ScheduleFailure) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, failure)
	}
	return nil
}

type mockPaymentFailureNotifier struct {
	NotifyPaymentFailedFunc func(ctx context.Context, userID, subscriptionID string) error
}

func (m *mockPaymentFailureNotifier) NotifyPaymentFailed(ctx context.Context, userID, subscriptionID string) error {
	if m.NotifyPaymentFailedFunc != nil {
		return m.NotifyPaymentFailedFunc(ctx, userID, subscriptionID)
	}
	return nil
}

func testPlanCatalog() subscription.PlanCatalog {
	return subscription.NewStaticPlanCatalog([]subscription.Plan{
		{ID: "basic-monthly", Tier: subscription.TierBasic, Interval: subscription.IntervalMonth, AmountMinor: 10000},
		{ID: "basic-yearly", Tier: subscription.TierBasic, Interval: subscription.IntervalYear, AmountMinor: 100000},
		{ID: "premium-monthly", Tier: subscription.TierPremium, Interval: subscription.IntervalMonth, AmountMinor: 20000},
		{ID: "premium-yearly", Tier: subscription.TierPremium, Interval: subscription.IntervalYear, AmountMinor: 200000},
	})
}
