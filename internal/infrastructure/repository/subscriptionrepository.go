package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"grapplay/internal/domain/subscription"
	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/db"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := subscriptionToModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := subscriptionToModel(sub)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"next_schedule_id": model.NextScheduleID,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return subscriptionToEntity(&model), nil
}

func (r *SubscriptionRepository) GetActiveByUserID(ctx context.Context, userID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status IN ?", userID, []string{string(subscription.StatusActive), string(subscription.StatusPastDue)}).
		Order("period_end DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return subscriptionToEntity(&model), nil
}

func (r *SubscriptionRepository) GetByBillingKey(ctx context.Context, billingKey string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("billing_key = ? AND status IN ?", billingKey, []string{string(subscription.StatusActive), string(subscription.StatusPastDue)}).
		Order("period_end DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription by billing key: %w", err)
	}
	return subscriptionToEntity(&model), nil
}

func subscriptionToModel(sub *subscription.Subscription) *models.SubscriptionModel {
	var billingKey *string
	if sub.BillingKey() != "" {
		key := sub.BillingKey()
		billingKey = &key
	}
	return &models.SubscriptionModel{
		ID:               sub.ID(),
		UserID:           sub.UserID(),
		PlanID:           sub.PlanID(),
		Tier:             string(sub.Tier()),
		PlanInterval:     string(sub.Interval()),
		Status:           string(sub.Status()),
		AmountMinor:      sub.AmountMinor(),
		GatewayPaymentID: sub.GatewayPaymentID(),
		BillingKey:       billingKey,
		PeriodStart:      sub.PeriodStart(),
		PeriodEnd:        sub.PeriodEnd(),
		NextScheduleID:   sub.NextScheduleID(),
		CreatedAt:        sub.CreatedAt(),
		UpdatedAt:        sub.UpdatedAt(),
	}
}

func subscriptionToEntity(m *models.SubscriptionModel) *subscription.Subscription {
	billingKey := ""
	if m.BillingKey != nil {
		billingKey = *m.BillingKey
	}
	return subscription.ReconstructSubscription(
		m.ID,
		m.UserID,
		m.PlanID,
		subscription.Tier(m.Tier),
		subscription.Interval(m.PlanInterval),
		subscription.Status(m.Status),
		m.AmountMinor,
		m.GatewayPaymentID,
		billingKey,
		m.PeriodStart,
		m.PeriodEnd,
		m.NextScheduleID,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
