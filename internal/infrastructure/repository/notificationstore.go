package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/db"
)

// NotificationStore writes in-app notifications. It implements the payment
// failure notifier used by the renewal webhook flow.
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) NotifyPaymentFailed(ctx context.Context, userID, subscriptionID string) error {
	row := models.NotificationModel{
		UserID: userID,
		Type:   "subscription_payment_failed",
		Title:  "구독 결제 실패",
		Body:   "구독 갱신 결제에 실패했습니다. 결제 수단을 확인해 주세요.",
	}
	if err := db.GetTxFromContext(ctx, s.db).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create notification for subscription %s: %w", subscriptionID, err)
	}
	return nil
}
