package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"grapplay/internal/application/settlement/usecases"
	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/db"
)

// ScheduleFailureRepository is the dead-letter store for renewal charges
// that could not be registered with the gateway.
type ScheduleFailureRepository struct {
	db *gorm.DB
}

func NewScheduleFailureRepository(db *gorm.DB) *ScheduleFailureRepository {
	return &ScheduleFailureRepository{db: db}
}

func (r *ScheduleFailureRepository) Record(ctx context.Context, failure usecases.ScheduleFailure) error {
	row := models.PaymentScheduleFailureModel{
		SubscriptionID: failure.SubscriptionID,
		UserID:         failure.UserID,
		BillingKey:     failure.BillingKey,
		AmountMinor:    failure.AmountMinor,
		ChargeAt:       failure.ChargeAt,
		Reason:         failure.Reason,
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record schedule failure: %w", err)
	}
	return nil
}
