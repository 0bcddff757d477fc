package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"grapplay/internal/domain/subscription"
	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/biztime"
	"grapplay/internal/shared/db"
)

// UserFlagStore mirrors subscription state onto the users table.
type UserFlagStore struct {
	db *gorm.DB
}

func NewUserFlagStore(db *gorm.DB) *UserFlagStore {
	return &UserFlagStore{db: db}
}

func (s *UserFlagStore) SetSubscriber(ctx context.Context, userID string, tier subscription.Tier, periodEnd time.Time) error {
	tierStr := string(tier)
	result := db.GetTxFromContext(ctx, s.db).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_subscriber":           true,
			"subscription_tier":       &tierStr,
			"subscription_period_end": &periodEnd,
			"updated_at":              biztime.NowUTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set subscriber flag: %w", result.Error)
	}
	return nil
}

func (s *UserFlagStore) ClearSubscriber(ctx context.Context, userID string) error {
	result := db.GetTxFromContext(ctx, s.db).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_subscriber":           false,
			"subscription_tier":       nil,
			"subscription_period_end": nil,
			"updated_at":              biztime.NowUTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to clear subscriber flag: %w", result.Error)
	}
	return nil
}
