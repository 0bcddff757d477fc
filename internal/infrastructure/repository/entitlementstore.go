package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grapplay/internal/domain/entitlement"
	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/biztime"
	"grapplay/internal/shared/db"
)

// EntitlementStore persists grants with conflict-ignoring inserts, so
// concurrent duplicate settlements cannot produce duplicate rows.
type EntitlementStore struct {
	db *gorm.DB
}

func NewEntitlementStore(db *gorm.DB) *EntitlementStore {
	return &EntitlementStore{db: db}
}

func (s *EntitlementStore) UpsertGrant(ctx context.Context, grant entitlement.Grant) (bool, error) {
	tx := db.GetTxFromContext(ctx, s.db)

	var result *gorm.DB
	switch grant.Kind {
	case entitlement.KindCourse:
		result = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.CourseEnrollmentModel{
			UserID:    grant.UserID,
			CourseID:  grant.ResourceID,
			CreatedAt: grant.GrantedAt,
		})
	case entitlement.KindDrill:
		result = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserDrillModel{
			UserID:    grant.UserID,
			DrillID:   grant.ResourceID,
			CreatedAt: grant.GrantedAt,
		})
	case entitlement.KindRoutine:
		result = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserRoutineModel{
			UserID:    grant.UserID,
			RoutineID: grant.ResourceID,
			CreatedAt: grant.GrantedAt,
		})
	case entitlement.KindSparring:
		result = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserSparringModel{
			UserID:     grant.UserID,
			SparringID: grant.ResourceID,
			CreatedAt:  grant.GrantedAt,
		})
	default:
		return false, fmt.Errorf("unsupported entitlement kind %q", grant.Kind)
	}

	if result.Error != nil {
		return false, fmt.Errorf("failed to upsert %s grant: %w", grant.Kind, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *EntitlementStore) UpsertBundleGrant(ctx context.Context, grant entitlement.Grant) (bool, error) {
	result := db.GetTxFromContext(ctx, s.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserBundleModel{
			UserID:         grant.UserID,
			BundleID:       grant.ResourceID,
			PricePaidMinor: grant.PricePaidMinor,
			CreatedAt:      grant.GrantedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to upsert bundle grant: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UnlockFeedback marks the request paid and moves its workflow status to
// pending so it enters the instructor's queue. An already-paid request is
// left untouched.
func (s *EntitlementStore) UnlockFeedback(ctx context.Context, userID, feedbackRequestID string) error {
	result := db.GetTxFromContext(ctx, s.db).
		Model(&models.FeedbackRequestModel{}).
		Where("id = ? AND user_id = ? AND payment_status <> ?", feedbackRequestID, userID, "paid").
		Updates(map[string]interface{}{
			"payment_status": "paid",
			"status":         "pending",
			"paid_at":        biztime.NowUTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to unlock feedback request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the request does not exist or it was already paid.
		var count int64
		if err := db.GetTxFromContext(ctx, s.db).
			Model(&models.FeedbackRequestModel{}).
			Where("id = ? AND user_id = ?", feedbackRequestID, userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check feedback request: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("feedback request %s not found for user", feedbackRequestID)
		}
	}
	return nil
}
