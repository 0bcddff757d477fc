package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"grapplay/internal/domain/entitlement"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/db"
)

// CatalogRepository reads product catalog rows. It implements both bundle
// lookup and creator resolution for revenue attribution.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*entitlement.Bundle, error) {
	var model models.BundleModel
	err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bundle: %w", err)
	}
	return &entitlement.Bundle{
		ID:         model.ID,
		Title:      model.Title,
		CourseIDs:  []string(model.CourseIDs),
		DrillIDs:   []string(model.DrillIDs),
		PriceMinor: model.PriceMinor,
	}, nil
}

// ResolveCreator returns the creator who earns the revenue share of a sale.
// For feedback requests that is the instructor on the request. A product row
// with no creator resolves to the empty string, and the sale is attributed
// to the platform; only a missing row is an error.
func (r *CatalogRepository) ResolveCreator(ctx context.Context, mode settlement.Mode, productID string) (string, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var table, column string
	switch mode {
	case settlement.ModeCourse:
		table, column = "courses", "creator_id"
	case settlement.ModeDrill:
		table, column = "drills", "creator_id"
	case settlement.ModeRoutine:
		table, column = "routines", "creator_id"
	case settlement.ModeSparring:
		table, column = "sparrings", "creator_id"
	case settlement.ModeBundle:
		table, column = "bundles", "creator_id"
	case settlement.ModeFeedback:
		table, column = "feedback_requests", "instructor_id"
	default:
		return "", fmt.Errorf("mode %q has no creator", mode)
	}

	var row struct {
		CreatorID string
	}
	result := tx.Table(table).
		Select(fmt.Sprintf("%s AS creator_id", column)).
		Where("id = ?", productID).
		Scan(&row)
	if result.Error != nil {
		return "", fmt.Errorf("failed to resolve creator for %s %s: %w", mode, productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return "", fmt.Errorf("%s %s not found", mode, productID)
	}
	return row.CreatorID, nil
}
