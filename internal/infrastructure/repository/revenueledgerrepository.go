package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"grapplay/internal/domain/revenue"
	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/db"
)

type RevenueLedgerRepository struct {
	db *gorm.DB
}

func NewRevenueLedgerRepository(db *gorm.DB) *RevenueLedgerRepository {
	return &RevenueLedgerRepository{db: db}
}

func (r *RevenueLedgerRepository) Append(ctx context.Context, entries ...revenue.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]models.RevenueLedgerModel, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ledgerEntryToModel(e))
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append ledger entries: %w", err)
	}
	return nil
}

func (r *RevenueLedgerRepository) ListByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) ([]revenue.LedgerEntry, error) {
	var rows []models.RevenueLedgerModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("gateway_payment_id = ?", gatewayPaymentID).
		Order("recognize_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	entries := make([]revenue.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ledgerModelToEntry(row))
	}
	return entries, nil
}

func ledgerEntryToModel(e revenue.LedgerEntry) models.RevenueLedgerModel {
	var creatorID *string
	if e.CreatorID != "" {
		id := e.CreatorID
		creatorID = &id
	}
	return models.RevenueLedgerModel{
		UserID:              e.UserID,
		CreatorID:           creatorID,
		ProductType:         string(e.ProductType),
		ProductID:           e.ProductID,
		GatewayPaymentID:    e.GatewayPaymentID,
		AmountMinor:         e.AmountMinor,
		PlatformFeeMinor:    e.PlatformFeeMinor,
		CreatorRevenueMinor: e.CreatorRevenueMinor,
		Status:              string(e.Status),
		RecognizeAt:         e.RecognizeAt,
		CreatedAt:           e.CreatedAt,
	}
}

func ledgerModelToEntry(m models.RevenueLedgerModel) revenue.LedgerEntry {
	creatorID := ""
	if m.CreatorID != nil {
		creatorID = *m.CreatorID
	}
	return revenue.LedgerEntry{
		UserID:              m.UserID,
		CreatorID:           creatorID,
		ProductType:         revenue.ProductType(m.ProductType),
		ProductID:           m.ProductID,
		GatewayPaymentID:    m.GatewayPaymentID,
		AmountMinor:         m.AmountMinor,
		PlatformFeeMinor:    m.PlatformFeeMinor,
		CreatorRevenueMinor: m.CreatorRevenueMinor,
		Status:              revenue.EntryStatus(m.Status),
		RecognizeAt:         m.RecognizeAt,
		CreatedAt:           m.CreatedAt,
	}
}
