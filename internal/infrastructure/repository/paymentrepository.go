// Package repository contains the gorm-backed implementations of the domain
// repository interfaces.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"grapplay/internal/domain/payment"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/db"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := paymentToModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*payment.Payment, error) {
	var model models.PaymentModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("gateway_payment_id = ?", gatewayPaymentID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return paymentToEntity(&model), nil
}

func paymentToModel(p *payment.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:               p.ID(),
		GatewayPaymentID: p.GatewayPaymentID(),
		UserID:           p.UserID(),
		Mode:             string(p.Mode()),
		ProductID:        p.ProductID(),
		AmountMinor:      p.AmountMinor(),
		CurrencyCode:     p.CurrencyCode(),
		Status:           string(p.Status()),
		CreatedAt:        p.CreatedAt(),
	}
}

func paymentToEntity(m *models.PaymentModel) *payment.Payment {
	return payment.ReconstructPayment(
		m.ID,
		m.GatewayPaymentID,
		m.UserID,
		settlement.Mode(m.Mode),
		m.ProductID,
		m.AmountMinor,
		m.CurrencyCode,
		settlement.PaymentStatus(m.Status),
		m.CreatedAt,
	)
}
