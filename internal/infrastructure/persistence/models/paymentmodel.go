// Package models contains the gorm persistence models.
package models

import "time"

// PaymentModel is the write-once audit row for a settled payment. The unique
// gateway payment ID is what deduplicates retried settlements.
type PaymentModel struct {
	ID               string `gorm:"primaryKey;size:36"`
	GatewayPaymentID string `gorm:"uniqueIndex;size:128;not null"`
	UserID           string `gorm:"index;size:36;not null"`
	Mode             string `gorm:"size:32;not null"`
	ProductID        string `gorm:"size:36"`
	AmountMinor      int64  `gorm:"not null"`
	CurrencyCode     string `gorm:"size:10;not null;default:'KRW'"`
	Status           string `gorm:"size:32;not null"`
	CreatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
