package models

import "time"

// RevenueLedgerModel is one append-only row of recognized or deferred
// revenue. Amounts may be negative for credits.
type RevenueLedgerModel struct {
	ID                  uint   `gorm:"primaryKey"`
	UserID              string `gorm:"index;size:36;not null"`
	CreatorID           *string `gorm:"index;size:36"`
	ProductType         string  `gorm:"size:36;not null"`
	ProductID           string  `gorm:"size:36"`
	GatewayPaymentID    string  `gorm:"index;size:128;not null"`
	AmountMinor         int64   `gorm:"not null"`
	PlatformFeeMinor    int64   `gorm:"not null"`
	CreatorRevenueMinor int64   `gorm:"not null"`
	Status              string  `gorm:"size:16;not null;index"`
	RecognizeAt         time.Time `gorm:"index;not null"`
	CreatedAt           time.Time
}

func (RevenueLedgerModel) TableName() string {
	return "revenue_ledger"
}
