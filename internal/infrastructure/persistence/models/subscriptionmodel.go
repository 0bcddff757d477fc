package models

import "time"

// SubscriptionModel is one billing cycle. Renewals insert a new row and mark
// the prior cycle renewed.
type SubscriptionModel struct {
	ID               string  `gorm:"primaryKey;size:36"`
	UserID           string  `gorm:"index;size:36;not null"`
	PlanID           string  `gorm:"size:64;not null"`
	Tier             string  `gorm:"size:16;not null"`
	PlanInterval     string  `gorm:"size:8;not null"`
	Status           string  `gorm:"size:16;not null;index"`
	AmountMinor      int64   `gorm:"not null"`
	GatewayPaymentID string  `gorm:"index;size:128;not null"`
	BillingKey       *string `gorm:"index;size:128"`
	PeriodStart      time.Time `gorm:"not null"`
	PeriodEnd        time.Time `gorm:"not null"`
	NextScheduleID   *string   `gorm:"size:128"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
