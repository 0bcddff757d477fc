package models

import "time"

// UserModel carries only the columns this subsystem touches: the live
// subscription mirror used for cheap access checks.
type UserModel struct {
	ID                    string `gorm:"primaryKey;size:36"`
	Email                 string `gorm:"uniqueIndex;size:255;not null"`
	IsSubscriber          bool   `gorm:"not null;default:false"`
	SubscriptionTier      *string `gorm:"size:16"`
	SubscriptionPeriodEnd *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// NotificationModel is an in-app notification row, written when a renewal
// charge fails.
type NotificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index;size:36;not null"`
	Type      string `gorm:"size:64;not null"`
	Title     string `gorm:"size:255;not null"`
	Body      string `gorm:"type:text"`
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// PaymentScheduleFailureModel is the dead-letter row for a renewal charge
// that could not be registered with the gateway.
type PaymentScheduleFailureModel struct {
	ID             uint      `gorm:"primaryKey"`
	SubscriptionID string    `gorm:"index;size:36;not null"`
	UserID         string    `gorm:"index;size:36;not null"`
	BillingKey     string    `gorm:"size:128;not null"`
	AmountMinor    int64     `gorm:"not null"`
	ChargeAt       time.Time `gorm:"not null"`
	Reason         string    `gorm:"size:255"`
	Resolved       bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

func (PaymentScheduleFailureModel) TableName() string {
	return "payment_schedule_failures"
}
