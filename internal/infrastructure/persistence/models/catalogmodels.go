package models

import (
	"time"

	"gorm.io/datatypes"
)

// Catalog tables. This subsystem only reads them; content management lives
// elsewhere.

type CourseModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	Title      string `gorm:"size:255;not null"`
	CreatorID  string `gorm:"index;size:36;not null"`
	PriceMinor int64  `gorm:"not null"`
	CreatedAt  time.Time
}

func (CourseModel) TableName() string {
	return "courses"
}

type DrillModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	Title      string `gorm:"size:255;not null"`
	CreatorID  string `gorm:"index;size:36;not null"`
	PriceMinor int64  `gorm:"not null"`
	CreatedAt  time.Time
}

func (DrillModel) TableName() string {
	return "drills"
}

type RoutineModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	Title      string `gorm:"size:255;not null"`
	CreatorID  string `gorm:"index;size:36;not null"`
	PriceMinor int64  `gorm:"not null"`
	CreatedAt  time.Time
}

func (RoutineModel) TableName() string {
	return "routines"
}

type SparringModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	Title      string `gorm:"size:255;not null"`
	CreatorID  string `gorm:"index;size:36;not null"`
	PriceMinor int64  `gorm:"not null"`
	CreatedAt  time.Time
}

func (SparringModel) TableName() string {
	return "sparrings"
}

type BundleModel struct {
	ID         string                      `gorm:"primaryKey;size:36"`
	Title      string                      `gorm:"size:255;not null"`
	CreatorID  string                      `gorm:"index;size:36;not null"`
	CourseIDs  datatypes.JSONSlice[string] `gorm:"type:json"`
	DrillIDs   datatypes.JSONSlice[string] `gorm:"type:json"`
	PriceMinor int64                       `gorm:"not null"`
	CreatedAt  time.Time
}

func (BundleModel) TableName() string {
	return "bundles"
}

// FeedbackRequestModel is a video feedback request. Settlement marks it paid
// and moves the workflow to pending so it enters the instructor's queue.
type FeedbackRequestModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	UserID        string `gorm:"index;size:36;not null"`
	InstructorID  string `gorm:"index;size:36;not null"`
	Status        string `gorm:"size:16;not null;default:'created'"`
	PaymentStatus string `gorm:"size:16;not null;default:'unpaid'"`
	PaidAt        *time.Time
	PriceMinor    int64 `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (FeedbackRequestModel) TableName() string {
	return "feedback_requests"
}
