package models

import "time"

// One table per entitlement kind, each with a composite unique index on
// (user, resource) so grants upsert instead of duplicating.

type CourseEnrollmentModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"uniqueIndex:idx_course_enrollment_user_course;size:36;not null"`
	CourseID  string    `gorm:"uniqueIndex:idx_course_enrollment_user_course;size:36;not null"`
	CreatedAt time.Time
}

func (CourseEnrollmentModel) TableName() string {
	return "course_enrollments"
}

type UserDrillModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"uniqueIndex:idx_user_drill_user_drill;size:36;not null"`
	DrillID   string    `gorm:"uniqueIndex:idx_user_drill_user_drill;size:36;not null"`
	CreatedAt time.Time
}

func (UserDrillModel) TableName() string {
	return "user_drills"
}

type UserRoutineModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"uniqueIndex:idx_user_routine_user_routine;size:36;not null"`
	RoutineID string    `gorm:"uniqueIndex:idx_user_routine_user_routine;size:36;not null"`
	CreatedAt time.Time
}

func (UserRoutineModel) TableName() string {
	return "user_routines"
}

type UserSparringModel struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     string    `gorm:"uniqueIndex:idx_user_sparring_user_sparring;size:36;not null"`
	SparringID string    `gorm:"uniqueIndex:idx_user_sparring_user_sparring;size:36;not null"`
	CreatedAt  time.Time
}

func (UserSparringModel) TableName() string {
	return "user_sparrings"
}

// UserBundleModel records the bundle purchase itself alongside the price
// paid, separate from the member grants it expands to.
type UserBundleModel struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         string    `gorm:"uniqueIndex:idx_user_bundle_user_bundle;size:36;not null"`
	BundleID       string    `gorm:"uniqueIndex:idx_user_bundle_user_bundle;size:36;not null"`
	PricePaidMinor *int64
	CreatedAt      time.Time
}

func (UserBundleModel) TableName() string {
	return "user_bundles"
}
