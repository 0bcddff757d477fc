package migration

import (
	"grapplay/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.CourseModel{},
		&models.DrillModel{},
		&models.RoutineModel{},
		&models.SparringModel{},
		&models.BundleModel{},
		&models.FeedbackRequestModel{},
		&models.PaymentModel{},
		&models.SubscriptionModel{},
		&models.RevenueLedgerModel{},
		&models.CourseEnrollmentModel{},
		&models.UserDrillModel{},
		&models.UserRoutineModel{},
		&models.UserSparringModel{},
		&models.UserBundleModel{},
		&models.NotificationModel{},
		&models.PaymentScheduleFailureModel{},
	}
}
