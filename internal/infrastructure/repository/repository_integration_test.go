package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"grapplay/internal/application/settlement/usecases"
	"grapplay/internal/domain/entitlement"
	"grapplay/internal/domain/payment"
	"grapplay/internal/domain/revenue"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/domain/subscription"
	"grapplay/internal/infrastructure/persistence/models"
	"grapplay/internal/shared/biztime"
	"grapplay/internal/shared/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
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
	)
	require.NoError(t, err)

	return db
}

func TestPaymentRepository_CreateAndDedupe(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	p, err := payment.NewPayment("pay-1", "gw-100", "user-1", settlement.ModeCourse, "course-1", 10000, "KRW", settlement.StatusPaid)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, p))

	t.Run("lookup by gateway payment id", func(t *testing.T) {
		found, err := repo.GetByGatewayPaymentID(ctx, "gw-100")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "user-1", found.UserID())
		assert.Equal(t, settlement.ModeCourse, found.Mode())
		assert.Equal(t, int64(10000), found.AmountMinor())
	})

	t.Run("unknown gateway payment id returns nil", func(t *testing.T) {
		found, err := repo.GetByGatewayPaymentID(ctx, "gw-missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate gateway payment id rejected", func(t *testing.T) {
		dup, err := payment.NewPayment("pay-2", "gw-100", "user-1", settlement.ModeCourse, "course-1", 10000, "KRW", settlement.StatusPaid)
		require.NoError(t, err)

		err = repo.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, errors.IsDuplicateError(err))
	})
}

func TestEntitlementStore_UpsertGrant(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntitlementStore(db)
	ctx := context.Background()

	grant := entitlement.Grant{
		UserID:     "user-1",
		Kind:       entitlement.KindCourse,
		ResourceID: "course-1",
		GrantedAt:  biztime.NowUTC(),
	}

	created, err := store.UpsertGrant(ctx, grant)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.UpsertGrant(ctx, grant)
	require.NoError(t, err)
	assert.False(t, created, "second upsert is a no-op")

	var count int64
	require.NoError(t, db.Model(&models.CourseEnrollmentModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEntitlementStore_UpsertGrant_AllKinds(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntitlementStore(db)
	ctx := context.Background()

	kinds := []entitlement.Kind{
		entitlement.KindCourse,
		entitlement.KindDrill,
		entitlement.KindRoutine,
		entitlement.KindSparring,
	}

	for _, kind := range kinds {
		created, err := store.UpsertGrant(ctx, entitlement.Grant{
			UserID:     "user-1",
			Kind:       kind,
			ResourceID: "res-1",
			GrantedAt:  biztime.NowUTC(),
		})
		require.NoError(t, err, "kind %s", kind)
		assert.True(t, created, "kind %s", kind)
	}
}

func TestEntitlementStore_UpsertBundleGrant(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntitlementStore(db)
	ctx := context.Background()

	price := int64(45000)
	grant := entitlement.Grant{
		UserID:         "user-1",
		Kind:           entitlement.KindBundle,
		ResourceID:     "bundle-1",
		PricePaidMinor: &price,
		GrantedAt:      biztime.NowUTC(),
	}

	created, err := store.UpsertBundleGrant(ctx, grant)
	require.NoError(t, err)
	assert.True(t, created)

	var row models.UserBundleModel
	require.NoError(t, db.First(&row).Error)
	require.NotNil(t, row.PricePaidMinor)
	assert.Equal(t, int64(45000), *row.PricePaidMinor)

	created, err = store.UpsertBundleGrant(ctx, grant)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEntitlementStore_UnlockFeedback(t *testing.T) {
	db := setupTestDB(t)
	store := NewEntitlementStore(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.FeedbackRequestModel{
		ID:            "fb-1",
		UserID:        "user-1",
		InstructorID:  "coach-1",
		Status:        "created",
		PaymentStatus: "unpaid",
		PriceMinor:    30000,
	}).Error)

	require.NoError(t, store.UnlockFeedback(ctx, "user-1", "fb-1"))

	// payment and workflow status move together so the request lands in
	// the instructor's pending queue
	var row models.FeedbackRequestModel
	require.NoError(t, db.First(&row, "id = ?", "fb-1").Error)
	assert.Equal(t, "paid", row.PaymentStatus)
	assert.Equal(t, "pending", row.Status)
	assert.NotNil(t, row.PaidAt)

	t.Run("already paid is a no-op", func(t *testing.T) {
		require.NoError(t, db.Model(&models.FeedbackRequestModel{}).
			Where("id = ?", "fb-1").
			Update("status", "completed").Error)

		assert.NoError(t, store.UnlockFeedback(ctx, "user-1", "fb-1"))

		var again models.FeedbackRequestModel
		require.NoError(t, db.First(&again, "id = ?", "fb-1").Error)
		assert.Equal(t, "completed", again.Status, "replayed unlock must not reset the workflow")
	})

	t.Run("unknown request fails", func(t *testing.T) {
		assert.Error(t, store.UnlockFeedback(ctx, "user-1", "fb-missing"))
	})

	t.Run("other user's request fails", func(t *testing.T) {
		assert.Error(t, store.UnlockFeedback(ctx, "user-2", "fb-1"))
	})
}

func TestSubscriptionRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	sub, err := subscription.NewSubscription("sub-1", "user-1", "basic-monthly",
		subscription.TierBasic, subscription.IntervalMonth, 10000, "gw-1", "bk-1")
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, sub))

	t.Run("get by id", func(t *testing.T) {
		found, err := repo.GetByID(ctx, "sub-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, subscription.StatusActive, found.Status())
		assert.Equal(t, "bk-1", found.BillingKey())
		assert.Equal(t, "gw-1", found.GatewayPaymentID())
	})

	t.Run("get active by user", func(t *testing.T) {
		found, err := repo.GetActiveByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "sub-1", found.ID())
	})

	t.Run("get by billing key", func(t *testing.T) {
		found, err := repo.GetByBillingKey(ctx, "bk-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "sub-1", found.ID())
	})

	t.Run("status update persists", func(t *testing.T) {
		sub.SetNextScheduleID("sched-1")
		require.NoError(t, repo.Update(ctx, sub))

		found, err := repo.GetByID(ctx, "sub-1")
		require.NoError(t, err)
		require.NotNil(t, found.NextScheduleID())
		assert.Equal(t, "sched-1", *found.NextScheduleID())
	})

	t.Run("renewal replaces the active row", func(t *testing.T) {
		next, err := sub.NextCycle("sub-2", "gw-2")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, next))

		require.NoError(t, sub.MarkRenewed())
		require.NoError(t, repo.Update(ctx, sub))

		found, err := repo.GetByBillingKey(ctx, "bk-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "sub-2", found.ID(), "renewed rows no longer match the active lookup")

		old, err := repo.GetByID(ctx, "sub-1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusRenewed, old.Status())
	})

	t.Run("no active subscription returns nil", func(t *testing.T) {
		found, err := repo.GetActiveByUserID(ctx, "user-none")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRevenueLedgerRepository_AppendAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueLedgerRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := revenue.AnnualSchedule("user-1", "sub-1", "gw-200", 120000, start)
	require.NoError(t, repo.Append(ctx, entries...))

	listed, err := repo.ListByGatewayPaymentID(ctx, "gw-200")
	require.NoError(t, err)
	require.Len(t, listed, 12)

	var total int64
	for i, e := range listed {
		total += e.AmountMinor
		assert.Equal(t, revenue.StatusPending, e.Status)
		assert.Empty(t, e.CreatorID)
		assert.WithinDuration(t, biztime.AddMonths(start, i), e.RecognizeAt, time.Second)
	}
	assert.Equal(t, int64(120000), total)
}

func TestRevenueLedgerRepository_SaleEntryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRevenueLedgerRepository(db)
	ctx := context.Background()

	entry := revenue.NewSaleEntry("user-1", "creator-1", revenue.ProductCourse, "course-1", "gw-300", 10000, 0.20)
	require.NoError(t, repo.Append(ctx, entry))

	listed, err := repo.ListByGatewayPaymentID(ctx, "gw-300")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "creator-1", listed[0].CreatorID)
	assert.Equal(t, int64(2000), listed[0].PlatformFeeMinor)
	assert.Equal(t, int64(8000), listed[0].CreatorRevenueMinor)
	assert.Equal(t, revenue.StatusProcessed, listed[0].Status)
}

func TestCatalogRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.BundleModel{
		ID:         "bundle-1",
		Title:      "Guard Fundamentals",
		CreatorID:  "creator-1",
		CourseIDs:  datatypes.JSONSlice[string]{"course-1", "course-2"},
		DrillIDs:   datatypes.JSONSlice[string]{"drill-1"},
		PriceMinor: 45000,
	}).Error)

	bundle, err := repo.GetByID(ctx, "bundle-1")
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, []string{"course-1", "course-2"}, []string(bundle.CourseIDs))
	assert.Equal(t, []string{"drill-1"}, []string(bundle.DrillIDs))
	assert.Equal(t, 3, bundle.MemberCount())

	missing, err := repo.GetByID(ctx, "bundle-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalogRepository_ResolveCreator(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.CourseModel{ID: "course-1", Title: "Closed Guard", CreatorID: "creator-1", PriceMinor: 10000}).Error)
	require.NoError(t, db.Create(&models.DrillModel{ID: "drill-1", Title: "Shrimping", CreatorID: "creator-2", PriceMinor: 3000}).Error)
	require.NoError(t, db.Create(&models.DrillModel{ID: "drill-2", Title: "Breakfalls", CreatorID: "", PriceMinor: 2000}).Error)
	require.NoError(t, db.Create(&models.FeedbackRequestModel{ID: "fb-1", UserID: "user-1", InstructorID: "coach-1", Status: "created", PaymentStatus: "unpaid", PriceMinor: 30000}).Error)

	tests := []struct {
		name      string
		mode      settlement.Mode
		productID string
		want      string
		wantErr   bool
	}{
		{"course creator", settlement.ModeCourse, "course-1", "creator-1", false},
		{"drill creator", settlement.ModeDrill, "drill-1", "creator-2", false},
		{"feedback instructor", settlement.ModeFeedback, "fb-1", "coach-1", false},
		{"no creator resolves empty for platform attribution", settlement.ModeDrill, "drill-2", "", false},
		{"missing product", settlement.ModeCourse, "course-missing", "", true},
		{"subscription has no creator", settlement.ModeSubscription, "basic-monthly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ResolveCreator(ctx, tt.mode, tt.productID)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserFlagStore_SetAndClear(t *testing.T) {
	db := setupTestDB(t)
	store := NewUserFlagStore(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.UserModel{ID: "user-1", Email: "u1@example.com"}).Error)

	periodEnd := biztime.AddMonths(biztime.NowUTC(), 1)
	require.NoError(t, store.SetSubscriber(ctx, "user-1", subscription.TierPremium, periodEnd))

	var row models.UserModel
	require.NoError(t, db.First(&row, "id = ?", "user-1").Error)
	assert.True(t, row.IsSubscriber)
	require.NotNil(t, row.SubscriptionTier)
	assert.Equal(t, "premium", *row.SubscriptionTier)
	require.NotNil(t, row.SubscriptionPeriodEnd)

	require.NoError(t, store.ClearSubscriber(ctx, "user-1"))

	// Reset before re-scanning: gorm leaves a stale *time.Time in a reused
	// struct when the column is NULL.
	row = models.UserModel{}
	require.NoError(t, db.First(&row, "id = ?", "user-1").Error)
	assert.False(t, row.IsSubscriber)
	assert.Nil(t, row.SubscriptionTier)
	assert.Nil(t, row.SubscriptionPeriodEnd)
}

func TestScheduleFailureRepository_Record(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScheduleFailureRepository(db)
	ctx := context.Background()

	chargeAt := biztime.AddMonths(biztime.NowUTC(), 1)
	err := repo.Record(ctx, usecases.ScheduleFailure{
		SubscriptionID: "sub-1",
		UserID:         "user-1",
		BillingKey:     "bk-1",
		AmountMinor:    10000,
		ChargeAt:       chargeAt,
		Reason:         "schedule registration failed",
	})
	require.NoError(t, err)

	var row models.PaymentScheduleFailureModel
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "sub-1", row.SubscriptionID)
	assert.Equal(t, int64(10000), row.AmountMinor)
	assert.False(t, row.Resolved)
}

func TestNotificationStore_NotifyPaymentFailed(t *testing.T) {
	db := setupTestDB(t)
	store := NewNotificationStore(db)
	ctx := context.Background()

	require.NoError(t, store.NotifyPaymentFailed(ctx, "user-1", "sub-1"))

	var row models.NotificationModel
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, "subscription_payment_failed", row.Type)
	assert.False(t, row.Read)
}
