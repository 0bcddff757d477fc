package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"grapplay/internal/domain/revenue"
	"grapplay/internal/domain/settlement"
	"grapplay/internal/domain/subscription"
	"grapplay/internal/shared/logger"
)

func TestRecognizeRevenueUseCase_CourseSale(t *testing.T) {
	var appended []revenue.LedgerEntry
	ledger := &mockLedgerRepository{
		AppendFunc: func(ctx context.Context, entries ...revenue.LedgerEntry) error {
			appended = append(appended, entries...)
			return nil
		},
	}
	creators := &mockCreatorResolver{
		ResolveCreatorFunc: func(ctx context.Context, mode settlement.Mode, productID string) (string, error) {
			return "creator-1", nil
		},
	}
	uc := NewRecognizeRevenueUseCase(ledger, creators, 0.2, logger.NewLogger())

	err := uc.Execute(context.Background(), RecognizeRevenueCommand{
		UserID:           "user-1",
		Mode:             settlement.ModeCourse,
		ProductID:        "course-1",
		GatewayPaymentID: "pay-1",
		AmountMinor:      10000,
	})

	assert.NoError(t, err)
	if assert.Len(t, appended, 1) {
		entry := appended[0]
		assert.Equal(t, int64(2000), entry.PlatformFeeMinor)
		assert.Equal(t, int64(8000), entry.CreatorRevenueMinor)
		assert.Equal(t, "creator-1", entry.CreatorID)
		assert.Equal(t, revenue.StatusProcessed, entry.Status)
		assert.Equal(t, revenue.ProductCourse, entry.ProductType)
	}
}

func TestRecognizeRevenueUseCase_NoCreatorIsPlatformAttributed(t *testing.T) {
	var appended []revenue.LedgerEntry
	ledger := &mockLedgerRepository{
		AppendFunc: func(ctx context.Context, entries ...revenue.LedgerEntry) error {
			appended = append(appended, entries...)
			return nil
		},
	}
	creators := &mockCreatorResolver{
		ResolveCreatorFunc: func(ctx context.Context, mode settlement.Mode, productID string) (string, error) {
			return "", nil
		},
	}
	uc := NewRecognizeRevenueUseCase(ledger, creators, 0.2, logger.NewLogger())

	err := uc.Execute(context.Background(), RecognizeRevenueCommand{
		UserID:           "user-1",
		Mode:             settlement.ModeDrill,
		ProductID:        "drill-1",
		GatewayPaymentID: "pay-1",
		AmountMinor:      3000,
	})

	assert.NoError(t, err)
	if assert.Len(t, appended, 1) {
		assert.Empty(t, appended[0].CreatorID)
		assert.Equal(t, int64(3000), appended[0].PlatformFeeMinor)
		assert.Zero(t, appended[0].CreatorRevenueMinor)
	}
}

func TestRecognizeRevenueUseCase_AnnualSubscription(t *testing.T) {
	var appended []revenue.LedgerEntry
	ledger := &mockLedgerRepository{
		AppendFunc: func(ctx context.Context, entries ...revenue.LedgerEntry) error {
			appended = append(appended, entries...)
			return nil
		},
	}
	uc := NewRecognizeRevenueUseCase(ledger, &mockCreatorResolver{}, 0.2, logger.NewLogger())

	err := uc.Execute(context.Background(), RecognizeRevenueCommand{
		UserID:           "user-1",
		Mode:             settlement.ModeSubscription,
		GatewayPaymentID: "pay-1",
		AmountMinor:      120000,
		SubscriptionID:   "sub-1",
		Interval:         subscription.IntervalYear,
	})

	assert.NoError(t, err)
	assert.Len(t, appended, 12)
	var sum int64
	for _, e := range appended {
		sum += e.AmountMinor
		assert.Equal(t, revenue.StatusPending, e.Status)
		assert.Equal(t, e.AmountMinor, e.PlatformFeeMinor)
		assert.Zero(t, e.CreatorRevenueMinor)
	}
	assert.Equal(t, int64(120000), sum)
}

func TestRecognizeRevenueUseCase_MonthlySubscription(t *testing.T) {
	var appended []revenue.LedgerEntry
	ledger := &mockLedgerRepository{
		AppendFunc: func(ctx context.Context, entries ...revenue.LedgerEntry) error {
			appended = append(appended, entries...)
			return nil
		},
	}
	uc := NewRecognizeRevenueUseCase(ledger, &mockCreatorResolver{}, 0.2, logger.NewLogger())

	err := uc.Execute(context.Background(), RecognizeRevenueCommand{
		UserID:           "user-1",
		Mode:             settlement.ModeSubscription,
		GatewayPaymentID: "pay-1",
		AmountMinor:      20000,
		SubscriptionID:   "sub-1",
		Interval:         subscription.IntervalMonth,
	})

	assert.NoError(t, err)
	if assert.Len(t, appended, 1) {
		// pooled subscription revenue stays pending for the distribution job
		assert.Equal(t, revenue.StatusPending, appended[0].Status)
		assert.Equal(t, int64(20000), appended[0].PlatformFeeMinor)
	}
}

func TestRecognizeRevenueUseCase_UpgradeAddsCreditEntry(t *testing.T) {
	var appended []revenue.LedgerEntry
	ledger := &mockLedgerRepository{
		AppendFunc: func(ctx context.Context, entries ...revenue.LedgerEntry) error {
			appended = append(appended, entries...)
			return nil
		},
	}
	uc := NewRecognizeRevenueUseCase(ledger, &mockCreatorResolver{}, 0.2, logger.NewLogger())

	err := uc.Execute(context.Background(), RecognizeRevenueCommand{
		UserID:               "user-1",
		Mode:                 settlement.ModeSubscriptionUpgrade,
		GatewayPaymentID:     "pay-1",
		AmountMinor:          120000,
		SubscriptionID:       "sub-new",
		Interval:             subscription.IntervalYear,
		PriorSubscriptionID:  "sub-old",
		ProrationCreditMinor: 5000,
	})

	assert.NoError(t, err)
	assert.Len(t, appended, 13)
	credit := appended[12]
	assert.Equal(t, revenue.ProductSubscriptionUpgradeCredit, credit.ProductType)
	assert.Equal(t, int64(-5000), credit.AmountMinor)
	assert.Equal(t, "sub-old", credit.ProductID)
}
