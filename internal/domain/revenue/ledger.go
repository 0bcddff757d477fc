// Package revenue computes platform/creator revenue splits and builds the
// ledger entries that record them.
package revenue

import (
	"time"

	"grapplay/internal/shared/biztime"
)

// ProductType labels what a ledger entry recognizes revenue for.
type ProductType string

const (
	ProductCourse                    ProductType = "course"
	ProductRoutine                   ProductType = "routine"
	ProductDrill                     ProductType = "drill"
	ProductSparring                  ProductType = "sparring"
	ProductBundle                    ProductType = "bundle"
	ProductFeedback                  ProductType = "feedback"
	ProductSubscription              ProductType = "subscription"
	ProductSubscriptionUpgradeCredit ProductType = "subscription_upgrade_credit"
)

// EntryStatus is the recognition state of a ledger entry.
type EntryStatus string

const (
	// StatusPending marks deferred revenue that recognizes at RecognizeAt.
	StatusPending EntryStatus = "pending"
	// StatusProcessed marks revenue recognized immediately at sale time.
	StatusProcessed EntryStatus = "processed"
)

// LedgerEntry is one row of recognized or deferred revenue. Amounts are in
// minor currency units and may be negative for credits.
type LedgerEntry struct {
	UserID              string
	CreatorID           string
	ProductType         ProductType
	ProductID           string
	GatewayPaymentID    string
	AmountMinor         int64
	PlatformFeeMinor    int64
	CreatorRevenueMinor int64
	Status              EntryStatus
	RecognizeAt         time.Time
	CreatedAt           time.Time
}

// Split divides a sale amount between platform and creator. The platform fee
// is floored, so the creator side absorbs the rounding remainder and the two
// parts always sum to the full amount.
func Split(amountMinor int64, feeRate float64) (platformFee, creatorRevenue int64) {
	platformFee = int64(float64(amountMinor) * feeRate)
	creatorRevenue = amountMinor - platformFee
	return platformFee, creatorRevenue
}

// NewSaleEntry builds the single processed entry for a one-off sale
// (course, routine, or feedback). A sale with no resolvable creator is
// attributed to the platform in full.
func NewSaleEntry(userID, creatorID string, productType ProductType, productID, gatewayPaymentID string, amountMinor int64, feeRate float64) LedgerEntry {
	now := biztime.NowUTC()
	fee, creator := Split(amountMinor, feeRate)
	if creatorID == "" {
		fee, creator = amountMinor, 0
	}
	return LedgerEntry{
		UserID:              userID,
		CreatorID:           creatorID,
		ProductType:         productType,
		ProductID:           productID,
		GatewayPaymentID:    gatewayPaymentID,
		AmountMinor:         amountMinor,
		PlatformFeeMinor:    fee,
		CreatorRevenueMinor: creator,
		Status:              StatusProcessed,
		RecognizeAt:         now,
		CreatedAt:           now,
	}
}

// monthsPerYear is the deferral horizon for annual subscription revenue.
const monthsPerYear = 12

// AnnualSchedule spreads an annual subscription payment across twelve
// pending monthly entries. The division remainder lands in the first bucket
// so the schedule sums to the full amount exactly. Subscription revenue is
// all platform fee; there is no creator side.
func AnnualSchedule(userID, subscriptionID, gatewayPaymentID string, totalMinor int64, start time.Time) []LedgerEntry {
	monthly := totalMinor / monthsPerYear
	first := totalMinor - monthly*(monthsPerYear-1)

	now := biztime.NowUTC()
	entries := make([]LedgerEntry, 0, monthsPerYear)
	for i := 0; i < monthsPerYear; i++ {
		amount := monthly
		if i == 0 {
			amount = first
		}
		entries = append(entries, LedgerEntry{
			UserID:           userID,
			ProductType:      ProductSubscription,
			ProductID:        subscriptionID,
			GatewayPaymentID: gatewayPaymentID,
			AmountMinor:      amount,
			PlatformFeeMinor: amount,
			Status:           StatusPending,
			RecognizeAt:      biztime.AddMonths(start, i),
			CreatedAt:        now,
		})
	}
	return entries
}

// NewMonthlySubscriptionEntry builds the single entry for a monthly
// subscription payment or renewal. Subscription revenue is pooled, so the
// entry stays pending until the downstream distribution job processes it.
func NewMonthlySubscriptionEntry(userID, subscriptionID, gatewayPaymentID string, amountMinor int64) LedgerEntry {
	now := biztime.NowUTC()
	return LedgerEntry{
		UserID:           userID,
		ProductType:      ProductSubscription,
		ProductID:        subscriptionID,
		GatewayPaymentID: gatewayPaymentID,
		AmountMinor:      amountMinor,
		PlatformFeeMinor: amountMinor,
		Status:           StatusPending,
		RecognizeAt:      now,
		CreatedAt:        now,
	}
}

// NewUpgradeCreditEntry builds the negative entry that offsets the unused
// remainder of a subscription replaced by an upgrade.
func NewUpgradeCreditEntry(userID, priorSubscriptionID, gatewayPaymentID string, creditMinor int64) LedgerEntry {
	now := biztime.NowUTC()
	return LedgerEntry{
		UserID:           userID,
		ProductType:      ProductSubscriptionUpgradeCredit,
		ProductID:        priorSubscriptionID,
		GatewayPaymentID: gatewayPaymentID,
		AmountMinor:      -creditMinor,
		PlatformFeeMinor: -creditMinor,
		Status:           StatusProcessed,
		RecognizeAt:      now,
		CreatedAt:        now,
	}
}

// ProrationCredit computes the unused value of a subscription period when it
// is replaced mid-cycle. The daily rate is the period amount over thirty
// days, floored.
func ProrationCredit(periodAmountMinor int64, remainingDays int) int64 {
	if remainingDays <= 0 {
		return 0
	}
	return periodAmountMinor * int64(remainingDays) / 30
}
