// Package subscription defines the subscription aggregate and its lifecycle.
package subscription

import (
	"fmt"
	"time"

	"grapplay/internal/shared/biztime"
)

// Tier is the subscription level.
type Tier string

const (
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

// IsValid checks if the tier is known.
func (t Tier) IsValid() bool {
	return t == TierBasic || t == TierPremium
}

// Interval is the billing cadence.
type Interval string

const (
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// IsValid checks if the interval is known.
func (i Interval) IsValid() bool {
	return i == IntervalMonth || i == IntervalYear
}

// Status is the lifecycle state of a subscription row.
type Status string

const (
	StatusActive  Status = "active"
	StatusPastDue Status = "past_due"
	// StatusRenewed marks a cycle superseded by the next cycle's row.
	StatusRenewed   Status = "renewed"
	StatusCancelled Status = "cancelled"
	// StatusUpgraded marks a subscription replaced by a higher-tier one.
	// It is terminal; the replacement carries the entitlement.
	StatusUpgraded Status = "upgraded"
)

// Subscription is one billing cycle of one user's recurring plan. Each
// successful charge creates a new row; the prior cycle's row is marked
// renewed rather than mutated in place.
type Subscription struct {
	id               string
	userID           string
	planID           string
	tier             Tier
	interval         Interval
	status           Status
	amountMinor      int64
	gatewayPaymentID string
	billingKey       string
	periodStart      time.Time
	periodEnd        time.Time
	nextScheduleID   *string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewSubscription creates an active subscription cycle starting now. The
// period end follows the interval. billingKey may be empty for prepaid
// cycles that never charge again.
func NewSubscription(id, userID, planID string, tier Tier, interval Interval, amountMinor int64, gatewayPaymentID, billingKey string) (*Subscription, error) {
	if id == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier %q", tier)
	}
	if !interval.IsValid() {
		return nil, fmt.Errorf("invalid interval %q", interval)
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if gatewayPaymentID == "" {
		return nil, fmt.Errorf("gateway payment ID is required")
	}

	now := biztime.NowUTC()
	return &Subscription{
		id:               id,
		userID:           userID,
		planID:           planID,
		tier:             tier,
		interval:         interval,
		status:           StatusActive,
		amountMinor:      amountMinor,
		gatewayPaymentID: gatewayPaymentID,
		billingKey:       billingKey,
		periodStart:      now,
		periodEnd:        periodEnd(now, interval),
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(id, userID, planID string, tier Tier, interval Interval, status Status, amountMinor int64, gatewayPaymentID, billingKey string, periodStart, periodEnd time.Time, nextScheduleID *string, createdAt, updatedAt time.Time) *Subscription {
	return &Subscription{
		id:               id,
		userID:           userID,
		planID:           planID,
		tier:             tier,
		interval:         interval,
		status:           status,
		amountMinor:      amountMinor,
		gatewayPaymentID: gatewayPaymentID,
		billingKey:       billingKey,
		periodStart:      periodStart,
		periodEnd:        periodEnd,
		nextScheduleID:   nextScheduleID,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// NextCycle builds the successor row for a renewal charge. The new cycle
// starts when the current period ends, keeps plan and billing key, and
// carries the renewal's own gateway payment ID.
func (s *Subscription) NextCycle(id, gatewayPaymentID string) (*Subscription, error) {
	if s.status == StatusCancelled || s.status == StatusUpgraded {
		return nil, fmt.Errorf("cannot renew subscription with status %s", s.status)
	}
	if id == "" {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if gatewayPaymentID == "" {
		return nil, fmt.Errorf("gateway payment ID is required")
	}

	now := biztime.NowUTC()
	start := s.periodEnd
	// A late renewal after past-due starts from now, not from the lapsed
	// period end, so the user does not pay for dead time.
	if start.Before(now) {
		start = now
	}
	return &Subscription{
		id:               id,
		userID:           s.userID,
		planID:           s.planID,
		tier:             s.tier,
		interval:         s.interval,
		status:           StatusActive,
		amountMinor:      s.amountMinor,
		gatewayPaymentID: gatewayPaymentID,
		billingKey:       s.billingKey,
		periodStart:      start,
		periodEnd:        periodEnd(start, s.interval),
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// MarkRenewed closes this cycle in favor of its successor row.
func (s *Subscription) MarkRenewed() error {
	if s.status == StatusCancelled || s.status == StatusUpgraded {
		return fmt.Errorf("cannot mark subscription renewed with status %s", s.status)
	}
	s.status = StatusRenewed
	s.nextScheduleID = nil
	s.updatedAt = biztime.NowUTC()
	return nil
}

// MarkPastDue records a failed renewal charge. Access survives until the
// grace handling decides otherwise.
func (s *Subscription) MarkPastDue() error {
	if s.status == StatusCancelled || s.status == StatusUpgraded || s.status == StatusRenewed {
		return fmt.Errorf("cannot mark subscription past due with status %s", s.status)
	}
	s.status = StatusPastDue
	s.updatedAt = biztime.NowUTC()
	return nil
}

// Cancel terminates the subscription.
func (s *Subscription) Cancel() error {
	if s.status == StatusCancelled {
		return nil
	}
	if s.status == StatusUpgraded {
		return fmt.Errorf("cannot cancel an upgraded subscription")
	}
	s.status = StatusCancelled
	s.nextScheduleID = nil
	s.updatedAt = biztime.NowUTC()
	return nil
}

// MarkUpgraded closes the subscription in favor of its replacement.
func (s *Subscription) MarkUpgraded() error {
	if s.status == StatusUpgraded {
		return nil
	}
	if s.status == StatusCancelled {
		return fmt.Errorf("cannot upgrade a cancelled subscription")
	}
	s.status = StatusUpgraded
	s.nextScheduleID = nil
	s.updatedAt = biztime.NowUTC()
	return nil
}

// SetNextScheduleID records the gateway schedule registered for the next
// renewal charge.
func (s *Subscription) SetNextScheduleID(scheduleID string) {
	s.nextScheduleID = &scheduleID
	s.updatedAt = biztime.NowUTC()
}

// RemainingDays returns the whole days left in the current period.
func (s *Subscription) RemainingDays(now time.Time) int {
	return biztime.DaysUntil(now, s.periodEnd)
}

// IsActive reports whether this cycle currently grants access.
func (s *Subscription) IsActive() bool {
	return s.status == StatusActive || s.status == StatusPastDue
}

func periodEnd(start time.Time, interval Interval) time.Time {
	if interval == IntervalYear {
		return biztime.AddYears(start, 1)
	}
	return biztime.AddMonths(start, 1)
}

func (s *Subscription) ID() string               { return s.id }
func (s *Subscription) UserID() string           { return s.userID }
func (s *Subscription) PlanID() string           { return s.planID }
func (s *Subscription) Tier() Tier               { return s.tier }
func (s *Subscription) Interval() Interval       { return s.interval }
func (s *Subscription) Status() Status           { return s.status }
func (s *Subscription) AmountMinor() int64       { return s.amountMinor }
func (s *Subscription) GatewayPaymentID() string { return s.gatewayPaymentID }
func (s *Subscription) BillingKey() string       { return s.billingKey }
func (s *Subscription) PeriodStart() time.Time   { return s.periodStart }
func (s *Subscription) PeriodEnd() time.Time     { return s.periodEnd }
func (s *Subscription) NextScheduleID() *string  { return s.nextScheduleID }
func (s *Subscription) CreatedAt() time.Time     { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time     { return s.updatedAt }
