package subscription

import (
	"context"
	"time"
)

// Repository persists subscriptions.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error

	// GetByID returns the subscription, or nil when none exists.
	GetByID(ctx context.Context, id string) (*Subscription, error)

	// GetActiveByUserID returns the user's active or past-due subscription,
	// or nil when the user has none.
	GetActiveByUserID(ctx context.Context, userID string) (*Subscription, error)

	// GetByBillingKey returns the active or past-due subscription billed
	// with the given key, or nil when none exists. Renewal webhooks carry a
	// billing key, not a subscription ID.
	GetByBillingKey(ctx context.Context, billingKey string) (*Subscription, error)
}

// UserFlagStore mirrors subscription state onto the user record so access
// checks stay a single-row read.
type UserFlagStore interface {
	// SetSubscriber marks the user as an active subscriber of the given
	// tier until periodEnd.
	SetSubscriber(ctx context.Context, userID string, tier Tier, periodEnd time.Time) error

	// ClearSubscriber removes the user's live subscription flag.
	ClearSubscriber(ctx context.Context, userID string) error
}
