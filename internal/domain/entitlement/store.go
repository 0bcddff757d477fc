package entitlement

import "context"

// Store persists entitlement grants. Each kind maps to its own table with a
// unique (user, resource) index, so upserts are the unit of idempotency.
type Store interface {
	// UpsertGrant grants access to a single resource. It reports whether a
	// new row was created; false means the grant already existed.
	UpsertGrant(ctx context.Context, grant Grant) (created bool, err error)

	// UpsertBundleGrant records the bundle purchase itself, including the
	// price paid, separate from the member grants it expands to.
	UpsertBundleGrant(ctx context.Context, grant Grant) (created bool, err error)

	// UnlockFeedback marks a feedback request as paid so the instructor
	// can respond. Unlocking an already-unlocked request is a no-op.
	UnlockFeedback(ctx context.Context, userID, feedbackRequestID string) error
}

// BundleRepository reads bundle definitions from the catalog.
type BundleRepository interface {
	GetByID(ctx context.Context, id string) (*Bundle, error)
}
