// Package gateway defines the payment gateway port used by the settlement
// use cases.
package gateway

import (
	"context"
	"time"

	"grapplay/internal/domain/settlement"
)

// Client is the interface to the payment gateway.
type Client interface {
	// VerifyPayment fetches the gateway's record of a payment.
	// The returned amount MUST be in the smallest currency unit.
	VerifyPayment(ctx context.Context, paymentID string) (*settlement.SettledPayment, error)

	// ChargeWithStoredCredential initiates an immediate charge against a
	// stored billing key. The gateway payment ID is generated fresh per
	// charge attempt.
	ChargeWithStoredCredential(ctx context.Context, req ChargeRequest) (*settlement.SettledPayment, error)

	// ScheduleNextCharge pre-registers a future charge with the gateway.
	// A failed registration returns ok=false rather than an error: the
	// payment that triggered the scheduling has already settled, so the
	// caller records the failure instead of unwinding.
	ScheduleNextCharge(ctx context.Context, req ScheduleRequest) (scheduleID string, ok bool)
}

// ChargeRequest contains the data needed to charge a stored credential.
type ChargeRequest struct {
	BillingKey  string
	AmountMinor int64
	Currency    string
	OrderName   string
	CustomerID  string
}

// ScheduleRequest contains the data needed to pre-register a renewal charge.
type ScheduleRequest struct {
	BillingKey  string
	AmountMinor int64
	Currency    string
	OrderName   string
	CustomerID  string
	ChargeAt    time.Time
}
