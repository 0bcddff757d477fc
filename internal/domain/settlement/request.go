// Package settlement defines the core settlement types shared by the
// verification and charge paths.
package settlement

import (
	"time"

	"grapplay/internal/shared/errors"
)

// SettlementRequest describes one settlement to perform. Exactly one of
// PaymentID (verify an already-made payment) or BillingKey (charge a stored
// credential) must be set.
type SettlementRequest struct {
	PaymentID  string
	BillingKey string

	UserID    string
	Mode      Mode
	ProductID string

	// AmountMinor and OrderName are required on the charge path, where the
	// engine initiates the payment itself.
	AmountMinor int64
	OrderName   string

	// PriorSubscriptionID identifies the subscription being replaced on an
	// upgrade. Proration credit is computed against its remaining period.
	PriorSubscriptionID string
}

// Validate checks structural validity before any side effect occurs.
func (r SettlementRequest) Validate() error {
	if r.PaymentID == "" && r.BillingKey == "" {
		return errors.NewInvalidSettlementRequestError("either payment ID or billing key is required")
	}
	if r.PaymentID != "" && r.BillingKey != "" {
		return errors.NewInvalidSettlementRequestError("payment ID and billing key are mutually exclusive")
	}
	if r.UserID == "" {
		return errors.NewInvalidSettlementRequestError("user ID is required")
	}
	if !r.Mode.IsValid() {
		return errors.NewInvalidSettlementRequestError("unknown settlement mode", string(r.Mode))
	}
	if !r.Mode.IsSubscription() && r.ProductID == "" {
		return errors.NewInvalidSettlementRequestError("product ID is required for mode " + string(r.Mode))
	}
	if r.BillingKey != "" && r.AmountMinor <= 0 {
		return errors.NewInvalidSettlementRequestError("charge amount must be positive")
	}
	if r.Mode == ModeSubscriptionUpgrade && r.PriorSubscriptionID == "" {
		return errors.NewInvalidSettlementRequestError("prior subscription ID is required for an upgrade")
	}
	return nil
}

// IsCharge reports whether this request initiates a payment instead of
// verifying one.
func (r SettlementRequest) IsCharge() bool {
	return r.BillingKey != ""
}

// SettledPayment is the gateway's answer about a single payment, normalized
// to what the engine needs.
type SettledPayment struct {
	GatewayPaymentID string
	Status           PaymentStatus
	AmountMinor      int64
	CurrencyCode     string
	PayerID          string
	PaidAt           *time.Time
}
