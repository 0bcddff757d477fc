// Package payment holds the payment audit record written for every
// settlement attempt the gateway reports as paid.
package payment

import (
	"fmt"
	"time"

	"grapplay/internal/domain/settlement"
	"grapplay/internal/shared/biztime"
)

// Payment is the immutable audit record of one settled payment. The gateway
// payment ID is unique, which is what makes settlement idempotent.
type Payment struct {
	id               string
	gatewayPaymentID string
	userID           string
	mode             settlement.Mode
	productID        string
	amountMinor      int64
	currencyCode     string
	status           settlement.PaymentStatus
	createdAt        time.Time
}

// NewPayment creates an audit record for a settled payment.
func NewPayment(id, gatewayPaymentID, userID string, mode settlement.Mode, productID string, amountMinor int64, currencyCode string, status settlement.PaymentStatus) (*Payment, error) {
	if id == "" {
		return nil, fmt.Errorf("payment ID is required")
	}
	if gatewayPaymentID == "" {
		return nil, fmt.Errorf("gateway payment ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if amountMinor < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}

	return &Payment{
		id:               id,
		gatewayPaymentID: gatewayPaymentID,
		userID:           userID,
		mode:             mode,
		productID:        productID,
		amountMinor:      amountMinor,
		currencyCode:     currencyCode,
		status:           status,
		createdAt:        biztime.NowUTC(),
	}, nil
}

// ReconstructPayment rebuilds a payment from persistence.
func ReconstructPayment(id, gatewayPaymentID, userID string, mode settlement.Mode, productID string, amountMinor int64, currencyCode string, status settlement.PaymentStatus, createdAt time.Time) *Payment {
	return &Payment{
		id:               id,
		gatewayPaymentID: gatewayPaymentID,
		userID:           userID,
		mode:             mode,
		productID:        productID,
		amountMinor:      amountMinor,
		currencyCode:     currencyCode,
		status:           status,
		createdAt:        createdAt,
	}
}

func (p *Payment) ID() string                        { return p.id }
func (p *Payment) GatewayPaymentID() string          { return p.gatewayPaymentID }
func (p *Payment) UserID() string                    { return p.userID }
func (p *Payment) Mode() settlement.Mode             { return p.mode }
func (p *Payment) ProductID() string                 { return p.productID }
func (p *Payment) AmountMinor() int64                { return p.amountMinor }
func (p *Payment) CurrencyCode() string              { return p.currencyCode }
func (p *Payment) Status() settlement.PaymentStatus  { return p.status }
func (p *Payment) CreatedAt() time.Time              { return p.createdAt }
