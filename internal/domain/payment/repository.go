package payment

import "context"

// Repository persists payment audit records.
type Repository interface {
	// Create inserts the audit record. The gateway payment ID carries a
	// unique constraint; a duplicate key error means the payment was
	// already settled.
	Create(ctx context.Context, p *Payment) error

	// GetByGatewayPaymentID returns the record for a gateway payment ID,
	// or nil when none exists.
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*Payment, error)
}
