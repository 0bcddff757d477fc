package revenue

import "context"

// LedgerRepository persists ledger entries. Entries are append-only.
type LedgerRepository interface {
	Append(ctx context.Context, entries ...LedgerEntry) error

	// ListByGatewayPaymentID returns every entry recorded for a gateway
	// payment, in recognition order.
	ListByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) ([]LedgerEntry, error)
}
