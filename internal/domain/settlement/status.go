package settlement

// PaymentStatus is the gateway-reported state of a payment, using the
// gateway's own status vocabulary.
type PaymentStatus string

const (
	StatusReady            PaymentStatus = "READY"
	StatusPayPending       PaymentStatus = "PAY_PENDING"
	StatusVirtualAccount   PaymentStatus = "VIRTUAL_ACCOUNT_ISSUED"
	StatusPaid             PaymentStatus = "PAID"
	StatusFailed           PaymentStatus = "FAILED"
	StatusCancelled        PaymentStatus = "CANCELLED"
	StatusPartialCancelled PaymentStatus = "PARTIAL_CANCELLED"
)

// IsPaid reports whether the payment has actually settled. Only PAID counts;
// every other status aborts fulfillment with no writes.
func (s PaymentStatus) IsPaid() bool {
	return s == StatusPaid
}

func (s PaymentStatus) String() string {
	return string(s)
}
