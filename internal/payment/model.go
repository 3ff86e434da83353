package payment

import "time"

// Record statuses. pending is the only non-terminal state; success and
// failed are one-way.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Record is a single payment attempt against one order, correlated to the
// gateway through GatewayOrderID. Records are never deleted; they are the
// audit trail of every attempt.
type Record struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`
	// Amount in rupees (major units), copied from the order total at
	// creation time. The paise value sent to the gateway is derived, not
	// stored.
	Amount           string `json:"amount"`
	Status           string `json:"status"`
	GatewayOrderID   string `json:"razorpayOrderId"`
	GatewayPaymentID string `json:"razorpayPaymentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
