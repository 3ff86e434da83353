package order

import "time"

// Fulfillment statuses. An order is confirmed only after its payment is
// reconciled as paid, or via an explicit admin override.
const (
	StatusCreated   = "created"
	StatusConfirmed = "confirmed"
	StatusPacked    = "packed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

const (
	MethodRazorpay = "razorpay"
	MethodCOD      = "cod"
	MethodOther    = "other"
	MethodUPI      = "upi"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusCreated, StatusConfirmed, StatusPacked, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	switch s {
	case MethodRazorpay, MethodCOD, MethodOther, MethodUPI:
		return true
	}
	return false
}

type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Customer is a denormalized snapshot taken at checkout, not a reference
// to the users table.
type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type Order struct {
	ID       string `json:"id"`
	Items    []Item `json:"items"`
	Subtotal string `json:"subtotal"` // NUMERIC -> string
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
	Currency string `json:"currency"`

	Customer Customer `json:"customer"`

	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`

	UserID string `json:"userId,omitempty"` // empty for guest checkout
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Item struct {
	ID           string `json:"id"`
	OrderID      string `json:"orderId"`
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	Image        string `json:"image,omitempty"`
	VariantLabel string `json:"variantLabel,omitempty"`
	Price        string `json:"price"`
	Qty          int    `json:"qty"`
}
