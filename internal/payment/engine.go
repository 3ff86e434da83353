package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naveen1798kumar/acb-backend/internal/order"
)

var (
	ErrMissingFields    = errors.New("required fields missing")
	ErrOrderNotFound    = errors.New("order not found for payment")
	ErrInvalidAmount    = errors.New("order total must be greater than 0")
	ErrInvalidSignature = errors.New("invalid signature")
)

// PaymentMethods is what the checkout widget offers; returned verbatim to
// the client.
var PaymentMethods = []string{"card", "netbanking", "upi", "wallet"}

// OrderStore is the slice of the order repository the engine needs.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*order.Order, error)
	SetPaymentOutcome(ctx context.Context, id, paymentStatus, status string) (*order.Order, error)
}

// Engine drives the order/payment reconciliation flow: it derives the
// authoritative charge amount from the order, creates payment attempts
// against the gateway, verifies callback signatures and cascades the
// resulting state transitions.
type Engine struct {
	orders   OrderStore
	payments Store
	gateway  Client

	keyID       string
	keySecret   string
	callbackURL string
}

func NewEngine(orders OrderStore, payments Store, gateway Client, keyID, keySecret, callbackURL string) *Engine {
	return &Engine{
		orders:      orders,
		payments:    payments,
		gateway:     gateway,
		keyID:       keyID,
		keySecret:   keySecret,
		callbackURL: callbackURL,
	}
}

type CreateRequest struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"` // advisory hint, never charged
	// Customer contact for the optional payment link.
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerMobile string `json:"customerMobile"`
}

type CreateResult struct {
	GatewayOrderID string
	AmountPaise    int64
	Currency       string
	KeyID          string
	PaymentLink    string
}

// authoritativeAmount parses the order total. The repository has already
// normalized the legacy total_amount fallback, so there is exactly one
// field to trust.
func authoritativeAmount(o *order.Order) (decimal.Decimal, error) {
	total, err := decimal.NewFromString(o.Total)
	if err != nil || !total.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return total, nil
}

// CreatePayment establishes a payment attempt against the order's
// authoritative total. The client-supplied amount is advisory only: a
// tampered request body can never change what is charged.
func (e *Engine) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.OrderID == "" || req.Amount == 0 {
		return nil, fmt.Errorf("%w: orderId and amount are required", ErrMissingFields)
	}

	o, err := e.orders.GetByID(ctx, req.OrderID)
	if errors.Is(err, order.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		// Store failure, not an absent order. The caller must not answer
		// 404 for an order that may well exist.
		return nil, err
	}

	total, err := authoritativeAmount(o)
	if err != nil {
		return nil, err
	}

	hint := decimal.NewFromFloat(req.Amount)
	if !hint.Round(0).Equal(total.Round(0)) {
		log.Printf("[payment] amount mismatch order=%s client=%s authoritative=%s; using authoritative",
			o.ID, hint.String(), total.String())
	}

	paise := total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	gw, err := e.gateway.CreateOrder(ctx, paise, o.Currency, "receipt_"+o.ID)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:             uuid.NewString(),
		OrderID:        o.ID,
		Amount:         total.String(), // rupees, for readability
		Status:         StatusPending,
		GatewayOrderID: gw.ID,
	}
	if err := e.payments.Create(ctx, rec); err != nil {
		return nil, err
	}

	// The link is a convenience for desktop users; its failure must not
	// undo a payment attempt that already exists at the gateway.
	link := ""
	pl, err := e.gateway.CreatePaymentLink(ctx, paise, "Payment for Order #"+o.ID, LinkCustomer{
		Name:    req.CustomerName,
		Email:   req.CustomerEmail,
		Contact: req.CustomerMobile,
	}, e.callbackURL)
	if err != nil {
		log.Printf("[payment] payment link failed order=%s: %v", o.ID, err)
	} else {
		link = pl.ShortURL
	}

	return &CreateResult{
		GatewayOrderID: gw.ID,
		AmountPaise:    paise,
		Currency:       o.Currency,
		KeyID:          e.keyID,
		PaymentLink:    link,
	}, nil
}

type VerifyRequest struct {
	GatewayOrderID   string `json:"razorpay_order_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	Signature        string `json:"razorpay_signature"`
}

type VerifyResult struct {
	Payment *Record
	// Order is nil when the correlated order could not be updated; the
	// verification itself still succeeded.
	Order        *order.Order
	OrderUpdated bool
}

// VerifyCallback authenticates an inbound gateway callback and applies the
// terminal state transitions. Safe under at-least-once delivery: the same
// valid payload can be replayed without side effects, and a forged payload
// never touches the order.
func (e *Engine) VerifyCallback(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		return nil, fmt.Errorf("%w: missing Razorpay parameters", ErrMissingFields)
	}

	if !VerifySignature(e.keySecret, req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		// Best effort: close the attempt so the client sees a failed
		// payment, but never touch the order on a forged callback.
		if _, err := e.payments.MarkFailed(ctx, req.GatewayOrderID); err != nil {
			log.Printf("[payment] mark failed gateway_order=%s: %v", req.GatewayOrderID, err)
		}
		return nil, ErrInvalidSignature
	}

	rec, err := e.payments.MarkSucceeded(ctx, req.GatewayOrderID, req.GatewayPaymentID)
	if err != nil {
		return nil, err
	}

	res := &VerifyResult{Payment: rec}
	o, err := e.orders.SetPaymentOutcome(ctx, rec.OrderID, order.PaymentPaid, order.StatusConfirmed)
	if err != nil {
		// Recoverable inconsistency: the payment is settled, a sweep can
		// catch the order up later.
		log.Printf("[payment] order update skipped order=%s: %v", rec.OrderID, err)
		return res, nil
	}
	res.Order = o
	res.OrderUpdated = true
	return res, nil
}
