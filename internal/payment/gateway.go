package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrGatewayUnavailable covers transport failures, timeouts and non-2xx
// answers from the payment gateway. The caller retries; nothing is
// persisted on this error.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type GatewayOrder struct {
	ID          string `json:"id"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
}

type PaymentLink struct {
	ShortURL string `json:"short_url"`
}

type LinkCustomer struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Client is the slice of the gateway API the engine needs.
type Client interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error)
	CreatePaymentLink(ctx context.Context, amountPaise int64, description string, customer LinkCustomer, callbackURL string) (*PaymentLink, error)
}

// RazorpayClient talks to the Razorpay Orders and Payment Links APIs with
// basic auth. The embedded http.Client carries the bounded timeout.
type RazorpayClient struct {
	HTTP    *http.Client
	BaseURL string
	KeyID   string
	secret  string
}

func NewRazorpayClient(baseURL, keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		BaseURL: baseURL,
		KeyID:   keyID,
		secret:  keySecret,
	}
}

func (c *RazorpayClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.KeyID, c.secret)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s", ErrGatewayUnavailable, path, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error) {
	payload := map[string]any{
		"amount":          amountPaise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	var out GatewayOrder
	if err := c.post(ctx, "/orders", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RazorpayClient) CreatePaymentLink(ctx context.Context, amountPaise int64, description string, customer LinkCustomer, callbackURL string) (*PaymentLink, error) {
	payload := map[string]any{
		"amount":          amountPaise,
		"currency":        "INR",
		"accept_partial":  false,
		"description":     description,
		"customer":        customer,
		"notify":          map[string]bool{"sms": true, "email": true},
		"callback_url":    callbackURL,
		"callback_method": "get",
	}
	var out PaymentLink
	if err := c.post(ctx, "/payment_links", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
