package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	ord "github.com/naveen1798kumar/acb-backend/internal/order"
)

func init() {
	log.SetOutput(io.Discard)
}

//
// ---------- STUBS ----------
//

type stubOrders struct {
	orders map[string]*ord.Order
	getErr error
}

func newStubOrders(orders ...*ord.Order) *stubOrders {
	m := map[string]*ord.Order{}
	for _, o := range orders {
		m[o.ID] = o
	}
	return &stubOrders{orders: m}
}

func (s *stubOrders) GetByID(ctx context.Context, id string) (*ord.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, ord.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrders) SetPaymentOutcome(ctx context.Context, id, paymentStatus, status string) (*ord.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ord.ErrNotFound
	}
	o.PaymentStatus = paymentStatus
	o.Status = status
	cp := *o
	return &cp, nil
}

// memStore mirrors the conditional-update semantics of the Postgres store.
type memStore struct {
	byGatewayOrder map[string]*Record
	createErr      error
	succeedErr     error
}

func newMemStore() *memStore { return &memStore{byGatewayOrder: map[string]*Record{}} }

func (s *memStore) Create(ctx context.Context, p *Record) error {
	if s.createErr != nil {
		return s.createErr
	}
	cp := *p
	s.byGatewayOrder[p.GatewayOrderID] = &cp
	return nil
}

func (s *memStore) GetByGatewayOrderID(ctx context.Context, id string) (*Record, error) {
	p, ok := s.byGatewayOrder[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) MarkSucceeded(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*Record, error) {
	if s.succeedErr != nil {
		return nil, s.succeedErr
	}
	p, ok := s.byGatewayOrder[gatewayOrderID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Status == StatusPending || (p.Status == StatusSuccess && p.GatewayPaymentID == gatewayPaymentID) {
		p.Status = StatusSuccess
		p.GatewayPaymentID = gatewayPaymentID
		cp := *p
		return &cp, nil
	}
	return nil, ErrAlreadyResolved
}

func (s *memStore) MarkFailed(ctx context.Context, gatewayOrderID string) (*Record, error) {
	p, ok := s.byGatewayOrder[gatewayOrderID]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Status == StatusSuccess {
		return nil, ErrAlreadyResolved
	}
	p.Status = StatusFailed
	cp := *p
	return &cp, nil
}

type stubGateway struct {
	orderErr error
	linkErr  error
	created  []int64 // paise amounts passed to CreateOrder
	seq      int
}

func (g *stubGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*GatewayOrder, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.seq++
	g.created = append(g.created, amountPaise)
	return &GatewayOrder{ID: fmt.Sprintf("order_stub%03d", g.seq), AmountPaise: amountPaise, Currency: currency}, nil
}

func (g *stubGateway) CreatePaymentLink(ctx context.Context, amountPaise int64, description string, customer LinkCustomer, callbackURL string) (*PaymentLink, error) {
	if g.linkErr != nil {
		return nil, g.linkErr
	}
	return &PaymentLink{ShortURL: "https://rzp.io/l/stub"}, nil
}

const testSecret = "test_secret"

func newTestEngine(orders *stubOrders, store *memStore, gw *stubGateway) *Engine {
	return NewEngine(orders, store, gw, "rzp_test_key", testSecret, "http://localhost:5173/payment-success")
}

func bakeryOrder(id, total string) *ord.Order {
	return &ord.Order{
		ID:            id,
		Total:         total,
		Subtotal:      total,
		Shipping:      "0",
		Currency:      "INR",
		PaymentMethod: ord.MethodRazorpay,
		PaymentStatus: ord.PaymentPending,
		Status:        ord.StatusCreated,
	}
}

//
// ---------- CREATE ----------
//

func TestCreatePayment_UsesAuthoritativeTotal(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "499"))
	store := newMemStore()
	gw := &stubGateway{}
	e := newTestEngine(orders, store, gw)

	// Tampered client hint: 1 rupee instead of 499.
	res, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: "O1", Amount: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AmountPaise != 49900 {
		t.Fatalf("paise=%d, expected 49900", res.AmountPaise)
	}
	if gw.created[0] != 49900 {
		t.Fatalf("gateway charged %d paise, expected 49900", gw.created[0])
	}
	rec, err := store.GetByGatewayOrderID(context.Background(), res.GatewayOrderID)
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if rec.Amount != "499" {
		t.Fatalf("record amount=%s, expected 499 (rupees)", rec.Amount)
	}
	if rec.Status != StatusPending {
		t.Fatalf("record status=%s, expected pending", rec.Status)
	}
	if res.KeyID != "rzp_test_key" {
		t.Fatalf("key id not returned")
	}
	if res.PaymentLink == "" {
		t.Fatalf("payment link missing")
	}
}

func TestCreatePayment_FractionalTotalRounding(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "340.50"))
	store := newMemStore()
	e := newTestEngine(orders, store, &stubGateway{})

	res, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: "O1", Amount: 340.50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AmountPaise != 34050 {
		t.Fatalf("paise=%d, expected 34050", res.AmountPaise)
	}
}

func TestCreatePayment_NonPositiveTotalRejected(t *testing.T) {
	t.Parallel()

	for _, total := range []string{"0", "-10", "garbage"} {
		orders := newStubOrders(bakeryOrder("O1", total))
		store := newMemStore()
		e := newTestEngine(orders, store, &stubGateway{})

		_, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: "O1", Amount: 100})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("total=%q: err=%v, expected ErrInvalidAmount", total, err)
		}
		if len(store.byGatewayOrder) != 0 {
			t.Fatalf("total=%q: record persisted for rejected payment", total)
		}
	}
}

func TestCreatePayment_OrderNotFound(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newStubOrders(), newMemStore(), &stubGateway{})
	_, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: "missing", Amount: 100})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err=%v, expected ErrOrderNotFound", err)
	}
}

func TestCreatePayment_StoreOutageIsNotNotFound(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")
	orders := newStubOrders(bakeryOrder("O1", "499"))
	orders.getErr = dbErr
	e := newTestEngine(orders, newMemStore(), &stubGateway{})

	_, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: "O1", Amount: 499})
	if errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("store outage classified as ErrOrderNotFound: %v", err)
	}
	if !errors.Is(err, dbErr) {
		t.Fatalf("err=%v, expected the store error to propagate", err)
	}
}

func TestCreatePayment_MissingFields(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newStubOrders(), newMemStore(), &stubGateway{})
	if _, err := e.CreatePayment(context.Background(), CreateRequest{Amount: 100}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing orderId: err=%v", err)
	}
	if _, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: "O1"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing amount: err=%v", err)
	}
}

func TestCreatePayment_GatewayFailureLeavesNoRecord(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "499"))
	store := newMemStore()
	gw := &stubGateway{orderErr: ErrGatewayUnavailable}
	e := newTestEngine(orders, store, gw)

	_, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: "O1", Amount: 499})
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("err=%v, expected ErrGatewayUnavailable", err)
	}
	if len(store.byGatewayOrder) != 0 {
		t.Fatalf("record persisted despite gateway failure")
	}
}

func TestCreatePayment_LinkFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "499"))
	store := newMemStore()
	gw := &stubGateway{linkErr: ErrGatewayUnavailable}
	e := newTestEngine(orders, store, gw)

	res, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: "O1", Amount: 499})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PaymentLink != "" {
		t.Fatalf("expected empty payment link, got %q", res.PaymentLink)
	}
	if len(store.byGatewayOrder) != 1 {
		t.Fatalf("record should still be persisted")
	}
}

//
// ---------- VERIFY ----------
//

func createPending(t *testing.T, e *Engine, orderID string, amount float64) string {
	t.Helper()
	res, err := e.CreatePayment(context.Background(), CreateRequest{OrderID: orderID, Amount: amount})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return res.GatewayOrderID
}

func TestVerifyCallback_SuccessCascadesOrder(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "499"))
	store := newMemStore()
	e := newTestEngine(orders, store, &stubGateway{})

	gwOrderID := createPending(t, e, "O1", 499)
	sig := Sign(testSecret, gwOrderID, "pay_abc")

	res, err := e.VerifyCallback(context.Background(), VerifyRequest{
		GatewayOrderID: gwOrderID, GatewayPaymentID: "pay_abc", Signature: sig,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Payment.Status != StatusSuccess || res.Payment.GatewayPaymentID != "pay_abc" {
		t.Fatalf("payment not settled: %+v", res.Payment)
	}
	if !res.OrderUpdated || res.Order == nil {
		t.Fatalf("order not updated")
	}
	if res.Order.PaymentStatus != ord.PaymentPaid || res.Order.Status != ord.StatusConfirmed {
		t.Fatalf("order cascade wrong: paymentStatus=%s status=%s", res.Order.PaymentStatus, res.Order.Status)
	}
}

func TestVerifyCallback_Idempotent(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "499"))
	store := newMemStore()
	e := newTestEngine(orders, store, &stubGateway{})

	gwOrderID := createPending(t, e, "O1", 499)
	req := VerifyRequest{
		GatewayOrderID:   gwOrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        Sign(testSecret, gwOrderID, "pay_abc"),
	}

	for i := 0; i < 2; i++ {
		res, err := e.VerifyCallback(context.Background(), req)
		if err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
		if res.Payment.Status != StatusSuccess || res.Payment.GatewayPaymentID != "pay_abc" {
			t.Fatalf("call %d: payment=%+v", i+1, res.Payment)
		}
	}
}

func TestVerifyCallback_BadSignatureNeverConfirms(t *testing.T) {
	t.Parallel()

	o := bakeryOrder("O1", "499")
	orders := newStubOrders(o)
	store := newMemStore()
	e := newTestEngine(orders, store, &stubGateway{})

	gwOrderID := createPending(t, e, "O1", 499)
	req := VerifyRequest{GatewayOrderID: gwOrderID, GatewayPaymentID: "pay_abc", Signature: "deadbeef"}

	// Retried forged callbacks must stay rejected and never touch the order.
	for i := 0; i < 3; i++ {
		_, err := e.VerifyCallback(context.Background(), req)
		if !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("retry %d: err=%v, expected ErrInvalidSignature", i+1, err)
		}
	}
	rec, _ := store.GetByGatewayOrderID(context.Background(), gwOrderID)
	if rec.Status != StatusFailed {
		t.Fatalf("record status=%s, expected failed", rec.Status)
	}
	if o.PaymentStatus != ord.PaymentPending || o.Status != ord.StatusCreated {
		t.Fatalf("order touched by forged callback: %+v", o)
	}
}

func TestVerifyCallback_BadSignatureCannotDemoteSuccess(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "499"))
	store := newMemStore()
	e := newTestEngine(orders, store, &stubGateway{})

	gwOrderID := createPending(t, e, "O1", 499)
	good := VerifyRequest{
		GatewayOrderID:   gwOrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        Sign(testSecret, gwOrderID, "pay_abc"),
	}
	if _, err := e.VerifyCallback(context.Background(), good); err != nil {
		t.Fatalf("genuine callback: %v", err)
	}

	bad := VerifyRequest{GatewayOrderID: gwOrderID, GatewayPaymentID: "pay_evil", Signature: "deadbeef"}
	if _, err := e.VerifyCallback(context.Background(), bad); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("forged callback: err=%v", err)
	}
	rec, _ := store.GetByGatewayOrderID(context.Background(), gwOrderID)
	if rec.Status != StatusSuccess {
		t.Fatalf("success demoted to %s by forged callback", rec.Status)
	}
}

func TestVerifyCallback_RecordNotFound(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newStubOrders(), newMemStore(), &stubGateway{})
	req := VerifyRequest{
		GatewayOrderID:   "order_unknown",
		GatewayPaymentID: "pay_abc",
		Signature:        Sign(testSecret, "order_unknown", "pay_abc"),
	}
	_, err := e.VerifyCallback(context.Background(), req)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, expected ErrNotFound", err)
	}
}

func TestVerifyCallback_StoreOutageIsNotNotFound(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")
	store := newMemStore()
	store.succeedErr = dbErr
	e := newTestEngine(newStubOrders(bakeryOrder("O1", "499")), store, &stubGateway{})

	req := VerifyRequest{
		GatewayOrderID:   "order_down",
		GatewayPaymentID: "pay_abc",
		Signature:        Sign(testSecret, "order_down", "pay_abc"),
	}
	_, err := e.VerifyCallback(context.Background(), req)
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("store outage reported as a missing payment record: %v", err)
	}
	if !errors.Is(err, dbErr) {
		t.Fatalf("err=%v, expected the store error to propagate", err)
	}
}

func TestVerifyCallback_MissingFields(t *testing.T) {
	t.Parallel()

	e := newTestEngine(newStubOrders(), newMemStore(), &stubGateway{})
	for _, req := range []VerifyRequest{
		{GatewayPaymentID: "p", Signature: "s"},
		{GatewayOrderID: "o", Signature: "s"},
		{GatewayOrderID: "o", GatewayPaymentID: "p"},
	} {
		if _, err := e.VerifyCallback(context.Background(), req); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("req=%+v: err=%v, expected ErrMissingFields", req, err)
		}
	}
}

func TestVerifyCallback_MissingOrderIsRecoverable(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "499"))
	store := newMemStore()
	e := newTestEngine(orders, store, &stubGateway{})

	gwOrderID := createPending(t, e, "O1", 499)
	// Simulate the data inconsistency: the order vanishes before the
	// callback lands.
	delete(orders.orders, "O1")

	res, err := e.VerifyCallback(context.Background(), VerifyRequest{
		GatewayOrderID:   gwOrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        Sign(testSecret, gwOrderID, "pay_abc"),
	})
	if err != nil {
		t.Fatalf("verification should still succeed: %v", err)
	}
	if res.Payment.Status != StatusSuccess {
		t.Fatalf("payment status=%s", res.Payment.Status)
	}
	if res.OrderUpdated || res.Order != nil {
		t.Fatalf("order reported as updated despite being missing")
	}
}

func TestVerifyCallback_FailedRecordStaysClosed(t *testing.T) {
	t.Parallel()

	orders := newStubOrders(bakeryOrder("O1", "499"))
	store := newMemStore()
	e := newTestEngine(orders, store, &stubGateway{})

	gwOrderID := createPending(t, e, "O1", 499)
	// Close the attempt via a forged callback first.
	bad := VerifyRequest{GatewayOrderID: gwOrderID, GatewayPaymentID: "pay_abc", Signature: "deadbeef"}
	if _, err := e.VerifyCallback(context.Background(), bad); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("setup: %v", err)
	}

	good := VerifyRequest{
		GatewayOrderID:   gwOrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        Sign(testSecret, gwOrderID, "pay_abc"),
	}
	_, err := e.VerifyCallback(context.Background(), good)
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("err=%v, expected ErrAlreadyResolved", err)
	}
}
