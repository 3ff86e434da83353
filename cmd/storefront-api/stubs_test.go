package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	ord "github.com/naveen1798kumar/acb-backend/internal/order"
	pay "github.com/naveen1798kumar/acb-backend/internal/payment"
	prod "github.com/naveen1798kumar/acb-backend/internal/product"
	usr "github.com/naveen1798kumar/acb-backend/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

func jsonBody(s string) *bytes.Buffer { return bytes.NewBufferString(s) }

//
// ---------- STUBS & FAKES ----------
//

// memOrders implements ord.Repository in memory.
type memOrders struct {
	mu     sync.Mutex
	orders map[string]*ord.Order
	items  map[string][]ord.Item
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[string]*ord.Order{}, items: map[string][]ord.Item{}}
}

func (m *memOrders) Create(ctx context.Context, o *ord.Order, items []ord.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
	m.items[o.ID] = append([]ord.Item(nil), items...)
	return nil
}

func (m *memOrders) GetByID(ctx context.Context, id string) (*ord.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ord.ErrNotFound
	}
	cp := *o
	cp.Items = append([]ord.Item(nil), m.items[id]...)
	return &cp, nil
}

func (m *memOrders) List(ctx context.Context, limit, offset int) ([]ord.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ord.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memOrders) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ord.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []ord.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ord.ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *memOrders) SetPaymentOutcome(ctx context.Context, id, paymentStatus, status string) (*ord.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ord.ErrNotFound
	}
	o.PaymentStatus = paymentStatus
	o.Status = status
	cp := *o
	return &cp, nil
}

// memPayments implements pay.Store with the same conditional transition
// semantics as the SQL store: pending is the only state MarkSucceeded and
// MarkFailed move away from, and a success re-apply with the same payment
// id is a no-op.
type memPayments struct {
	mu   sync.Mutex
	recs map[string]*pay.Record // keyed by gateway order id
}

func newMemPayments() *memPayments { return &memPayments{recs: map[string]*pay.Record{}} }

func (m *memPayments) Create(ctx context.Context, p *pay.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.recs[p.GatewayOrderID] = &cp
	return nil
}

func (m *memPayments) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*pay.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[gatewayOrderID]
	if !ok {
		return nil, pay.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memPayments) MarkSucceeded(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*pay.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[gatewayOrderID]
	if !ok {
		return nil, pay.ErrNotFound
	}
	switch {
	case r.Status == pay.StatusPending:
		r.Status = pay.StatusSuccess
		r.GatewayPaymentID = gatewayPaymentID
	case r.Status == pay.StatusSuccess && r.GatewayPaymentID == gatewayPaymentID:
		// idempotent replay
	default:
		return nil, pay.ErrAlreadyResolved
	}
	cp := *r
	return &cp, nil
}

func (m *memPayments) MarkFailed(ctx context.Context, gatewayOrderID string) (*pay.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[gatewayOrderID]
	if !ok {
		return nil, pay.ErrNotFound
	}
	if r.Status == pay.StatusSuccess {
		return nil, pay.ErrAlreadyResolved
	}
	r.Status = pay.StatusFailed
	cp := *r
	return &cp, nil
}

// stubGateway implements pay.Client without talking to anything.
type stubGateway struct {
	nextOrderID string
	failOrder   bool
	failLink    bool
	lastAmount  int64
}

func (g *stubGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*pay.GatewayOrder, error) {
	if g.failOrder {
		return nil, pay.ErrGatewayUnavailable
	}
	g.lastAmount = amountPaise
	return &pay.GatewayOrder{ID: g.nextOrderID, AmountPaise: amountPaise, Currency: currency}, nil
}

func (g *stubGateway) CreatePaymentLink(ctx context.Context, amountPaise int64, description string, customer pay.LinkCustomer, callbackURL string) (*pay.PaymentLink, error) {
	if g.failLink {
		return nil, pay.ErrGatewayUnavailable
	}
	return &pay.PaymentLink{ShortURL: "https://rzp.io/l/test"}, nil
}

// memUsers implements usr.Repository in memory.
type memUsers struct {
	mu    sync.Mutex
	users map[string]*usr.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*usr.User{}} }

func (m *memUsers) Create(ctx context.Context, u *usr.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if (u.Email != "" && ex.Email == u.Email) || (u.Mobile != "" && ex.Mobile == u.Mobile) {
			return usr.ErrAlreadyExist
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*usr.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, usr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*usr.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, usr.ErrNotFound
}

func (m *memUsers) GetByIdentifier(ctx context.Context, identifier string) (*usr.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == identifier || u.Mobile == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, usr.ErrNotFound
}

func (m *memUsers) List(ctx context.Context) ([]usr.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]usr.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, u *usr.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ex, ok := m.users[u.ID]
	if !ok {
		return usr.ErrNotFound
	}
	if u.Name != "" {
		ex.Name = u.Name
	}
	if u.Email != "" {
		ex.Email = u.Email
	}
	if u.Mobile != "" {
		ex.Mobile = u.Mobile
	}
	return nil
}

func (m *memUsers) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return usr.ErrNotFound
	}
	u.ResetToken = token
	u.ResetTokenExpires = expires
	return nil
}

func (m *memUsers) GetByResetToken(ctx context.Context, token string) (*usr.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ResetToken == token && u.ResetTokenExpires.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, usr.ErrNotFound
}

func (m *memUsers) SetPassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return usr.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	return nil
}

// memCarts implements usr.CartStore in memory.
type memCarts struct {
	mu    sync.Mutex
	items map[string]map[string]int // userID -> productID -> qty
}

func newMemCarts() *memCarts { return &memCarts{items: map[string]map[string]int{}} }

func (m *memCarts) Set(ctx context.Context, userID, productID string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[userID] == nil {
		m.items[userID] = map[string]int{}
	}
	m.items[userID][productID] = qty
	return nil
}

func (m *memCarts) Remove(ctx context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items[userID], productID)
	return nil
}

func (m *memCarts) List(ctx context.Context, userID string) ([]usr.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []usr.CartItem{}
	for pid, qty := range m.items[userID] {
		out = append(out, usr.CartItem{ProductID: pid, Qty: qty})
	}
	return out, nil
}

func (m *memCarts) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
	return nil
}

// memProducts implements prod.Repository in memory.
type memProducts struct {
	mu    sync.Mutex
	prods map[string]*prod.Product
}

func newMemProducts() *memProducts { return &memProducts{prods: map[string]*prod.Product{}} }

func (m *memProducts) Create(ctx context.Context, p *prod.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.prods[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(ctx context.Context, id string) (*prod.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prods[id]
	if !ok {
		return nil, prod.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) List(ctx context.Context, q prod.Query) ([]prod.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []prod.Product{}
	for _, p := range m.prods {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProducts) ListTopSelling(ctx context.Context, limit int) ([]prod.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []prod.Product{}
	for _, p := range m.prods {
		if p.IsTopSelling {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) ListByIDs(ctx context.Context, ids []string) ([]prod.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []prod.Product{}
	for _, id := range ids {
		if p, ok := m.prods[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(ctx context.Context, p *prod.Product, updateFlags bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ex, ok := m.prods[p.ID]
	if !ok {
		return prod.ErrNotFound
	}
	if p.Name != "" {
		ex.Name = p.Name
	}
	if p.Category != "" {
		ex.Category = p.Category
	}
	if updateFlags {
		ex.IsTopSelling = p.IsTopSelling
		ex.Featured = p.Featured
	}
	if p.Variants != nil {
		ex.Variants = p.Variants
	}
	return nil
}

func (m *memProducts) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.prods[id]; !ok {
		return false, nil
	}
	delete(m.prods, id)
	return true, nil
}
