package payment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("payment record not found")
	// ErrAlreadyResolved means the record exists but sits in a terminal
	// state the requested transition cannot be applied to.
	ErrAlreadyResolved = errors.New("payment already resolved")
)

type Store interface {
	Create(ctx context.Context, p *Record) error
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Record, error)
	MarkSucceeded(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*Record, error)
	MarkFailed(ctx context.Context, gatewayOrderID string) (*Record, error)
}

type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

const recordColumns = `
	id, order_id, amount::text, status, gateway_order_id,
	COALESCE(gateway_payment_id,''), created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var p Record
	if err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Status,
		&p.GatewayOrderID, &p.GatewayPaymentID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PGStore) Create(ctx context.Context, p *Record) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `
    INSERT INTO payments (id, order_id, amount, status, gateway_order_id, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
  `, p.ID, p.OrderID, p.Amount, p.Status, p.GatewayOrderID)
	return err
}

func (s *PGStore) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanRecord(s.db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM payments WHERE gateway_order_id=$1`, gatewayOrderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MarkSucceeded is the single conditional write that makes callback
// verification safe under at-least-once delivery: it only moves
// pending -> success, and re-applying an identical success callback is a
// no-op that returns the same row. Two callbacks racing on the same
// gateway_order_id cannot lose updates because the transition is one
// UPDATE, not a read-modify-write.
func (s *PGStore) MarkSucceeded(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanRecord(s.db.QueryRow(ctx, `
    UPDATE payments
    SET status = $3, gateway_payment_id = $2, updated_at = NOW()
    WHERE gateway_order_id = $1
      AND (status = $4 OR (status = $3 AND gateway_payment_id = $2))
    RETURNING `+recordColumns,
		gatewayOrderID, gatewayPaymentID, StatusSuccess, StatusPending))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// No row matched: absent record vs. record closed in another state.
	if _, err := s.GetByGatewayOrderID(ctx, gatewayOrderID); err != nil {
		return nil, err
	}
	return nil, ErrAlreadyResolved
}

// MarkFailed closes the record after a signature mismatch. A success is
// terminal and is never demoted; marking an already-failed record failed
// again is a no-op that still returns the row.
func (s *PGStore) MarkFailed(ctx context.Context, gatewayOrderID string) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanRecord(s.db.QueryRow(ctx, `
    UPDATE payments
    SET status = $2, updated_at = NOW()
    WHERE gateway_order_id = $1 AND status <> $3
    RETURNING `+recordColumns,
		gatewayOrderID, StatusFailed, StatusSuccess))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.GetByGatewayOrderID(ctx, gatewayOrderID); err != nil {
		return nil, err
	}
	return nil, ErrAlreadyResolved
}
