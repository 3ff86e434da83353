package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetPaymentOutcome(ctx context.Context, id, paymentStatus, status string) (*Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Every SELECT reads COALESCE(total, total_amount) so callers only ever see
// one canonical total; total_amount is a nullable column kept for rows
// migrated from the legacy schema.
const orderColumns = `
	id, COALESCE(user_id::text,''), subtotal::text, shipping::text,
	COALESCE(total, total_amount)::text, currency, customer,
	payment_method, payment_status, status, COALESCE(notes,''),
	created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var customer []byte
	if err := row.Scan(&o.ID, &o.UserID, &o.Subtotal, &o.Shipping, &o.Total,
		&o.Currency, &customer, &o.PaymentMethod, &o.PaymentStatus,
		&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if len(customer) > 0 {
		if err := json.Unmarshal(customer, &o.Customer); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

func (r *PGRepo) Create(ctx context.Context, o *Order, items []Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, user_id, subtotal, shipping, total, currency,
                        customer, payment_method, payment_status, status,
                        notes, created_at, updated_at)
    VALUES ($1, NULLIF($2,'')::uuid, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11,''), NOW(), NOW())
  `, o.ID, o.UserID, o.Subtotal, o.Shipping, o.Total, o.Currency,
		customer, o.PaymentMethod, o.PaymentStatus, o.Status, o.Notes); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (id, order_id, product_id, name, image, variant_label, price, qty)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, it.ID, o.ID, it.ProductID, it.Name, it.Image, it.VariantLabel, it.Price, it.Qty); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *PGRepo) getItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, product_id, name, COALESCE(image,''), COALESCE(variant_label,''), price::text, qty
    FROM order_items WHERE order_id=$1
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name,
			&it.Image, &it.VariantLabel, &it.Price, &it.Qty); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+`
    FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+`
    FROM orders WHERE user_id=$3
    ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset, userID)
}

func (r *PGRepo) list(ctx context.Context, sql string, limit, offset int, args ...any) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, sql, append([]any{limit, offset}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
  `, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPaymentOutcome applies payment_status and the cascaded fulfillment
// status in one atomic UPDATE. It is idempotent: re-applying the same
// outcome leaves the row unchanged.
func (r *PGRepo) SetPaymentOutcome(ctx context.Context, id, paymentStatus, status string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
    UPDATE orders SET payment_status = $2, status = $3, updated_at = NOW()
    WHERE id = $1
    RETURNING `+orderColumns, id, paymentStatus, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}
