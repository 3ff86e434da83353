package user

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CartStore persists one cart row per (user, product). Setting a product
// overwrites its quantity, matching the storefront's add-to-cart behavior.
type CartStore interface {
	Set(ctx context.Context, userID, productID string, qty int) error
	Remove(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]CartItem, error)
	Clear(ctx context.Context, userID string) error
}

type PGCartStore struct{ db *pgxpool.Pool }

func NewPGCartStore(db *pgxpool.Pool) *PGCartStore { return &PGCartStore{db: db} }

func (s *PGCartStore) Set(ctx context.Context, userID, productID string, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, qty, updated_at)
		VALUES ($1,$2,$3,NOW())
		ON CONFLICT (user_id, product_id) DO UPDATE SET qty = EXCLUDED.qty, updated_at = NOW()
	`, userID, productID, qty)
	return err
}

func (s *PGCartStore) Remove(ctx context.Context, userID, productID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	return err
}

func (s *PGCartStore) List(ctx context.Context, userID string) ([]CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT product_id, qty FROM cart_items WHERE user_id=$1 ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]CartItem, 0)
	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ProductID, &it.Qty); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PGCartStore) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}
