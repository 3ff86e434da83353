// Package product provides the repository interface and PostgreSQL
// implementation for the bakery catalog.
package product

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Query struct {
	Q        string
	Category string
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	ListTopSelling(ctx context.Context, limit int) ([]Product, error)
	ListByIDs(ctx context.Context, ids []string) ([]Product, error)
	Update(ctx context.Context, p *Product, updateFlags bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productColumns = `
	id, name, category, COALESCE(subcategory,''), COALESCE(description,''),
	COALESCE(image,''), is_top_selling, featured, COALESCE(event_id::text,''),
	variants, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var variants []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Subcategory,
		&p.Description, &p.Image, &p.IsTopSelling, &p.Featured, &p.EventID,
		&variants, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO products (id, name, category, subcategory, description, image,
		                      is_top_selling, featured, event_id, variants, created_at, updated_at)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8,NULLIF($9,'')::uuid,$10,NOW(),NOW())
	`, p.ID, p.Name, p.Category, p.Subcategory, p.Description, p.Image,
		p.IsTopSelling, p.Featured, p.EventID, variants)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, search, q.Category, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PGRepo) ListTopSelling(ctx context.Context, limit int) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 50 {
		limit = 10
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products WHERE is_top_selling
		ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *PGRepo) ListByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product, updateFlags bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return err
	}

	if updateFlags {
		_, err = r.db.Exec(ctx, `
			UPDATE products
			SET name = COALESCE(NULLIF($2,''), name),
			    category = COALESCE(NULLIF($3,''), category),
			    subcategory = COALESCE(NULLIF($4,''), subcategory),
			    description = COALESCE(NULLIF($5,''), description),
			    image = COALESCE(NULLIF($6,''), image),
			    is_top_selling = $7,
			    featured = $8,
			    event_id = NULLIF($9,'')::uuid,
			    variants = CASE WHEN $10::jsonb = 'null'::jsonb THEN variants ELSE $10::jsonb END,
			    updated_at = NOW()
			WHERE id = $1
		`, p.ID, p.Name, p.Category, p.Subcategory, p.Description, p.Image,
			p.IsTopSelling, p.Featured, p.EventID, variants)
		return err
	}

	_, err = r.db.Exec(ctx, `
		UPDATE products
		SET name = COALESCE(NULLIF($2,''), name),
		    category = COALESCE(NULLIF($3,''), category),
		    subcategory = COALESCE(NULLIF($4,''), subcategory),
		    description = COALESCE(NULLIF($5,''), description),
		    image = COALESCE(NULLIF($6,''), image),
		    variants = CASE WHEN $7::jsonb = 'null'::jsonb THEN variants ELSE $7::jsonb END,
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Category, p.Subcategory, p.Description, p.Image, variants)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
