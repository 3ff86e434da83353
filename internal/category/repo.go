// Package category manages the bakery's category tree: flat categories,
// each with an ordered list of subcategory names.
package category

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrAlreadyExists = errors.New("category already exists")
)

type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"`
	Subcategories []string  `json:"subcategories"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const categoryColumns = `id, name, COALESCE(image,''), subcategories, created_at, updated_at`

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	var subs []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Image, &subs, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if len(subs) > 0 {
		if err := json.Unmarshal(subs, &c.Subcategories); err != nil {
			return nil, err
		}
	}
	if c.Subcategories == nil {
		c.Subcategories = []string{}
	}
	return &c, nil
}

func (r *PGRepo) Create(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	subs, err := json.Marshal(c.Subcategories)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO categories (id, name, image, subcategories, created_at, updated_at)
		VALUES ($1,$2,NULLIF($3,''),$4,NOW(),NOW())
	`, c.ID, c.Name, c.Image, subs)
	if err != nil {
		// UNIQUE on name
		return ErrAlreadyExists
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c, err := scanCategory(r.db.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, c *Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	subs, err := json.Marshal(c.Subcategories)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET name = COALESCE(NULLIF($2,''), name),
		    image = COALESCE(NULLIF($3,''), image),
		    subcategories = $4,
		    updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name, c.Image, subs)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
