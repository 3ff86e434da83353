// Package event manages seasonal bakery events (Christmas, Diwali, ...)
// and the products linked to them.
package event

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("event not found")
)

type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	ProductIDs  []string   `json:"products"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const eventColumns = `
	id, name, COALESCE(description,''), COALESCE(image,''),
	start_date, end_date, COALESCE(product_ids, '{}'), is_active, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Image,
		&e.StartDate, &e.EndDate, &e.ProductIDs, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if e.ProductIDs == nil {
		e.ProductIDs = []string{}
	}
	return &e, nil
}

func (r *PGRepo) Create(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO events (id, name, description, image, start_date, end_date,
		                    product_ids, is_active, created_at, updated_at)
		VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,$7,$8,NOW(),NOW())
	`, e.ID, e.Name, e.Description, e.Image, e.StartDate, e.EndDate, e.ProductIDs, e.IsActive)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE events
		SET name = COALESCE(NULLIF($2,''), name),
		    description = COALESCE(NULLIF($3,''), description),
		    image = COALESCE(NULLIF($4,''), image),
		    start_date = COALESCE($5, start_date),
		    end_date = COALESCE($6, end_date),
		    product_ids = CASE WHEN cardinality($7::uuid[]) = 0 THEN product_ids ELSE $7::uuid[] END,
		    is_active = $8,
		    updated_at = NOW()
		WHERE id = $1
	`, e.ID, e.Name, e.Description, e.Image, e.StartDate, e.EndDate, e.ProductIDs, e.IsActive)
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

	cmd, err := r.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
