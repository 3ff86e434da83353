// Command seed creates the storefront schema and optionally loads demo
// data. It is idempotent: existing tables and rows are left alone unless
// --drop is given.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/naveen1798kumar/acb-backend/internal/config"
	"github.com/naveen1798kumar/acb-backend/internal/user"
)

var (
	flagDSN    string
	flagDrop   bool
	flagSample bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the storefront database schema and demo data",
		RunE:  runSeed,
	}
	rootCmd.Flags().StringVar(&flagDSN, "dsn", "", "Postgres DSN (defaults to POSTGRES_DSN)")
	rootCmd.Flags().BoolVar(&flagDrop, "drop", false, "drop existing tables first")
	rootCmd.Flags().BoolVar(&flagSample, "sample", true, "insert demo catalog and admin user")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const dropDDL = `
DROP TABLE IF EXISTS payments;
DROP TABLE IF EXISTS order_items;
DROP TABLE IF EXISTS orders;
DROP TABLE IF EXISTS cart_items;
DROP TABLE IF EXISTS products;
DROP TABLE IF EXISTS events;
DROP TABLE IF EXISTS categories;
DROP TABLE IF EXISTS users;
`

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT UNIQUE,
  mobile TEXT UNIQUE,
  password_hash TEXT,
  role TEXT NOT NULL DEFAULT 'user',
  reset_token TEXT,
  reset_token_expires TIMESTAMPTZ,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS cart_items (
  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id UUID NOT NULL,
  qty INT NOT NULL CHECK (qty > 0),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  PRIMARY KEY (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS categories (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  image TEXT,
  subcategories JSONB NOT NULL DEFAULT '[]',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS events (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image TEXT,
  start_date TIMESTAMPTZ,
  end_date TIMESTAMPTZ,
  product_ids UUID[] NOT NULL DEFAULT '{}',
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  subcategory TEXT,
  description TEXT,
  image TEXT,
  is_top_selling BOOLEAN NOT NULL DEFAULT FALSE,
  featured BOOLEAN NOT NULL DEFAULT FALSE,
  event_id UUID,
  variants JSONB NOT NULL DEFAULT '[]',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
  id UUID PRIMARY KEY,
  user_id UUID,
  subtotal NUMERIC(12,2) NOT NULL,
  shipping NUMERIC(12,2) NOT NULL DEFAULT 0,
  total NUMERIC(12,2),
  -- kept for rows migrated from the legacy schema; readers coalesce
  total_amount NUMERIC(12,2),
  currency TEXT NOT NULL DEFAULT 'INR',
  customer JSONB NOT NULL DEFAULT '{}',
  payment_method TEXT NOT NULL DEFAULT 'upi',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  status TEXT NOT NULL DEFAULT 'created',
  notes TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CHECK (total IS NOT NULL OR total_amount IS NOT NULL)
);
CREATE INDEX IF NOT EXISTS orders_user_idx ON orders (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS order_items (
  id UUID PRIMARY KEY,
  order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id UUID NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  variant_label TEXT,
  price NUMERIC(12,2) NOT NULL,
  qty INT NOT NULL CHECK (qty > 0)
);
CREATE INDEX IF NOT EXISTS order_items_order_idx ON order_items (order_id);

CREATE TABLE IF NOT EXISTS payments (
  id UUID PRIMARY KEY,
  order_id UUID NOT NULL REFERENCES orders(id),
  amount NUMERIC(12,2) NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  gateway_order_id TEXT NOT NULL UNIQUE,
  gateway_payment_id TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS payments_order_idx ON payments (order_id);
`

func runSeed(cmd *cobra.Command, args []string) error {
	dsn := flagDSN
	if dsn == "" {
		dsn = config.Load().PostgresDSN
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if flagDrop {
		if _, err := pool.Exec(ctx, dropDDL); err != nil {
			return fmt.Errorf("drop: %w", err)
		}
		fmt.Println("dropped existing tables")
	}

	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	fmt.Println("schema ready")

	if !flagSample {
		return nil
	}
	if err := seedSample(ctx, pool); err != nil {
		return fmt.Errorf("sample data: %w", err)
	}
	fmt.Println("demo data loaded")
	return nil
}

func seedSample(ctx context.Context, pool *pgxpool.Pool) error {
	type demoProduct struct {
		name, category, subcategory, variants string
		topSelling                            bool
	}
	demo := []demoProduct{
		{"Butter Croissant", "Breads", "Viennoiserie",
			`[{"label":"1pc","price":"50.00","stock":40}]`, true},
		{"Chocolate Cake", "Cake", "Birthday",
			`[{"label":"500g","price":"300.00","stock":10},{"label":"1kg","price":"550.00","stock":6}]`, true},
		{"Garlic Bread", "Breads", "Savoury",
			`[{"label":"1pc","price":"100.00","stock":25}]`, false},
	}
	for _, p := range demo {
		if _, err := pool.Exec(ctx, `
      INSERT INTO products (id, name, category, subcategory, is_top_selling, variants)
      VALUES ($1,$2,$3,$4,$5,$6::jsonb)
      ON CONFLICT DO NOTHING
    `, uuid.NewString(), p.name, p.category, p.subcategory, p.topSelling, p.variants); err != nil {
			return err
		}
	}

	for _, name := range []string{"Breads", "Cake", "Special Events"} {
		if _, err := pool.Exec(ctx, `
      INSERT INTO categories (id, name) VALUES ($1,$2) ON CONFLICT (name) DO NOTHING
    `, uuid.NewString(), name); err != nil {
			return err
		}
	}

	hash, err := user.HashPassword("admin123")
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (id, name, email, mobile, password_hash, role)
    VALUES ($1,'Admin','admin@acbbakery.in','9000000000',$2,'admin')
    ON CONFLICT (email) DO NOTHING
  `, uuid.NewString(), hash)
	return err
}
