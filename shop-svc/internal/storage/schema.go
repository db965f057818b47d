package storage

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
		id SERIAL PRIMARY KEY,
		external_id TEXT UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		calories INTEGER,
		category TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		public_ref TEXT NOT NULL UNIQUE,
		customer_name VARCHAR(255) NOT NULL,
		address TEXT NOT NULL,
		phone VARCHAR(50),
		delivery_date TEXT NOT NULL,
		delivery_time TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		items JSONB NOT NULL DEFAULT '[]',
		subtotal NUMERIC(10,2) NOT NULL,
		delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
		total NUMERIC(10,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending','preparing','ready','in_delivery','delivered','paid','cancelled')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_created_at_idx ON orders (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'read_only' CHECK (role IN ('admin','write','read_only')),
		can_manage_users BOOLEAN NOT NULL DEFAULT FALSE,
		can_manage_integrations BOOLEAN NOT NULL DEFAULT FALSE,
		can_manage_payments BOOLEAN NOT NULL DEFAULT FALSE,
		can_manage_delivery BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payment_methods (
		name TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		is_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		min_order_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
		delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ordering_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS integration_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		platform_url TEXT NOT NULL DEFAULT '',
		api_key TEXT NOT NULL DEFAULT '',
		restaurant_external_id TEXT NOT NULL DEFAULT '',
		restaurant_address TEXT NOT NULL DEFAULT '',
		restaurant_phone TEXT NOT NULL DEFAULT '',
		currency TEXT NOT NULL DEFAULT 'PLN',
		last_sync_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`INSERT INTO delivery_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO ordering_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO integration_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
}

// EnsureSchema is idempotent and safe to run on every start.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
