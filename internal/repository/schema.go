package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for all tables the checkout core owns. Statements are
// idempotent so the schema can be applied on startup and in tests.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       DOUBLE PRECISION NOT NULL CHECK (price >= 0),
	image       TEXT NOT NULL DEFAULT '',
	quantity    INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	sold        INTEGER NOT NULL DEFAULT 0 CHECK (sold >= 0),
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS carts (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL UNIQUE,
	total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_items INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cart_items (
	id         UUID PRIMARY KEY,
	cart_id    UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL,
	quantity   INTEGER NOT NULL CHECK (quantity >= 1),
	color      TEXT NOT NULL DEFAULT '',
	size       TEXT NOT NULL DEFAULT '',
	UNIQUE (cart_id, product_id, color, size)
);

CREATE TABLE IF NOT EXISTS orders (
	id                  UUID PRIMARY KEY,
	user_id             TEXT,
	status              TEXT NOT NULL,
	payment_method      TEXT NOT NULL,
	ship_name           TEXT NOT NULL,
	ship_address        TEXT NOT NULL,
	ship_address2       TEXT NOT NULL DEFAULT '',
	ship_city           TEXT NOT NULL,
	ship_state          TEXT NOT NULL,
	ship_postal_code    TEXT NOT NULL,
	ship_country        TEXT NOT NULL,
	ship_phone          TEXT NOT NULL,
	ship_email          TEXT NOT NULL DEFAULT '',
	items_price         DOUBLE PRECISION NOT NULL CHECK (items_price >= 0),
	tax_price           DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (tax_price >= 0),
	shipping_price      DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (shipping_price >= 0),
	discount_amount     DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
	total               DOUBLE PRECISION NOT NULL CHECK (total >= 0),
	payment_id          TEXT,
	payment_status      TEXT,
	payment_update_time TIMESTAMPTZ,
	is_paid             BOOLEAN NOT NULL DEFAULT FALSE,
	paid_at             TIMESTAMPTZ,
	is_delivered        BOOLEAN NOT NULL DEFAULT FALSE,
	delivered_at        TIMESTAMPTZ,
	tracking_number     TEXT NOT NULL DEFAULT '',
	notes               TEXT NOT NULL DEFAULT '',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);
CREATE INDEX IF NOT EXISTS idx_orders_payment_id ON orders (payment_id);

CREATE TABLE IF NOT EXISTS order_items (
	id         UUID PRIMARY KEY,
	order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	unit_price DOUBLE PRECISION NOT NULL CHECK (unit_price >= 0),
	quantity   INTEGER NOT NULL CHECK (quantity >= 1),
	image      TEXT NOT NULL DEFAULT '',
	color      TEXT NOT NULL DEFAULT '',
	size       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id);

CREATE TABLE IF NOT EXISTS addresses (
	id            UUID PRIMARY KEY,
	user_id       TEXT NOT NULL,
	name          TEXT NOT NULL,
	address_line1 TEXT NOT NULL,
	address_line2 TEXT NOT NULL DEFAULT '',
	city          TEXT NOT NULL,
	state         TEXT NOT NULL,
	postal_code   TEXT NOT NULL,
	country       TEXT NOT NULL,
	phone         TEXT NOT NULL,
	type          TEXT NOT NULL CHECK (type IN ('shipping', 'billing', 'both')),
	is_default    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses (user_id);
`

// EnsureSchema applies the schema to the connected database.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
