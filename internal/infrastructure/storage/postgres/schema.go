package postgres

import (
	"context"
	"fmt"
)

// schema is the full DDL. Statements are idempotent so the server can run
// them on every start.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    role          TEXT NOT NULL,
    manager_id    UUID REFERENCES accounts(id),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
    id            UUID PRIMARY KEY,
    owner_id      UUID NOT NULL REFERENCES accounts(id),
    sku           TEXT NOT NULL,
    name          TEXT NOT NULL,
    min_stock     BIGINT NOT NULL DEFAULT 0 CHECK (min_stock >= 0),
    current_stock BIGINT NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
    average_cost  NUMERIC(15,6) NOT NULL DEFAULT 0 CHECK (average_cost >= 0),
    sale_price    NUMERIC(15,6) NOT NULL DEFAULT 0 CHECK (sale_price >= 0),
    expiry_date   DATE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (owner_id, sku)
);

CREATE TABLE IF NOT EXISTS movements (
    id                  UUID PRIMARY KEY,
    product_id          UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    type                TEXT NOT NULL CHECK (type IN ('ENTRY', 'EXIT')),
    quantity            BIGINT NOT NULL CHECK (quantity > 0),
    unit_cost           NUMERIC(15,6) NOT NULL CHECK (unit_cost >= 0),
    cost_at_transaction NUMERIC(15,6) NOT NULL,
    status              TEXT NOT NULL CHECK (status IN ('PAID', 'PENDING')),
    amount_paid         NUMERIC(15,6) NOT NULL DEFAULT 0 CHECK (amount_paid >= 0),
    client_name         TEXT,
    expiry_date         DATE,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_products_owner ON products(owner_id);
CREATE INDEX IF NOT EXISTS idx_movements_product ON movements(product_id);
CREATE INDEX IF NOT EXISTS idx_movements_type_status ON movements(type, status);
CREATE INDEX IF NOT EXISTS idx_movements_created ON movements(created_at);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
