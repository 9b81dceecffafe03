package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations del esquema del motor de kardex. Idempotentes: se aplican en
// orden en cada arranque.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stock_balances (
		key_hash             text PRIMARY KEY,
		dimension            jsonb NOT NULL,
		quantity             numeric(20,6) NOT NULL DEFAULT 0,
		total_cost_value     numeric(20,6) NOT NULL DEFAULT 0,
		cost_price           numeric(20,6) NOT NULL DEFAULT 0,
		total_purchase_value numeric(20,6) NOT NULL DEFAULT 0,
		total_revenue_value  numeric(20,6) NOT NULL DEFAULT 0,
		total_reserve_value  numeric(20,6) NOT NULL DEFAULT 0,
		updated_at           timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_balances_item ON stock_balances ((dimension->>'item'))`,

	`CREATE TABLE IF NOT EXISTS journals (
		id         uuid PRIMARY KEY,
		code       text NOT NULL UNIQUE,
		type       text NOT NULL,
		status     text NOT NULL,
		notes      text NOT NULL DEFAULT '',
		created_by text NOT NULL DEFAULT 'system',
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_journals_status ON journals (status)`,

	`CREATE TABLE IF NOT EXISTS journal_lines (
		id                      uuid PRIMARY KEY,
		journal_id              uuid NOT NULL REFERENCES journals(id),
		line_num                integer NOT NULL,
		item                    text NOT NULL,
		quantity                numeric(20,6) NOT NULL DEFAULT 0,
		purchase_price          numeric(20,6) NOT NULL DEFAULT 0,
		sales_price             numeric(20,6) NOT NULL DEFAULT 0,
		cost_price              numeric(20,6) NOT NULL DEFAULT 0,
		load_on_inventory_value numeric(20,6),
		from_coords             jsonb NOT NULL DEFAULT '{}',
		to_coords               jsonb NOT NULL DEFAULT '{}',
		product                 jsonb NOT NULL DEFAULT '{}',
		tracking                jsonb NOT NULL DEFAULT '{}',
		dup_key                 text NOT NULL,
		line_date               timestamptz NOT NULL,
		UNIQUE (journal_id, line_num)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_lines_item ON journal_lines (item)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_lines_dup_key ON journal_lines (dup_key)`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id             uuid PRIMARY KEY,
		seq            bigserial,
		journal_id     uuid NOT NULL REFERENCES journals(id),
		journal_code   text NOT NULL,
		line_num       integer NOT NULL,
		key_hash       text NOT NULL,
		dimension      jsonb NOT NULL,
		delta_qty      numeric(20,6) NOT NULL DEFAULT 0,
		delta_cost     numeric(20,6) NOT NULL DEFAULT 0,
		delta_purchase numeric(20,6) NOT NULL DEFAULT 0,
		delta_revenue  numeric(20,6) NOT NULL DEFAULT 0,
		reversal       boolean NOT NULL DEFAULT false,
		created_at     timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_journal ON reservations (journal_id)`,
}

// RunMigrations aplica el esquema al arranque.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migración %d: %w", i, err)
		}
	}
	return nil
}
