package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS volunteers (
	id           BIGSERIAL PRIMARY KEY,
	date         TEXT NOT NULL,
	first_name   TEXT NOT NULL DEFAULT '',
	last_name    TEXT NOT NULL DEFAULT '',
	phone_number TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_volunteers_date
	ON volunteers (date);

CREATE UNIQUE INDEX IF NOT EXISTS idx_volunteers_date_phone
	ON volunteers (date, phone_number);
`

// Migrate creates the volunteers table and its indexes and, when a legacy
// single full_name column is present, splits it into first_name/last_name.
// Every step is idempotent; Migrate runs on each start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := migrateLegacyFullName(ctx, pool); err != nil {
		return fmt.Errorf("migrate legacy full_name: %w", err)
	}
	return nil
}

// migrateLegacyFullName splits the pre-split full_name column on the first
// space and drops it. A no-op once the column is gone.
func migrateLegacyFullName(ctx context.Context, pool *pgxpool.Pool) error {
	var hasLegacy bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'volunteers' AND column_name = 'full_name'
		)`,
	).Scan(&hasLegacy)
	if err != nil {
		return fmt.Errorf("inspect columns: %w", err)
	}
	if !hasLegacy {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE volunteers
		SET first_name = split_part(full_name, ' ', 1),
		    last_name  = ltrim(substr(full_name, length(split_part(full_name, ' ', 1)) + 1))
		WHERE first_name = '' AND full_name IS NOT NULL`,
	)
	if err != nil {
		return fmt.Errorf("split names: %w", err)
	}

	if _, err = tx.Exec(ctx, `ALTER TABLE volunteers DROP COLUMN full_name`); err != nil {
		return fmt.Errorf("drop full_name: %w", err)
	}

	return tx.Commit(ctx)
}
