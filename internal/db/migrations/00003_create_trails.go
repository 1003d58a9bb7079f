package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTrails, downCreateTrails)
}

func upCreateTrails(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS trails (
    %s,
    name        %s NOT NULL,
    description TEXT NOT NULL,
    thumbnail   TEXT NOT NULL,
    lat         DOUBLE PRECISION NOT NULL,
    lng         DOUBLE PRECISION NOT NULL,
    created_at  %s NOT NULL
)`, idColumn(), keyType(), timestampType())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create trails table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX idx_trails_name ON trails (name)`)
	return err
}

func downCreateTrails(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS trails`)
	return err
}
