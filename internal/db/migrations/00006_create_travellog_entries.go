package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTravellogEntries, downCreateTravellogEntries)
}

func upCreateTravellogEntries(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS travellog_entries (
    %s,
    user_id    %s NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title      TEXT NOT NULL,
    body       TEXT NOT NULL,
    created_at %s NOT NULL
)`, idColumn(), refType(), timestampType())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create travellog_entries table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX idx_travellog_user ON travellog_entries (user_id, created_at)`)
	return err
}

func downCreateTravellogEntries(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS travellog_entries`)
	return err
}
