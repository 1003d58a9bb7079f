package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsers, downCreateUsers)
}

func upCreateUsers(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
    %s,
    provider          %s NOT NULL,
    subject           %s NOT NULL,
    email             %s NOT NULL,
    display_name      TEXT NOT NULL,
    profile_photo_url TEXT NOT NULL,
    created_at        %s NOT NULL,
    updated_at        %s NOT NULL
)`, idColumn(), keyType(), keyType(), keyType(), timestampType(), timestampType())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE UNIQUE INDEX idx_users_provider_subject ON users (provider, subject)`)
	return err
}

func downCreateUsers(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users`)
	return err
}
