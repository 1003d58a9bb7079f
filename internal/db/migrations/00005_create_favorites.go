package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateFavorites, downCreateFavorites)
}

func upCreateFavorites(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS favorites (
    user_id    %s NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    trail_id   %s NOT NULL REFERENCES trails(id) ON DELETE CASCADE,
    created_at %s NOT NULL,
    PRIMARY KEY (user_id, trail_id)
)`, refType(), refType(), timestampType())
	_, err := tx.ExecContext(ctx, ddl)
	return err
}

func downCreateFavorites(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS favorites`)
	return err
}
