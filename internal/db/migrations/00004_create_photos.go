package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePhotos, downCreatePhotos)
}

func upCreatePhotos(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS photos (
    %s,
    user_id    %s NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    url        TEXT NOT NULL,
    created_at %s NOT NULL
)`, idColumn(), refType(), timestampType()),
		`CREATE INDEX idx_photos_user ON photos (user_id)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS comments (
    %s,
    photo_id   %s NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
    user_id    %s NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    author     TEXT NOT NULL,
    body       TEXT NOT NULL,
    created_at %s NOT NULL
)`, idColumn(), refType(), refType(), timestampType()),
		`CREATE INDEX idx_comments_photo ON comments (photo_id)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func downCreatePhotos(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{`DROP TABLE IF EXISTS comments`, `DROP TABLE IF EXISTS photos`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
