package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type User struct {
	ID              int64     `db:"id"`
	Provider        string    `db:"provider"`
	Subject         string    `db:"subject"`
	Email           string    `db:"email"`
	DisplayName     string    `db:"display_name"`
	ProfilePhotoURL string    `db:"profile_photo_url"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Upsert creates or updates a user record on OIDC login.
func (s *UserStore) Upsert(ctx context.Context, provider, subject, email, displayName, photoURL string) (*User, error) {
	now := time.Now().UTC()

	var query string
	if s.db.DriverName() == "mysql" {
		query = `
		INSERT INTO users (provider, subject, email, display_name, profile_photo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			email = VALUES(email),
			display_name = VALUES(display_name),
			profile_photo_url = VALUES(profile_photo_url),
			updated_at = VALUES(updated_at)`
	} else {
		query = `
		INSERT INTO users (provider, subject, email, display_name, profile_photo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider, subject) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			profile_photo_url = excluded.profile_photo_url,
			updated_at = excluded.updated_at`
	}
	if _, err := s.db.ExecContext(ctx, s.q(query), provider, subject, email, displayName, photoURL, now, now); err != nil {
		return nil, err
	}

	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE provider = ? AND subject = ?`), provider, subject)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByID returns the user with id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetByEmail returns the user matching email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE email = ?`), email)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdateProfilePhoto replaces the user's profile photo URL.
func (s *UserStore) UpdateProfilePhoto(ctx context.Context, id int64, url string) (*User, error) {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE users SET profile_photo_url = ?, updated_at = ? WHERE id = ?`),
		url, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}
