package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Trail represents a row in the trails table.
type Trail struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Thumbnail   string    `db:"thumbnail"`
	Lat         float64   `db:"lat"`
	Lng         float64   `db:"lng"`
	CreatedAt   time.Time `db:"created_at"`
}

// TrailStore covers trails and the favorites join table.
type TrailStore struct {
	db *sqlx.DB
}

func NewTrailStore(db *sqlx.DB) *TrailStore {
	return &TrailStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *TrailStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a trail.
func (s *TrailStore) Create(ctx context.Context, name, description, thumbnail string, lat, lng float64) (*Trail, error) {
	now := time.Now().UTC()
	id, err := insertID(ctx, s.db, `
		INSERT INTO trails (name, description, thumbnail, lat, lng, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, name, description, thumbnail, lat, lng, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the trail with id, or ErrNotFound.
func (s *TrailStore) GetByID(ctx context.Context, id int64) (*Trail, error) {
	var t Trail
	if err := s.db.GetContext(ctx, &t, s.q(`SELECT * FROM trails WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ListAll returns every trail ordered by id.
func (s *TrailStore) ListAll(ctx context.Context) ([]*Trail, error) {
	var trails []*Trail
	if err := s.db.SelectContext(ctx, &trails, `SELECT * FROM trails ORDER BY id ASC`); err != nil {
		return nil, err
	}
	return trails, nil
}

// AddFavorite saves trailID for userID.
func (s *TrailStore) AddFavorite(ctx context.Context, userID, trailID int64) error {
	if _, err := s.GetByID(ctx, trailID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO favorites (user_id, trail_id, created_at) VALUES (?, ?, ?)`),
		userID, trailID, time.Now().UTC())
	if err != nil && isUniqueConstraintError(err) {
		return ErrAlreadyFavorite
	}
	return err
}

// RemoveFavorite drops a saved trail. Removing a trail that is not saved is
// not an error.
func (s *TrailStore) RemoveFavorite(ctx context.Context, userID, trailID int64) error {
	_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM favorites WHERE user_id = ? AND trail_id = ?`), userID, trailID)
	return err
}

// ListFavorites returns the user's saved trails in the order they were saved.
func (s *TrailStore) ListFavorites(ctx context.Context, userID int64) ([]*Trail, error) {
	var trails []*Trail
	err := s.db.SelectContext(ctx, &trails, s.q(`
		SELECT t.* FROM trails t
		JOIN favorites f ON f.trail_id = t.id
		WHERE f.user_id = ?
		ORDER BY f.created_at ASC, t.id ASC`), userID)
	if err != nil {
		return nil, err
	}
	return trails, nil
}
