package store

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrCommentEmpty is returned when a comment has no text.
	ErrCommentEmpty = errors.New("comment text is required")

	// ErrCommentTooLong is returned when a comment exceeds MaxCommentLength.
	ErrCommentTooLong = errors.New("comment is too long")
)

// MaxCommentLength caps comment bodies, in characters.
const MaxCommentLength = 2000

// Photo represents a row in the photos table.
type Photo struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
}

// Comment represents a row in the comments table.
type Comment struct {
	ID        int64     `db:"id"`
	PhotoID   int64     `db:"photo_id"`
	UserID    int64     `db:"user_id"`
	Author    string    `db:"author"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

type PhotoStore struct {
	db *sqlx.DB
}

func NewPhotoStore(db *sqlx.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *PhotoStore) q(query string) string { return s.db.Rebind(query) }

// Create adds a photo to the user's gallery.
func (s *PhotoStore) Create(ctx context.Context, userID int64, url string) (*Photo, error) {
	id, err := insertID(ctx, s.db, `INSERT INTO photos (user_id, url, created_at) VALUES (?, ?, ?)`,
		userID, url, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the photo with id, or ErrNotFound.
func (s *PhotoStore) GetByID(ctx context.Context, id int64) (*Photo, error) {
	var p Photo
	if err := s.db.GetContext(ctx, &p, s.q(`SELECT * FROM photos WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListByUser returns the user's photos, oldest first.
func (s *PhotoStore) ListByUser(ctx context.Context, userID int64) ([]*Photo, error) {
	var photos []*Photo
	err := s.db.SelectContext(ctx, &photos, s.q(`SELECT * FROM photos WHERE user_id = ? ORDER BY id ASC`), userID)
	if err != nil {
		return nil, err
	}
	return photos, nil
}

type CommentStore struct {
	db *sqlx.DB
}

func NewCommentStore(db *sqlx.DB) *CommentStore {
	return &CommentStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *CommentStore) q(query string) string { return s.db.Rebind(query) }

// Create stores a comment on photoID written by userID. author is the
// display name captured at write time.
func (s *CommentStore) Create(ctx context.Context, photoID, userID int64, author, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrCommentEmpty
	}
	if utf8.RuneCountInString(body) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	var exists int
	if err := s.db.GetContext(ctx, &exists, s.q(`SELECT COUNT(*) FROM photos WHERE id = ?`), photoID); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	id, err := insertID(ctx, s.db, `
		INSERT INTO comments (photo_id, user_id, author, body, created_at)
		VALUES (?, ?, ?, ?, ?)`, photoID, userID, author, body, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	var c Comment
	if err := s.db.GetContext(ctx, &c, s.q(`SELECT * FROM comments WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListForUserPhotos returns every comment on the user's photos keyed by
// photo id, each list in posting order.
func (s *CommentStore) ListForUserPhotos(ctx context.Context, userID int64) (map[int64][]*Comment, error) {
	var comments []*Comment
	err := s.db.SelectContext(ctx, &comments, s.q(`
		SELECT c.* FROM comments c
		JOIN photos p ON p.id = c.photo_id
		WHERE p.user_id = ?
		ORDER BY c.id ASC`), userID)
	if err != nil {
		return nil, err
	}
	byPhoto := make(map[int64][]*Comment)
	for _, c := range comments {
		byPhoto[c.PhotoID] = append(byPhoto[c.PhotoID], c)
	}
	return byPhoto, nil
}
