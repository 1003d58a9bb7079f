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
	// ErrEntryTitleRequired is returned when a travel log entry has no title.
	ErrEntryTitleRequired = errors.New("title is required")

	// ErrEntryBodyRequired is returned when a travel log entry has no text.
	ErrEntryBodyRequired = errors.New("entry text is required")

	// ErrEntryTooLong is returned when the title or body exceeds its limit.
	ErrEntryTooLong = errors.New("entry is too long")
)

const (
	maxEntryTitle = 200
	maxEntryBody  = 10000
)

// TravellogEntry represents a row in the travellog_entries table.
type TravellogEntry struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

// ValidateEntry trims title and body and checks them.
func ValidateEntry(title, body string) (string, string, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	switch {
	case title == "":
		return "", "", ErrEntryTitleRequired
	case body == "":
		return "", "", ErrEntryBodyRequired
	case utf8.RuneCountInString(title) > maxEntryTitle || utf8.RuneCountInString(body) > maxEntryBody:
		return "", "", ErrEntryTooLong
	}
	return title, body, nil
}

type TravellogStore struct {
	db *sqlx.DB
}

func NewTravellogStore(db *sqlx.DB) *TravellogStore {
	return &TravellogStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *TravellogStore) q(query string) string { return s.db.Rebind(query) }

// Create validates and stores a new entry for userID.
func (s *TravellogStore) Create(ctx context.Context, userID int64, title, body string) (*TravellogEntry, error) {
	title, body, err := ValidateEntry(title, body)
	if err != nil {
		return nil, err
	}
	id, err := insertID(ctx, s.db, `
		INSERT INTO travellog_entries (user_id, title, body, created_at)
		VALUES (?, ?, ?, ?)`, userID, title, body, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	var e TravellogEntry
	if err := s.db.GetContext(ctx, &e, s.q(`SELECT * FROM travellog_entries WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// ListByUser returns the user's entries, newest first.
func (s *TravellogStore) ListByUser(ctx context.Context, userID int64) ([]*TravellogEntry, error) {
	var entries []*TravellogEntry
	err := s.db.SelectContext(ctx, &entries, s.q(`
		SELECT * FROM travellog_entries WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`), userID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
