package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/testutil"
)

func TestPhotoAndCommentStores(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ps := store.NewPhotoStore(db)
	cs := store.NewCommentStore(db)
	ctx := context.Background()

	ana, _ := us.Upsert(ctx, "test", "ana", "ana@example.com", "Ana", "")
	bo, _ := us.Upsert(ctx, "test", "bo", "bo@example.com", "Bo", "")

	p1, err := ps.Create(ctx, ana.ID, "https://img.example.com/1.jpg")
	if err != nil {
		t.Fatalf("create photo: %v", err)
	}
	p2, _ := ps.Create(ctx, ana.ID, "https://img.example.com/2.jpg")
	if _, err := ps.Create(ctx, bo.ID, "https://img.example.com/3.jpg"); err != nil {
		t.Fatalf("create photo: %v", err)
	}

	photos, err := ps.ListByUser(ctx, ana.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(photos) != 2 || photos[0].ID != p1.ID || photos[1].ID != p2.ID {
		t.Fatalf("unexpected photos: %+v", photos)
	}

	c, err := cs.Create(ctx, p2.ID, bo.ID, "Bo", "  hi  ")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if c.Body != "hi" || c.Author != "Bo" {
		t.Errorf("unexpected comment: %+v", c)
	}
	if _, err := cs.Create(ctx, p2.ID, ana.ID, "Ana", "thanks"); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	byPhoto, err := cs.ListForUserPhotos(ctx, ana.ID)
	if err != nil {
		t.Fatalf("ListForUserPhotos: %v", err)
	}
	if len(byPhoto[p1.ID]) != 0 {
		t.Errorf("photo 1 comments = %d, want 0", len(byPhoto[p1.ID]))
	}
	if got := byPhoto[p2.ID]; len(got) != 2 || got[0].Body != "hi" || got[1].Body != "thanks" {
		t.Errorf("photo 2 comments out of order: %+v", got)
	}
}

func TestCommentStore_Validation(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ps := store.NewPhotoStore(db)
	cs := store.NewCommentStore(db)
	ctx := context.Background()

	ana, _ := us.Upsert(ctx, "test", "ana", "ana@example.com", "Ana", "")
	p, _ := ps.Create(ctx, ana.ID, "x.jpg")

	if _, err := cs.Create(ctx, p.ID, ana.ID, "Ana", "   "); !errors.Is(err, store.ErrCommentEmpty) {
		t.Errorf("err = %v, want ErrCommentEmpty", err)
	}
	if _, err := cs.Create(ctx, 999, ana.ID, "Ana", "hi"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	if _, err := cs.Create(ctx, p.ID, ana.ID, "Ana", strings.Repeat("a", store.MaxCommentLength+1)); !errors.Is(err, store.ErrCommentTooLong) {
		t.Errorf("err = %v, want ErrCommentTooLong", err)
	}
}

func TestCommentStore_MultiByteLength(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ps := store.NewPhotoStore(db)
	cs := store.NewCommentStore(db)
	ctx := context.Background()

	ana, _ := us.Upsert(ctx, "test", "ana", "ana@example.com", "Ana", "")
	p, _ := ps.Create(ctx, ana.ID, "x.jpg")

	// 1501 characters, 3001 bytes.
	if _, err := cs.Create(ctx, p.ID, ana.ID, "Ana", "a"+strings.Repeat("é", 1500)); err != nil {
		t.Fatalf("create 1501-character comment: %v", err)
	}

	atLimit := strings.Repeat("é", store.MaxCommentLength)
	c, err := cs.Create(ctx, p.ID, ana.ID, "Ana", atLimit)
	if err != nil {
		t.Fatalf("create comment at limit: %v", err)
	}
	if c.Body != atLimit {
		t.Errorf("body changed: got %d bytes, want %d", len(c.Body), len(atLimit))
	}
	if !utf8.ValidString(c.Body) {
		t.Error("stored body is not valid UTF-8")
	}

	if _, err := cs.Create(ctx, p.ID, ana.ID, "Ana", atLimit+"é"); !errors.Is(err, store.ErrCommentTooLong) {
		t.Errorf("err = %v, want ErrCommentTooLong", err)
	}
}
