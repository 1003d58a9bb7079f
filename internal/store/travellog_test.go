package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/testutil"
)

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		want  error
	}{
		{"valid", "Day one", "Walked the trace", nil},
		{"trimmed valid", "  Day one ", " ok ", nil},
		{"missing title", "  ", "text", store.ErrEntryTitleRequired},
		{"missing body", "Day one", "", store.ErrEntryBodyRequired},
		{"long title", strings.Repeat("t", 201), "text", store.ErrEntryTooLong},
		{"long body", "Day", strings.Repeat("b", 10001), store.ErrEntryTooLong},
		{"multi-byte title at limit", strings.Repeat("é", 200), "text", nil},
		{"multi-byte title over limit", strings.Repeat("é", 201), "text", store.ErrEntryTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := store.ValidateEntry(tt.title, tt.body)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateEntry(%q, %q) = %v, want %v", tt.title, tt.body, err, tt.want)
			}
		})
	}
}

func TestTravellogStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	tl := store.NewTravellogStore(db)
	ctx := context.Background()

	ana, _ := us.Upsert(ctx, "test", "ana", "ana@example.com", "Ana", "")

	first, err := tl.Create(ctx, ana.ID, " Day one ", "Walked the trace")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Title != "Day one" {
		t.Errorf("title = %q, want trimmed", first.Title)
	}
	second, err := tl.Create(ctx, ana.ID, "Day two", "Rain")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := tl.Create(ctx, ana.ID, "", "x"); !errors.Is(err, store.ErrEntryTitleRequired) {
		t.Errorf("err = %v, want ErrEntryTitleRequired", err)
	}

	entries, err := tl.ListByUser(ctx, ana.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].ID != second.ID {
		t.Errorf("newest entry should come first, got id %d", entries[0].ID)
	}
}
