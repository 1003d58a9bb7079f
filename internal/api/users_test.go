package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/joestump/trail-mix/internal/api"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestUsers_Me(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "ana@example.com", "Ana")

	rec := serve(env, httptest.NewRequest(http.MethodGet, "/users/me", nil), login(t, env, u.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != u.ID || resp.DisplayName != "Ana" || resp.Email != "ana@example.com" {
		t.Errorf("me = %+v", resp)
	}
}

func TestUsers_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/users/me", "/users/1/page", "/travellog"} {
		rec := serve(env, httptest.NewRequest(http.MethodGet, path, nil), nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestUsers_Page(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := seedUser(t, env, "ana@example.com", "Ana")
	p1, _ := env.PhotoStore.Create(ctx, ana.ID, "https://img.example.com/p1.jpg")
	env.PhotoStore.Create(ctx, ana.ID, "https://img.example.com/p2.jpg")
	if _, err := env.CommentStore.Create(ctx, p1.ID, ana.ID, "Ana", "nice"); err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	tr, _ := env.TrailStore.Create(ctx, "Tammany Trace", "Rail trail", "", 30.36, -90.05)
	if err := env.TrailStore.AddFavorite(ctx, ana.ID, tr.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	rec := serve(env, httptest.NewRequest(http.MethodGet, "/users/"+itoa(ana.ID)+"/page", nil), login(t, env, ana.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.UserPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Name != "Ana" || len(resp.Photos) != 2 || len(resp.Favorites) != 1 {
		t.Fatalf("page = %+v", resp)
	}
	if resp.CurrentPhotoIndex != 0 {
		t.Errorf("current_photo_index = %d, want 0", resp.CurrentPhotoIndex)
	}
	if len(resp.Photos[0].Comments) != 1 || resp.Photos[0].Comments[0].Text != "nice" {
		t.Errorf("comments = %+v", resp.Photos[0].Comments)
	}
}

func TestUsers_PageOfSomeoneElse(t *testing.T) {
	env := newTestEnv(t)
	ana := seedUser(t, env, "ana@example.com", "Ana")
	bo := seedUser(t, env, "bo@example.com", "Bo")

	rec := serve(env, httptest.NewRequest(http.MethodGet, "/users/"+itoa(bo.ID)+"/page", nil), login(t, env, ana.ID))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var body struct{ Error, Code string }
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Code != "not_found" {
		t.Errorf("code = %q, want not_found", body.Code)
	}
}
