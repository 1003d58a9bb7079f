package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/testutil"
)

type sessionEnv struct {
	sm    *scs.SessionManager
	users *store.UserStore
	mux   *http.ServeMux
}

// newSessionEnv wires an in-memory session manager in front of a mux that
// has a /login?id= helper for seeding the session user.
func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	env := &sessionEnv{sm: scs.New(), users: store.NewUserStore(db), mux: http.NewServeMux()}
	env.mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		env.sm.Put(r.Context(), auth.SessionUserIDKey, id)
	})
	return env
}

// login returns the session cookie for a session holding userID.
func (e *sessionEnv) login(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login?id="+strconv.FormatInt(userID, 10), nil)
	e.sm.LoadAndSave(e.mux).ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == e.sm.Cookie.Name {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func (e *sessionEnv) do(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.sm.LoadAndSave(e.mux).ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	env := newSessionEnv(t)
	mw := auth.NewMiddleware(env.sm, env.users)
	env.mux.Handle("/private", mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := auth.UserFromContext(r.Context())
		w.Write([]byte(u.DisplayName))
	})))

	rec := env.do("/private", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("anonymous status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/auth/login?redirect=/private" {
		t.Errorf("Location = %q", loc)
	}

	u, err := env.users.Upsert(context.Background(), "test", "ana", "ana@example.com", "Ana", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	rec = env.do("/private", env.login(t, u.ID))
	if rec.Code != http.StatusOK || rec.Body.String() != "Ana" {
		t.Errorf("authenticated: status %d body %q", rec.Code, rec.Body.String())
	}

	rec = env.do("/private", env.login(t, 999))
	if rec.Code != http.StatusFound {
		t.Errorf("deleted user status = %d, want %d", rec.Code, http.StatusFound)
	}
}

func TestOptionalUser(t *testing.T) {
	env := newSessionEnv(t)
	mw := auth.NewMiddleware(env.sm, env.users)
	env.mux.Handle("/maybe", mw.OptionalUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := auth.UserFromContext(r.Context()); u != nil {
			w.Write([]byte(u.DisplayName))
			return
		}
		w.Write([]byte("anonymous"))
	})))

	if body := env.do("/maybe", nil).Body.String(); body != "anonymous" {
		t.Errorf("anonymous body = %q", body)
	}
	u, _ := env.users.Upsert(context.Background(), "test", "bo", "bo@example.com", "Bo", "")
	if body := env.do("/maybe", env.login(t, u.ID)).Body.String(); body != "Bo" {
		t.Errorf("logged-in body = %q", body)
	}
}

func TestSessionResolver(t *testing.T) {
	env := newSessionEnv(t)
	resolver := auth.NewSessionResolver(env.sm, env.users)

	type result struct {
		id  int64
		err error
	}
	var got result
	env.mux.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		info, err := resolver.ResolveSession(r.Context())
		got = result{err: err}
		if info != nil {
			got.id = info.ID
		}
	})

	env.do("/whoami", nil)
	if !errors.Is(got.err, auth.ErrNoSession) {
		t.Errorf("anonymous err = %v, want ErrNoSession", got.err)
	}

	u, _ := env.users.Upsert(context.Background(), "test", "ana", "ana@example.com", "Ana", "")
	env.do("/whoami", env.login(t, u.ID))
	if got.err != nil || got.id != u.ID {
		t.Errorf("resolved %+v, want id %d", got, u.ID)
	}

	env.do("/whoami", env.login(t, 12345))
	if !errors.Is(got.err, store.ErrNotFound) {
		t.Errorf("stale session err = %v, want store.ErrNotFound", got.err)
	}
}
