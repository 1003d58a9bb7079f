package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/trail-mix/internal/api"
	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/testutil"
	"github.com/joestump/trail-mix/internal/userpage"
)

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Handler        http.Handler
	Sessions       *scs.SessionManager
	UserStore      *store.UserStore
	TrailStore     *store.TrailStore
	PhotoStore     *store.PhotoStore
	CommentStore   *store.CommentStore
	TravellogStore *store.TravellogStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the API router behind an in-memory session manager. The
// extra /login?id= route seeds the session user.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	us := store.NewUserStore(db)
	ts := store.NewTrailStore(db)
	ps := store.NewPhotoStore(db)
	cs := store.NewCommentStore(db)
	tl := store.NewTravellogStore(db)
	sm := scs.New()

	router := api.NewAPIRouter(api.Deps{
		AuthMiddleware: auth.NewMiddleware(sm, us),
		Sessions:       auth.NewSessionResolver(sm, us),
		Profiles:       store.NewProfileStore(us, ps, cs, ts),
		UserPage:       userpage.Options{},
		TrailStore:     ts,
		TravellogStore: tl,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		sm.Put(r.Context(), auth.SessionUserIDKey, id)
	})
	mux.Handle("/", router)

	return &testEnv{
		Handler:        sm.LoadAndSave(mux),
		Sessions:       sm,
		UserStore:      us,
		TrailStore:     ts,
		PhotoStore:     ps,
		CommentStore:   cs,
		TravellogStore: tl,
	}
}

// seedUser creates a user and returns the user record.
func seedUser(t *testing.T, env *testEnv, email, name string) *store.User {
	t.Helper()
	u, err := env.UserStore.Upsert(context.Background(), "test", "sub-"+email, email, name, "https://img.example.com/"+name+".jpg")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// login returns a session cookie for userID.
func login(t *testing.T, env *testEnv, userID int64) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	env.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?id="+strconv.FormatInt(userID, 10), nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == env.Sessions.Cookie.Name {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

// serve runs req through the env, attaching cookie when non-nil.
func serve(env *testEnv, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.Handler.ServeHTTP(rec, req)
	return rec
}
