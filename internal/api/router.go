package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/userpage"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	AuthMiddleware *auth.Middleware
	Sessions       userpage.SessionResolver
	Profiles       userpage.ProfileSource
	UserPage       userpage.Options
	TrailStore     *store.TrailStore
	TravellogStore *store.TravellogStore
}

// NewAPIRouter creates a chi sub-router for /api/v1. It relies on the
// session being loaded by the parent router; trail routes are public and
// everything else needs a logged-in user.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonContentType)
	r.Use(deps.AuthMiddleware.OptionalUser)

	registerTrailRoutes(r, deps.TrailStore)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		registerUserRoutes(r, deps.Sessions, deps.Profiles, deps.UserPage)
		registerTravellogRoutes(r, deps.TravellogStore)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", "not_found")
	})
	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requireUser rejects requests without a session user with a JSON 401
// instead of the login redirect the HTML pages use.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
