package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joestump/trail-mix/internal/api"
	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/trailmap"
	"github.com/joestump/trail-mix/internal/userpage"
	"github.com/joestump/trail-mix/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	AuthHandlers   *auth.Handlers
	AuthMiddleware *auth.Middleware
	Sessions       userpage.SessionResolver
	Profiles       userpage.ProfileSource
	Registry       *userpage.Registry
	UserPage       userpage.Options
	TrailStore     *store.TrailStore
	CommentStore   *store.CommentStore
	TravellogStore *store.TravellogStore
	MapAPIKey      string
	MapCenter      trailmap.Center
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(deps.SessionManager.LoadAndSave)

	// Use fs.Sub so the file server sees css/app.css directly.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.FS(staticSub))))
	r.Handle("/metrics", promhttp.Handler())

	// Tests build the router without an OIDC provider.
	if deps.AuthHandlers != nil {
		r.Get("/auth/login", deps.AuthHandlers.Login)
		r.Get("/auth/callback", deps.AuthHandlers.Callback)
		r.Post("/auth/logout", deps.AuthHandlers.Logout)
	}

	r.Post("/theme", NewThemeHandler().Toggle)

	landing := NewLandingHandler()
	maps := NewMapHandler(deps.TrailStore, deps.MapAPIKey, deps.MapCenter)
	pages := NewUserPageHandler(
		deps.SessionManager,
		deps.Sessions,
		deps.Profiles,
		deps.CommentStore,
		deps.TravellogStore,
		deps.Registry,
		deps.UserPage,
	)

	// Public pages. The user page does its own identity check and sends
	// anyone it turns away to /404.
	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.OptionalUser)
		r.Get("/", landing.Index)
		r.Get("/map", maps.Show)
		r.Get("/map/trails/{id}", maps.InfoWindow)
		r.Get("/trail/{id}", maps.Trail)
		r.Get("/users/{id}", pages.Show)
		r.Get("/404", NotFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.Post("/users/{id}/photos/{index}/select", pages.SelectPhoto)
		r.Post("/users/{id}/photos/{index}/remove", pages.RemovePhoto)
		r.Post("/users/{id}/dismiss", pages.Dismiss)
		r.Post("/users/{id}/comments", pages.AddComment)
		r.Post("/users/{id}/travellog", pages.AddTravellogEntry)
	})

	r.Mount("/api/v1", api.NewAPIRouter(api.Deps{
		AuthMiddleware: deps.AuthMiddleware,
		Sessions:       deps.Sessions,
		Profiles:       deps.Profiles,
		UserPage:       deps.UserPage,
		TrailStore:     deps.TrailStore,
		TravellogStore: deps.TravellogStore,
	}))

	r.NotFound(deps.AuthMiddleware.OptionalUser(http.HandlerFunc(NotFound)).ServeHTTP)

	return r
}
