package handler

import (
	"net/http"
	"strconv"

	"github.com/joestump/trail-mix/internal/auth"
)

// LandingHandler serves the public landing page.
type LandingHandler struct{}

// NewLandingHandler creates a new LandingHandler.
func NewLandingHandler() *LandingHandler { return &LandingHandler{} }

// Index serves GET /. Logged-in visitors go straight to their own page.
func (h *LandingHandler) Index(w http.ResponseWriter, r *http.Request) {
	if user := auth.UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, "/users/"+strconv.FormatInt(user.ID, 10), http.StatusFound)
		return
	}
	render(w, "landing.html", newBasePage(r, nil))
}

type notFoundPage struct {
	BasePage
	Path string
}

// NotFound renders the 404 page. It backs both GET /404, where the user
// page sends visitors it turns away, and the router's catch-all.
func NotFound(w http.ResponseWriter, r *http.Request) {
	data := notFoundPage{BasePage: newBasePage(r, auth.UserFromContext(r.Context())), Path: r.URL.Path}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if isHTMX(r) {
		renderPageFragment(w, "404.html", "content", data)
		return
	}
	render(w, "404.html", data)
}
