package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/logging"
	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/trailmap"
)

// MapPage is the template data for the trail map.
type MapPage struct {
	BasePage
	View   *trailmap.View
	Trails []*store.Trail
	Trail  *store.Trail // the trail whose info window is open, if any
	APIKey string
}

// TrailPage is the template data for a single trail.
type TrailPage struct {
	BasePage
	Trail *store.Trail
}

// MapHandler serves the map page, its info windows and trail pages.
type MapHandler struct {
	trails *store.TrailStore
	apiKey string
	center trailmap.Center
	log    *logrus.Entry
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(ts *store.TrailStore, apiKey string, center trailmap.Center) *MapHandler {
	return &MapHandler{trails: ts, apiKey: apiKey, center: center, log: logging.For("handler.map")}
}

// Show handles GET /map. A ?trail={id} query opens that trail's info window.
func (h *MapHandler) Show(w http.ResponseWriter, r *http.Request) {
	view, trails, err := h.view(r)
	if err != nil {
		h.log.WithError(err).Error("build map view")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data := MapPage{
		BasePage: newBasePage(r, auth.UserFromContext(r.Context())),
		View:     view,
		Trails:   trails,
		APIKey:   h.apiKey,
	}

	if raw := r.URL.Query().Get("trail"); raw != "" {
		trail, ok := h.selectTrail(w, r, view, raw)
		if !ok {
			return
		}
		data.Trail = trail
	}
	render(w, "map.html", data)
}

// InfoWindow handles GET /map/trails/{id} and returns the info window
// fragment for one marker.
func (h *MapHandler) InfoWindow(w http.ResponseWriter, r *http.Request) {
	view, _, err := h.view(r)
	if err != nil {
		h.log.WithError(err).Error("build map view")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	trail, ok := h.selectTrail(w, r, view, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	renderFragment(w, "info_window", trail)
}

// Trail handles GET /trail/{id}.
func (h *MapHandler) Trail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		NotFound(w, r)
		return
	}
	trail, err := h.trails.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(w, r)
			return
		}
		h.log.WithError(err).Error("get trail")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, "trail.html", TrailPage{
		BasePage: newBasePage(r, auth.UserFromContext(r.Context())),
		Trail:    trail,
	})
}

func (h *MapHandler) view(r *http.Request) (*trailmap.View, []*store.Trail, error) {
	trails, err := h.trails.ListAll(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return trailmap.NewView(trailmap.Markers(trails), h.center), trails, nil
}

// selectTrail opens the info window for raw on view and loads the trail.
// It writes a 404 and returns false when raw names no marker.
func (h *MapHandler) selectTrail(w http.ResponseWriter, r *http.Request, view *trailmap.View, raw string) (*store.Trail, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		NotFound(w, r)
		return nil, false
	}
	if _, err := view.Select(id); err != nil {
		NotFound(w, r)
		return nil, false
	}
	trail, err := h.trails.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(w, r)
			return nil, false
		}
		h.log.WithError(err).Error("get trail")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return trail, true
}
