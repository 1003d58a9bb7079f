package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/trailmap"
)

type trailsAPIHandler struct {
	trails *store.TrailStore
}

func registerTrailRoutes(r chi.Router, ts *store.TrailStore) {
	h := &trailsAPIHandler{trails: ts}
	r.Get("/trails/markers", h.Markers)
	r.Get("/trails/{id}", h.Get)
}

// Markers returns every trail as a map marker.
// GET /api/v1/trails/markers
func (h *trailsAPIHandler) Markers(w http.ResponseWriter, r *http.Request) {
	trails, err := h.trails.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}
	view := trailmap.NewView(trailmap.Markers(trails), trailmap.Center{})
	writeJSON(w, http.StatusOK, MarkerListResponse{
		Center:  view.Center,
		Zoom:    view.Zoom,
		Markers: view.Markers,
	})
}

// Get returns a single trail.
// GET /api/v1/trails/{id}
func (h *trailsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid trail id", "bad_request")
		return
	}
	t, err := h.trails.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "trail not found", "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, trailResponse(t))
}
