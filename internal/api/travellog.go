package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/metrics"
	"github.com/joestump/trail-mix/internal/store"
)

type travellogAPIHandler struct {
	entries *store.TravellogStore
}

func registerTravellogRoutes(r chi.Router, ts *store.TravellogStore) {
	h := &travellogAPIHandler{entries: ts}
	r.Get("/travellog", h.List)
	r.Post("/travellog", h.Create)
}

// List returns the caller's travel log, newest first.
// GET /api/v1/travellog
func (h *travellogAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	entries, err := h.entries.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}
	resp := make([]TravellogEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds an entry to the caller's travel log.
// POST /api/v1/travellog
func (h *travellogAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req CreateTravellogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "bad_request")
		return
	}

	e, err := h.entries.Create(r.Context(), user.ID, req.Title, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEntryTitleRequired),
			errors.Is(err, store.ErrEntryBodyRequired),
			errors.Is(err, store.ErrEntryTooLong):
			writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		default:
			writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		}
		return
	}
	metrics.TravellogEntriesTotal.Inc()
	writeJSON(w, http.StatusCreated, entryResponse(e))
}

func entryResponse(e *store.TravellogEntry) TravellogEntryResponse {
	return TravellogEntryResponse{ID: e.ID, Title: e.Title, Body: e.Body, CreatedAt: e.CreatedAt}
}
