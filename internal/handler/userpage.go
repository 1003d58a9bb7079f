package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/logging"
	"github.com/joestump/trail-mix/internal/metrics"
	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/userpage"
)

// UserPage is the template data for the user page.
type UserPage struct {
	BasePage
	State   userpage.ViewState
	Entries []*store.TravellogEntry
	Flash   *Flash
}

// Current returns the selected photo, or nil when nothing is selected.
func (p UserPage) Current() *userpage.Photo {
	if !p.State.Selected {
		return nil
	}
	photo, ok := p.State.CurrentPhoto()
	if !ok {
		return nil
	}
	return &photo
}

// UserPageHandler serves the user page and the carousel mutations. Each
// GET activates a fresh controller, which later POSTs find in the registry
// under the visitor's session token.
type UserPageHandler struct {
	sessions  *scs.SessionManager
	resolver  userpage.SessionResolver
	profiles  userpage.ProfileSource
	comments  *store.CommentStore
	travellog *store.TravellogStore
	registry  *userpage.Registry
	opts      userpage.Options
	log       *logrus.Entry
}

// NewUserPageHandler creates a new UserPageHandler.
func NewUserPageHandler(
	sm *scs.SessionManager,
	resolver userpage.SessionResolver,
	profiles userpage.ProfileSource,
	cs *store.CommentStore,
	ts *store.TravellogStore,
	registry *userpage.Registry,
	opts userpage.Options,
) *UserPageHandler {
	log := logging.For("handler.userpage")
	if opts.Logger == nil {
		opts.Logger = logging.For("userpage")
	}
	return &UserPageHandler{
		sessions:  sm,
		resolver:  resolver,
		profiles:  profiles,
		comments:  cs,
		travellog: ts,
		registry:  registry,
		opts:      opts,
		log:       log,
	}
}

// Show handles GET /users/{id}.
func (h *UserPageHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctl := userpage.NewController(h.resolver, h.profiles, h.opts)
	state, err := ctl.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.log.WithError(err).Error("activate user page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if state.RedirectRequested {
		ctl.Deactivate()
		http.Redirect(w, r, "/404", http.StatusFound)
		return
	}

	key := userpage.Key(h.sessions.Token(r.Context()), strconv.FormatInt(state.ProfileID, 10))
	if err := h.registry.Put(key, ctl); err != nil {
		ctl.Deactivate()
		h.log.WithError(err).Error("register user page controller")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	entries, err := h.travellog.ListByUser(r.Context(), state.ProfileID)
	if err != nil {
		h.log.WithError(err).Error("list travel log")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := UserPage{
		BasePage: newBasePage(r, auth.UserFromContext(r.Context())),
		State:    state,
		Entries:  entries,
	}
	if isHTMX(r) {
		renderPageFragment(w, "user.html", "content", data)
		return
	}
	render(w, "user.html", data)
}

// SelectPhoto handles POST /users/{id}/photos/{index}/select.
func (h *UserPageHandler) SelectPhoto(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.controller(w, r)
	if !ok {
		return
	}
	index, ok := photoIndex(w, r)
	if !ok {
		return
	}
	state, err := ctl.SelectPhoto(index)
	h.respond(w, r, state, err)
}

// RemovePhoto handles POST /users/{id}/photos/{index}/remove. The photo
// only leaves this page view; it stays in the database.
func (h *UserPageHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.controller(w, r)
	if !ok {
		return
	}
	index, ok := photoIndex(w, r)
	if !ok {
		return
	}
	state, err := ctl.RemovePhoto(index)
	h.respond(w, r, state, err)
}

// Dismiss handles POST /users/{id}/dismiss, sent by the Escape key.
func (h *UserPageHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.controller(w, r)
	if !ok {
		return
	}
	state, err := ctl.DismissSelection()
	h.respond(w, r, state, err)
}

// AddComment handles POST /users/{id}/comments. The comment is stored
// against the selected photo first and only then added to the view.
func (h *UserPageHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.controller(w, r)
	if !ok {
		return
	}
	user := auth.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	photo, err := ctl.CurrentPhoto()
	if err != nil {
		h.respond(w, r, ctl.State(), err)
		return
	}
	c, err := h.comments.Create(r.Context(), photo.ID, user.ID, user.DisplayName, r.FormValue("text"))
	if err != nil {
		if errors.Is(err, store.ErrCommentEmpty) || errors.Is(err, store.ErrCommentTooLong) {
			h.respondFlash(w, r, ctl.State(), &Flash{Type: "error", Message: capitalize(err.Error()) + "."}, http.StatusUnprocessableEntity)
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "photo not found", http.StatusNotFound)
			return
		}
		h.log.WithError(err).Error("create comment")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	state, err := ctl.AppendComment(photo.ID, userpage.Comment{Author: c.Author, Text: c.Body})
	if errors.Is(err, userpage.ErrSelectionMoved) {
		h.log.WithField("photo_id", photo.ID).Info("selection moved while saving comment")
		h.respondFlash(w, r, state, &Flash{Type: "error", Message: "Comment saved on the previously selected photo."}, http.StatusConflict)
		return
	}
	if err == nil {
		metrics.CommentsAppendedTotal.Inc()
	}
	h.respond(w, r, state, err)
}

// AddTravellogEntry handles POST /users/{id}/travellog.
func (h *UserPageHandler) AddTravellogEntry(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || user == nil || user.ID != id {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var flash *Flash
	status := http.StatusOK
	if _, err := h.travellog.Create(r.Context(), user.ID, r.FormValue("title"), r.FormValue("body")); err != nil {
		switch {
		case errors.Is(err, store.ErrEntryTitleRequired),
			errors.Is(err, store.ErrEntryBodyRequired),
			errors.Is(err, store.ErrEntryTooLong):
			flash = &Flash{Type: "error", Message: capitalize(err.Error()) + "."}
			status = http.StatusUnprocessableEntity
		default:
			h.log.WithError(err).Error("create travel log entry")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	} else {
		metrics.TravellogEntriesTotal.Inc()
		flash = &Flash{Type: "success", Message: "Entry saved."}
	}

	if !isHTMX(r) {
		http.Redirect(w, r, "/users/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
		return
	}
	entries, err := h.travellog.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.log.WithError(err).Error("list travel log")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	renderFragment(w, "travellog", UserPage{
		State:   userpage.ViewState{ProfileID: user.ID},
		Entries: entries,
		Flash:   flash,
	})
}

// controller finds the live controller for this visitor and profile. When
// there is none the visitor is sent back to GET /users/{id}, which
// activates a new one.
func (h *UserPageHandler) controller(w http.ResponseWriter, r *http.Request) (*userpage.Controller, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		NotFound(w, r)
		return nil, false
	}
	profile := "/users/" + strconv.FormatInt(id, 10)
	ctl, err := h.registry.Get(userpage.Key(h.sessions.Token(r.Context()), strconv.FormatInt(id, 10)))
	if err != nil {
		reactivate(w, r, profile)
		return nil, false
	}
	return ctl, true
}

func reactivate(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// respond renders the gallery after a mutation, or maps err to a status.
func (h *UserPageHandler) respond(w http.ResponseWriter, r *http.Request, state userpage.ViewState, err error) {
	switch {
	case err == nil:
		h.respondFlash(w, r, state, nil, http.StatusOK)
	case errors.Is(err, userpage.ErrOutOfRange):
		http.Error(w, "photo index out of range", http.StatusBadRequest)
	case errors.Is(err, userpage.ErrInvalidState):
		http.Error(w, "no photo selected", http.StatusConflict)
	case errors.Is(err, userpage.ErrDeactivated):
		reactivate(w, r, "/users/"+chi.URLParam(r, "id"))
	default:
		h.log.WithError(err).Error("user page transition")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *UserPageHandler) respondFlash(w http.ResponseWriter, r *http.Request, state userpage.ViewState, flash *Flash, status int) {
	data := UserPage{
		BasePage: newBasePage(r, auth.UserFromContext(r.Context())),
		State:    state,
		Flash:    flash,
	}
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		renderFragment(w, "gallery", data)
		return
	}
	entries, err := h.travellog.ListByUser(r.Context(), state.ProfileID)
	if err != nil {
		h.log.WithError(err).Error("list travel log")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data.Entries = entries
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	render(w, "user.html", data)
}

func photoIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid photo index", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
