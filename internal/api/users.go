package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/userpage"
)

// usersAPIHandler provides REST handlers for user endpoints.
type usersAPIHandler struct {
	sessions userpage.SessionResolver
	profiles userpage.ProfileSource
	opts     userpage.Options
}

// registerUserRoutes registers user routes on r.
func registerUserRoutes(r chi.Router, sessions userpage.SessionResolver, profiles userpage.ProfileSource, opts userpage.Options) {
	h := &usersAPIHandler{sessions: sessions, profiles: profiles, opts: opts}
	r.Get("/users/me", h.Me)
	r.Get("/users/{id}/page", h.Page)
}

// Me returns the authenticated caller's profile.
// GET /api/v1/users/me
func (h *usersAPIHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, &UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		DisplayName:     user.DisplayName,
		ProfilePhotoURL: user.ProfilePhotoURL,
		CreatedAt:       user.CreatedAt,
	})
}

// Page activates the caller's user page once and returns the loaded data.
// Any activation failure is reported as 404, the same way the HTML page
// redirects to /404.
// GET /api/v1/users/{id}/page
func (h *usersAPIHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctl := userpage.NewController(h.sessions, h.profiles, h.opts)
	defer ctl.Deactivate()

	state, err := ctl.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		return
	}
	if state.RedirectRequested {
		writeError(w, http.StatusNotFound, "user page not found", "not_found")
		return
	}

	photos := state.Photos
	if photos == nil {
		photos = []userpage.Photo{}
	}
	favorites := state.Favorites
	if favorites == nil {
		favorites = []userpage.Trail{}
	}
	writeJSON(w, http.StatusOK, UserPageResponse{
		ID:                state.ProfileID,
		Name:              state.Name,
		ProfilePhotoURL:   state.ProfilePhotoURL,
		Photos:            photos,
		Favorites:         favorites,
		CurrentPhotoIndex: state.CurrentPhotoIndex,
	})
}
