package auth

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/joestump/trail-mix/internal/logging"
	"github.com/joestump/trail-mix/internal/store"
)

const (
	cookieState        = "__auth_state"
	cookieCodeVerifier = "__auth_pkce"
	cookieRedirect     = "__auth_redirect"
)

// Handlers provides HTTP handlers for the OIDC authentication flow.
type Handlers struct {
	provider *Provider
	sessions *scs.SessionManager
	users    *store.UserStore
	secure   bool
	log      *logrus.Entry
}

// NewHandlers creates a new Handlers with the given dependencies. secure
// marks the short-lived pre-auth cookies Secure.
func NewHandlers(p *Provider, sm *scs.SessionManager, us *store.UserStore, secure bool) *Handlers {
	return &Handlers{
		provider: p,
		sessions: sm,
		users:    us,
		secure:   secure,
		log:      logging.For("auth"),
	}
}

// Login initiates the OIDC authorization code flow with PKCE.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := GenerateState()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	verifier := oauth2.GenerateVerifier()

	// Store state and verifier in short-lived cookies
	setPreAuthCookie(w, cookieState, state, h.secure)
	setPreAuthCookie(w, cookieCodeVerifier, verifier, h.secure)

	// Preserve the redirect URL; only local paths are honoured.
	if redirect := r.URL.Query().Get("redirect"); isLocalPath(redirect) {
		setPreAuthCookie(w, cookieRedirect, redirect, h.secure)
	}

	http.Redirect(w, r, h.provider.AuthCodeURL(state, verifier), http.StatusFound)
}

// Callback handles the OIDC provider redirect after authentication.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	// Validate state
	stateCookie, err := r.Cookie(cookieState)
	if err != nil || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	// Get PKCE verifier
	verifierCookie, err := r.Cookie(cookieCodeVerifier)
	if err != nil {
		http.Error(w, "missing code verifier", http.StatusBadRequest)
		return
	}

	id, err := h.provider.Exchange(r.Context(), r.URL.Query().Get("code"), verifierCookie.Value)
	if err != nil {
		h.log.WithError(err).Warn("token exchange failed")
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	user, err := h.users.Upsert(r.Context(), id.Issuer, id.Subject, id.Email, id.Name, id.Picture)
	if err != nil {
		h.log.WithError(err).WithField("subject", id.Subject).Error("user upsert failed")
		http.Error(w, "user record error", http.StatusInternalServerError)
		return
	}

	// Create session
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	h.sessions.Put(r.Context(), SessionUserIDKey, user.ID)

	// Clear pre-auth cookies
	clearCookie(w, cookieState)
	clearCookie(w, cookieCodeVerifier)

	// Redirect to the page that sent the visitor here, or their own page.
	redirect := "/users/" + strconv.FormatInt(user.ID, 10)
	if c, err := r.Cookie(cookieRedirect); err == nil && isLocalPath(c.Value) {
		redirect = c.Value
	}
	clearCookie(w, cookieRedirect)

	http.Redirect(w, r, redirect, http.StatusFound)
}

// Logout destroys the session and redirects to the login page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		http.Error(w, "logout error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// isLocalPath accepts "/x" but rejects "//host" and absolute URLs.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

func setPreAuthCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   300, // 5 minutes
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}
