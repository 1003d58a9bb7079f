package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/userpage"
)

type contextKey string

const UserContextKey contextKey = "user"

// ErrNoSession is returned when the request carries no logged-in user.
var ErrNoSession = errors.New("no authenticated session")

// Middleware provides HTTP middleware for authentication and authorization.
type Middleware struct {
	sessions *scs.SessionManager
	users    *store.UserStore
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(sm *scs.SessionManager, us *store.UserStore) *Middleware {
	return &Middleware{sessions: sm, users: us}
}

// RequireAuth redirects to /auth/login if no valid session exists.
// On success, sets the *store.User on the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessions.GetInt64(r.Context(), SessionUserIDKey)
		if userID == 0 {
			http.Redirect(w, r, "/auth/login?redirect="+r.URL.RequestURI(), http.StatusFound)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			// Session references a deleted user; destroy it and start over.
			_ = m.sessions.Destroy(r.Context())
			http.Redirect(w, r, "/auth/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalUser sets the *store.User on the context when a session exists
// and passes anonymous requests through untouched.
func (m *Middleware) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessions.GetInt64(r.Context(), SessionUserIDKey)
		if userID != 0 {
			if user, err := m.users.GetByID(r.Context(), userID); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

// SessionResolver answers "who is visiting" for the user page from the SCS
// session loaded on the request context.
type SessionResolver struct {
	sessions *scs.SessionManager
	users    *store.UserStore
}

// NewSessionResolver creates a SessionResolver.
func NewSessionResolver(sm *scs.SessionManager, us *store.UserStore) *SessionResolver {
	return &SessionResolver{sessions: sm, users: us}
}

// ResolveSession implements userpage.SessionResolver. The session user must
// still exist.
func (r *SessionResolver) ResolveSession(ctx context.Context) (*userpage.SessionInfo, error) {
	userID := r.sessions.GetInt64(ctx, SessionUserIDKey)
	if userID == 0 {
		return nil, ErrNoSession
	}
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &userpage.SessionInfo{ID: u.ID}, nil
}
