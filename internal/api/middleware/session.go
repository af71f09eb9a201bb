package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"NutriForum/internal/api/handlers"
)

// SessionName is the cookie the forum session lives in
const SessionName = "nutriforum_session"

// usernameSessionKey is where the current username sits inside the session
const usernameSessionKey = "username"

type contextKey string

// UsernameKey is the request-context key carrying the current username
const UsernameKey contextKey = "username"

// SessionAuth resolves the current username from the session cookie.
// The username partitions all liked-status state, so nothing user-facing
// runs without one.
type SessionAuth struct {
	store  sessions.Store
	logger *slog.Logger
}

// NewSessionAuth creates the session middleware over a gorilla session store
func NewSessionAuth(store sessions.Store, logger *slog.Logger) *SessionAuth {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionAuth{store: store, logger: logger}
}

// RequireUser rejects requests without an identified user and injects the
// username into the request context otherwise
func (m *SessionAuth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			// A bad cookie is treated as no session, not a server fault
			m.logger.Debug("session decode failed", "error", err)
		}

		username, _ := session.Values[usernameSessionKey].(string)
		if username == "" {
			handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Sign in required")
			return
		}

		ctx := context.WithValue(r.Context(), UsernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetUsername writes the username into the session cookie
func (m *SessionAuth) SetUsername(w http.ResponseWriter, r *http.Request, username string) error {
	session, _ := m.store.Get(r, SessionName)
	session.Values[usernameSessionKey] = username
	return session.Save(r, w)
}

// ClearSession drops the session cookie
func (m *SessionAuth) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionName)
	session.Options.MaxAge = -1
	delete(session.Values, usernameSessionKey)
	return session.Save(r, w)
}

// CurrentUsername returns the session username resolved for a request, or
// empty when anonymous
func (m *SessionAuth) CurrentUsername(r *http.Request) string {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	username, _ := session.Values[usernameSessionKey].(string)
	return username
}

// GetUsername reads the username injected by RequireUser
func GetUsername(r *http.Request) string {
	username, _ := r.Context().Value(UsernameKey).(string)
	return username
}
