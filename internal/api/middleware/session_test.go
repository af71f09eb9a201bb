package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAuth_RequireUser(t *testing.T) {
	auth := NewSessionAuth(sessions.NewCookieStore([]byte("test-secret")), nil)

	var seenUsername string
	protected := auth.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUsername = GetUsername(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	// Anonymous request: rejected
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Establish a session, then replay its cookie
	signIn := httptest.NewRecorder()
	require.NoError(t, auth.SetUsername(signIn, httptest.NewRequest(http.MethodPost, "/api/session", nil), "alice"))
	cookies := signIn.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "alice", seenUsername)
}

func TestSessionAuth_GarbageCookieIsAnonymous(t *testing.T) {
	auth := NewSessionAuth(sessions.NewCookieStore([]byte("test-secret")), nil)

	protected := auth.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	req.AddCookie(&http.Cookie{Name: SessionName, Value: "not-a-session"})

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
