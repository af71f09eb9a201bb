package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"NutriForum/internal/api/handlers"
	"NutriForum/internal/api/middleware"
)

// CacheResetter is the slice of the post cache the session lifecycle needs:
// cached posts carry viewer-relative liked flags, so a user switch must not
// leak one user's view to the next. Implemented by posts.Cache.
type CacheResetter interface {
	Clear()
}

// ViewResetter drops per-viewer projection state (filter, search, page).
// Implemented by the feed service.
type ViewResetter interface {
	ResetView()
}

// Handler manages sign-in and sign-out for the forum session
type Handler struct {
	auth   *middleware.SessionAuth
	cache  CacheResetter
	view   ViewResetter
	logger *slog.Logger
}

// NewHandler creates a session handler
func NewHandler(auth *middleware.SessionAuth, cache CacheResetter, view ViewResetter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{auth: auth, cache: cache, view: view, logger: logger}
}

type signInRequest struct {
	Username string `json:"username"`
}

// HandleSignIn establishes the session for a username
// POST /api/session  { "username": "alice" }
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "username is required")
		return
	}

	// Switching users invalidates every cached post and the projection
	// state: the liked flags and the active search/filter/page belong to
	// the previous viewer
	if prev := h.auth.CurrentUsername(r); prev != "" && prev != username {
		h.cache.Clear()
		h.view.ResetView()
		h.logger.Info("user switch, post cache and view reset", "from", prev, "to", username)
	}

	if err := h.auth.SetUsername(w, r, username); err != nil {
		h.logger.Error("failed to save session", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to establish session")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"username": username,
	})
}

// HandleSignOut tears the session down
// DELETE /api/session
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	h.view.ResetView()

	if err := h.auth.ClearSession(w, r); err != nil {
		h.logger.Error("failed to clear session", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to clear session")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"signedOut": true,
	})
}
