package like

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"NutriForum/internal/api/handlers"
	"NutriForum/internal/api/middleware"
	"NutriForum/internal/core/likes"
	"NutriForum/internal/core/posts"
	"NutriForum/internal/upstream/forum"
)

// ToggleLikeHandler flips the current user's like on a post
type ToggleLikeHandler struct {
	service likes.Service
	logger  *slog.Logger
}

// NewToggleLikeHandler creates a new toggle handler
func NewToggleLikeHandler(service likes.Service, logger *slog.Logger) *ToggleLikeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToggleLikeHandler{service: service, logger: logger}
}

// toggleRequest optionally carries the post snapshot the UI rendered from,
// used as the fallback when the post has aged out of the cache
type toggleRequest struct {
	Snapshot *posts.Post `json:"snapshot,omitempty"`
}

// HandleToggleLike toggles a like and reports the resulting state
// POST /api/posts/{postID}/like
//
// A rolled-back toggle is still a 200: the body's synced=false tells the UI
// to show its non-blocking notice.
func (h *ToggleLikeHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r)

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil || postID <= 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "postID must be a positive integer")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	ctx := forum.WithUser(r.Context(), username)
	outcome, err := h.service.Toggle(ctx, username, postID, req.Snapshot)
	if err != nil {
		switch {
		case errors.Is(err, likes.ErrPostUnknown):
			handlers.WriteError(w, http.StatusNotFound, "PostUnknown", "Post not found in cache and no snapshot supplied")
		case errors.Is(err, likes.ErrUsernameRequired):
			handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Sign in required")
		default:
			h.logger.Error("like toggle failed", "user", username, "post_id", postID, "error", err)
			handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to toggle like")
		}
		return
	}

	handlers.WriteJSON(w, http.StatusOK, outcome)
}
