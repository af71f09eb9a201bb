package feed

import (
	"log/slog"
	"net/http"
	"strconv"

	"NutriForum/internal/api/handlers"
	"NutriForum/internal/api/middleware"
	corefeed "NutriForum/internal/core/feed"
	"NutriForum/internal/upstream/forum"
)

// GetFeedHandler serves the projected forum feed
type GetFeedHandler struct {
	service corefeed.Service
	logger  *slog.Logger
}

// NewGetFeedHandler creates a new feed handler
func NewGetFeedHandler(service corefeed.Service, logger *slog.Logger) *GetFeedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetFeedHandler{service: service, logger: logger}
}

// HandleGetFeed returns one page of the forum feed
// GET /api/feed?page=2&tag=2&subtag=21&q=smoothie&refresh=1
func (h *GetFeedHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r)

	req, err := parseFeedRequest(r)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	ctx := forum.WithUser(r.Context(), username)
	resp, err := h.service.GetFeed(ctx, username, *req)
	if err != nil {
		if corefeed.IsValidationError(err) {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
			return
		}
		h.logger.Error("feed request failed", "user", username, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to load feed")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

func parseFeedRequest(r *http.Request) (*corefeed.FeedRequest, error) {
	q := r.URL.Query()
	req := &corefeed.FeedRequest{
		Query:   q.Get("q"),
		Refresh: q.Get("refresh") == "1" || q.Get("refresh") == "true",
	}

	var err error
	if req.Page, err = intParam(q.Get("page"), 0); err != nil {
		return nil, corefeed.NewValidationError("page", "must be an integer")
	}

	var tag, subtag int
	if tag, err = intParam(q.Get("tag"), 0); err != nil {
		return nil, corefeed.NewValidationError("tag", "must be an integer")
	}
	if subtag, err = intParam(q.Get("subtag"), 0); err != nil {
		return nil, corefeed.NewValidationError("subtag", "must be an integer")
	}
	req.TagID = int64(tag)
	req.SubTagID = int64(subtag)

	return req, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
