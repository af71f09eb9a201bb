package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	feedhandler "NutriForum/internal/api/handlers/feed"
	"NutriForum/internal/api/middleware"
	"NutriForum/internal/core/feed"
)

// RegisterFeedRoutes registers the feed projection endpoint
func RegisterFeedRoutes(r chi.Router, service feed.Service, auth *middleware.SessionAuth, logger *slog.Logger) {
	handler := feedhandler.NewGetFeedHandler(service, logger)

	r.With(auth.RequireUser).Get("/api/feed", handler.HandleGetFeed)
}
