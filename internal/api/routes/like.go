package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	likehandler "NutriForum/internal/api/handlers/like"
	"NutriForum/internal/api/middleware"
	"NutriForum/internal/core/likes"
)

// RegisterLikeRoutes registers the like-toggle endpoint
func RegisterLikeRoutes(r chi.Router, service likes.Service, auth *middleware.SessionAuth, logger *slog.Logger) {
	handler := likehandler.NewToggleLikeHandler(service, logger)

	r.With(auth.RequireUser).Post("/api/posts/{postID}/like", handler.HandleToggleLike)
}
