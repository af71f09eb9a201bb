package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	sessionhandler "NutriForum/internal/api/handlers/session"
	"NutriForum/internal/api/middleware"
)

// RegisterSessionRoutes registers sign-in and sign-out
func RegisterSessionRoutes(r chi.Router, auth *middleware.SessionAuth, cache sessionhandler.CacheResetter, view sessionhandler.ViewResetter, logger *slog.Logger) {
	handler := sessionhandler.NewHandler(auth, cache, view, logger)

	r.Post("/api/session", handler.HandleSignIn)
	r.Delete("/api/session", handler.HandleSignOut)
}
