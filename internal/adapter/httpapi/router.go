package httpapi

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/artmarket/artwork-service/internal/adapter/httpapi/middleware"
)

// SetupRoutes mounts the listing API. The gallery read is public; submission
// and the owner view require a valid bearer token.
func SetupRoutes(mux *chi.Mux, h *Handler, jwtSecret string, logger *zap.Logger) {
	mux.Use(middleware.RequestLogger(logger))

	mux.Get("/api/listings", h.HandleListListings)

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, logger))

		r.Post("/api/listings", h.HandleCreateListing)
		r.Get("/api/my/listings", h.HandleMyListings)
	})
}
