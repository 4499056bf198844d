package routes

import (
	"github.com/go-chi/chi/v5"

	"Vistagram/internal/api/handlers/health"
)

// RegisterHealthRoutes registers the health check.
// /health is kept as an alias for load balancers configured without the /api prefix.
func RegisterHealthRoutes(r chi.Router, store health.Pinger) {
	h := health.NewHandler(store)
	r.Get("/api/health", h.HandleHealth)
	r.Get("/health", h.HandleHealth)
}
