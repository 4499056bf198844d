package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"Vistagram/internal/api/handlers"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response is the health check body
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler serves the liveness and store health check
type Handler struct {
	store   Pinger
	timeout time.Duration
}

// NewHandler creates a health handler that pings store with a short timeout
func NewHandler(store Pinger) *Handler {
	return &Handler{store: store, timeout: 2 * time.Second}
}

// HandleHealth handles GET /api/health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		handlers.WriteJSON(w, http.StatusServiceUnavailable, Response{
			Status:  "ERROR",
			Message: "Post store is unreachable",
		})
		return
	}

	handlers.WriteJSON(w, http.StatusOK, Response{
		Status:  "OK",
		Message: "Vistagram API is running!",
	})
}
