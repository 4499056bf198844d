package post

import (
	"net/http"

	"Vistagram/internal/api/handlers"
	"Vistagram/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// ShareHandler records shares
type ShareHandler struct {
	service posts.Service
}

// NewShareHandler creates a new share handler
func NewShareHandler(service posts.Service) *ShareHandler {
	return &ShareHandler{service: service}
}

// HandleShare handles POST /api/posts/{id}/share
// Repeated shares by the same user are counted once.
func (h *ShareHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	username, ok := resolveUsername(w, r)
	if !ok {
		return
	}

	result, err := h.service.AddShare(r.Context(), chi.URLParam(r, "id"), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
