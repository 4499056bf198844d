package post

import (
	"net/http"

	"Vistagram/internal/api/handlers"
	"Vistagram/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// LikeHandler toggles likes
type LikeHandler struct {
	service posts.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service posts.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleLike handles POST /api/posts/{id}/like
// Liking an already-liked post removes the like.
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	username, ok := resolveUsername(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleLike(r.Context(), chi.URLParam(r, "id"), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
