package post

import (
	"net/http"

	"Vistagram/internal/api/handlers"
	"Vistagram/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// LikersHandler lists the users who like a post
type LikersHandler struct {
	service posts.Service
}

// NewLikersHandler creates a new likers handler
func NewLikersHandler(service posts.Service) *LikersHandler {
	return &LikersHandler{service: service}
}

// HandleLikers handles GET /api/posts/{id}/likes
func (h *LikersHandler) HandleLikers(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetLikers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
