package post

import (
	"net/http"
	"strconv"

	"Vistagram/internal/api/handlers"
	"Vistagram/internal/core/posts"
)

// ListHandler serves the paginated feed
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList handles GET /api/posts?page=&limit=
// Posts are returned newest first together with pagination metadata.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "page must be an integer")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "limit must be an integer")
		return
	}

	feed, err := h.service.ListPosts(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, feed)
}

// queryInt parses an optional integer query parameter; absent means 0
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
