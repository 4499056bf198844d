package post

import (
	"errors"
	"log/slog"
	"net/http"

	"Vistagram/internal/api/handlers"
	"Vistagram/internal/core/images"
	"Vistagram/internal/core/posts"
)

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	handlers.WriteError(w, statusCode, errorType, message)
}

// handleServiceError maps service and storage errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *posts.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "InvalidRequest", validationErr.Message)

	case posts.IsNotFound(err):
		writeError(w, http.StatusNotFound, "PostNotFound", "Post not found")

	case errors.Is(err, images.ErrImageRequired):
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Image is required")

	case errors.Is(err, images.ErrImageTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "ImageTooLarge",
			"Image exceeds the 5MB upload limit")

	case errors.Is(err, images.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, "UnsupportedImageType",
			"Only image files are allowed (jpeg, jpg, png, gif)")

	case errors.Is(err, images.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "InvalidImage", "Image data is corrupt or unreadable")

	case posts.IsStoreUnavailable(err):
		slog.Error("post store unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "ServiceUnavailable",
			"The post store is temporarily unavailable")

	default:
		// Don't leak internal error details to clients
		slog.Error("unexpected error in post handler", "error", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
