package routes

import (
	"github.com/go-chi/chi/v5"

	"Vistagram/internal/api/handlers/uploads"
)

// RegisterUploadRoutes registers the image file route.
//
// Route: GET /uploads/{name}
//
// The optional ?preset= query parameter selects a resized JPEG rendition
// (see images.PresetNames). Renditions support If-None-Match.
func RegisterUploadRoutes(r chi.Router, handler *uploads.Handler) {
	r.Get("/uploads/{name}", handler.HandleUpload)
}
