package routes

import (
	"github.com/go-chi/chi/v5"

	"Vistagram/internal/api/handlers/caption"
)

// RegisterCaptionRoutes registers POST /api/captions
func RegisterCaptionRoutes(r chi.Router, generator caption.Generator) {
	r.Post("/api/captions", caption.NewGenerateHandler(generator).HandleGenerate)
}
