package caption

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"Vistagram/internal/api/handlers"
)

// maxDescriptionLength bounds the description sent to the caption backend
const maxDescriptionLength = 1000

// Generator produces a caption for an image description and never fails
type Generator interface {
	Generate(ctx context.Context, description string) string
}

// GenerateInput is the body of POST /api/captions
type GenerateInput struct {
	Description string `json:"description"`
}

// GenerateOutput is the response of POST /api/captions
type GenerateOutput struct {
	Caption string `json:"caption"`
}

// GenerateHandler serves caption suggestions
type GenerateHandler struct {
	generator Generator
}

// NewGenerateHandler creates a new caption handler
func NewGenerateHandler(generator Generator) *GenerateHandler {
	return &GenerateHandler{generator: generator}
}

// HandleGenerate handles POST /api/captions
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 16*1024)

	var input GenerateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "description is required")
		return
	}
	if len(description) > maxDescriptionLength {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "description is too long")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, GenerateOutput{
		Caption: h.generator.Generate(r.Context(), description),
	})
}
