package post

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"Vistagram/internal/api/middleware"
)

// maxInteractionBody bounds the JSON body of like and share requests
const maxInteractionBody = 16 * 1024

// InteractionInput is the body of like and share requests
type InteractionInput struct {
	Username string `json:"username"`
}

// resolveUsername returns the verified token username when present,
// otherwise the username from the JSON body.
// A missing body is allowed when the request carries a verified token.
func resolveUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	if username := middleware.GetUsername(r); username != "" {
		return username, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxInteractionBody)

	var input InteractionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return "", false
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Username is required")
		return "", false
	}
	return username, true
}
