// Package uploads serves stored post images and their resized renditions.
package uploads

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"Vistagram/internal/core/images"
)

// defaultCacheEntries bounds the number of rendered images kept in memory
const defaultCacheEntries = 128

// Handler serves files from the upload directory.
// GET /uploads/{name} returns the original file; ?preset=<name> returns a
// JPEG rendition produced by images.Render.
type Handler struct {
	cache *lru.Cache[string, []byte]
	dir   string
}

// NewHandler creates a handler serving dir. cacheEntries <= 0 selects a default.
func NewHandler(dir string, cacheEntries int) (*Handler, error) {
	if cacheEntries <= 0 {
		cacheEntries = defaultCacheEntries
	}
	cache, err := lru.New[string, []byte](cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create rendition cache: %w", err)
	}
	return &Handler{dir: dir, cache: cache}, nil
}

// HandleUpload handles GET /uploads/{name}
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validName(name) {
		writeErrorResponse(w, http.StatusNotFound, "not found")
		return
	}
	filePath := filepath.Join(h.dir, name)

	presetName := r.URL.Query().Get("preset")
	if presetName == "" {
		if _, err := os.Stat(filePath); err != nil {
			writeErrorResponse(w, http.StatusNotFound, "not found")
			return
		}
		// Stored names are unique per upload, so files never change
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		http.ServeFile(w, r, filePath)
		return
	}

	preset, err := images.GetPreset(presetName)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid preset: "+presetName)
		return
	}

	etag := fmt.Sprintf(`"%s-%s"`, preset.Name, name)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	key := preset.Name + "/" + name
	data, ok := h.cache.Get(key)
	if !ok {
		original, err := os.ReadFile(filePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				writeErrorResponse(w, http.StatusNotFound, "not found")
				return
			}
			slog.Error("[UPLOADS] failed to read image", "name", name, "error", err)
			writeErrorResponse(w, http.StatusInternalServerError, "internal server error")
			return
		}

		data, err = images.Render(original, preset)
		if err != nil {
			slog.Error("[UPLOADS] failed to render image",
				"name", name,
				"preset", preset.Name,
				"error", err)
			writeErrorResponse(w, http.StatusInternalServerError, "image processing failed")
			return
		}
		h.cache.Add(key, data)
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("[UPLOADS] failed to write image response",
			"name", name,
			"preset", preset.Name,
			"error", err)
	}
}

// validName accepts only bare file names produced by the image store
func validName(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".") && path.Base(name) == name && !strings.Contains(name, `\`)
}

// writeErrorResponse writes a plain text error response.
// Clients of this route expect binary image data, not JSON.
func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		slog.Warn("[UPLOADS] failed to write error response",
			"status", status,
			"error", err)
	}
}
