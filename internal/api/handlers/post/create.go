package post

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"Vistagram/internal/api/handlers"
	"Vistagram/internal/api/middleware"
	"Vistagram/internal/core/images"
	"Vistagram/internal/core/posts"
)

const (
	// multipartOverhead is allowed on top of the image limit for form fields
	// and part headers
	multipartOverhead = 1 * 1024 * 1024

	// multipartMemory is held in memory before parts spill to temp files
	multipartMemory = 8 * 1024 * 1024
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service  posts.Service
	images   images.Store
	logger   *slog.Logger
	maxBytes int64
}

// NewCreateHandler creates a new create handler.
// maxBytes is the image size limit; <= 0 selects images.DefaultMaxBytes.
func NewCreateHandler(service posts.Service, store images.Store, maxBytes int64, logger *slog.Logger) *CreateHandler {
	if maxBytes <= 0 {
		maxBytes = images.DefaultMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateHandler{
		service:  service,
		images:   store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// HandleCreate handles POST /api/posts
// Expects multipart/form-data with an "image" file and username, caption and
// optional location fields.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			handleServiceError(w, images.ErrImageTooLarge)
		case errors.Is(err, http.ErrNotMultipart):
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Request must be multipart/form-data")
		default:
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid multipart body")
		}
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Image is required")
		return
	}
	defer func() { _ = file.Close() }()

	username := middleware.GetUsername(r)
	if username == "" {
		username = strings.TrimSpace(r.FormValue("username"))
	}
	if username == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Username and caption are required")
		return
	}

	caption := strings.TrimSpace(r.FormValue("caption"))
	if err := posts.ValidateCaption(caption); err != nil {
		handleServiceError(w, err)
		return
	}

	// Text fields are checked before the image is written
	imageURL, err := h.images.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	post, err := h.service.CreatePost(r.Context(), posts.CreatePostRequest{
		Username: username,
		ImageURL: imageURL,
		Caption:  caption,
		Location: r.FormValue("location"),
	})
	if err != nil {
		if delErr := h.images.Delete(r.Context(), imageURL); delErr != nil {
			h.logger.Warn("failed to remove orphaned image",
				"image_url", imageURL,
				"error", delErr)
		}
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, post)
}
