// Package images accepts uploaded post images and stores them on local disk.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// DefaultMaxBytes is the upload limit (5MB)
	DefaultMaxBytes = 5 * 1024 * 1024

	// URLPrefix is the public path under which stored images are served
	URLPrefix = "/uploads/"
)

// allowedExtensions maps accepted file extensions to the decoded format they must contain
var allowedExtensions = map[string]string{
	".jpeg": "jpeg",
	".jpg":  "jpeg",
	".png":  "png",
	".gif":  "gif",
}

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// Store persists an uploaded image and returns a stable reference path
type Store interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// DiskStore writes images into a single directory
type DiskStore struct {
	logger   *slog.Logger
	now      func() time.Time
	dir      string
	maxBytes int64
}

// NewDiskStore creates the upload directory if needed and returns a store
// writing into it. maxBytes <= 0 selects DefaultMaxBytes.
func NewDiskStore(dir string, maxBytes int64, logger *slog.Logger) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Dir returns the directory images are written to
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save validates the upload and writes it to disk.
// The returned reference has the form /uploads/image-<unixmillis>-<uuid>.<ext>.
func (s *DiskStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if r == nil {
		return "", ErrImageRequired
	}

	ext, wantFormat, err := validateDeclaredType(filename, contentType)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrImageRequired
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, s.maxBytes)
	}

	if err := validateContent(data, wantFormat); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("image-%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	s.logger.Info("image stored",
		"name", name,
		"bytes", len(data),
		"original_filename", filename)

	return URLPrefix + name, nil
}

// Delete removes a previously saved image by its reference.
// Unknown references are ignored.
func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	name := strings.TrimPrefix(ref, URLPrefix)
	if name == "" || name == ref || path.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// validateDeclaredType checks the client-supplied filename and MIME type.
// Both must name an accepted image type.
func validateDeclaredType(filename, contentType string) (ext, format string, err error) {
	ext = strings.ToLower(path.Ext(filepath.Base(filename)))
	format, ok := allowedExtensions[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}

	mediaType, _, parseErr := mime.ParseMediaType(contentType)
	if parseErr != nil || !allowedMIMETypes[strings.ToLower(mediaType)] {
		return "", "", fmt.Errorf("%w: content type %q", ErrUnsupportedFormat, contentType)
	}

	return ext, format, nil
}

// validateContent makes sure the bytes really are an image of the declared format
func validateContent(data []byte, wantFormat string) error {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if format != wantFormat {
		return fmt.Errorf("%w: file contains %s data", ErrUnsupportedFormat, format)
	}

	// Full decode catches truncated files that still have a valid header
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return nil
}
