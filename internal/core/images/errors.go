package images

import "errors"

var (
	// ErrImageRequired is returned when no image data was supplied
	ErrImageRequired = errors.New("image is required")

	// ErrImageTooLarge is returned when the upload exceeds the size limit
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrUnsupportedFormat is returned when the file extension, declared MIME
	// type or decoded format is not one of jpeg, jpg, png or gif
	ErrUnsupportedFormat = errors.New("only image files are allowed")

	// ErrInvalidImage is returned when the data cannot be decoded as an image
	ErrInvalidImage = errors.New("image data is corrupt or unreadable")

	// ErrInvalidReference is returned for references not produced by Save
	ErrInvalidReference = errors.New("invalid image reference")

	// ErrInvalidPreset is returned for unknown or malformed rendition presets
	ErrInvalidPreset = errors.New("invalid image preset")
)
