package images

import (
	"bytes"
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// FitMode defines how an image is fitted to the target dimensions.
type FitMode string

const (
	// FitCover scales the image to cover the target dimensions, cropping if necessary.
	FitCover FitMode = "cover"
	// FitContain scales the image to fit within the target width, preserving aspect ratio.
	FitContain FitMode = "contain"
)

// Preset is a named rendition of an uploaded image
type Preset struct {
	Name    string
	Fit     FitMode
	Width   int
	Height  int
	Quality int
}

// Validate checks that the preset has usable values
func (p Preset) Validate() error {
	if p.Name == "" || p.Width <= 0 {
		return ErrInvalidPreset
	}
	if p.Fit == FitCover && p.Height <= 0 {
		return ErrInvalidPreset
	}
	if p.Fit != FitCover && p.Fit != FitContain {
		return ErrInvalidPreset
	}
	if p.Quality < 1 || p.Quality > 100 {
		return ErrInvalidPreset
	}
	return nil
}

var presets = map[string]Preset{
	"thumbnail": {
		Name:    "thumbnail",
		Width:   320,
		Height:  320,
		Fit:     FitCover,
		Quality: 80,
	},
	"feed": {
		Name:    "feed",
		Width:   1080,
		Fit:     FitContain,
		Quality: 85,
	},
}

// GetPreset returns the preset with the given name
func GetPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrInvalidPreset, name)
	}
	return preset, nil
}

// PresetNames lists the available presets in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render decodes an image and re-encodes it as JPEG according to the preset.
// Images narrower than a contain preset are not upscaled.
func Render(data []byte, preset Preset) ([]byte, error) {
	if err := preset.Validate(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	var out image.Image
	switch preset.Fit {
	case FitCover:
		out = imaging.Fill(img, preset.Width, preset.Height, imaging.Center, imaging.Lanczos)
	case FitContain:
		out = fitWidth(img, preset.Width)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(preset.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode rendition: %w", err)
	}
	return buf.Bytes(), nil
}

func fitWidth(img image.Image, maxWidth int) image.Image {
	if img.Bounds().Dx() <= maxWidth {
		return img
	}
	// Height 0 keeps the aspect ratio
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}
