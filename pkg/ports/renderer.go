package ports

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)

// ParseImageFormat maps a file extension (with or without the dot) to an ImageFormat.
func ParseImageFormat(ext string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return FormatJPEG, fmt.Errorf("unsupported image format: %q", ext)
	}
}

// String returns the canonical extension for the format, without the dot.
func (f ImageFormat) String() string {
	switch f {
	case FormatPNG:
		return "png"
	default:
		return "jpg"
	}
}

// Renderer abstracts image processing operations.
type Renderer interface {
	// CreateCanvas creates a drawing canvas initialized with a copy of img.
	CreateCanvas(img image.Image) Canvas

	// DecodeImage decodes image data, detecting the format from its header.
	DecodeImage(data []byte) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// Crop copies the rect region of img into a new image whose origin is (0,0).
	Crop(img image.Image, rect image.Rectangle) image.Image

	// ResizeToFit scales img down so neither side exceeds maxSide.
	// Images already within the limit are returned unchanged.
	ResizeToFit(img image.Image, maxSide int) image.Image
}

// Canvas provides drawing operations for annotating frames.
type Canvas interface {
	// DrawRectStroke draws a rectangle outline.
	DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64)

	// DrawText draws a label with its top-left corner at the given position.
	DrawText(text string, x, y int, c color.Color)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}

// ImageWriter encodes pixel buffers to files.
type ImageWriter interface {
	// Write encodes img in format and stores it at path, overwriting any existing file.
	Write(img image.Image, path string, format ImageFormat) error
}
