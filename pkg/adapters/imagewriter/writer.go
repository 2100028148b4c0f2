// Package imagewriter encodes frames and crops to files.
package imagewriter

import (
	"fmt"
	"image"

	"github.com/user/frameharvest/pkg/ports"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 95

// Writer implements ports.ImageWriter on top of a Renderer and a FileSystem.
type Writer struct {
	renderer ports.Renderer
	fs       ports.FileSystem
	quality  int
}

// New creates a Writer. A quality outside 1..100 falls back to DefaultQuality.
func New(renderer ports.Renderer, fs ports.FileSystem, quality int) *Writer {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Writer{renderer: renderer, fs: fs, quality: quality}
}

// Write encodes img and stores it at path, creating parent directories.
func (w *Writer) Write(img image.Image, path string, format ports.ImageFormat) error {
	data, err := w.renderer.EncodeImage(img, format, w.quality)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

var _ ports.ImageWriter = (*Writer)(nil)
