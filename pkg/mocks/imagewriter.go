package mocks

import (
	"image"
	"sync"

	"github.com/user/frameharvest/pkg/ports"
)

// WriteCall records one ImageWriter.Write call.
type WriteCall struct {
	Path   string
	Format ports.ImageFormat
	Image  image.Image
}

// ImageWriter is a mock implementation of ports.ImageWriter.
// When FS is set, every write also creates a file there so scanners see it.
type ImageWriter struct {
	mu sync.Mutex

	FS        *FileSystem
	Calls     []WriteCall
	WriteFunc func(img image.Image, path string, format ports.ImageFormat) error
}

// NewImageWriter creates a writer that mirrors writes into fs (may be nil).
func NewImageWriter(fs *FileSystem) *ImageWriter {
	return &ImageWriter{FS: fs}
}

func (w *ImageWriter) Write(img image.Image, path string, format ports.ImageFormat) error {
	if w.WriteFunc != nil {
		if err := w.WriteFunc(img, path, format); err != nil {
			return err
		}
	}
	w.mu.Lock()
	w.Calls = append(w.Calls, WriteCall{Path: path, Format: format, Image: img})
	w.mu.Unlock()
	if w.FS != nil {
		return w.FS.WriteFile(path, []byte(format.String()))
	}
	return nil
}

// Paths returns the written paths in call order.
func (w *ImageWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.Calls))
	for i, c := range w.Calls {
		out[i] = c.Path
	}
	return out
}

var _ ports.ImageWriter = (*ImageWriter)(nil)
