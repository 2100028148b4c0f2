// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/user/frameharvest/pkg/ports"
)

// Sink saves debug output under a base directory:
//
//	<baseDir>/plans/<base>.json
//	<baseDir>/detections/<relative frame path>.png
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SavePlanJSON saves one video's extraction plan.
func (s *Sink) SavePlanJSON(baseName string, data []byte) error {
	path := filepath.Join(s.baseDir, "plans", baseName+".json")
	return s.fs.WriteFile(path, data)
}

// SaveDetection saves an annotated frame as PNG, mirroring relPath.
func (s *Sink) SaveDetection(relPath string, img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode detection %s: %w", relPath, err)
	}
	stem := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	path := filepath.Join(s.baseDir, "detections", stem+".png")
	return s.fs.WriteFile(path, data)
}

var _ ports.DebugSink = (*Sink)(nil)
