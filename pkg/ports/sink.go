package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SavePlanJSON saves the extraction plan computed for one video.
	SavePlanJSON(baseName string, data []byte) error

	// SaveDetection saves an annotated copy of a frame whose crop box was selected.
	// relPath is the frame's path relative to the frames root.
	SaveDetection(relPath string, img image.Image) error
}
