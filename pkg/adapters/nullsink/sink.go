// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/frameharvest/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SavePlanJSON does nothing.
func (s *Sink) SavePlanJSON(baseName string, data []byte) error {
	return nil
}

// SaveDetection does nothing.
func (s *Sink) SaveDetection(relPath string, img image.Image) error {
	return nil
}

var _ ports.DebugSink = (*Sink)(nil)
