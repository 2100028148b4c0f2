package mocks

import (
	"image"
	"sync"

	"github.com/user/frameharvest/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Plans      map[string][]byte
	Detections map[string]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:    enabled,
		Plans:      make(map[string][]byte),
		Detections: make(map[string]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SavePlanJSON(baseName string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Plans[baseName] = data
	return nil
}

func (m *DebugSink) SaveDetection(relPath string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Detections[relPath] = img
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
