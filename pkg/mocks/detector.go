package mocks

import (
	"context"
	"image"

	"github.com/user/frameharvest/pkg/ports"
)

// Detector is a mock implementation of ports.Detector.
type Detector struct {
	PingErr    error
	Boxes      []ports.Box
	DetectFunc func(img image.Image, opts ports.DetectOptions) ([]ports.Box, error)

	Calls []ports.DetectOptions
}

func (d *Detector) Ping(ctx context.Context) error {
	return d.PingErr
}

func (d *Detector) Detect(ctx context.Context, img image.Image, opts ports.DetectOptions) ([]ports.Box, error) {
	d.Calls = append(d.Calls, opts)
	if d.DetectFunc != nil {
		return d.DetectFunc(img, opts)
	}
	return d.Boxes, nil
}

var _ ports.Detector = (*Detector)(nil)
