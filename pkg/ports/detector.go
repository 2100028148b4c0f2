package ports

import (
	"context"
	"image"
)

// Box is a detection in normalized center/size form; all values are in [0,1].
type Box struct {
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Score float64 `json:"score"`
}

// Area returns the normalized area of the box.
func (b Box) Area() float64 {
	return b.W * b.H
}

// DetectOptions configures a single detection call.
type DetectOptions struct {
	Prompt        string
	BoxThreshold  float64
	TextThreshold float64
	Device        string // Inference device selector, e.g. "cpu" or "cuda"
}

// Detector abstracts a text-prompted object detection model.
type Detector interface {
	// Ping reports whether the detection backend is reachable and loaded.
	Ping(ctx context.Context) error

	// Detect returns zero or more boxes for the prompt, in model order.
	Detect(ctx context.Context, img image.Image, opts DetectOptions) ([]Box, error)
}
