package crop

import (
	"errors"
	"image"
	"math"

	"github.com/user/frameharvest/pkg/ports"
)

// ErrDegenerateBox is returned when a box has no area after clamping to the image.
var ErrDegenerateBox = errors.New("crop: degenerate box")

// SelectLargest returns the box with the greatest w*h. Ties keep the earliest box.
// ok is false when boxes is empty.
func SelectLargest(boxes []ports.Box) (best ports.Box, ok bool) {
	for i, b := range boxes {
		if i == 0 || b.Area() > best.Area() {
			best = b
		}
	}
	return best, len(boxes) > 0
}

// PixelBounds converts a normalized box into pixel coordinates within bounds.
// Edges are rounded to the nearest pixel and clamped to the image.
func PixelBounds(box ports.Box, bounds image.Rectangle) (image.Rectangle, error) {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	x1 := clamp(math.Round((box.CX-box.W/2)*w), 0, w)
	y1 := clamp(math.Round((box.CY-box.H/2)*h), 0, h)
	x2 := clamp(math.Round((box.CX+box.W/2)*w), 0, w)
	y2 := clamp(math.Round((box.CY+box.H/2)*h), 0, h)

	if x2 <= x1 || y2 <= y1 {
		return image.Rectangle{}, ErrDegenerateBox
	}

	r := image.Rectangle{
		Min: image.Point{X: int(x1), Y: int(y1)},
		Max: image.Point{X: int(x2), Y: int(y2)},
	}
	return r.Add(bounds.Min), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
