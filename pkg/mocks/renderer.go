package mocks

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/user/frameharvest/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer backed by the standard image packages.
// DecodeImage accepts PNG data; see EncodePNG.
type Renderer struct {
	mu sync.Mutex

	Crops    []image.Rectangle
	Canvases []*Canvas
	Resizes  []int
}

// NewRenderer creates a new mock Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) CreateCanvas(img image.Image) ports.Canvas {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	c := &Canvas{img: dst}
	r.mu.Lock()
	r.Canvases = append(r.Canvases, c)
	r.mu.Unlock()
	return c
}

func (r *Renderer) DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("mock: empty image data")
	}
	return png.Decode(bytes.NewReader(data))
}

func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	return EncodePNG(img)
}

func (r *Renderer) Crop(img image.Image, rect image.Rectangle) image.Image {
	r.mu.Lock()
	r.Crops = append(r.Crops, rect)
	r.mu.Unlock()
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

func (r *Renderer) ResizeToFit(img image.Image, maxSide int) image.Image {
	r.mu.Lock()
	r.Resizes = append(r.Resizes, maxSide)
	r.mu.Unlock()
	return img
}

// Canvas records drawing calls.
type Canvas struct {
	img *image.RGBA

	Rects []image.Rectangle
	Texts []string
}

func (c *Canvas) DrawRectStroke(x, y, w, h int, col color.Color, strokeWidth float64) {
	c.Rects = append(c.Rects, image.Rect(x, y, x+w, y+h))
}

func (c *Canvas) DrawText(text string, x, y int, col color.Color) {
	c.Texts = append(c.Texts, text)
}

func (c *Canvas) ToImage() image.Image {
	return c.img
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SolidImage returns a w x h image filled with c.
func SolidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

var (
	_ ports.Renderer = (*Renderer)(nil)
	_ ports.Canvas   = (*Canvas)(nil)
)
