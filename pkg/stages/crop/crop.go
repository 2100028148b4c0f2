// Package crop implements the detection-crop stage.
package crop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/user/frameharvest/pkg/pipeline"
	"github.com/user/frameharvest/pkg/ports"
)

var (
	// ErrNoDetector is returned when the detection backend is unavailable.
	ErrNoDetector = errors.New("crop: detector unavailable")

	// ErrCannotLoadImage marks a frame that could not be read or decoded.
	ErrCannotLoadImage = errors.New("crop: cannot load image")
)

var boxColor = color.RGBA{R: 255, G: 64, B: 64, A: 255}

// IsFrameImage reports whether path has an extension the crop stage reads.
func IsFrameImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// OutputPath mirrors a frame's path relative to the frames root under cropRoot,
// replacing its extension with format's.
func OutputPath(cropRoot, relPath string, format ports.ImageFormat) string {
	stem := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	return filepath.Join(cropRoot, stem+"."+format.String())
}

// Stage detects an object in every extracted frame and saves the largest box as a crop.
type Stage struct {
	detector ports.Detector
	renderer ports.Renderer
	writer   ports.ImageWriter
	fs       ports.FileSystem
	sink     ports.DebugSink
	logger   ports.Logger
}

// NewStage creates a new crop stage.
func NewStage(
	detector ports.Detector,
	renderer ports.Renderer,
	writer ports.ImageWriter,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Stage {
	return &Stage{
		detector: detector,
		renderer: renderer,
		writer:   writer,
		fs:       fs,
		sink:     sink,
		logger:   logger.WithComponent("crop"),
	}
}

// Execute runs detection over every image under input.FramesRoot.
// The detector is checked before any image is touched.
func (s *Stage) Execute(ctx context.Context, input pipeline.CropInput) (pipeline.CropResult, error) {
	result := pipeline.CropResult{}

	if err := s.detector.Ping(ctx); err != nil {
		return result, fmt.Errorf("%w: %v", ErrNoDetector, err)
	}

	var paths []string
	err := s.fs.WalkFiles(input.FramesRoot, func(path string) error {
		if IsFrameImage(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("failed to list frames under %s: %w", input.FramesRoot, err)
	}

	s.logger.Debug("Found %d images under %s", len(paths), input.FramesRoot)
	input.Progress.AddTotal(len(paths))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.processImage(ctx, input, path, &result); err != nil {
			return result, err
		}
		input.Progress.Increment()
	}

	return result, nil
}

// processImage handles one frame. Only write failures and cancellation are returned;
// everything else is counted in result.
func (s *Stage) processImage(ctx context.Context, input pipeline.CropInput, path string, result *pipeline.CropResult) error {
	rel, err := filepath.Rel(input.FramesRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	outPath := OutputPath(input.CropRoot, rel, input.Format)

	if !input.Overwrite {
		if exists, _ := s.fs.Exists(outPath); exists {
			result.Existing++
			return nil
		}
	}

	img, err := s.load(path)
	if err != nil {
		s.logger.Warn("Skipping %s: %s", rel, err)
		result.LoadFailures++
		return nil
	}

	boxes, err := s.detector.Detect(ctx, img, input.Detect)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("Detection failed for %s: %s", rel, err)
		result.DetectErrors++
		return nil
	}

	box, ok := SelectLargest(boxes)
	if !ok {
		s.logger.Debug("No detection in %s", rel)
		result.NoDetection++
		return nil
	}

	bounds, err := PixelBounds(box, img.Bounds())
	if err != nil {
		s.logger.Debug("Skipping %s: %s", rel, err)
		result.Degenerate++
		return nil
	}

	if err := s.writer.Write(s.renderer.Crop(img, bounds), outPath, input.Format); err != nil {
		return fmt.Errorf("write crop for %s: %w", rel, err)
	}

	if s.sink.Enabled() {
		if err := s.sink.SaveDetection(rel, s.annotate(img, bounds, box)); err != nil {
			s.logger.Warn("Failed to save debug output for %s: %s", rel, err)
		}
	}

	result.Cropped = append(result.Cropped, pipeline.DetectionResult{
		RelPath: rel,
		Box:     box,
		Bounds:  bounds,
	})
	return nil
}

func (s *Stage) load(path string) (image.Image, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotLoadImage, err)
	}
	img, err := s.renderer.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotLoadImage, err)
	}
	return img, nil
}

// annotate outlines the selected box and labels it with the detection score.
func (s *Stage) annotate(img image.Image, bounds image.Rectangle, box ports.Box) image.Image {
	canvas := s.renderer.CreateCanvas(img)
	origin := img.Bounds().Min
	r := bounds.Sub(origin)

	stroke := float64(max(2, min(img.Bounds().Dx(), img.Bounds().Dy())/200))
	canvas.DrawRectStroke(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), boxColor, stroke)

	labelY := r.Min.Y - 14
	if labelY < 0 {
		labelY = r.Min.Y + 2
	}
	canvas.DrawText(fmt.Sprintf("%.2f", box.Score), r.Min.X+2, labelY, boxColor)

	return canvas.ToImage()
}
