// Package summarizer provides summary generation for extraction runs.
package summarizer

import (
	"time"

	"github.com/google/uuid"
)

// Summary contains all data collected during one run.
type Summary struct {
	// Metadata
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	DurationMs  int64     `json:"duration_ms"`

	// Directories
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	// Run settings
	Settings Settings `json:"settings"`

	// Per-video extraction results
	Videos []VideoInfo `json:"videos"`

	// Crop statistics; nil when cropping did not run
	Crop *CropInfo `json:"crop,omitempty"`

	RawFramesRemoved bool `json:"raw_frames_removed"`
}

// Settings contains the run configuration.
type Settings struct {
	Format          string `json:"format"`
	Stride          int    `json:"stride"`
	PerVideoFolders bool   `json:"per_video_folders"`
	Overwrite       bool   `json:"overwrite"`

	Crop          bool    `json:"crop"`
	CropFormat    string  `json:"crop_format,omitempty"`
	Prompt        string  `json:"prompt,omitempty"`
	BoxThreshold  float64 `json:"box_threshold,omitempty"`
	TextThreshold float64 `json:"text_threshold,omitempty"`
	Device        string  `json:"device,omitempty"`
}

// VideoInfo contains the outcome for one video.
type VideoInfo struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Mode        string `json:"mode,omitempty"`
	LengthKnown bool   `json:"length_known"`
	Expected    int    `json:"expected"`
	Existing    int    `json:"existing"`
	Written     int    `json:"written"`
	Failed      int    `json:"failed"`
	Error       string `json:"error,omitempty"`
}

// CropInfo contains detection-crop counters.
type CropInfo struct {
	Cropped      int `json:"cropped"`
	NoDetection  int `json:"no_detection"`
	Degenerate   int `json:"degenerate"`
	LoadFailures int `json:"load_failures"`
	DetectErrors int `json:"detect_errors"`
	Existing     int `json:"existing"`
}

// Totals sums the per-video counters.
func (s *Summary) Totals() (written, failed int) {
	for _, v := range s.Videos {
		written += v.Written
		failed += v.Failed
	}
	return written, failed
}

// NewSummary creates a new Summary with a fresh run ID and the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithDirs sets the input and output directories.
func (b *Builder) WithDirs(input, output string) *Builder {
	b.summary.InputDir = input
	b.summary.OutputDir = output
	return b
}

// WithDuration sets the run duration.
func (b *Builder) WithDuration(d time.Duration) *Builder {
	b.summary.DurationMs = d.Milliseconds()
	return b
}

// WithSettings sets run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// AddVideo appends one video's outcome.
func (b *Builder) AddVideo(video VideoInfo) *Builder {
	b.summary.Videos = append(b.summary.Videos, video)
	return b
}

// WithCrop sets crop statistics.
func (b *Builder) WithCrop(crop CropInfo) *Builder {
	b.summary.Crop = &crop
	return b
}

// WithRawFramesRemoved records whether the raw frames were deleted after cropping.
func (b *Builder) WithRawFramesRemoved(removed bool) *Builder {
	b.summary.RawFramesRemoved = removed
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
