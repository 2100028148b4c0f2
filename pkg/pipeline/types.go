package pipeline

import (
	"image"

	"github.com/user/frameharvest/pkg/framestore"
	"github.com/user/frameharvest/pkg/planner"
	"github.com/user/frameharvest/pkg/ports"
)

// =============================================================================
// Extraction
// =============================================================================

// VideoJob is one video's extraction task for the current run.
type VideoJob struct {
	BaseName   string
	SourcePath string
	OutputDir  string

	LengthKnown   bool
	TotalFrames   int // Decoder frame count; meaningful only when LengthKnown
	ExpectedCount int // ceil(TotalFrames/Stride); meaningful only when LengthKnown

	Existing framestore.IndexSet
	Plan     planner.Plan
}

// Targets returns the indices this run must produce for a targeted plan.
func (j VideoJob) Targets() []int {
	return j.Plan.Targets
}

// ExtractInput contains parameters for extracting one video.
type ExtractInput struct {
	Job      VideoJob
	Video    ports.VideoHandle
	Stride   int
	Format   ports.ImageFormat
	Progress ports.Progress // Shared by every video in the run
}

// ExtractResult reports what the frame writer did for one video.
type ExtractResult struct {
	Written []int // Indices written this run, in write order
	Failed  []int // Indices whose decode failed; left for the next run
}

// =============================================================================
// Detection and cropping
// =============================================================================

// CropInput contains parameters for the detection-crop pass.
type CropInput struct {
	FramesRoot string
	CropRoot   string
	Format     ports.ImageFormat // Output format for every crop
	Detect     ports.DetectOptions
	Overwrite  bool
	Progress   ports.Progress
}

// DetectionResult is the box retained for one image.
type DetectionResult struct {
	RelPath string          // Source path relative to FramesRoot
	Box     ports.Box       // Largest box returned by the detector
	Bounds  image.Rectangle // Pixel bounds after clamping
}

// CropResult summarizes a detection-crop pass.
type CropResult struct {
	Cropped      []DetectionResult
	NoDetection  int // Images where the detector returned no boxes
	Degenerate   int // Images whose clamped box had zero area
	LoadFailures int // Images that could not be read or decoded
	DetectErrors int // Images where the detector call failed
	Existing     int // Images skipped because a crop already existed
}

// Processed returns the number of images the pass looked at.
func (r CropResult) Processed() int {
	return len(r.Cropped) + r.NoDetection + r.Degenerate + r.LoadFailures + r.DetectErrors + r.Existing
}
