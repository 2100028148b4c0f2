package orchestrator

import (
	"path/filepath"

	"github.com/user/frameharvest/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Extraction
	InputDir        string
	OutputDir       string
	Format          ports.ImageFormat
	Stride          int  // Save every Nth source frame; values below 1 mean 1
	PerVideoFolders bool // Write each video's frames under frames/<base>
	Overwrite       bool // Rewrite frames and crops that already exist

	// Detection and cropping
	Crop          bool
	SkipExtract   bool // Crop frames already on disk without extracting
	CropFormat    ports.ImageFormat
	Detect        ports.DetectOptions
	KeepRawFrames bool // Keep frames/ after a successful crop pass
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Format:          ports.FormatJPEG,
		Stride:          1,
		PerVideoFolders: true,

		CropFormat: ports.FormatJPEG,
		Detect: ports.DetectOptions{
			Prompt:        "orange",
			BoxThreshold:  0.35,
			TextThreshold: 0.25,
			Device:        "cpu",
		},
		KeepRawFrames: true,
	}
}

// FramesRoot is the directory holding extracted frames.
func (c Config) FramesRoot() string {
	return filepath.Join(c.OutputDir, "frames")
}

// CropRoot is the directory holding cropped images.
func (c Config) CropRoot() string {
	return filepath.Join(c.OutputDir, "cropped")
}

// frameDir is where frames of the video named base are written.
func (c Config) frameDir(base string) string {
	if c.PerVideoFolders {
		return filepath.Join(c.FramesRoot(), base)
	}
	return c.FramesRoot()
}
