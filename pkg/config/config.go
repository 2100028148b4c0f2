// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/frameharvest/pkg/orchestrator"
	"github.com/user/frameharvest/pkg/ports"
)

// Config represents the full configuration for frameharvest.
type Config struct {
	// Input/Output
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// Extraction
	Format          string `yaml:"format"`
	Stride          int    `yaml:"stride"`
	PerVideoFolders bool   `yaml:"per_video_folders"`
	Overwrite       bool   `yaml:"overwrite"`
	Quality         int    `yaml:"quality"`
	FFmpegPath      string `yaml:"ffmpeg_path"`

	// Detection and cropping
	Crop          bool           `yaml:"crop"`
	SkipExtract   bool           `yaml:"-"`
	CropFormat    string         `yaml:"crop_format"`
	KeepRawFrames bool           `yaml:"keep_raw_frames"`
	Detector      DetectorConfig `yaml:"detector"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
	Summary  string `yaml:"summary"`
}

// DetectorConfig configures the detection service and its prompt.
type DetectorConfig struct {
	URL           string  `yaml:"url"`
	Prompt        string  `yaml:"prompt"`
	BoxThreshold  float64 `yaml:"box_threshold"`
	TextThreshold float64 `yaml:"text_threshold"`
	Device        string  `yaml:"device"`
	MaxSide       int     `yaml:"max_side"`
	TimeoutSec    int     `yaml:"timeout_sec"`
}

// Log formats accepted by LogFormat.
const (
	LogFormatConsole = "console"
	LogFormatText    = "text"
	LogFormatJSON    = "json"
)

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Extraction
		Format:          "jpg",
		Stride:          1,
		PerVideoFolders: true,
		Quality:         95,

		// Detection and cropping
		Crop:          true,
		CropFormat:    "jpg",
		KeepRawFrames: true,
		Detector: DetectorConfig{
			URL:           "http://127.0.0.1:8765",
			Prompt:        "orange",
			BoxThreshold:  0.35,
			TextThreshold: 0.25,
			Device:        "cpu",
			MaxSide:       1024,
			TimeoutSec:    60,
		},

		// Logging
		LogLevel:  "info",
		LogFormat: LogFormatConsole,

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
// Keys missing from the file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Normalize canonicalizes values that have a lenient spelling.
func (c *Config) Normalize() {
	if c.Stride < 1 {
		c.Stride = 1
	}
	c.Format = normalizeFormat(c.Format)
	c.CropFormat = normalizeFormat(c.CropFormat)
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = LogFormatConsole
	}
}

func normalizeFormat(s string) string {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if s == "jpeg" {
		return "jpg"
	}
	return s
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.InputDir == "" && !c.SkipExtract {
		errs = append(errs, errors.New("input directory is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if _, err := ports.ParseImageFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("format: %w", err))
	}
	if _, err := ports.ParseImageFormat(c.CropFormat); err != nil {
		errs = append(errs, fmt.Errorf("crop_format: %w", err))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality))
	}
	if c.Detector.BoxThreshold < 0 || c.Detector.BoxThreshold > 1 {
		errs = append(errs, fmt.Errorf("detector.box_threshold must be in [0,1], got %g", c.Detector.BoxThreshold))
	}
	if c.Detector.TextThreshold < 0 || c.Detector.TextThreshold > 1 {
		errs = append(errs, fmt.Errorf("detector.text_threshold must be in [0,1], got %g", c.Detector.TextThreshold))
	}
	if c.Crop && strings.TrimSpace(c.Detector.Prompt) == "" {
		errs = append(errs, errors.New("detector.prompt is required for cropping"))
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log_format must be console, text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// DetectorTimeout returns the per-request detector timeout.
func (c Config) DetectorTimeout() time.Duration {
	return time.Duration(c.Detector.TimeoutSec) * time.Second
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
// Call Validate first; unparseable formats fall back to JPEG.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	format, _ := ports.ParseImageFormat(c.Format)
	cropFormat, _ := ports.ParseImageFormat(c.CropFormat)

	return orchestrator.Config{
		InputDir:        c.InputDir,
		OutputDir:       c.OutputDir,
		Format:          format,
		Stride:          c.Stride,
		PerVideoFolders: c.PerVideoFolders,
		Overwrite:       c.Overwrite,

		Crop:        c.Crop,
		SkipExtract: c.SkipExtract,
		CropFormat:  cropFormat,
		Detect: ports.DetectOptions{
			Prompt:        c.Detector.Prompt,
			BoxThreshold:  c.Detector.BoxThreshold,
			TextThreshold: c.Detector.TextThreshold,
			Device:        c.Detector.Device,
		},
		KeepRawFrames: c.KeepRawFrames,
	}
}
