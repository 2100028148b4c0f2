package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/frameharvest/pkg/orchestrator"
	"github.com/user/frameharvest/pkg/ports"
)

func TestDefaultsMatchOrchestrator(t *testing.T) {
	cfg := Defaults()
	cfg.InputDir = "in"
	cfg.OutputDir = "out"

	got := cfg.ToOrchestratorConfig()
	want := orchestrator.DefaultConfig()
	want.InputDir = "in"
	want.OutputDir = "out"
	want.Crop = true

	if got != want {
		t.Errorf("ToOrchestratorConfig() = %+v, want %+v", got, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frameharvest.yaml")
	data := `
input_dir: videos
output_dir: out
format: PNG
stride: 3
per_video_folders: false
crop: true
detector:
  prompt: "red apple"
  device: cuda
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	cfg.Normalize()

	if cfg.InputDir != "videos" || cfg.Stride != 3 || cfg.PerVideoFolders || !cfg.Crop {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Format != "png" {
		t.Errorf("Format = %q, want png", cfg.Format)
	}
	if cfg.Detector.Prompt != "red apple" || cfg.Detector.Device != "cuda" {
		t.Errorf("Detector = %+v", cfg.Detector)
	}
	// Unset keys keep defaults.
	if cfg.Detector.BoxThreshold != 0.35 || cfg.Quality != 95 || !cfg.KeepRawFrames {
		t.Errorf("defaults lost: %+v", cfg)
	}

	oc := cfg.ToOrchestratorConfig()
	if oc.Format != ports.FormatPNG || oc.CropFormat != ports.FormatJPEG {
		t.Errorf("formats = %v, %v", oc.Format, oc.CropFormat)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("stride: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalize(t *testing.T) {
	cfg := Defaults()
	cfg.Stride = -4
	cfg.Format = ".JPEG"
	cfg.CropFormat = " Png "
	cfg.LogFormat = ""

	cfg.Normalize()

	if cfg.Stride != 1 {
		t.Errorf("Stride = %d, want 1", cfg.Stride)
	}
	if cfg.Format != "jpg" || cfg.CropFormat != "png" {
		t.Errorf("formats = %q, %q", cfg.Format, cfg.CropFormat)
	}
	if cfg.LogFormat != LogFormatConsole {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Defaults()
		cfg.InputDir = "in"
		cfg.OutputDir = "out"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"missing input", func(c *Config) { c.InputDir = "" }, "input directory"},
		{"missing output", func(c *Config) { c.OutputDir = "" }, "output directory"},
		{"bad format", func(c *Config) { c.Format = "gif" }, "format"},
		{"bad crop format", func(c *Config) { c.CropFormat = "bmp" }, "crop_format"},
		{"quality", func(c *Config) { c.Quality = 0 }, "quality"},
		{"box threshold", func(c *Config) { c.Detector.BoxThreshold = 1.5 }, "box_threshold"},
		{"text threshold", func(c *Config) { c.Detector.TextThreshold = -0.1 }, "text_threshold"},
		{"empty prompt with crop", func(c *Config) { c.Crop = true; c.Detector.Prompt = " " }, "prompt"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	t.Run("crop only without input", func(t *testing.T) {
		cfg := valid()
		cfg.InputDir = ""
		cfg.SkipExtract = true
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty prompt without crop", func(t *testing.T) {
		cfg := valid()
		cfg.Crop = false
		cfg.Detector.Prompt = ""
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
