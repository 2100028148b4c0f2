package main

import (
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/frameharvest/pkg/config"
)

const envPrefix = "FRAMEHARVEST_"

func env(name string) []string {
	return []string{envPrefix + name}
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func ioFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			EnvVars:  env("CONFIG"),
			Category: l10n.T("Input/Output"),
		},
		&cli.PathFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    l10n.T("Directory containing the videos"),
			EnvVars:  env("INPUT"),
			Category: l10n.T("Input/Output"),
		},
		&cli.PathFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    l10n.T("Output directory (frames/ and cropped/ are created inside)"),
			EnvVars:  env("OUTPUT"),
			Category: l10n.T("Input/Output"),
		},
		&cli.BoolFlag{
			Name:     "overwrite",
			Usage:    l10n.T("Rewrite frames and crops that already exist"),
			EnvVars:  env("OVERWRITE"),
			Category: l10n.T("Input/Output"),
		},
		&cli.BoolFlag{
			Name:     "flat",
			Usage:    l10n.T("Write all frames directly into frames/ instead of one folder per video"),
			EnvVars:  env("FLAT"),
			Category: l10n.T("Input/Output"),
		},
	}
}

func extractFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     "every-nth",
			Aliases:  []string{"n"},
			Usage:    l10n.T("Save every Nth frame (values below 1 mean 1)"),
			EnvVars:  env("EVERY_NTH"),
			Category: l10n.T("Extraction"),
		},
		&cli.StringFlag{
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    l10n.T("Frame image format (jpg, png)"),
			EnvVars:  env("FORMAT"),
			Category: l10n.T("Extraction"),
		},
		&cli.IntFlag{
			Name:     "quality",
			Aliases:  []string{"q"},
			Usage:    l10n.T("JPEG quality (1-100)"),
			EnvVars:  env("QUALITY"),
			Category: l10n.T("Extraction"),
		},
		&cli.PathFlag{
			Name:     "ffmpeg",
			Usage:    l10n.T("Path to the ffmpeg executable (falls back to FFMPEG_PATH, then PATH)"),
			EnvVars:  env("FFMPEG"),
			Category: l10n.T("Extraction"),
		},
	}
}

func cropFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "prompt",
			Aliases:  []string{"p"},
			Usage:    l10n.T("Text prompt describing the object to crop"),
			EnvVars:  env("PROMPT"),
			Category: l10n.T("Detection"),
		},
		&cli.Float64Flag{
			Name:     "box-threshold",
			Usage:    l10n.T("Minimum box confidence (0-1)"),
			EnvVars:  env("BOX_THRESHOLD"),
			Category: l10n.T("Detection"),
		},
		&cli.Float64Flag{
			Name:     "text-threshold",
			Usage:    l10n.T("Minimum text match confidence (0-1)"),
			EnvVars:  env("TEXT_THRESHOLD"),
			Category: l10n.T("Detection"),
		},
		&cli.StringFlag{
			Name:     "device",
			Usage:    l10n.T("Inference device requested from the detector (cpu, cuda)"),
			EnvVars:  env("DEVICE"),
			Category: l10n.T("Detection"),
		},
		&cli.StringFlag{
			Name:     "detector-url",
			Usage:    l10n.T("Base URL of the detection service"),
			EnvVars:  env("DETECTOR_URL"),
			Category: l10n.T("Detection"),
		},
		&cli.StringFlag{
			Name:     "crop-format",
			Usage:    l10n.T("Cropped image format (jpg, png)"),
			EnvVars:  env("CROP_FORMAT"),
			Category: l10n.T("Detection"),
		},
		&cli.BoolFlag{
			Name:     "delete-raw-frames",
			Usage:    l10n.T("Remove frames/ after a successful crop pass"),
			EnvVars:  env("DELETE_RAW_FRAMES"),
			Category: l10n.T("Detection"),
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.PathFlag{
			Name:     "summary",
			Usage:    l10n.T("Write a run summary (.md or .json)"),
			EnvVars:  env("SUMMARY"),
			Category: l10n.T("Reporting"),
		},
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Save plans and annotated detections"),
			EnvVars:  env("DEBUG"),
			Category: l10n.T("Debug"),
		},
		&cli.PathFlag{
			Name:     "debug-dir",
			Usage:    l10n.T("Directory for debug output"),
			EnvVars:  env("DEBUG_DIR"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			EnvVars:  env("LOG_LEVEL"),
			Category: l10n.T("Logging"),
		},
		&cli.StringFlag{
			Name:     "log-format",
			Usage:    l10n.T("Log format (console, text, json)"),
			EnvVars:  env("LOG_FORMAT"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			EnvVars:  env("QUIET"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "no-progress",
			Usage:    l10n.T("Disable progress bars"),
			EnvVars:  env("NO_PROGRESS"),
			Category: l10n.T("Logging"),
		},
	}
}

// loadConfig builds the effective configuration: defaults, then the YAML
// file, then positional arguments, then flags and their environment variables.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.Path("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.Args().Len() > 0 {
		cfg.InputDir = c.Args().Get(0)
	}
	if c.Args().Len() > 1 {
		cfg.OutputDir = c.Args().Get(1)
	}
	if c.Args().Len() > 2 {
		return cfg, fmt.Errorf("unexpected arguments: %v", c.Args().Slice()[2:])
	}

	if c.IsSet("input") {
		cfg.InputDir = c.Path("input")
	}
	if c.IsSet("output") {
		cfg.OutputDir = c.Path("output")
	}
	if c.IsSet("overwrite") {
		cfg.Overwrite = c.Bool("overwrite")
	}
	if c.IsSet("flat") {
		cfg.PerVideoFolders = !c.Bool("flat")
	}

	if c.IsSet("every-nth") {
		cfg.Stride = c.Int("every-nth")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.Path("ffmpeg")
	}

	if c.IsSet("prompt") {
		cfg.Detector.Prompt = c.String("prompt")
	}
	if c.IsSet("box-threshold") {
		cfg.Detector.BoxThreshold = c.Float64("box-threshold")
	}
	if c.IsSet("text-threshold") {
		cfg.Detector.TextThreshold = c.Float64("text-threshold")
	}
	if c.IsSet("device") {
		cfg.Detector.Device = c.String("device")
	}
	if c.IsSet("detector-url") {
		cfg.Detector.URL = c.String("detector-url")
	}
	if c.IsSet("crop-format") {
		cfg.CropFormat = c.String("crop-format")
	}
	if c.IsSet("delete-raw-frames") {
		cfg.KeepRawFrames = !c.Bool("delete-raw-frames")
	}

	if c.IsSet("summary") {
		cfg.Summary = c.Path("summary")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.Path("debug-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}

	cfg.Normalize()
	return cfg, nil
}
