package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/frameharvest/pkg/adapters/ffmpegdecoder"
	"github.com/user/frameharvest/pkg/adapters/filesink"
	"github.com/user/frameharvest/pkg/adapters/ggrenderer"
	"github.com/user/frameharvest/pkg/adapters/httpdetector"
	"github.com/user/frameharvest/pkg/adapters/imagewriter"
	"github.com/user/frameharvest/pkg/adapters/logger"
	"github.com/user/frameharvest/pkg/adapters/nullsink"
	"github.com/user/frameharvest/pkg/adapters/osfilesystem"
	"github.com/user/frameharvest/pkg/adapters/termprogress"
	"github.com/user/frameharvest/pkg/config"
	"github.com/user/frameharvest/pkg/framestore"
	"github.com/user/frameharvest/pkg/orchestrator"
	"github.com/user/frameharvest/pkg/pipeline"
	"github.com/user/frameharvest/pkg/planner"
	"github.com/user/frameharvest/pkg/ports"
	"github.com/user/frameharvest/pkg/stages/crop"
	"github.com/user/frameharvest/pkg/stages/extract"
	"github.com/user/frameharvest/pkg/summarizer"
)

type mode int

const (
	modeRun mode = iota
	modeExtract
	modeCrop
)

// app holds the wired adapters for one invocation.
type app struct {
	cfg      config.Config
	log      ports.Logger
	fs       *osfilesystem.FileSystem
	decoder  *ffmpegdecoder.Opener
	detector *httpdetector.Client
	orch     *orchestrator.Orchestrator
}

func newLogger(cfg config.Config, quiet bool) ports.Logger {
	level := ports.ParseLogLevel(cfg.LogLevel)
	if quiet {
		return logger.NewNoop()
	}
	switch cfg.LogFormat {
	case config.LogFormatJSON:
		return logger.NewSlogJSON(level, os.Stderr)
	case config.LogFormatText:
		return logger.NewSlogText(level, os.Stderr)
	default:
		return logger.NewConsole(level)
	}
}

// wire creates adapters and stages for mode m. The crop stage is built
// only when m crops.
func wire(c *cli.Context, m mode) (*app, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	withCrop := m != modeExtract
	cfg.Crop = withCrop
	cfg.SkipExtract = m == modeCrop
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := newLogger(cfg, c.Bool("quiet"))

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	writer := imagewriter.New(renderer, fs, cfg.Quality)

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	var progress ports.ProgressFactory
	if c.Bool("no-progress") || c.Bool("quiet") {
		progress = termprogress.NewFactory(io.Discard, false)
	} else {
		progress = termprogress.NewStderrFactory()
	}

	decoder := ffmpegdecoder.New(ffmpegdecoder.Options{FFmpegPath: cfg.FFmpegPath}, log)

	a := &app{cfg: cfg, log: log, fs: fs, decoder: decoder}

	var cropStage pipeline.Stage[pipeline.CropInput, pipeline.CropResult]
	if withCrop {
		a.detector = httpdetector.New(httpdetector.Options{
			BaseURL: cfg.Detector.URL,
			MaxSide: cfg.Detector.MaxSide,
			Timeout: cfg.DetectorTimeout(),
		}, renderer, log)
		cropStage = crop.NewStage(a.detector, renderer, writer, fs, sink, log)
	}

	a.orch = orchestrator.New(
		decoder,
		framestore.NewScanner(fs),
		extract.NewStage(writer, log),
		cropStage,
		fs,
		progress,
		sink,
		log,
	)
	return a, nil
}

// preflight fails fast when a required external tool is unavailable.
func (a *app) preflight(ctx context.Context, extracting bool) error {
	if extracting {
		if err := a.decoder.Available(); err != nil {
			return err
		}
	}
	if a.detector != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := a.detector.Ping(pingCtx); err != nil {
			return fmt.Errorf("%w: %v", crop.ErrNoDetector, err)
		}
	}
	return nil
}

func runAction(m mode) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := wire(c, m)
		if err != nil {
			return err
		}

		oc := a.cfg.ToOrchestratorConfig()

		if err := a.preflight(c.Context, !oc.SkipExtract); err != nil {
			return err
		}

		result, runErr := a.orch.Run(c.Context, oc)

		if a.cfg.Summary != "" {
			summary := buildSummary(result, oc)
			w := summarizer.NewWriter(summarizer.FormatterFor(a.cfg.Summary,
				summarizer.WithTranslator(l10n.T),
				summarizer.WithVersion(version),
			), a.fs)
			if err := w.Write(a.cfg.Summary, summary); err != nil {
				a.log.Warn("Failed to write summary: %s", err)
			} else {
				a.log.Info("Summary written to %s", a.cfg.Summary)
			}
		}

		return runErr
	}
}

func planAction(c *cli.Context) error {
	a, err := wire(c, modeExtract)
	if err != nil {
		return err
	}
	if err := a.preflight(c.Context, true); err != nil {
		return err
	}

	reports, err := a.orch.Plan(c.Context, a.cfg.ToOrchestratorConfig())
	if err != nil {
		return err
	}

	printPlan(c.App.Writer, reports)
	return nil
}

// printPlan renders one line per video.
func printPlan(w io.Writer, reports []orchestrator.VideoReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		l10n.T("VIDEO"), l10n.T("MODE"), l10n.T("EXPECTED"), l10n.T("EXISTING"), l10n.T("ACTION"))
	for _, r := range reports {
		expected := "?"
		if r.LengthKnown {
			expected = fmt.Sprintf("%d", r.ExpectedCount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.Name, r.Plan.Mode, expected, r.Existing, describePlan(r))
	}
	tw.Flush()
}

func describePlan(r orchestrator.VideoReport) string {
	p := r.Plan
	switch {
	case r.Status == orchestrator.StatusOpenFailed || r.Status == orchestrator.StatusFailed:
		return l10n.F("skip: %s", r.Error)
	case p.Mode == planner.ModeComplete:
		return l10n.T("nothing to do")
	case p.Mode == planner.ModeSequential:
		return l10n.F("read from index %d to end of stream", p.StartIndex)
	case p.Resuming:
		return l10n.F("fill %d missing frames", len(p.Targets))
	default:
		return l10n.F("extract %d frames", len(p.Targets))
	}
}

// buildSummary converts a run result into a summarizer.Summary.
func buildSummary(result orchestrator.RunResult, oc orchestrator.Config) *summarizer.Summary {
	b := summarizer.NewBuilder().
		WithDirs(oc.InputDir, oc.OutputDir).
		WithDuration(result.Duration).
		WithSettings(summarizer.Settings{
			Format:          oc.Format.String(),
			Stride:          planner.NormalizeStride(oc.Stride),
			PerVideoFolders: oc.PerVideoFolders,
			Overwrite:       oc.Overwrite,
			Crop:            oc.Crop,
			CropFormat:      oc.CropFormat.String(),
			Prompt:          oc.Detect.Prompt,
			BoxThreshold:    oc.Detect.BoxThreshold,
			TextThreshold:   oc.Detect.TextThreshold,
			Device:          oc.Detect.Device,
		}).
		WithRawFramesRemoved(result.RawFramesRemoved)

	for _, v := range result.Extract.Videos {
		b.AddVideo(summarizer.VideoInfo{
			Name:        v.Name,
			Status:      string(v.Status),
			Mode:        string(v.Plan.Mode),
			LengthKnown: v.LengthKnown,
			Expected:    v.ExpectedCount,
			Existing:    v.Existing,
			Written:     v.Written,
			Failed:      v.Failed,
			Error:       v.Error,
		})
	}

	if result.Crop != nil {
		b.WithCrop(summarizer.CropInfo{
			Cropped:      len(result.Crop.Cropped),
			NoDetection:  result.Crop.NoDetection,
			Degenerate:   result.Crop.Degenerate,
			LoadFailures: result.Crop.LoadFailures,
			DetectErrors: result.Crop.DetectErrors,
			Existing:     result.Crop.Existing,
		})
	}

	return b.Build()
}
