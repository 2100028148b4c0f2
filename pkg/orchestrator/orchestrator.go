// Package orchestrator coordinates planning, extraction and cropping across a directory of videos.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/user/frameharvest/pkg/framestore"
	"github.com/user/frameharvest/pkg/pipeline"
	"github.com/user/frameharvest/pkg/planner"
	"github.com/user/frameharvest/pkg/ports"
)

// ErrCropNotConfigured is returned when cropping is requested without a crop stage.
var ErrCropNotConfigured = errors.New("orchestrator: crop stage not configured")

// VideoStatus is the outcome of one video in a run.
type VideoStatus string

const (
	StatusPlanned    VideoStatus = "planned"
	StatusExtracted  VideoStatus = "extracted"
	StatusComplete   VideoStatus = "complete"
	StatusOpenFailed VideoStatus = "open_failed"
	StatusFailed     VideoStatus = "failed"
)

// VideoReport describes what happened to one video.
type VideoReport struct {
	Name          string       `json:"name"`
	BaseName      string       `json:"base_name"`
	OutputDir     string       `json:"output_dir"`
	Status        VideoStatus  `json:"status"`
	LengthKnown   bool         `json:"length_known"`
	TotalFrames   int          `json:"total_frames,omitempty"`
	ExpectedCount int          `json:"expected_count,omitempty"`
	Existing      int          `json:"existing"`
	Plan          planner.Plan `json:"plan"`
	Written       int          `json:"written"`
	Failed        int          `json:"failed"`
	Error         string       `json:"error,omitempty"`
}

// ExtractResult summarizes the extraction phase.
type ExtractResult struct {
	Videos        []VideoReport
	FramesWritten int
	FramesFailed  int
}

// Count returns the number of videos with the given status.
func (r ExtractResult) Count(status VideoStatus) int {
	n := 0
	for _, v := range r.Videos {
		if v.Status == status {
			n++
		}
	}
	return n
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	StartedAt time.Time
	Duration  time.Duration

	Extract ExtractResult

	Crop             *pipeline.CropResult // Nil when cropping was not requested
	RawFramesRemoved bool
}

// job is a planned video with its open decoder handle.
type job struct {
	report *VideoReport
	video  ports.VideoHandle
	vj     pipeline.VideoJob
	closed bool
}

func (j *job) close() {
	if !j.closed {
		j.video.Close()
		j.closed = true
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	opener       ports.VideoOpener
	store        framestore.IndexStore
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult]
	cropStage    pipeline.Stage[pipeline.CropInput, pipeline.CropResult]
	fs           ports.FileSystem
	progress     ports.ProgressFactory
	sink         ports.DebugSink
	logger       ports.Logger
}

// New creates a new Orchestrator. cropStage may be nil when cropping is never requested.
func New(
	opener ports.VideoOpener,
	store framestore.IndexStore,
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult],
	cropStage pipeline.Stage[pipeline.CropInput, pipeline.CropResult],
	fs ports.FileSystem,
	progress ports.ProgressFactory,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		opener:       opener,
		store:        store,
		extractStage: extractStage,
		cropStage:    cropStage,
		fs:           fs,
		progress:     progress,
		sink:         sink,
		logger:       logger,
	}
}

// Run extracts frames and, when configured, crops detections from them.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	result := RunResult{StartedAt: time.Now()}

	if !config.SkipExtract {
		extracted, err := o.Extract(ctx, config)
		result.Extract = extracted
		if err != nil {
			result.Duration = time.Since(result.StartedAt)
			return result, err
		}
	}

	if !config.Crop {
		result.Duration = time.Since(result.StartedAt)
		return result, nil
	}

	cropped, err := o.Crop(ctx, config)
	result.Crop = &cropped
	if err != nil {
		result.Duration = time.Since(result.StartedAt)
		return result, err
	}

	if !config.KeepRawFrames {
		o.removeRawFrames(config, &result)
	}

	result.Duration = time.Since(result.StartedAt)
	return result, nil
}

// removeRawFrames deletes the frames root unless some frame was not fully
// processed, in which case the frames stay for the next run.
func (o *Orchestrator) removeRawFrames(config Config, result *RunResult) {
	if n := result.Crop.LoadFailures + result.Crop.DetectErrors; n > 0 {
		o.logger.Warn("Keeping raw frames: %d images could not be cropped", n)
		return
	}
	if n := result.Extract.FramesFailed + result.Extract.Count(StatusFailed); n > 0 {
		o.logger.Warn("Keeping raw frames: extraction had %d failures", n)
		return
	}

	if err := o.fs.RemoveAll(config.FramesRoot()); err != nil {
		o.logger.Warn("Failed to remove raw frames: %s", err)
		return
	}
	result.RawFramesRemoved = true
	o.logger.Info("Raw frames removed from %s", config.FramesRoot())
}

// Plan reports what an extraction run would do without decoding any frame.
func (o *Orchestrator) Plan(ctx context.Context, config Config) ([]VideoReport, error) {
	jobs, reports, err := o.prepare(ctx, config)
	for _, j := range jobs {
		j.close()
	}
	return reports, err
}

// Extract writes every missing frame of every video in config.InputDir.
func (o *Orchestrator) Extract(ctx context.Context, config Config) (ExtractResult, error) {
	jobs, reports, err := o.prepare(ctx, config)
	defer func() {
		for _, j := range jobs {
			j.close()
		}
	}()

	result := ExtractResult{Videos: reports}
	if err != nil {
		return result, err
	}
	if len(reports) == 0 {
		return result, nil
	}

	total := 0
	for _, j := range jobs {
		total += len(j.vj.Targets())
	}

	o.logger.Info("Extracting %d videos (%d frames planned)", len(jobs), total)

	progress := o.progress.New("Extracting frames")
	progress.AddTotal(total)
	defer progress.Finish()

	stride := planner.NormalizeStride(config.Stride)

	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return o.tally(result), err
		}

		if err := o.fs.MkdirAll(j.vj.OutputDir); err != nil {
			o.fail(j.report, fmt.Errorf("create %s: %w", j.vj.OutputDir, err))
			continue
		}

		out, err := o.extractStage.Execute(ctx, pipeline.ExtractInput{
			Job:      j.vj,
			Video:    j.video,
			Stride:   stride,
			Format:   config.Format,
			Progress: progress,
		})
		j.report.Written = len(out.Written)
		j.report.Failed = len(out.Failed)
		j.close()

		if err != nil {
			if ctx.Err() != nil {
				j.report.Status = StatusFailed
				j.report.Error = ctx.Err().Error()
				return o.tally(result), ctx.Err()
			}
			o.fail(j.report, err)
			continue
		}

		j.report.Status = StatusExtracted
		if len(out.Failed) > 0 {
			o.logger.Warn("%s: %d frames could not be decoded and will be retried on the next run", j.report.Name, len(out.Failed))
		}
		o.logger.Debug("%s: wrote %d frames", j.report.Name, len(out.Written))
	}

	result = o.tally(result)
	o.logger.Info("Extraction finished: %d frames written, %d failed", result.FramesWritten, result.FramesFailed)
	return result, nil
}

// Crop runs the detection-crop stage over the frames root.
func (o *Orchestrator) Crop(ctx context.Context, config Config) (pipeline.CropResult, error) {
	if o.cropStage == nil {
		return pipeline.CropResult{}, ErrCropNotConfigured
	}

	o.logger.Info("Cropping detections of %q under %s", config.Detect.Prompt, config.FramesRoot())

	progress := o.progress.New("Cropping")
	defer progress.Finish()

	result, err := o.cropStage.Execute(ctx, pipeline.CropInput{
		FramesRoot: config.FramesRoot(),
		CropRoot:   config.CropRoot(),
		Format:     config.CropFormat,
		Detect:     config.Detect,
		Overwrite:  config.Overwrite,
		Progress:   progress,
	})
	if err != nil {
		return result, fmt.Errorf("crop stage: %w", err)
	}

	o.logger.Info("Cropping finished: %d cropped, %d without detection, %d skipped",
		len(result.Cropped), result.NoDetection, result.Degenerate+result.LoadFailures+result.DetectErrors)
	return result, nil
}

// prepare discovers videos, opens them and builds their plans.
// Returned jobs hold open handles that the caller must close.
func (o *Orchestrator) prepare(ctx context.Context, config Config) ([]*job, []VideoReport, error) {
	names, err := o.discoverVideos(config.InputDir)
	if err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		o.logger.Info("No videos found in %s", config.InputDir)
		return nil, nil, nil
	}

	o.logger.Info("Found %d videos in %s", len(names), config.InputDir)

	stride := planner.NormalizeStride(config.Stride)
	reports := make([]VideoReport, len(names))
	var jobs []*job

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return jobs, reports[:i], err
		}

		base := BaseName(name)
		report := &reports[i]
		*report = VideoReport{
			Name:      name,
			BaseName:  base,
			OutputDir: config.frameDir(base),
			Status:    StatusPlanned,
		}

		video, err := o.opener.Open(ctx, filepath.Join(config.InputDir, name))
		if err != nil {
			report.Status = StatusOpenFailed
			report.Error = err.Error()
			o.logger.Warn("Could not open %s: %s", name, err)
			continue
		}

		existing, err := o.store.Scan(report.OutputDir, base)
		if err != nil {
			video.Close()
			o.fail(report, fmt.Errorf("scan %s: %w", report.OutputDir, err))
			continue
		}

		vj := pipeline.VideoJob{
			BaseName:   base,
			SourcePath: filepath.Join(config.InputDir, name),
			OutputDir:  report.OutputDir,
			Existing:   existing,
		}
		vj.TotalFrames, vj.LengthKnown = video.FrameCount()
		if vj.LengthKnown {
			vj.ExpectedCount = planner.ExpectedCount(vj.TotalFrames, stride)
		}
		vj.Plan = planner.New(planner.Input{
			LengthKnown:   vj.LengthKnown,
			ExpectedCount: vj.ExpectedCount,
			Existing:      existing,
			Overwrite:     config.Overwrite,
		})

		report.LengthKnown = vj.LengthKnown
		report.TotalFrames = vj.TotalFrames
		report.ExpectedCount = vj.ExpectedCount
		report.Existing = existing.Len()
		report.Plan = vj.Plan

		o.savePlan(report)
		o.logPlan(report)

		if vj.Plan.Mode == planner.ModeComplete {
			report.Status = StatusComplete
			video.Close()
			continue
		}

		jobs = append(jobs, &job{report: report, video: video, vj: vj})
	}

	return jobs, reports, nil
}

func (o *Orchestrator) logPlan(r *VideoReport) {
	p := r.Plan
	if p.Truncated {
		o.logger.Warn("%s: %d expected frames exceed the filename index space; extra frames are not saved", r.Name, r.ExpectedCount)
	}
	switch {
	case p.Mode == planner.ModeComplete:
		o.logger.Info("%s: already complete (%d frames)", r.Name, r.Existing)
	case p.Mode == planner.ModeSequential && p.Resuming:
		o.logger.Info("%s: length unknown, resuming at frame index %d", r.Name, p.StartIndex)
	case p.Mode == planner.ModeSequential:
		o.logger.Info("%s: length unknown, extracting from the start", r.Name)
	case p.Resuming:
		o.logger.Info("%s: filling %d missing of %d frames", r.Name, len(p.Targets), r.ExpectedCount)
	default:
		o.logger.Info("%s: extracting %d frames", r.Name, len(p.Targets))
	}
}

func (o *Orchestrator) savePlan(r *VideoReport) {
	if !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return
	}
	if err := o.sink.SavePlanJSON(r.BaseName, data); err != nil {
		o.logger.Warn("Failed to save debug plan for %s: %s", r.Name, err)
	}
}

func (o *Orchestrator) fail(r *VideoReport, err error) {
	r.Status = StatusFailed
	r.Error = err.Error()
	o.logger.Error("%s: %s", r.Name, err)
}

func (o *Orchestrator) tally(result ExtractResult) ExtractResult {
	result.FramesWritten, result.FramesFailed = 0, 0
	for _, v := range result.Videos {
		result.FramesWritten += v.Written
		result.FramesFailed += v.Failed
	}
	return result
}
