// Package extract implements the frame writer stage.
package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/user/frameharvest/pkg/framestore"
	"github.com/user/frameharvest/pkg/pipeline"
	"github.com/user/frameharvest/pkg/planner"
	"github.com/user/frameharvest/pkg/ports"
)

// ErrDecodeFailure marks a frame that could not be decoded at its position.
// The index is left missing so the next run retries it.
var ErrDecodeFailure = errors.New("extract: decode failure")

// Stage writes planned frames of one video to disk.
type Stage struct {
	writer ports.ImageWriter
	logger ports.Logger
}

// NewStage creates a new extract stage.
func NewStage(writer ports.ImageWriter, logger ports.Logger) *Stage {
	return &Stage{
		writer: writer,
		logger: logger.WithComponent("extract"),
	}
}

// Execute produces the frames named by the job's plan.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	stride := planner.NormalizeStride(input.Stride)

	switch input.Job.Plan.Mode {
	case planner.ModeComplete:
		return pipeline.ExtractResult{}, nil
	case planner.ModeTargeted:
		return s.executeTargeted(ctx, input, stride)
	case planner.ModeSequential:
		return s.executeSequential(ctx, input, stride)
	default:
		return pipeline.ExtractResult{}, fmt.Errorf("unknown plan mode %q", input.Job.Plan.Mode)
	}
}

// executeTargeted seeks to each target's source frame and writes it.
func (s *Stage) executeTargeted(ctx context.Context, input pipeline.ExtractInput, stride int) (pipeline.ExtractResult, error) {
	result := pipeline.ExtractResult{}
	job := input.Job

	s.logger.Debug("Writing %d targeted frames for %s (stride %d)", len(job.Plan.Targets), job.BaseName, stride)

	for _, idx := range job.Plan.Targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		img, err := s.readAt(input.Video, idx*stride)
		if err != nil {
			s.logger.Warn("Skipping frame %d of %s: %s", idx, job.BaseName, err)
			result.Failed = append(result.Failed, idx)
			continue
		}

		if err := s.write(job, idx, input.Format, img); err != nil {
			return result, err
		}
		result.Written = append(result.Written, idx)
		input.Progress.Increment()
	}

	return result, nil
}

// executeSequential reads from the plan's start index until end of stream,
// growing the shared progress total as frames are discovered.
func (s *Stage) executeSequential(ctx context.Context, input pipeline.ExtractInput, stride int) (pipeline.ExtractResult, error) {
	result := pipeline.ExtractResult{}
	job := input.Job
	idx := job.Plan.StartIndex

	s.logger.Debug("Reading %s sequentially from index %d (stride %d)", job.BaseName, idx, stride)

	if err := input.Video.Seek(idx * stride); err != nil {
		return result, fmt.Errorf("%w: seek to frame %d: %v", ErrDecodeFailure, idx*stride, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if idx > framestore.MaxIndex {
			s.logger.Warn("Stopping %s at index %d: filename index space exhausted", job.BaseName, idx)
			break
		}

		img, err := input.Video.ReadNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Warn("Stopping %s at frame %d: %s", job.BaseName, idx, err)
			result.Failed = append(result.Failed, idx)
			break
		}

		input.Progress.AddTotal(1)
		if err := s.write(job, idx, input.Format, img); err != nil {
			return result, err
		}
		result.Written = append(result.Written, idx)
		input.Progress.Increment()
		idx++

		if stride > 1 {
			if err := input.Video.Seek(idx * stride); err != nil {
				s.logger.Warn("Stopping %s: seek to frame %d failed: %s", job.BaseName, idx*stride, err)
				break
			}
		}
	}

	return result, nil
}

// readAt decodes the single frame at frameNumber.
// End of stream at a targeted position counts as a decode failure.
func (s *Stage) readAt(video ports.VideoHandle, frameNumber int) (image.Image, error) {
	if err := video.Seek(frameNumber); err != nil {
		return nil, fmt.Errorf("%w: seek to frame %d: %v", ErrDecodeFailure, frameNumber, err)
	}
	img, err := video.ReadNext()
	if err != nil {
		return nil, fmt.Errorf("%w: read frame %d: %v", ErrDecodeFailure, frameNumber, err)
	}
	return img, nil
}

func (s *Stage) write(job pipeline.VideoJob, idx int, format ports.ImageFormat, img image.Image) error {
	path := filepath.Join(job.OutputDir, framestore.FileName(job.BaseName, idx, format))
	if err := s.writer.Write(img, path, format); err != nil {
		return fmt.Errorf("write frame %d of %s: %w", idx, job.BaseName, err)
	}
	return nil
}
