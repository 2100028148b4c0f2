package extract

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/user/frameharvest/pkg/adapters/logger"
	"github.com/user/frameharvest/pkg/framestore"
	"github.com/user/frameharvest/pkg/mocks"
	"github.com/user/frameharvest/pkg/pipeline"
	"github.com/user/frameharvest/pkg/planner"
	"github.com/user/frameharvest/pkg/ports"
)

func newJob(plan planner.Plan) pipeline.VideoJob {
	return pipeline.VideoJob{
		BaseName:  "clip",
		OutputDir: "/out/frames/clip",
		Plan:      plan,
	}
}

func writtenFrameNumbers(w *mocks.ImageWriter) []int {
	var out []int
	for _, c := range w.Calls {
		out = append(out, mocks.FrameNumber(c.Image))
	}
	return out
}

func TestStage_TargetedWritesEachIndexAtStride(t *testing.T) {
	writer := mocks.NewImageWriter(nil)
	progress := &mocks.Progress{Total: 4}
	stage := NewStage(writer, logger.NewNoop())

	video := mocks.NewVideo(30)
	input := pipeline.ExtractInput{
		Progress: progress,
		Job:      newJob(planner.Plan{Mode: planner.ModeTargeted, Targets: []int{0, 3, 7, 9}}),
		Video:    video,
		Stride:   3,
		Format:   ports.FormatJPEG,
	}

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(result.Written, []int{0, 3, 7, 9}) {
		t.Errorf("expected written [0 3 7 9], got %v", result.Written)
	}
	if !reflect.DeepEqual(writtenFrameNumbers(writer), []int{0, 9, 21, 27}) {
		t.Errorf("expected source frames [0 9 21 27], got %v", writtenFrameNumbers(writer))
	}

	wantPaths := []string{
		filepath.Join("/out/frames/clip", "clip_frame_000000.jpg"),
		filepath.Join("/out/frames/clip", "clip_frame_000003.jpg"),
		filepath.Join("/out/frames/clip", "clip_frame_000007.jpg"),
		filepath.Join("/out/frames/clip", "clip_frame_000009.jpg"),
	}
	if !reflect.DeepEqual(writer.Paths(), wantPaths) {
		t.Errorf("unexpected paths: %v", writer.Paths())
	}
	if progress.Done != 4 {
		t.Errorf("expected 4 progress increments, got %d", progress.Done)
	}
}

func TestStage_TargetedDecodeFailureLeavesGap(t *testing.T) {
	writer := mocks.NewImageWriter(nil)
	progress := &mocks.Progress{Total: 3}
	stage := NewStage(writer, logger.NewNoop())

	video := mocks.NewVideo(10)
	video.FailFrames = map[int]bool{4: true}

	result, err := stage.Execute(context.Background(), pipeline.ExtractInput{
		Progress: progress,
		Job:      newJob(planner.Plan{Mode: planner.ModeTargeted, Targets: []int{3, 4, 5}}),
		Video:    video,
		Stride:   1,
		Format:   ports.FormatPNG,
	})
	if err != nil {
		t.Fatalf("decode failure must not be fatal: %v", err)
	}

	if !reflect.DeepEqual(result.Written, []int{3, 5}) {
		t.Errorf("expected written [3 5], got %v", result.Written)
	}
	if !reflect.DeepEqual(result.Failed, []int{4}) {
		t.Errorf("expected failed [4], got %v", result.Failed)
	}
	if progress.Done != 2 {
		t.Errorf("failed index must not advance progress; got %d", progress.Done)
	}
}

func TestStage_TargetedPastEndOfStreamIsSkipped(t *testing.T) {
	writer := mocks.NewImageWriter(nil)
	stage := NewStage(writer, logger.NewNoop())

	// The container claimed more frames than it can deliver.
	video := mocks.NewVideo(5)

	result, err := stage.Execute(context.Background(), pipeline.ExtractInput{
		Progress: &mocks.Progress{},
		Job:      newJob(planner.Plan{Mode: planner.ModeTargeted, Targets: []int{4, 5, 6}}),
		Video:    video,
		Stride:   1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Written, []int{4}) || !reflect.DeepEqual(result.Failed, []int{5, 6}) {
		t.Errorf("unexpected result: written=%v failed=%v", result.Written, result.Failed)
	}
}

func TestStage_SequentialResumesToEndOfStream(t *testing.T) {
	writer := mocks.NewImageWriter(nil)
	progress := &mocks.Progress{}
	stage := NewStage(writer, logger.NewNoop())

	video := mocks.NewUnknownLengthVideo(10)

	result, err := stage.Execute(context.Background(), pipeline.ExtractInput{
		Progress: progress,
		Job:      newJob(planner.Plan{Mode: planner.ModeSequential, StartIndex: 5, Resuming: true}),
		Video:    video,
		Stride:   1,
		Format:   ports.FormatJPEG,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(result.Written, []int{5, 6, 7, 8, 9}) {
		t.Errorf("expected written 5..9, got %v", result.Written)
	}
	if !reflect.DeepEqual(writtenFrameNumbers(writer), []int{5, 6, 7, 8, 9}) {
		t.Errorf("expected source frames 5..9, got %v", writtenFrameNumbers(writer))
	}
	if len(result.Failed) != 0 {
		t.Errorf("expected no failures, got %v", result.Failed)
	}
	if progress.Total != 5 || progress.Done != 5 {
		t.Errorf("expected progress 5/5, got %d/%d", progress.Done, progress.Total)
	}
	if !reflect.DeepEqual(video.Seeks, []int{5}) {
		t.Errorf("stride 1 should seek once, got %v", video.Seeks)
	}
}

func TestStage_SequentialWithStride(t *testing.T) {
	writer := mocks.NewImageWriter(nil)
	stage := NewStage(writer, logger.NewNoop())

	video := mocks.NewUnknownLengthVideo(10)

	result, err := stage.Execute(context.Background(), pipeline.ExtractInput{
		Progress: &mocks.Progress{},
		Job:      newJob(planner.Plan{Mode: planner.ModeSequential, StartIndex: 1}),
		Video:    video,
		Stride:   4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Index 1 -> frame 4, index 2 -> frame 8, index 3 -> frame 12 (past end).
	if !reflect.DeepEqual(result.Written, []int{1, 2}) {
		t.Errorf("expected written [1 2], got %v", result.Written)
	}
	if !reflect.DeepEqual(writtenFrameNumbers(writer), []int{4, 8}) {
		t.Errorf("expected source frames [4 8], got %v", writtenFrameNumbers(writer))
	}
}

func TestStage_SequentialStopsOnReadError(t *testing.T) {
	writer := mocks.NewImageWriter(nil)
	stage := NewStage(writer, logger.NewNoop())

	video := mocks.NewUnknownLengthVideo(10)
	video.FailFrames = map[int]bool{2: true}

	result, err := stage.Execute(context.Background(), pipeline.ExtractInput{
		Progress: &mocks.Progress{},
		Job:      newJob(planner.Plan{Mode: planner.ModeSequential}),
		Video:    video,
		Stride:   1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Written, []int{0, 1}) || !reflect.DeepEqual(result.Failed, []int{2}) {
		t.Errorf("unexpected result: written=%v failed=%v", result.Written, result.Failed)
	}
}

func TestStage_CompleteDoesNothing(t *testing.T) {
	writer := mocks.NewImageWriter(nil)
	stage := NewStage(writer, logger.NewNoop())
	video := mocks.NewVideo(10)

	result, err := stage.Execute(context.Background(), pipeline.ExtractInput{
		Progress: &mocks.Progress{},
		Job:      newJob(planner.Plan{Mode: planner.ModeComplete}),
		Video:    video,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Written) != 0 || video.Reads != 0 {
		t.Errorf("complete plan must not decode or write")
	}
}

func TestStage_WriteErrorIsReturned(t *testing.T) {
	writeErr := errors.New("disk full")
	writer := mocks.NewImageWriter(nil)
	writer.WriteFunc = func(_ image.Image, _ string, _ ports.ImageFormat) error { return writeErr }
	stage := NewStage(writer, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ExtractInput{
		Progress: &mocks.Progress{},
		Job:      newJob(planner.Plan{Mode: planner.ModeTargeted, Targets: []int{0}}),
		Video:    mocks.NewVideo(1),
		Stride:   1,
	})
	if !errors.Is(err, writeErr) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}

func TestStage_CancelledContext(t *testing.T) {
	writer := mocks.NewImageWriter(nil)
	stage := NewStage(writer, logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stage.Execute(ctx, pipeline.ExtractInput{
		Progress: &mocks.Progress{},
		Job:      newJob(planner.Plan{Mode: planner.ModeTargeted, Targets: []int{0, 1}}),
		Video:    mocks.NewVideo(2),
		Stride:   1,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(writer.Calls) != 0 {
		t.Errorf("expected no writes after cancellation")
	}
}

func TestStage_FilenamesMatchScannerPattern(t *testing.T) {
	fs := mocks.NewFileSystem()
	writer := mocks.NewImageWriter(fs)
	stage := NewStage(writer, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ExtractInput{
		Progress: &mocks.Progress{},
		Job:      newJob(planner.Plan{Mode: planner.ModeSequential}),
		Video:    mocks.NewUnknownLengthVideo(3),
		Stride:   1,
		Format:   ports.FormatPNG,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := framestore.NewScanner(fs).Scan("/out/frames/clip", "clip")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Sorted(), []int{0, 1, 2}) {
		t.Errorf("scanner should recover [0 1 2], got %v", got.Sorted())
	}
}
