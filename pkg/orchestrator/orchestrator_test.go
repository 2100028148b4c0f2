package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/user/frameharvest/pkg/adapters/logger"
	"github.com/user/frameharvest/pkg/framestore"
	"github.com/user/frameharvest/pkg/mocks"
	"github.com/user/frameharvest/pkg/pipeline"
	"github.com/user/frameharvest/pkg/planner"
	"github.com/user/frameharvest/pkg/ports"
	"github.com/user/frameharvest/pkg/stages/extract"
)

// mockCropStage is a mock for the crop stage.
type mockCropStage struct {
	result pipeline.CropResult
	err    error
	inputs []pipeline.CropInput
}

func (m *mockCropStage) Execute(ctx context.Context, input pipeline.CropInput) (pipeline.CropResult, error) {
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return pipeline.CropResult{}, m.err
	}
	return m.result, nil
}

type fixture struct {
	fs       *mocks.FileSystem
	writer   *mocks.ImageWriter
	opener   *mocks.VideoOpener
	crop     *mockCropStage
	progress *mocks.ProgressFactory
	sink     *mocks.DebugSink
	orch     *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fs:       mocks.NewFileSystem(),
		opener:   mocks.NewVideoOpener(map[string]*mocks.Video{}),
		crop:     &mockCropStage{},
		progress: mocks.NewProgressFactory(),
		sink:     mocks.NewDebugSink(false),
	}
	f.writer = mocks.NewImageWriter(f.fs)
	f.orch = New(
		f.opener,
		framestore.NewScanner(f.fs),
		extract.NewStage(f.writer, logger.NewNoop()),
		f.crop,
		f.fs,
		f.progress,
		f.sink,
		logger.NewNoop(),
	)
	return f
}

// addVideo registers a video file in the input directory and its fake decoder.
func (f *fixture) addVideo(t *testing.T, name string, video *mocks.Video) {
	t.Helper()
	path := filepath.Join("in", name)
	if err := f.fs.WriteFile(path, []byte("video")); err != nil {
		t.Fatal(err)
	}
	f.opener.Videos[path] = video
}

// addFrames writes existing frame files for base into dir.
func (f *fixture) addFrames(t *testing.T, dir, base string, indices ...int) {
	t.Helper()
	for _, i := range indices {
		if err := f.fs.WriteFile(filepath.Join(dir, framestore.FileName(base, i, ports.FormatJPEG)), []byte("jpeg")); err != nil {
			t.Fatal(err)
		}
	}
}

func testConfig() Config {
	config := DefaultConfig()
	config.InputDir = "in"
	config.OutputDir = "out"
	return config
}

func frameNames(base string, indices ...int) []string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = framestore.FileName(base, idx, ports.FormatJPEG)
	}
	return names
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Format != ports.FormatJPEG {
		t.Errorf("Format = %v, want JPEG", config.Format)
	}
	if config.Stride != 1 {
		t.Errorf("Stride = %d, want 1", config.Stride)
	}
	if !config.PerVideoFolders {
		t.Error("PerVideoFolders should default to true")
	}
	if !config.KeepRawFrames {
		t.Error("KeepRawFrames should default to true")
	}
	if config.Detect.Prompt != "orange" || config.Detect.BoxThreshold != 0.35 || config.Detect.TextThreshold != 0.25 || config.Detect.Device != "cpu" {
		t.Errorf("Detect = %+v", config.Detect)
	}
}

func TestConfig_Roots(t *testing.T) {
	config := testConfig()

	if got := config.FramesRoot(); got != filepath.Join("out", "frames") {
		t.Errorf("FramesRoot() = %q", got)
	}
	if got := config.CropRoot(); got != filepath.Join("out", "cropped") {
		t.Errorf("CropRoot() = %q", got)
	}
	if got := config.frameDir("clip"); got != filepath.Join("out", "frames", "clip") {
		t.Errorf("frameDir() = %q", got)
	}

	config.PerVideoFolders = false
	if got := config.frameDir("clip"); got != filepath.Join("out", "frames") {
		t.Errorf("frameDir() without per-video folders = %q", got)
	}
}

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"clip.mp4", true},
		{"CLIP.MOV", true},
		{"a.b.mkv", true},
		{"old.mpg", true},
		{"notes.txt", false},
		{"frame.jpg", false},
		{"mp4", false},
	}

	for _, tt := range tests {
		if got := IsVideoFile(tt.name); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExtract_ResumesInterruptedRun(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(30))

	dir := filepath.Join("out", "frames", "clip")
	f.addFrames(t, dir, "clip", 0, 1, 2, 3, 4, 5)

	config := testConfig()
	config.Stride = 3

	result, err := f.orch.Extract(context.Background(), config)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(result.Videos) != 1 {
		t.Fatalf("Videos = %d, want 1", len(result.Videos))
	}
	report := result.Videos[0]
	if report.Status != StatusExtracted {
		t.Errorf("Status = %s, want %s", report.Status, StatusExtracted)
	}
	if report.ExpectedCount != 10 || report.Existing != 6 {
		t.Errorf("ExpectedCount = %d, Existing = %d; want 10, 6", report.ExpectedCount, report.Existing)
	}
	if !reflect.DeepEqual(report.Plan.Targets, []int{6, 7, 8, 9}) || !report.Plan.Resuming {
		t.Errorf("Plan = %+v", report.Plan)
	}
	if result.FramesWritten != 4 {
		t.Errorf("FramesWritten = %d, want 4", result.FramesWritten)
	}

	var frames []int
	for _, c := range f.writer.Calls {
		frames = append(frames, mocks.FrameNumber(c.Image))
	}
	if want := []int{18, 21, 24, 27}; !reflect.DeepEqual(frames, want) {
		t.Errorf("source frames = %v, want %v", frames, want)
	}

	if got, want := f.fs.FilesUnder(dir), frameNames("clip", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9); !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}

	bar := f.progress.Bars["Extracting frames"]
	if bar == nil || bar.Total != 4 || bar.Done != 4 || !bar.Finished {
		t.Errorf("progress = %+v, want 4/4 finished", bar)
	}
}

func TestExtract_SecondRunIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(12))

	config := testConfig()
	config.Stride = 2

	if _, err := f.orch.Extract(context.Background(), config); err != nil {
		t.Fatalf("first Extract() error = %v", err)
	}
	if len(f.writer.Calls) != 6 {
		t.Fatalf("first run wrote %d frames, want 6", len(f.writer.Calls))
	}

	result, err := f.orch.Extract(context.Background(), config)
	if err != nil {
		t.Fatalf("second Extract() error = %v", err)
	}
	if len(f.writer.Calls) != 6 {
		t.Errorf("second run wrote %d more frames", len(f.writer.Calls)-6)
	}
	if result.Videos[0].Status != StatusComplete {
		t.Errorf("Status = %s, want %s", result.Videos[0].Status, StatusComplete)
	}
	if !f.opener.Videos[filepath.Join("in", "clip.mp4")].Closed {
		t.Error("complete video should be closed")
	}
}

func TestExtract_FillsGaps(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(8))

	dir := filepath.Join("out", "frames", "clip")
	f.addFrames(t, dir, "clip", 0, 1, 3, 6, 7)

	result, err := f.orch.Extract(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got := result.Videos[0].Plan.Targets; !reflect.DeepEqual(got, []int{2, 4, 5}) {
		t.Errorf("Targets = %v, want [2 4 5]", got)
	}
	if got := len(f.fs.FilesUnder(dir)); got != 8 {
		t.Errorf("files = %d, want 8", got)
	}
}

func TestExtract_OverwriteRewritesEverything(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(4))
	f.addFrames(t, filepath.Join("out", "frames", "clip"), "clip", 0, 1, 2, 3)

	config := testConfig()
	config.Overwrite = true

	result, err := f.orch.Extract(context.Background(), config)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.FramesWritten != 4 {
		t.Errorf("FramesWritten = %d, want 4", result.FramesWritten)
	}
}

func TestExtract_UnknownLengthResumesAfterHighestIndex(t *testing.T) {
	f := newFixture(t)
	video := mocks.NewUnknownLengthVideo(10)
	f.addVideo(t, "clip.avi", video)

	dir := filepath.Join("out", "frames", "clip")
	f.addFrames(t, dir, "clip", 0, 1, 2, 3, 4)

	result, err := f.orch.Extract(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	report := result.Videos[0]
	if report.LengthKnown {
		t.Error("LengthKnown should be false")
	}
	if report.Plan.Mode != planner.ModeSequential || report.Plan.StartIndex != 5 {
		t.Errorf("Plan = %+v, want sequential from 5", report.Plan)
	}
	if report.Written != 5 {
		t.Errorf("Written = %d, want 5", report.Written)
	}
	if len(video.Seeks) == 0 || video.Seeks[0] != 5 {
		t.Errorf("Seeks = %v, want first seek to 5", video.Seeks)
	}

	bar := f.progress.Bars["Extracting frames"]
	if bar.Total != 5 || bar.Done != 5 {
		t.Errorf("progress = %d/%d, want 5/5", bar.Done, bar.Total)
	}
}

func TestExtract_UnknownLengthOverwriteRestartsAtZero(t *testing.T) {
	f := newFixture(t)
	video := mocks.NewUnknownLengthVideo(5)
	f.addVideo(t, "clip.avi", video)

	dir := filepath.Join("out", "frames", "clip")
	f.addFrames(t, dir, "clip", 0, 1, 2, 3)

	config := testConfig()
	config.Overwrite = true

	result, err := f.orch.Extract(context.Background(), config)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	report := result.Videos[0]
	if report.Plan.Mode != planner.ModeSequential || report.Plan.StartIndex != 0 || report.Plan.Resuming {
		t.Errorf("Plan = %+v, want sequential from 0", report.Plan)
	}
	if len(video.Seeks) == 0 || video.Seeks[0] != 0 {
		t.Errorf("Seeks = %v, want first seek to 0", video.Seeks)
	}
	if report.Written != 5 {
		t.Errorf("Written = %d, want 5", report.Written)
	}

	var want []string
	for _, name := range frameNames("clip", 0, 1, 2, 3, 4) {
		want = append(want, filepath.Join(dir, name))
	}
	if got := f.writer.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("written = %v, want %v", got, want)
	}
	if got := f.fs.FilesUnder(dir); !reflect.DeepEqual(got, frameNames("clip", 0, 1, 2, 3, 4)) {
		t.Errorf("files = %v", got)
	}
	for i, c := range f.writer.Calls {
		if n := mocks.FrameNumber(c.Image); n != i {
			t.Errorf("index %d written from source frame %d", i, n)
		}
	}
}

func TestExtract_OpenFailureSkipsVideo(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "good.mp4", mocks.NewVideo(3))
	if err := f.fs.WriteFile(filepath.Join("in", "broken.mov"), []byte("junk")); err != nil {
		t.Fatal(err)
	}

	result, err := f.orch.Extract(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(result.Videos) != 2 {
		t.Fatalf("Videos = %d, want 2", len(result.Videos))
	}
	// Sorted by name.
	if result.Videos[0].Name != "broken.mov" || result.Videos[0].Status != StatusOpenFailed {
		t.Errorf("Videos[0] = %+v", result.Videos[0])
	}
	if result.Videos[1].Status != StatusExtracted || result.Videos[1].Written != 3 {
		t.Errorf("Videos[1] = %+v", result.Videos[1])
	}
	if result.Count(StatusOpenFailed) != 1 {
		t.Errorf("Count(open_failed) = %d, want 1", result.Count(StatusOpenFailed))
	}
}

func TestExtract_IgnoresNonVideoFiles(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.MP4", mocks.NewVideo(2))
	if err := f.fs.WriteFile(filepath.Join("in", "readme.txt"), []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := f.fs.MkdirAll(filepath.Join("in", "nested.mp4")); err != nil {
		t.Fatal(err)
	}

	result, err := f.orch.Extract(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(result.Videos) != 1 || result.Videos[0].BaseName != "clip" {
		t.Errorf("Videos = %+v", result.Videos)
	}
}

func TestExtract_NoVideos(t *testing.T) {
	f := newFixture(t)
	if err := f.fs.MkdirAll("in"); err != nil {
		t.Fatal(err)
	}

	result, err := f.orch.Extract(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(result.Videos) != 0 || len(f.writer.Calls) != 0 {
		t.Errorf("expected nothing to happen, got %+v", result)
	}
}

func TestExtract_MissingInputDir(t *testing.T) {
	f := newFixture(t)

	if _, err := f.orch.Extract(context.Background(), testConfig()); err == nil {
		t.Error("expected error for missing input directory")
	}
}

func TestExtract_FlatLayout(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "a.mp4", mocks.NewVideo(2))
	f.addVideo(t, "b.mp4", mocks.NewVideo(2))

	config := testConfig()
	config.PerVideoFolders = false

	if _, err := f.orch.Extract(context.Background(), config); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := append(frameNames("a", 0, 1), frameNames("b", 0, 1)...)
	if got := f.fs.FilesUnder(filepath.Join("out", "frames")); !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.orch.Extract(ctx, testConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("Extract() error = %v, want context.Canceled", err)
	}
	if len(f.writer.Calls) != 0 {
		t.Errorf("wrote %d frames after cancellation", len(f.writer.Calls))
	}
}

func TestPlan_DoesNotWrite(t *testing.T) {
	f := newFixture(t)
	video := mocks.NewVideo(10)
	f.addVideo(t, "clip.mp4", video)
	f.sink = mocks.NewDebugSink(true)
	f.orch.sink = f.sink

	reports, err := f.orch.Plan(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(reports) != 1 || len(reports[0].Plan.Targets) != 10 {
		t.Fatalf("reports = %+v", reports)
	}
	if len(f.writer.Calls) != 0 {
		t.Errorf("Plan wrote %d frames", len(f.writer.Calls))
	}
	if !video.Closed {
		t.Error("video should be closed after planning")
	}

	var saved VideoReport
	if err := json.Unmarshal(f.sink.Plans["clip"], &saved); err != nil {
		t.Fatalf("saved plan is not JSON: %v", err)
	}
	if saved.Plan.Mode != planner.ModeTargeted {
		t.Errorf("saved plan mode = %s", saved.Plan.Mode)
	}
}

func TestRun_CropsAfterExtraction(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(2))
	f.crop.result = pipeline.CropResult{NoDetection: 2}

	config := testConfig()
	config.Crop = true
	config.CropFormat = ports.FormatPNG

	result, err := f.orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Crop == nil || result.Crop.NoDetection != 2 {
		t.Errorf("Crop = %+v", result.Crop)
	}
	if len(f.crop.inputs) != 1 {
		t.Fatalf("crop stage called %d times", len(f.crop.inputs))
	}
	in := f.crop.inputs[0]
	if in.FramesRoot != config.FramesRoot() || in.CropRoot != config.CropRoot() || in.Format != ports.FormatPNG {
		t.Errorf("crop input = %+v", in)
	}
	if result.RawFramesRemoved {
		t.Error("raw frames should be kept by default")
	}
	if len(f.fs.FilesUnder(filepath.Join("out", "frames", "clip"))) != 2 {
		t.Error("raw frames missing")
	}
}

func TestRun_RemovesRawFramesWhenRequested(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(2))

	config := testConfig()
	config.Crop = true
	config.KeepRawFrames = false

	result, err := f.orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.RawFramesRemoved {
		t.Error("RawFramesRemoved should be true")
	}
	if ok, _ := f.fs.Exists(config.FramesRoot()); ok {
		t.Error("frames root should be removed")
	}
}

func TestRun_CropErrorKeepsRawFrames(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(2))
	f.crop.err = errors.New("detector down")

	config := testConfig()
	config.Crop = true
	config.KeepRawFrames = false

	result, err := f.orch.Run(context.Background(), config)
	if err == nil {
		t.Fatal("expected crop error")
	}
	if result.RawFramesRemoved {
		t.Error("raw frames must not be removed after a failed crop")
	}
	if ok, _ := f.fs.Exists(config.FramesRoot()); !ok {
		t.Error("frames root should still exist")
	}
}

func TestRun_PartialCropKeepsRawFrames(t *testing.T) {
	tests := []struct {
		name   string
		result pipeline.CropResult
	}{
		{"detector errors", pipeline.CropResult{DetectErrors: 2}},
		{"load failures", pipeline.CropResult{NoDetection: 1, LoadFailures: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addVideo(t, "clip.mp4", mocks.NewVideo(2))
			f.crop.result = tt.result

			config := testConfig()
			config.Crop = true
			config.KeepRawFrames = false

			result, err := f.orch.Run(context.Background(), config)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if result.RawFramesRemoved {
				t.Error("raw frames must not be removed when some images were not cropped")
			}
			if got := f.fs.FilesUnder(filepath.Join("out", "frames", "clip")); len(got) != 2 {
				t.Errorf("raw frames = %v, want 2 files", got)
			}
		})
	}
}

func TestRun_FailedFramesKeepRawFrames(t *testing.T) {
	f := newFixture(t)
	video := mocks.NewVideo(3)
	video.FailFrames = map[int]bool{1: true}
	f.addVideo(t, "clip.mp4", video)

	config := testConfig()
	config.Crop = true
	config.KeepRawFrames = false

	result, err := f.orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Extract.FramesFailed != 1 {
		t.Errorf("FramesFailed = %d, want 1", result.Extract.FramesFailed)
	}
	if result.RawFramesRemoved {
		t.Error("raw frames must not be removed while frames are missing")
	}
	if ok, _ := f.fs.Exists(config.FramesRoot()); !ok {
		t.Error("frames root should still exist")
	}
}

func TestRun_WithoutCrop(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(2))

	result, err := f.orch.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Crop != nil || len(f.crop.inputs) != 0 {
		t.Error("crop stage should not run")
	}
	if result.Extract.FramesWritten != 2 {
		t.Errorf("FramesWritten = %d, want 2", result.Extract.FramesWritten)
	}
}

func TestCrop_NotConfigured(t *testing.T) {
	f := newFixture(t)
	f.orch.cropStage = nil

	if _, err := f.orch.Crop(context.Background(), testConfig()); !errors.Is(err, ErrCropNotConfigured) {
		t.Errorf("Crop() error = %v, want ErrCropNotConfigured", err)
	}
}

func TestRun_SkipExtractOnlyCrops(t *testing.T) {
	f := newFixture(t)
	f.addVideo(t, "clip.mp4", mocks.NewVideo(2))

	config := testConfig()
	config.Crop = true
	config.SkipExtract = true

	result, err := f.orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(f.opener.Opened) != 0 || len(f.writer.Calls) != 0 {
		t.Error("extraction should be skipped")
	}
	if len(result.Extract.Videos) != 0 {
		t.Errorf("Extract = %+v", result.Extract)
	}
	if len(f.crop.inputs) != 1 {
		t.Errorf("crop stage called %d times, want 1", len(f.crop.inputs))
	}
}
