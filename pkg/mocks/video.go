package mocks

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/user/frameharvest/pkg/ports"
)

// ErrMockDecode is returned by Video.ReadNext for frames listed in FailFrames.
var ErrMockDecode = errors.New("mock: decode failed")

// Video is a fake ports.VideoHandle over Frames synthetic frames.
// Each decoded image encodes its source frame number; see FrameNumber.
type Video struct {
	Frames      int          // Frames actually present in the stream
	ReportCount bool         // Whether FrameCount reports Frames
	FailFrames  map[int]bool // Frame numbers whose decode fails

	Seeks  []int // Recorded Seek arguments
	Reads  int   // Number of ReadNext calls
	Closed bool

	pos int
}

// NewVideo creates a fake video with a known frame count.
func NewVideo(frames int) *Video {
	return &Video{Frames: frames, ReportCount: true}
}

// NewUnknownLengthVideo creates a fake video whose frame count is not reported.
func NewUnknownLengthVideo(frames int) *Video {
	return &Video{Frames: frames}
}

func (v *Video) FrameCount() (int, bool) {
	if !v.ReportCount {
		return 0, false
	}
	return v.Frames, true
}

func (v *Video) Seek(n int) error {
	if n < 0 {
		return fmt.Errorf("mock: negative seek %d", n)
	}
	v.Seeks = append(v.Seeks, n)
	v.pos = n
	return nil
}

func (v *Video) ReadNext() (image.Image, error) {
	v.Reads++
	if v.pos >= v.Frames {
		return nil, io.EOF
	}
	n := v.pos
	v.pos++
	if v.FailFrames[n] {
		return nil, ErrMockDecode
	}
	img := image.NewGray16(image.Rect(0, 0, 2, 2))
	img.SetGray16(0, 0, color.Gray16{Y: uint16(n)})
	return img, nil
}

func (v *Video) Close() error {
	v.Closed = true
	return nil
}

// FrameNumber recovers the source frame number from an image produced by Video.
func FrameNumber(img image.Image) int {
	g, ok := img.(*image.Gray16)
	if !ok {
		return -1
	}
	return int(g.Gray16At(0, 0).Y)
}

// VideoOpener is a fake ports.VideoOpener keyed by path.
type VideoOpener struct {
	Videos map[string]*Video
	Opened []string
}

// NewVideoOpener creates an opener serving the given videos.
func NewVideoOpener(videos map[string]*Video) *VideoOpener {
	return &VideoOpener{Videos: videos}
}

func (o *VideoOpener) Open(ctx context.Context, path string) (ports.VideoHandle, error) {
	o.Opened = append(o.Opened, path)
	v, ok := o.Videos[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrCannotOpenVideo, path)
	}
	v.pos = 0
	v.Closed = false
	return v, nil
}

var (
	_ ports.VideoHandle = (*Video)(nil)
	_ ports.VideoOpener = (*VideoOpener)(nil)
)
