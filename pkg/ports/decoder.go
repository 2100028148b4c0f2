// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"errors"
	"image"
)

// ErrCannotOpenVideo is returned by VideoOpener implementations when a video
// cannot be opened or probed. Callers skip the video and continue the run.
var ErrCannotOpenVideo = errors.New("cannot open video")

// VideoOpener opens video files for frame-by-frame decoding.
type VideoOpener interface {
	// Open prepares a decoding handle for the video at path.
	// Errors wrap ErrCannotOpenVideo.
	Open(ctx context.Context, path string) (VideoHandle, error)
}

// VideoHandle is a single decoder session over one video.
// A handle is not safe for concurrent use; seeks and reads must be serialized.
type VideoHandle interface {
	// FrameCount returns the total number of decodable frames.
	// The second result is false when the container does not report it.
	FrameCount() (int, bool)

	// Seek positions the decoder so the next ReadNext returns frame number n.
	// Accuracy depends on the codec and may drift by a few frames.
	Seek(n int) error

	// ReadNext decodes the frame at the current position and advances by one.
	// It returns io.EOF once the stream is exhausted.
	ReadNext() (image.Image, error)

	// Close releases decoder resources.
	Close() error
}
