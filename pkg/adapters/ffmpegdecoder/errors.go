package ffmpegdecoder

import "errors"

var (
	// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
	ErrFFmpegNotFound = errors.New("ffmpegdecoder: ffmpeg not found")

	// ErrNoVideoStream is returned when ffprobe reports no video stream.
	ErrNoVideoStream = errors.New("ffmpegdecoder: no video stream")

	// ErrDecode is returned when ffmpeg exits with an error while streaming frames.
	ErrDecode = errors.New("ffmpegdecoder: decode failed")

	// ErrClosed is returned by handle methods after Close.
	ErrClosed = errors.New("ffmpegdecoder: handle closed")
)
