// Package ffmpegdecoder decodes video frames by piping raw RGB out of an ffmpeg process.
package ffmpegdecoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/user/frameharvest/pkg/adapters/mp4probe"
	"github.com/user/frameharvest/pkg/ports"
)

// Options configures the decoder.
type Options struct {
	// FFmpegPath overrides ffmpeg discovery.
	FFmpegPath string
}

// Opener implements ports.VideoOpener with ffmpeg and ffprobe.
type Opener struct {
	opts   Options
	logger ports.Logger

	probe func(path string) (streamInfo, error)
}

// New creates a new Opener.
func New(opts Options, logger ports.Logger) *Opener {
	return &Opener{
		opts:   opts,
		logger: logger.WithComponent("decoder"),
		probe:  probeStream,
	}
}

// Available reports whether ffmpeg can be found with the configured options.
func (o *Opener) Available() error {
	_, err := FindFFmpeg(o.opts.FFmpegPath)
	return err
}

// Open probes path and returns a handle positioned at frame 0.
// Any failure is wrapped with ports.ErrCannotOpenVideo.
func (o *Opener) Open(ctx context.Context, path string) (ports.VideoHandle, error) {
	ffmpegPath, err := FindFFmpeg(o.opts.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrCannotOpenVideo, err)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrCannotOpenVideo, err)
	}

	info, err := o.probe(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ports.ErrCannotOpenVideo, path, err)
	}

	// Containers without nb_frames can still be counted from the sample tables.
	if !info.FramesKnown && mp4probe.Supports(path) {
		if mi, err := mp4probe.ProbeFile(path); err == nil && mi.Frames > 0 {
			info.Frames = mi.Frames
			info.FramesKnown = true
		} else if err != nil {
			o.logger.Debug("Sample table probe failed for %s: %s", path, err)
		}
	}

	o.logger.Debug("Opened %s: %dx%d, frames known=%t (%d)", path, info.Width, info.Height, info.FramesKnown, info.Frames)

	return &Handle{
		ctx:        ctx,
		ffmpegPath: ffmpegPath,
		path:       path,
		info:       info,
		logger:     o.logger,
	}, nil
}

var _ ports.VideoOpener = (*Opener)(nil)

// Handle is one video's decoding session.
// Forward seeks discard frames from the running process; backward seeks restart it.
type Handle struct {
	ctx        context.Context
	ffmpegPath string
	path       string
	info       streamInfo
	logger     ports.Logger

	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader
	stderr bytes.Buffer

	pos       int // Frame number the pipe delivers next
	startedAt int
	delivered int
	eof       bool
	exited    bool
	closed    bool
}

// FrameCount returns the frame count when the container reports it.
func (h *Handle) FrameCount() (int, bool) {
	return h.info.Frames, h.info.FramesKnown
}

// Seek positions the handle so the next ReadNext returns frame n.
func (h *Handle) Seek(n int) error {
	if h.closed {
		return ErrClosed
	}
	if n < 0 {
		return fmt.Errorf("ffmpegdecoder: negative frame %d", n)
	}

	if h.cmd == nil || n < h.pos {
		return h.start(n)
	}
	if n == h.pos || h.eof {
		h.pos = n
		return nil
	}

	skip := int64(n-h.pos) * int64(h.frameSize())
	if _, err := io.CopyN(io.Discard, h.reader, skip); err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("ffmpegdecoder: skip to frame %d: %w", n, err)
		}
		h.eof = true
	}
	h.pos = n
	return nil
}

// ReadNext decodes the frame at the current position.
func (h *Handle) ReadNext() (image.Image, error) {
	if h.closed {
		return nil, ErrClosed
	}
	if h.cmd == nil {
		if err := h.start(h.pos); err != nil {
			return nil, err
		}
	}
	if h.eof {
		return nil, io.EOF
	}

	buf := make([]byte, h.frameSize())
	if _, err := io.ReadFull(h.reader, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			h.eof = true
			return nil, h.endOfStream()
		}
		return nil, fmt.Errorf("ffmpegdecoder: read frame %d: %w", h.pos, err)
	}

	h.pos++
	h.delivered++
	return rgbToImage(buf, h.info.Width, h.info.Height), nil
}

// Close stops the ffmpeg process.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.stop()
	return nil
}

// start launches ffmpeg delivering frames from n onwards.
func (h *Handle) start(n int) error {
	h.stop()

	cmd := exec.CommandContext(h.ctx, h.ffmpegPath, buildArgs(h.path, n)...)
	h.stderr.Reset()
	cmd.Stderr = &h.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpegdecoder: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpegdecoder: start ffmpeg: %w", err)
	}

	h.logger.Debug("Started ffmpeg for %s at frame %d", h.path, n)

	h.cmd = cmd
	h.stdout = stdout
	h.reader = bufio.NewReaderSize(stdout, h.frameSize())
	h.pos = n
	h.startedAt = n
	h.delivered = 0
	h.eof = false
	h.exited = false
	return nil
}

func (h *Handle) stop() {
	if h.cmd == nil {
		return
	}
	h.stdout.Close()
	if !h.exited {
		h.cmd.Process.Kill()
		h.cmd.Wait()
	}
	h.cmd = nil
	h.stdout = nil
	h.reader = nil
}

// endOfStream distinguishes a normal end of stream from an ffmpeg failure.
// A failed exit is a decode error unless the context was cancelled.
func (h *Handle) endOfStream() error {
	err := h.cmd.Wait()
	h.exited = true
	if err == nil || h.ctx.Err() != nil {
		return io.EOF
	}

	msg := strings.TrimSpace(h.stderr.String())
	if h.delivered == 0 {
		return fmt.Errorf("%w: from frame %d: %v: %s", ErrDecode, h.startedAt, err, msg)
	}
	return fmt.Errorf("%w: stream ended after frame %d: %v: %s", ErrDecode, h.pos-1, err, msg)
}

func (h *Handle) frameSize() int {
	return h.info.Width * h.info.Height * 3
}

var _ ports.VideoHandle = (*Handle)(nil)

// buildArgs returns ffmpeg arguments that stream rgb24 frames from frame n to stdout.
func buildArgs(path string, n int) []string {
	kwargs := ffmpeg.KwArgs{
		"format":   "rawvideo",
		"pix_fmt":  "rgb24",
		"vsync":    "0",
		"loglevel": "error",
	}
	if n > 0 {
		kwargs["vf"] = fmt.Sprintf(`select=gte(n\,%d)`, n)
	}
	return ffmpeg.Input(path).Output("pipe:", kwargs).GetArgs()
}

// rgbToImage converts packed rgb24 pixels to an RGBA image.
func rgbToImage(buf []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i+2 < len(buf); i, j = i+3, j+4 {
		img.Pix[j] = buf[i]
		img.Pix[j+1] = buf[i+1]
		img.Pix[j+2] = buf[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
