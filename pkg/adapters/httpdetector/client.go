// Package httpdetector talks to a text-prompted object detection server over HTTP.
//
// The server exposes:
//
//	GET  /health  200 once the model is loaded
//	POST /detect  {"image": <base64 JPEG>, "prompt", "box_threshold", "text_threshold", "device"}
//	              -> {"boxes": [{"cx","cy","w","h","score"}, ...]}
//
// Box coordinates are normalized to the uploaded image, so frames may be
// downscaled before upload without affecting the result.
package httpdetector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/frameharvest/pkg/ports"
)

const (
	// DefaultBaseURL is where a locally started detection server listens.
	DefaultBaseURL = "http://127.0.0.1:8765"

	// DefaultMaxSide bounds the longer side of uploaded frames.
	DefaultMaxSide = 1024

	defaultTimeout = 60 * time.Second
	uploadQuality  = 90
)

// ErrBadResponse is returned when the server answers with an unexpected status or body.
var ErrBadResponse = errors.New("httpdetector: bad response")

// Options configures the client.
type Options struct {
	BaseURL    string
	MaxSide    int // Downscale frames so neither side exceeds this; <0 disables
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client implements ports.Detector.
type Client struct {
	baseURL    string
	maxSide    int
	httpClient *http.Client
	renderer   ports.Renderer
	logger     ports.Logger
}

type detectRequest struct {
	Image         string  `json:"image"`
	Prompt        string  `json:"prompt"`
	BoxThreshold  float64 `json:"box_threshold"`
	TextThreshold float64 `json:"text_threshold"`
	Device        string  `json:"device,omitempty"`
}

type detectResponse struct {
	Boxes []ports.Box `json:"boxes"`
	Error string      `json:"error,omitempty"`
}

// New creates a detector client. The renderer downscales and encodes uploads.
func New(opts Options, renderer ports.Renderer, logger ports.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxSide := opts.MaxSide
	if maxSide == 0 {
		maxSide = DefaultMaxSide
	}
	return &Client{
		baseURL:    baseURL,
		maxSide:    maxSide,
		httpClient: httpClient,
		renderer:   renderer,
		logger:     logger.WithComponent("detector"),
	}
}

// Ping checks that the server is up and its model is loaded.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("httpdetector: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpdetector: %s unreachable: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %s", ErrBadResponse, resp.Status)
	}
	return nil
}

// Detect uploads img and returns the boxes the model found for the prompt.
func (c *Client) Detect(ctx context.Context, img image.Image, opts ports.DetectOptions) ([]ports.Box, error) {
	upload := img
	if c.maxSide > 0 {
		upload = c.renderer.ResizeToFit(img, c.maxSide)
	}
	data, err := c.renderer.EncodeImage(upload, ports.FormatJPEG, uploadQuality)
	if err != nil {
		return nil, fmt.Errorf("httpdetector: encode frame: %w", err)
	}

	body, err := json.Marshal(detectRequest{
		Image:         base64.StdEncoding.EncodeToString(data),
		Prompt:        opts.Prompt,
		BoxThreshold:  opts.BoxThreshold,
		TextThreshold: opts.TextThreshold,
		Device:        opts.Device,
	})
	if err != nil {
		return nil, fmt.Errorf("httpdetector: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpdetector: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpdetector: detect: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpdetector: read response: %w", err)
	}

	var out detectResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrBadResponse, resp.Status, truncate(raw, 200))
	}
	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrBadResponse, msg)
	}

	c.logger.Debug("Detector returned %d boxes for %q", len(out.Boxes), opts.Prompt)
	return out.Boxes, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ ports.Detector = (*Client)(nil)
