package ffmpegdecoder

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// streamInfo is what the decoder needs to know about the first video stream.
type streamInfo struct {
	Width       int
	Height      int
	Frames      int
	FramesKnown bool
}

type probeOutput struct {
	Streams []struct {
		CodecType    string            `json:"codec_type"`
		Width        int               `json:"width"`
		Height       int               `json:"height"`
		NbFrames     string            `json:"nb_frames"`
		Tags         map[string]string `json:"tags"`
		SideDataList []struct {
			Rotation float64 `json:"rotation"`
		} `json:"side_data_list"`
	} `json:"streams"`
}

// probeStream runs ffprobe on path and parses its first video stream.
func probeStream(path string) (streamInfo, error) {
	out, err := ffmpeg.Probe(path, ffmpeg.KwArgs{"select_streams": "v:0"})
	if err != nil {
		return streamInfo{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbe([]byte(out))
}

// parseProbe extracts stream information from ffprobe JSON output.
// Dimensions are reported as ffmpeg will deliver them, after autorotation.
func parseProbe(data []byte) (streamInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return streamInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			return streamInfo{}, fmt.Errorf("%w: invalid dimensions %dx%d", ErrNoVideoStream, s.Width, s.Height)
		}

		info := streamInfo{Width: s.Width, Height: s.Height}
		if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
			info.Frames = n
			info.FramesKnown = true
		}

		rotation := 0.0
		if r, err := strconv.ParseFloat(s.Tags["rotate"], 64); err == nil {
			rotation = r
		}
		for _, sd := range s.SideDataList {
			if sd.Rotation != 0 {
				rotation = sd.Rotation
			}
		}
		if int(math.Abs(rotation))%180 == 90 {
			info.Width, info.Height = info.Height, info.Width
		}

		return info, nil
	}

	return streamInfo{}, ErrNoVideoStream
}
