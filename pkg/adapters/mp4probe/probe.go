// Package mp4probe reads video track metadata from MP4 and QuickTime containers.
package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"
)

// ErrNoVideoTrack is returned when the container has no video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// Info describes the first video track of a file.
type Info struct {
	TrackID uint32
	Frames  int // Sample count over the progressive table and all fragments
	Width   int
	Height  int
}

// Supports reports whether path has an extension this package can read.
func Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".m4v":
		return true
	}
	return false
}

// ProbeFile reads the video track of the file at path.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Probe(f)
}

// Probe reads the video track from an io.ReadSeeker.
func Probe(reader io.ReadSeeker) (Info, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Info{}, fmt.Errorf("decode mp4: %w", err)
	}
	return probeFile(mp4File)
}

func probeFile(mp4File *mp4.File) (Info, error) {
	moov := mp4File.Moov
	if moov == nil && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return Info{}, ErrNoVideoTrack
	}

	var trak *mp4.TrakBox
	for _, t := range moov.Traks {
		if isVideoTrack(t) {
			trak = t
			break
		}
	}
	if trak == nil {
		return Info{}, ErrNoVideoTrack
	}

	info := Info{}
	if trak.Tkhd != nil {
		info.TrackID = trak.Tkhd.TrackID
		info.Width = int(trak.Tkhd.Width >> 16)
		info.Height = int(trak.Tkhd.Height >> 16)
	}

	if stbl := trak.Mdia.Minf.Stbl; stbl != nil && stbl.Stsz != nil {
		info.Frames += int(stbl.Stsz.SampleNumber)
	}

	// Fragmented files carry their samples in trun boxes.
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != info.TrackID {
					continue
				}
				for _, trun := range traf.Truns {
					info.Frames += int(trun.SampleCount())
				}
			}
		}
	}

	return info, nil
}

func isVideoTrack(trak *mp4.TrakBox) bool {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Minf == nil {
		return false
	}
	return trak.Mdia.Hdlr.HandlerType == "vide"
}
