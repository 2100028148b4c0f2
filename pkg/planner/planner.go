// Package planner decides which frame indices an extraction run must produce.
package planner

import (
	"github.com/user/frameharvest/pkg/framestore"
)

// Mode describes how the frame writer must execute a plan.
type Mode string

const (
	// ModeComplete means every expected frame is already on disk.
	ModeComplete Mode = "complete"
	// ModeTargeted means the writer produces exactly the listed target indices.
	ModeTargeted Mode = "targeted"
	// ModeSequential means the length is unknown; the writer reads from
	// StartIndex until the decoder reports end of stream.
	ModeSequential Mode = "sequential"
)

// Input holds everything the planner needs for one video.
type Input struct {
	LengthKnown   bool
	ExpectedCount int
	Existing      framestore.IndexSet
	Overwrite     bool
}

// Plan is the planner's decision for one video.
type Plan struct {
	Mode Mode `json:"mode"`

	// Targets lists the indices to produce in ModeTargeted, ascending.
	Targets []int `json:"targets,omitempty"`

	// StartIndex is the first index to write in ModeSequential.
	StartIndex int `json:"start_index"`

	// Resuming is true when prior output is being continued rather than
	// started from scratch.
	Resuming bool `json:"resuming"`

	// Truncated is true when ExpectedCount exceeded the filename index space
	// and the targets were capped at framestore.MaxIndex.
	Truncated bool `json:"truncated,omitempty"`
}

// NormalizeStride maps any stride below 1 to 1.
func NormalizeStride(stride int) int {
	if stride < 1 {
		return 1
	}
	return stride
}

// ExpectedCount returns ceil(totalFrames/stride): the number of saved frames
// a full extraction produces.
func ExpectedCount(totalFrames, stride int) int {
	if totalFrames <= 0 {
		return 0
	}
	stride = NormalizeStride(stride)
	return (totalFrames + stride - 1) / stride
}

// New computes the plan for one video.
func New(in Input) Plan {
	if !in.LengthKnown {
		return sequential(in)
	}

	count := in.ExpectedCount
	truncated := false
	if count > framestore.MaxIndex+1 {
		count = framestore.MaxIndex + 1
		truncated = true
	}

	if in.Overwrite {
		targets := make([]int, count)
		for i := range targets {
			targets[i] = i
		}
		return Plan{Mode: ModeTargeted, Targets: targets, Truncated: truncated}
	}

	targets := make([]int, 0, count)
	for i := 0; i < count; i++ {
		if !in.Existing.Contains(i) {
			targets = append(targets, i)
		}
	}

	if len(targets) == 0 {
		return Plan{Mode: ModeComplete, Truncated: truncated}
	}

	return Plan{
		Mode:      ModeTargeted,
		Targets:   targets,
		Resuming:  len(targets) < count,
		Truncated: truncated,
	}
}

// sequential plans an unknown-length video. Gaps below the highest saved
// index are never revisited.
func sequential(in Input) Plan {
	if in.Overwrite {
		return Plan{Mode: ModeSequential, StartIndex: 0}
	}
	start := in.Existing.MaxOr(-1) + 1
	return Plan{
		Mode:       ModeSequential,
		StartIndex: start,
		Resuming:   start > 0,
	}
}
