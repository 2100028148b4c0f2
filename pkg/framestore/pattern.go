// Package framestore recovers extraction state from frame filenames on disk.
//
// The output directory is the only persisted record of progress: every saved
// frame is named <base>_frame_<NNNNNN>.<ext>, and the set of indices present
// for a base name tells the planner what is already done.
package framestore

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/user/frameharvest/pkg/ports"
)

// IndexDigits is the fixed width of the index field in frame filenames.
const IndexDigits = 6

// MaxIndex is the largest index representable in a frame filename.
const MaxIndex = 999999

var framePattern = regexp.MustCompile(`(?i)^(.+)_frame_(\d{6})\.(jpg|jpeg|png)$`)

// FileName returns the canonical filename for frame index of base.
func FileName(base string, index int, format ports.ImageFormat) string {
	return fmt.Sprintf("%s_frame_%0*d.%s", base, IndexDigits, index, format)
}

// ParseFileName splits a canonical frame filename into its base name and index.
// ok is false when name does not match the pattern.
func ParseFileName(name string) (base string, index int, ok bool) {
	m := framePattern.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	index, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], index, true
}
