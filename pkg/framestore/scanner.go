package framestore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/user/frameharvest/pkg/ports"
)

// IndexStore reports which frame indices are already saved for a video.
type IndexStore interface {
	// Scan returns the indices saved in dir for base.
	// A missing directory yields an empty set and no error.
	Scan(dir, base string) (IndexSet, error)
}

// Scanner implements IndexStore by matching filenames in the output directory.
type Scanner struct {
	fs ports.FileSystem
}

// NewScanner creates a Scanner reading directories through fs.
func NewScanner(fs ports.FileSystem) *Scanner {
	return &Scanner{fs: fs}
}

// Scan lists dir and collects the indices of frames belonging to base.
func (s *Scanner) Scan(dir, base string) (IndexSet, error) {
	set := NewIndexSet()

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return set, nil
		}
		return nil, fmt.Errorf("read output directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, idx, ok := ParseFileName(e.Name())
		if !ok || b != base {
			continue
		}
		set.Add(idx)
	}

	return set, nil
}

var _ IndexStore = (*Scanner)(nil)
