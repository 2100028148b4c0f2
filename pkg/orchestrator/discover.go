package orchestrator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions lists the containers picked up from the input directory.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".flv":  true,
	".wmv":  true,
	".mpeg": true,
	".mpg":  true,
}

// IsVideoFile reports whether name has a supported video extension (case-insensitive).
func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// BaseName strips the extension from a video filename.
func BaseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// discoverVideos lists video files directly inside dir, sorted by name.
func (o *Orchestrator) discoverVideos(dir string) ([]string, error) {
	entries, err := o.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsVideoFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
