package scaffold

import (
	"path/filepath"

	"github.com/boiler-labs/boiler/internal/platform"
)

// MarkerFile is the empty file that makes git track an otherwise empty directory.
const MarkerFile = ".gitkeep"

// FolderSet is an ordered list of slash-separated directories relative to the
// project root. Parents come before children.
type FolderSet []string

// Create makes every directory in order. Existing directories are left alone.
func (s FolderSet) Create(root string) error {
	dirs := make([]string, len(s))
	for i, d := range s {
		dirs[i] = filepath.FromSlash(d)
	}
	return platform.EnsureDirs(root, dirs, 0755)
}

// WriteMarkers writes an empty MarkerFile into each directory of dirs.
func WriteMarkers(root string, dirs []string) error {
	for _, d := range dirs {
		p := filepath.Join(root, filepath.FromSlash(d), MarkerFile)
		if err := platform.WriteFile(p, nil, 0644); err != nil {
			return err
		}
	}
	return nil
}
