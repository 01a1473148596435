package scaffold

import (
	"fmt"
	"os"
)

// Place makes location the working directory and returns its absolute path.
// For CurrentDir nothing changes. Otherwise the directory is created if
// needed (existing directories are fine) and the process changes into it.
// Both failures are fatal: every later step writes relative to this root.
func Place(location string) (string, error) {
	if location != CurrentDir {
		if err := os.MkdirAll(location, 0755); err != nil {
			return "", fmt.Errorf("creating project directory %s: %w", location, err)
		}
		if err := os.Chdir(location); err != nil {
			return "", fmt.Errorf("entering project directory %s: %w", location, err)
		}
	}

	root, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return root, nil
}
