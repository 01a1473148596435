package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// WriteFile writes data to path, overwriting any existing content, and then
// applies mode. os.WriteFile only honours the mode when it creates the file,
// so an existing file keeps its old bits unless they are set explicitly.
func WriteFile(path string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := Chmod(path, mode); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	return nil
}

// EnsureDirs creates every directory in dirs beneath root, in order.
func EnsureDirs(root string, dirs []string, mode os.FileMode) error {
	for _, d := range dirs {
		path := filepath.Join(root, d)
		if err := os.MkdirAll(path, mode); err != nil {
			return fmt.Errorf("creating directory %s: %w", path, err)
		}
	}
	return nil
}
