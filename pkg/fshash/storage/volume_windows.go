//go:build windows

package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// VolumeKey returns a stable identifier for the volume holding path:
// the upper-cased drive letter or UNC share prefix.
func VolumeKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	vol := filepath.VolumeName(abs)
	if vol == "" {
		return "", fmt.Errorf("no volume in path %s", abs)
	}
	return strings.ToUpper(vol), nil
}
