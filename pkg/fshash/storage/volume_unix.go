//go:build !windows

package storage

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// VolumeKey returns a stable identifier for the volume holding path.
// Paths on the same filesystem share a device number and therefore a
// key.
func VolumeKey(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	dev := uint64(st.Dev)
	return fmt.Sprintf("dev:%d:%d", unix.Major(dev), unix.Minor(dev)), nil
}
