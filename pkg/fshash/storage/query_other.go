//go:build !windows && !linux && !darwin

package storage

// hardwareQuery has no implementation for this platform.
func hardwareQuery(string) (Info, error) {
	return Info{}, errUnsupported
}

// inventoryQuery has no implementation for this platform.
func inventoryQuery(string) (Info, error) {
	return Info{}, errUnsupported
}

// ListVolumes returns the filesystem root, the only volume the
// platform code knows about.
func ListVolumes() ([]string, error) {
	return []string{"/"}, nil
}
