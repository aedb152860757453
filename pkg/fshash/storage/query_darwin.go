//go:build darwin

package storage

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// hardwareQuery shells out to diskutil, which knows the medium and
// transport for every mounted volume.
func hardwareQuery(path string) (Info, error) {
	out, err := exec.Command("diskutil", "info", path).Output()
	if err != nil {
		return Info{}, fmt.Errorf("diskutil info %s: %w", path, err)
	}
	fields := parseDiskutil(string(out))

	solidState, ok := fields["Solid State"]
	if !ok {
		return Info{}, fmt.Errorf("diskutil reported no medium for %s", path)
	}

	bus := busFromProtocol(fields["Protocol"])
	removable := fields["Device Location"] == "External" ||
		fields["Removable Media"] == "Removable" ||
		bus == BusUSB
	seekPenalty := !strings.EqualFold(solidState, "Yes")

	return classifyHardware(seekPenalty, removable, bus), nil
}

// inventoryQuery has no separate backend on darwin. diskutil already
// serves the hardware tier, so a second query would repeat it.
func inventoryQuery(string) (Info, error) {
	return Info{}, errUnsupported
}

// ListVolumes returns the root volume and everything mounted under
// /Volumes.
func ListVolumes() ([]string, error) {
	volumes := []string{"/"}
	entries, err := os.ReadDir("/Volumes")
	if err != nil {
		if os.IsNotExist(err) {
			return volumes, nil
		}
		return nil, fmt.Errorf("list /Volumes: %w", err)
	}
	for _, entry := range entries {
		target := filepath.Join("/Volumes", entry.Name())
		// The boot volume appears under /Volumes as a symlink to /.
		if resolved, err := filepath.EvalSymlinks(target); err == nil && resolved == "/" {
			continue
		}
		volumes = append(volumes, target)
	}
	sort.Strings(volumes)
	return volumes, nil
}

// parseDiskutil splits diskutil's "   Key:   Value" lines into a map.
func parseDiskutil(out string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields
}

// busFromProtocol maps diskutil protocol names onto bus types.
func busFromProtocol(protocol string) BusType {
	switch protocol {
	case "PCI-Express", "Apple Fabric", "NVMe":
		return BusNVMe
	case "USB":
		return BusUSB
	case "SATA", "ATA":
		return BusSATA
	case "SAS":
		return BusSAS
	case "Fibre Channel Interface":
		return BusFibreChannel
	case "SecureDigital":
		return BusSD
	default:
		return BusUnknown
	}
}
