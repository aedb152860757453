//go:build linux

package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sys/unix"
)

// hardwareQuery resolves the block device backing path through sysfs
// and reads its rotational and bus properties.
func hardwareQuery(path string) (Info, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	dev := uint64(st.Dev)
	if unix.Major(dev) == 0 {
		// Virtual filesystems (btrfs, overlay, tmpfs) report an
		// anonymous device with no sysfs entry.
		return Info{}, fmt.Errorf("anonymous device behind %s", path)
	}

	link := fmt.Sprintf("/sys/dev/block/%d:%d", unix.Major(dev), unix.Minor(dev))
	devDir, err := filepath.EvalSymlinks(link)
	if err != nil {
		return Info{}, fmt.Errorf("resolve block device: %w", err)
	}

	// Partitions hang below their parent disk in sysfs.
	if _, err := os.Stat(filepath.Join(devDir, "partition")); err == nil {
		devDir = filepath.Dir(devDir)
	}
	name := filepath.Base(devDir)

	rotational, err := readSysfsFlag(filepath.Join(devDir, "queue", "rotational"))
	if err != nil {
		return Info{}, err
	}

	bus := busFromSysfs(name, devDir)
	removable, _ := readSysfsFlag(filepath.Join(devDir, "removable"))
	if bus == BusUSB {
		removable = true
	}

	return classifyHardware(rotational, removable, bus), nil
}

// inventoryQuery classifies path by scanning the mount table for its
// volume. It serves filesystems that report anonymous device numbers
// and so defeat the sysfs lookup above.
func inventoryQuery(path string) (Info, error) {
	source, err := mountSource(path)
	if err != nil {
		return Info{}, err
	}
	name := parentDiskName(filepath.Base(source))
	rotational, err := readSysfsFlag(filepath.Join("/sys/block", name, "queue", "rotational"))
	if err != nil {
		return Info{}, err
	}

	info := Info{Bus: BusUnknown, Confidence: 0.7, Method: MethodInventory}
	if rotational {
		info.Type = HDD
	} else {
		info.Type = SSD
	}
	info.Threads = info.Type.RecommendedThreads()
	return info, nil
}

// ListVolumes returns the mount points of physically backed
// filesystems, loop devices excluded.
func ListVolumes() ([]string, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return nil, fmt.Errorf("read mount table: %w", err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	var volumes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}
		if strings.HasPrefix(fields[0], "/dev/loop") {
			continue
		}
		mount := unescapeMount(fields[1])
		if seen[mount] {
			continue
		}
		seen[mount] = true
		volumes = append(volumes, mount)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan mount table: %w", err)
	}
	sort.Strings(volumes)
	return volumes, nil
}

// mountSource returns the device mounted at the longest mount-point
// prefix of path.
func mountSource(path string) (string, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return "", fmt.Errorf("read mount table: %w", err)
	}
	defer f.Close()

	var source, best string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}
		mount := unescapeMount(fields[1])
		if !mountCovers(mount, path) || len(mount) <= len(best) {
			continue
		}
		best = mount
		source = fields[0]
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan mount table: %w", err)
	}
	if source == "" {
		return "", fmt.Errorf("no mount found for %s", path)
	}
	return source, nil
}

// mountCovers reports whether path lives under the mount point.
func mountCovers(mount, path string) bool {
	if mount == "/" {
		return true
	}
	return path == mount || strings.HasPrefix(path, mount+"/")
}

// unescapeMount decodes the octal escapes /proc/mounts uses for
// whitespace in mount points.
func unescapeMount(s string) string {
	r := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)
	return r.Replace(s)
}

var (
	// nvme0n1p2, mmcblk0p1: a pN partition suffix on a numbered disk.
	numberedPartition = regexp.MustCompile(`^([a-z]+[0-9]+(?:n[0-9]+)?)p[0-9]+$`)

	// sda1, vdb2: trailing digits on a lettered disk.
	letteredPartition = regexp.MustCompile(`^([a-z]+)[0-9]+$`)
)

// parentDiskName strips the partition suffix from a device name.
func parentDiskName(name string) string {
	if m := numberedPartition.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if m := letteredPartition.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// readSysfsFlag reads a 0/1 attribute file.
func readSysfsFlag(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)) == "1", nil
}

// busFromSysfs infers the transport from the device name and the sysfs
// device path, which embeds the controller chain.
func busFromSysfs(name, devDir string) BusType {
	switch {
	case strings.HasPrefix(name, "nvme"):
		return BusNVMe
	case strings.HasPrefix(name, "mmcblk"):
		return BusMMC
	}

	real, err := filepath.EvalSymlinks(filepath.Join(devDir, "device"))
	if err != nil {
		return BusUnknown
	}
	switch {
	case strings.Contains(real, "/usb"):
		return BusUSB
	case strings.Contains(real, "/ata"):
		return BusSATA
	case strings.HasPrefix(name, "sd"):
		return BusSCSI
	default:
		return BusUnknown
	}
}
