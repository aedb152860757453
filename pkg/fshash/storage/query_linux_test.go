package storage

import "testing"

func TestParentDiskName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"sda1", "sda"},
		{"sda", "sda"},
		{"vdb2", "vdb"},
		{"nvme0n1p2", "nvme0n1"},
		{"nvme0n1", "nvme0n1"},
		{"mmcblk0p1", "mmcblk0"},
		{"dm-0", "dm-0"},
	}
	for _, tt := range tests {
		if got := parentDiskName(tt.name); got != tt.want {
			t.Errorf("parentDiskName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMountCovers(t *testing.T) {
	tests := []struct {
		mount string
		path  string
		want  bool
	}{
		{"/", "/anything/below", true},
		{"/home", "/home/user", true},
		{"/home", "/home", true},
		{"/home", "/homework", false},
		{"/mnt/usb", "/mnt/usb2/file", false},
	}
	for _, tt := range tests {
		if got := mountCovers(tt.mount, tt.path); got != tt.want {
			t.Errorf("mountCovers(%q, %q) = %v, want %v", tt.mount, tt.path, got, tt.want)
		}
	}
}

func TestUnescapeMount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`/mnt/usb\040drive`, "/mnt/usb drive"},
		{"/plain", "/plain"},
	}
	for _, tt := range tests {
		if got := unescapeMount(tt.in); got != tt.want {
			t.Errorf("unescapeMount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBusFromSysfsNames(t *testing.T) {
	if got := busFromSysfs("nvme0n1", t.TempDir()); got != BusNVMe {
		t.Errorf("busFromSysfs(nvme0n1) = %v, want %v", got, BusNVMe)
	}
	if got := busFromSysfs("mmcblk0", t.TempDir()); got != BusMMC {
		t.Errorf("busFromSysfs(mmcblk0) = %v, want %v", got, BusMMC)
	}
	// Without a device symlink the bus stays unknown.
	if got := busFromSysfs("sda", t.TempDir()); got != BusUnknown {
		t.Errorf("busFromSysfs(sda) = %v, want %v", got, BusUnknown)
	}
}
