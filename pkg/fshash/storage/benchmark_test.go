package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

func TestClassifySpeeds(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name        string
		writeMBps   float64
		readMBps    float64
		wantType    DriveType
		wantThreads int
	}{
		// A spinning disk whose read-back hit the page cache: the slow
		// write must win over the fast read.
		{"slow write fast cached read", 14, 899, HDD, 1},
		{"nvme class speeds", 1500, 1500, NVMe, 16},
		{"fast write slower read", 1500, 900, SSD, 8},
		{"sata class write", 300, 2000, SSD, 8},
		{"usb flash class", 100, 150, ExternalSSD, 4},
		{"write at hdd boundary", 50, 100, ExternalSSD, 4},
		{"write under hdd boundary", 49.9, 2000, HDD, 1},
		{"write at ssd boundary", 200, 300, ExternalSSD, 4},
		{"write over ssd boundary", 201, 300, SSD, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := classifySpeeds(tt.writeMBps, tt.readMBps, th)
			if info.Type != tt.wantType {
				t.Errorf("classifySpeeds(%v, %v) type = %v, want %v",
					tt.writeMBps, tt.readMBps, info.Type, tt.wantType)
			}
			if info.Threads != tt.wantThreads {
				t.Errorf("classifySpeeds(%v, %v) threads = %d, want %d",
					tt.writeMBps, tt.readMBps, info.Threads, tt.wantThreads)
			}
			if info.Method != MethodBenchmark {
				t.Errorf("Method = %q, want %q", info.Method, MethodBenchmark)
			}
			if info.Confidence < 0.7 || info.Confidence > 0.8 {
				t.Errorf("Confidence = %v, want within [0.7, 0.8]", info.Confidence)
			}
		})
	}
}

func TestClassifySpeedsCustomThresholds(t *testing.T) {
	th := Thresholds{HDDWriteMax: 10, NVMeWriteMin: 100, NVMeReadMin: 100, SSDWriteMin: 50}
	if info := classifySpeeds(150, 150, th); info.Type != NVMe {
		t.Errorf("Type = %v, want %v under custom thresholds", info.Type, NVMe)
	}
	if info := classifySpeeds(60, 80, th); info.Type != SSD {
		t.Errorf("Type = %v, want %v under custom thresholds", info.Type, SSD)
	}
}

func TestBenchmarkVolume(t *testing.T) {
	dir := t.TempDir()
	write, read, err := benchmarkVolume(dir, types.MiB)
	if err != nil {
		t.Fatalf("benchmarkVolume() returned error: %v", err)
	}
	if write <= 0 || read <= 0 {
		t.Errorf("speeds = (%v, %v), want both > 0", write, read)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries[0].Name())
	}
}

func TestBenchmarkVolumeUnwritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	if _, _, err := benchmarkVolume(dir, types.MiB); err == nil {
		t.Error("benchmarkVolume() succeeded in a nonexistent directory")
	}
}

func TestBenchmarkDir(t *testing.T) {
	dir := t.TempDir()
	if got := benchmarkDir(dir); got != dir {
		t.Errorf("benchmarkDir(%q) = %q, want the directory itself", dir, got)
	}

	file := filepath.Join(dir, "evidence.bin")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := benchmarkDir(file); got != dir {
		t.Errorf("benchmarkDir(%q) = %q, want parent %q", file, got, dir)
	}

	missing := filepath.Join(dir, "missing", "file.bin")
	if got, want := benchmarkDir(missing), filepath.Join(dir, "missing"); got != want {
		t.Errorf("benchmarkDir(%q) = %q, want %q", missing, got, want)
	}
}
