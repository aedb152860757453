package storage

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// minBenchSeconds floors the measured durations so a tiny probe that
// completes between clock ticks cannot divide by zero.
const minBenchSeconds = 1e-6

// benchmarkDir picks the directory the probe file is written into: the
// path itself when it is a directory, its parent otherwise. The probe
// must land on the same volume as the files being hashed, so there is
// no temp-dir fallback.
func benchmarkDir(path string) string {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

// benchmarkVolume writes a random probe file into dir, syncs it, reads
// it back, and returns the measured write and read throughput in MB/s.
// The probe file is removed before returning.
func benchmarkVolume(dir string, size int64) (float64, float64, error) {
	f, err := os.CreateTemp(dir, ".fshash-bench-*.tmp")
	if err != nil {
		return 0, 0, fmt.Errorf("create probe file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		f.Close()
		return 0, 0, fmt.Errorf("fill probe buffer: %w", err)
	}

	start := time.Now()
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return 0, 0, fmt.Errorf("write probe file: %w", err)
	}
	// Sync so the write clock covers the device, not the page cache.
	if err := f.Sync(); err != nil {
		f.Close()
		return 0, 0, fmt.Errorf("sync probe file: %w", err)
	}
	writeSecs := time.Since(start).Seconds()

	if err := f.Close(); err != nil {
		return 0, 0, fmt.Errorf("close probe file: %w", err)
	}

	start = time.Now()
	if _, err := os.ReadFile(name); err != nil {
		return 0, 0, fmt.Errorf("read probe file: %w", err)
	}
	readSecs := time.Since(start).Seconds()

	mb := float64(size) / float64(types.MiB)
	return mb / max(writeSecs, minBenchSeconds), mb / max(readSecs, minBenchSeconds), nil
}

// classifySpeeds maps measured throughput onto a drive class. The write
// threshold is consulted first: the read-back usually comes straight
// from the page cache and can look NVMe-fast on a spinning disk, while
// a write that slow cannot come from flash.
func classifySpeeds(writeMBps, readMBps float64, t Thresholds) Info {
	info := Info{Bus: BusUnknown, Method: MethodBenchmark}
	switch {
	case writeMBps < t.HDDWriteMax:
		info.Type = HDD
		info.Confidence = 0.8
	case writeMBps > t.NVMeWriteMin && readMBps > t.NVMeReadMin:
		info.Type = NVMe
		info.Confidence = 0.8
	case writeMBps > t.SSDWriteMin:
		info.Type = SSD
		info.Confidence = 0.75
	default:
		info.Type = ExternalSSD
		info.Confidence = 0.7
	}
	info.Threads = info.Type.RecommendedThreads()
	return info
}
