// Package storage detects the storage hardware backing a path and
// recommends a hashing parallelism level for it.
//
// Detection is layered. A platform hardware query (seek penalty and bus
// type) is tried first, then a short write/read benchmark on the target
// volume, then a platform media inventory. Each tier reports a
// confidence so callers can see how the verdict was reached. Detection
// never fails: when every tier comes up empty the detector assumes an
// unknown sequential device and recommends a single thread.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// Detection method names recorded in Info.Method.
const (
	MethodHardware  = "hardware_query"
	MethodBenchmark = "performance_benchmark"
	MethodInventory = "media_inventory"
	MethodFallback  = "conservative_fallback"
)

// errUnsupported marks a detection tier that cannot run on this platform.
var errUnsupported = errors.New("not supported on this platform")

// DefaultBenchmarkSize is the number of bytes written by the volume
// benchmark. Large enough to defeat write buffering on common drives,
// small enough to finish in well under a second on flash media.
const DefaultBenchmarkSize = 10 * types.MiB

// Thresholds holds the benchmark speed boundaries, in MB/s, used to
// classify a volume from measured throughput.
type Thresholds struct {
	// HDDWriteMax: write speeds below this mean rotational media no
	// matter what the read measured.
	HDDWriteMax float64

	// NVMeWriteMin and NVMeReadMin must both be exceeded to classify
	// the volume as NVMe.
	NVMeWriteMin float64
	NVMeReadMin  float64

	// SSDWriteMin is the write floor for internal SATA-class flash.
	SSDWriteMin float64
}

// DefaultThresholds returns the stock classification boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HDDWriteMax:  50,
		NVMeWriteMin: 1000,
		NVMeReadMin:  1000,
		SSDWriteMin:  200,
	}
}

// Config controls detector behavior.
type Config struct {
	// Thresholds are the benchmark classification boundaries.
	Thresholds Thresholds

	// BenchmarkSize is the probe file size in bytes.
	BenchmarkSize int64

	// DisableBenchmark skips the write/read probe tier entirely. The
	// hardware query and media inventory tiers still run.
	DisableBenchmark bool
}

// DefaultConfig returns the stock detector configuration.
func DefaultConfig() Config {
	return Config{
		Thresholds:    DefaultThresholds(),
		BenchmarkSize: DefaultBenchmarkSize,
	}
}

// Validate fills zero fields with defaults and rejects invalid values.
func (c *Config) Validate() error {
	if c.BenchmarkSize < 0 {
		return fmt.Errorf("benchmark size cannot be negative: %d", c.BenchmarkSize)
	}
	if c.BenchmarkSize == 0 {
		c.BenchmarkSize = DefaultBenchmarkSize
	}
	if c.Thresholds == (Thresholds{}) {
		c.Thresholds = DefaultThresholds()
	}
	return nil
}

// queryFunc resolves storage characteristics for a path through one
// platform detection tier.
type queryFunc func(path string) (Info, error)

// benchFunc measures write and read throughput, in MB/s, on the volume
// holding dir.
type benchFunc func(dir string, size int64) (writeMBps, readMBps float64, err error)

// Detector analyzes paths and recommends per-volume parallelism. It is
// safe for concurrent use.
type Detector struct {
	cfg    Config
	logger *logging.Logger

	// Tier implementations, swappable in tests.
	hardware  queryFunc
	inventory queryFunc
	benchmark benchFunc

	// mu guards verdicts, the per-volume cache that keeps repeat inputs
	// on one filesystem from probing it again.
	mu       sync.Mutex
	verdicts map[string]Info
}

// NewDetector returns a detector wired to the platform detection tiers.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}
	return &Detector{
		cfg:       cfg,
		logger:    logging.Get("storage"),
		hardware:  hardwareQuery,
		inventory: inventoryQuery,
		benchmark: benchmarkVolume,
		verdicts:  make(map[string]Info),
	}, nil
}

// AnalyzePath determines what storage backs path and how many hashing
// workers it can sustain. The method never fails: when every tier comes
// up empty it returns an Unknown verdict with a single-thread
// recommendation. Verdicts are cached by volume for the detector's
// lifetime, so inputs sharing a filesystem are probed once.
func (d *Detector) AnalyzePath(ctx context.Context, path string) Info {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	volume := volumeLabel(abs)

	if volume != "" {
		d.mu.Lock()
		cached, ok := d.verdicts[volume]
		d.mu.Unlock()
		if ok {
			d.logger.Debug("storage verdict reused", "path", abs, "volume", volume)
			return cached
		}
	}

	info := d.detect(ctx, abs, volume)

	if volume != "" {
		d.mu.Lock()
		d.verdicts[volume] = info
		d.mu.Unlock()
	}
	return info
}

// detect runs the tiers from most to least reliable.
func (d *Detector) detect(ctx context.Context, abs, volume string) Info {
	var hw *Info
	if info, err := d.hardware(abs); err != nil {
		d.logger.Debug("hardware query unavailable", "path", abs, "error", err)
	} else {
		info.Volume = volume
		hw = &info
		// An NVMe verdict from the hardware tier is as good as it gets.
		if info.Type == NVMe && info.Confidence >= 0.8 {
			return d.conclude(info)
		}
	}

	var bench *Info
	switch {
	case d.cfg.DisableBenchmark:
		d.logger.Debug("benchmark tier disabled", "path", abs)
	case ctx.Err() != nil:
		d.logger.Debug("benchmark tier skipped", "path", abs, "error", ctx.Err())
	default:
		write, read, err := d.benchmark(benchmarkDir(abs), d.cfg.BenchmarkSize)
		if err != nil {
			d.logger.Debug("benchmark failed", "path", abs, "error", err)
			break
		}
		info := classifySpeeds(write, read, d.cfg.Thresholds)
		info.Volume = volume
		bench = &info
		d.logger.Debug("benchmark measured",
			"path", abs,
			"write_mbps", fmt.Sprintf("%.1f", write),
			"read_mbps", fmt.Sprintf("%.1f", read),
			"type", info.Type)
	}

	if best := pickVerdict(hw, bench); best != nil {
		return d.conclude(*best)
	}

	if info, err := d.inventory(abs); err != nil {
		d.logger.Debug("media inventory unavailable", "path", abs, "error", err)
	} else {
		info.Volume = volume
		return d.conclude(info)
	}

	d.logger.Warn("storage detection failed, assuming slow sequential device", "path", abs)
	return d.conclude(Info{
		Type:    Unknown,
		Bus:     BusUnknown,
		Volume:  volume,
		Threads: 1,
		Method:  MethodFallback,
	})
}

// conclude stamps derived fields and logs the verdict.
func (d *Detector) conclude(info Info) Info {
	if info.Threads == 0 {
		info.Threads = info.Type.RecommendedThreads()
	}
	d.logger.Info("storage detected",
		"volume", info.Volume,
		"type", info.Type,
		"bus", info.Bus,
		"threads", info.Threads,
		"confidence", info.Confidence,
		"method", info.Method)
	return info
}

// pickVerdict arbitrates between the hardware query and the benchmark.
// A benchmark that measured NVMe-class speeds outranks a generic SSD
// verdict from the hardware tier, which cannot tell NVMe from SATA when
// the bus query fails. Otherwise the higher confidence wins, with ties
// going to the hardware tier.
func pickVerdict(hw, bench *Info) *Info {
	switch {
	case hw == nil:
		return bench
	case bench == nil:
		return hw
	case bench.Type == NVMe && hw.Type == SSD:
		return bench
	case bench.Confidence > hw.Confidence:
		return bench
	default:
		return hw
	}
}

// classifyHardware turns raw hardware query facts into a verdict. The
// seek penalty flag separates rotational from flash media; the bus and
// removable flags then split the flash classes. Removable rotational
// media still hash best sequentially, so they classify as HDD.
func classifyHardware(seekPenalty, removable bool, bus BusType) Info {
	info := Info{Bus: bus, Confidence: 0.9, Method: MethodHardware}

	if seekPenalty {
		info.Type = HDD
		if removable {
			info.Bus = BusUSB
		}
		if info.Bus == BusUnknown {
			info.Bus = BusSATA
		}
		info.Threads = HDD.RecommendedThreads()
		return info
	}

	switch {
	case removable:
		info.Type = ExternalSSD
		if info.Bus == BusUnknown {
			info.Bus = BusUSB
		}
	case bus == BusNVMe:
		info.Type = NVMe
	default:
		// SATA, ATA, RAID, and unidentified buses all classify as
		// internal SATA-class flash. RAID hides the member bus, and an
		// unidentified bus is most often SATA behind an old driver.
		info.Type = SSD
		if info.Bus == BusUnknown {
			info.Bus = BusSATA
		}
	}
	info.Threads = info.Type.RecommendedThreads()
	return info
}

// volumeLabel is VolumeKey minus the error: analysis proceeds with an
// empty label when the volume cannot be identified.
func volumeLabel(abs string) string {
	key, err := VolumeKey(abs)
	if err != nil {
		return ""
	}
	return key
}
