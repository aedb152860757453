// Package types provides core data types for the fshash hashing engine.
// It includes the supported digest algorithms, per-file hash results,
// operation metrics, and utility functions for parsing and formatting
// file sizes.
package types

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Algorithm identifies a supported digest algorithm. The set is closed:
// hashing dispatches through a fixed constructor table, never through
// string comparison inside the read loop.
type Algorithm int

const (
	// SHA256 is the default algorithm for evidence cataloguing.
	SHA256 Algorithm = iota

	// SHA1 is retained for interoperability with legacy inventories.
	SHA1

	// MD5 is retained for interoperability with legacy inventories.
	MD5
)

// digestConstructors maps each algorithm to its digest constructor.
var digestConstructors = map[Algorithm]func() hash.Hash{
	SHA256: sha256.New,
	SHA1:   sha1.New,
	MD5:    md5.New,
}

// ErrUnknownAlgorithm indicates an algorithm name outside the supported set.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// ParseAlgorithm converts an algorithm name ("sha256", "sha1", "md5",
// case-insensitive) into an Algorithm value.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sha256":
		return SHA256, nil
	case "sha1":
		return SHA1, nil
	case "md5":
		return MD5, nil
	default:
		return SHA256, fmt.Errorf("%w: %q (supported: sha256, sha1, md5)", ErrUnknownAlgorithm, s)
	}
}

// AlgorithmNames returns the supported algorithm names in display order.
func AlgorithmNames() []string {
	return []string{"sha256", "sha1", "md5"}
}

// String returns the canonical lowercase name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case SHA1:
		return "sha1"
	case MD5:
		return "md5"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// New returns a fresh digest state for the algorithm. Unrecognized values
// fall back to SHA-256 so a zero Algorithm is always usable.
func (a Algorithm) New() hash.Hash {
	if ctor, ok := digestConstructors[a]; ok {
		return ctor()
	}
	return sha256.New()
}

// MarshalText implements encoding.TextMarshaler so Algorithm renders as
// its name in JSON and YAML output.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ErrorKind classifies a per-file hashing failure.
type ErrorKind string

// Per-file failure kinds. An empty kind means the file hashed cleanly.
const (
	KindNotFound   ErrorKind = "not_found"
	KindPermission ErrorKind = "permission"
	KindIO         ErrorKind = "io"
)

// HashResult is the outcome of hashing a single file.
// Exactly one of Hash or Error is populated: a non-empty Hash means
// success, a non-empty Error means a per-file failure. Results are never
// mutated after construction.
type HashResult struct {
	// Path is the absolute path to the hashed file.
	Path string `json:"path"`

	// RelPath is the path relative to the input that produced the file.
	RelPath string `json:"rel_path"`

	// Algorithm is the digest algorithm used.
	Algorithm Algorithm `json:"algorithm"`

	// Hash is the lowercase hex digest. Empty when the file failed.
	Hash string `json:"hash,omitempty"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Duration is the wall-clock time spent on this file, including open
	// and read time.
	Duration time.Duration `json:"duration"`

	// Error is the failure message for this file. Empty on success.
	Error string `json:"error,omitempty"`

	// Kind classifies the failure. Empty on success.
	Kind ErrorKind `json:"kind,omitempty"`
}

// Success reports whether the file hashed cleanly.
func (r *HashResult) Success() bool {
	return r.Error == ""
}

// SpeedMBps returns this file's hashing throughput in MB/s.
func (r *HashResult) SpeedMBps() float64 {
	secs := r.Duration.Seconds()
	if secs <= 0 || r.Size == 0 {
		return 0
	}
	return float64(r.Size) / float64(MiB) / secs
}

// Metrics tracks one hashing operation from start to finish.
// Counter fields are updated under the engine's merge lock while the
// operation runs and must be treated as read-only once EndTime is stamped.
type Metrics struct {
	// OperationID correlates log lines and rendered output for one run.
	OperationID string `json:"operation_id"`

	// StartTime is when the operation began.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the operation completed, failed, or was cancelled.
	// Zero while the operation is still running.
	EndTime time.Time `json:"end_time"`

	// TotalFiles is the number of files discovered for this run.
	TotalFiles int64 `json:"total_files"`

	// ProcessedFiles is the number of files completed so far, counting
	// both successes and per-file failures.
	ProcessedFiles int64 `json:"processed_files"`

	// FailedFiles is the number of files that ended in a per-file failure.
	FailedFiles int64 `json:"failed_files"`

	// TotalBytes is the sum of all discovered file sizes.
	TotalBytes int64 `json:"total_bytes"`

	// ProcessedBytes is the number of bytes hashed successfully so far.
	ProcessedBytes int64 `json:"processed_bytes"`

	// CurrentFile is the base name of the most recently completed file.
	CurrentFile string `json:"current_file,omitempty"`
}

// Duration returns the operation's wall-clock elapsed time. While the
// operation is still running it measures from StartTime to now.
func (m *Metrics) Duration() time.Duration {
	if m.StartTime.IsZero() {
		return 0
	}
	end := m.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(m.StartTime)
}

// ProgressPercent returns file-granular completion in [0,100].
func (m *Metrics) ProgressPercent() int {
	if m.TotalFiles <= 0 {
		return 0
	}
	return int(m.ProcessedFiles * 100 / m.TotalFiles)
}

// AverageSpeedMBps returns overall throughput in MB/s computed from the
// shared start/end timestamps. Per-file durations overlap in a parallel
// run, so summing them would under-report true throughput by roughly the
// degree of parallelism achieved.
func (m *Metrics) AverageSpeedMBps() float64 {
	secs := m.Duration().Seconds()
	if secs <= 0 || m.ProcessedBytes == 0 {
		return 0
	}
	return float64(m.ProcessedBytes) / float64(MiB) / secs
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in
// bytes. It supports the following formats:
//   - Plain bytes: "1024", "0"
//   - With byte suffix: "512B", "512b"
//   - Kilobytes: "100K", "100k", "100KB", "100KiB"
//   - Megabytes: "50M", "50m", "50MB", "50MiB"
//   - Gigabytes: "2G", "2g", "2GB", "2GiB"
//   - Terabytes: "1T", "1t", "1TB", "1TiB"
//
// Decimal values are supported and truncated to the nearest byte.
// Leading and trailing whitespace is ignored.
//
// Returns ErrInvalidSize if the format is not recognized.
// Returns ErrNegativeSize if the value is negative.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	// Check for negative values
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	// Parse the numeric value
	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	// Determine the multiplier based on the suffix
	suffix := strings.ToUpper(matches[2])
	// Remove 'B' or 'IB' suffix to get just the unit letter
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string.
// It uses binary (IEC) units (KiB, MiB, GiB, TiB) for consistency
// with common filesystem tools.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
