// Package output provides formatters for displaying hash results in
// various output formats (pretty, plain, json, sum, etc.).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
)

// logger is the package-level logger for output operations.
var logger = logging.Get("output")

// FileHash contains one file's hash outcome prepared for output
// formatting. It extends the engine result with computed fields like the
// human-readable size for easier formatting.
type FileHash struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// RelPath is the display path relative to the input that produced it.
	RelPath string `json:"rel_path" yaml:"rel_path"`

	// Hash is the lowercase hex digest. Empty for failed files.
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable file size (e.g., "1.5 GiB").
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// Duration is the wall-clock time spent hashing this file.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// SpeedMBps is this file's hashing throughput.
	SpeedMBps float64 `json:"speed_mbps" yaml:"speed_mbps"`

	// Error is the failure message. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Kind classifies the failure (not_found, permission, io).
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Failed reports whether this file ended in a per-file failure.
func (f *FileHash) Failed() bool {
	return f.Error != ""
}

// RunStats contains statistics about a hashing operation.
type RunStats struct {
	// OperationID correlates output with log lines for one run.
	OperationID string `json:"operation_id" yaml:"operation_id"`

	// StartTime is when the operation began.
	StartTime time.Time `json:"start_time" yaml:"start_time"`

	// Duration is the operation's wall-clock elapsed time.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// TotalFiles is the number of files discovered.
	TotalFiles int64 `json:"total_files" yaml:"total_files"`

	// ProcessedFiles is the number of files completed, failures included.
	ProcessedFiles int64 `json:"processed_files" yaml:"processed_files"`

	// FailedFiles is the number of per-file failures.
	FailedFiles int64 `json:"failed_files" yaml:"failed_files"`

	// TotalBytes is the sum of all discovered file sizes.
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`

	// ProcessedBytes is the number of bytes hashed successfully.
	ProcessedBytes int64 `json:"processed_bytes" yaml:"processed_bytes"`

	// AverageSpeedMBps is overall throughput across the whole run.
	AverageSpeedMBps float64 `json:"average_speed_mbps" yaml:"average_speed_mbps"`

	// Workers is the parallelism the operation ran with.
	Workers int `json:"workers" yaml:"workers"`
}

// StorageInfo describes one analyzed volume for output.
type StorageInfo struct {
	// Volume identifies the volume (drive letter or device numbers).
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`

	// Type is the detected drive class (NVMe, SSD, HDD, ...).
	Type string `json:"type" yaml:"type"`

	// Bus is the detected bus (NVMe, USB, SATA, ...).
	Bus string `json:"bus" yaml:"bus"`

	// Threads is the recommended worker count for this volume.
	Threads int `json:"threads" yaml:"threads"`

	// Confidence is the detection confidence in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Method names the detection tier that produced the verdict.
	Method string `json:"method" yaml:"method"`
}

// Result contains the complete output data for formatting.
// It includes all hashed files sorted by display path, run statistics,
// and the storage verdicts behind the chosen parallelism.
type Result struct {
	// Algorithm is the digest algorithm name (sha256, sha1, md5).
	Algorithm string `json:"algorithm" yaml:"algorithm"`

	// Files contains every file outcome, failures included, sorted by
	// relative path.
	Files []FileHash `json:"files" yaml:"files"`

	// Stats contains run statistics.
	Stats RunStats `json:"stats" yaml:"stats"`

	// Storage holds one verdict per distinct volume.
	Storage []StorageInfo `json:"storage,omitempty" yaml:"storage,omitempty"`

	// Sources are the input paths the operation was given.
	Sources []string `json:"sources" yaml:"sources"`

	// Warnings contains non-fatal discovery problems.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Cancelled indicates the operation was interrupted by the user.
	Cancelled bool `json:"cancelled" yaml:"cancelled"`
}

// Failures returns the files that ended in a per-file failure, in
// display order.
func (r *Result) Failures() []FileHash {
	var failed []FileHash
	for _, f := range r.Files {
		if f.Failed() {
			failed = append(failed, f)
		}
	}
	return failed
}

// Sort orders Files by relative path, then absolute path, so output is
// deterministic regardless of worker completion order.
func (r *Result) Sort() {
	sort.Slice(r.Files, func(i, j int) bool {
		if r.Files[i].RelPath != r.Files[j].RelPath {
			return r.Files[i].RelPath < r.Files[j].RelPath
		}
		return r.Files[i].Path < r.Files[j].Path
	})
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	// It returns an error if formatting fails.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
