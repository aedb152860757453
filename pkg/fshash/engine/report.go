package engine

import (
	"errors"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/storage"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// ErrCancelled reports that the operation stopped on a cancelled
// context. The report returned alongside it holds everything completed
// up to that point.
var ErrCancelled = errors.New("hashing cancelled")

// ErrAllFailed reports that files were found but every one of them
// failed. The report carries the per-file failures.
var ErrAllFailed = errors.New("all files failed to hash")

// Report is the full outcome of one hashing operation. Run always
// returns one, even on error, so callers can render partial results.
type Report struct {
	// Results maps absolute file paths to their outcomes, failures
	// included.
	Results map[string]*types.HashResult `json:"results"`

	// Metrics describes the operation as a whole.
	Metrics *types.Metrics `json:"metrics"`

	// Warnings lists non-fatal discovery problems, such as inputs that
	// do not exist.
	Warnings []string `json:"warnings,omitempty"`

	// Storage holds one verdict per distinct volume the inputs live on.
	Storage []storage.Info `json:"storage,omitempty"`

	// Algorithm is the digest algorithm applied to every file.
	Algorithm types.Algorithm `json:"algorithm"`

	// Workers is the parallelism the operation ran with.
	Workers int `json:"workers"`
}

// Progress is one update delivered to the OnProgress callback. Updates
// are emitted per completed file; renderers throttle as needed.
type Progress struct {
	// Percent is file-granular completion in [0,100].
	Percent int

	// Message is a short human-readable status line.
	Message string

	ProcessedFiles int64
	TotalFiles     int64
	ProcessedBytes int64
	TotalBytes     int64

	// CurrentFile is the base name of the most recently completed file.
	CurrentFile string

	// AverageSpeedMBps is the running throughput since the operation
	// started.
	AverageSpeedMBps float64
}

// UserMessage returns a short human explanation for a Run error.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return "Hashing cancelled"
	case errors.Is(err, ErrAllFailed):
		return "All files failed to hash"
	default:
		return err.Error()
	}
}
