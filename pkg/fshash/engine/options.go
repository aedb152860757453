package engine

import (
	"context"
	"time"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/hasher"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/storage"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

const (
	// DefaultShutdownTimeout bounds how long Run waits for in-flight
	// files to finish after cancellation.
	DefaultShutdownTimeout = 30 * time.Second

	// maxWorkers caps the pool regardless of what the storage layer or
	// an override asks for.
	maxWorkers = 16
)

// Analyzer resolves a path to a storage verdict. It is satisfied by
// *storage.Detector.
type Analyzer interface {
	AnalyzePath(ctx context.Context, path string) storage.Info
}

// Options configures a hashing operation.
type Options struct {
	// Algorithm selects the digest applied to every file.
	Algorithm types.Algorithm

	// Workers overrides the storage-derived worker count when
	// positive. The result is still clamped to [1,16] and to the
	// number of files.
	Workers int

	// Exclude holds glob patterns for paths to skip during discovery.
	Exclude []string

	// Policy selects the per-file read buffer sizes. The zero value
	// means defaults.
	Policy hasher.BufferPolicy

	// OnProgress, when set, receives one update per completed file and
	// a final completion update. It is called from worker goroutines
	// and must be safe for concurrent use.
	OnProgress func(Progress)

	// PauseCheck, when set, is polled between reads; workers hold
	// while it returns true.
	PauseCheck func() bool

	// ShutdownTimeout bounds the post-cancellation drain. Zero means
	// DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Storage configures the volume detector built when Analyzer is
	// nil.
	Storage storage.Config

	// Analyzer overrides the storage detector.
	Analyzer Analyzer
}
