// Package engine orchestrates parallel file hashing. It resolves the
// file set, sizes a worker pool from the storage each input lives on,
// fans files out to hash workers, and folds the outcomes into a single
// report.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/discover"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/hasher"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/storage"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// Engine runs one hashing operation. Create with New and call Run
// once.
type Engine struct {
	opts     Options
	analyzer Analyzer
	hasher   *hasher.Hasher
	logger   *logging.Logger

	// mu guards results, metrics, and the closed flag. Once closed is
	// set the report is final and late results are dropped.
	mu      sync.Mutex
	results map[string]*types.HashResult
	metrics *types.Metrics
	closed  bool
}

// New builds an Engine. It constructs a storage detector unless one is
// injected through Options.Analyzer.
func New(opts Options) (*Engine, error) {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	analyzer := opts.Analyzer
	if analyzer == nil {
		detector, err := storage.NewDetector(opts.Storage)
		if err != nil {
			return nil, fmt.Errorf("create storage detector: %w", err)
		}
		analyzer = detector
	}

	return &Engine{
		opts:     opts,
		analyzer: analyzer,
		hasher: hasher.New(hasher.Options{
			Algorithm:  opts.Algorithm,
			Policy:     opts.Policy,
			PauseCheck: opts.PauseCheck,
		}),
		logger:  logging.Get("engine"),
		results: make(map[string]*types.HashResult),
	}, nil
}

// Run hashes every regular file reachable from paths. The returned
// report is never nil: on cancellation it holds the files completed so
// far, and on ErrAllFailed it holds the per-file failures.
//
// An empty file set is a success, not an error.
func (e *Engine) Run(ctx context.Context, paths []string) (*Report, error) {
	e.metrics = &types.Metrics{
		OperationID: uuid.New().String(),
		StartTime:   time.Now(),
	}
	report := &Report{
		Results:   e.results,
		Metrics:   e.metrics,
		Algorithm: e.opts.Algorithm,
	}

	e.logger.Info("hash operation starting",
		"operation_id", e.metrics.OperationID,
		"algorithm", e.opts.Algorithm.String(),
		"inputs", len(paths))

	// Resolve the file set.
	walker := discover.New(discover.Options{Paths: paths, Exclude: e.opts.Exclude})
	files, warnings, err := walker.Discover(ctx)
	report.Warnings = warnings
	if err != nil {
		e.finalize()
		e.logger.Warn("cancelled during discovery")
		return report, ErrCancelled
	}

	for _, f := range files {
		e.metrics.TotalFiles++
		e.metrics.TotalBytes += f.Size
	}

	if len(files) == 0 {
		// Nothing to hash is a successful, empty operation.
		e.finalize()
		e.complete()
		return report, nil
	}

	// Size the pool from the volumes the inputs live on.
	report.Storage, report.Workers = e.resolveWorkers(ctx, paths, len(files))

	e.logger.Info("parallelism resolved",
		"workers", report.Workers,
		"volumes", len(report.Storage),
		"files", e.metrics.TotalFiles,
		"bytes", e.metrics.TotalBytes)

	// Feed files to the pool. The feeder stops on cancellation so
	// workers drain instead of picking up new work.
	jobs := make(chan discover.File)
	go func() {
		defer close(jobs)
		for _, f := range files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < report.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.worker(ctx, jobs)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Give in-flight files a bounded window to finish.
		select {
		case <-done:
		case <-time.After(e.opts.ShutdownTimeout):
			e.logger.Error("workers did not drain before timeout",
				"timeout", e.opts.ShutdownTimeout.String())
		}
	}

	e.finalize()

	if ctx.Err() != nil {
		e.logger.Warn("hash operation cancelled",
			"processed", e.metrics.ProcessedFiles,
			"total", e.metrics.TotalFiles)
		return report, ErrCancelled
	}

	if e.metrics.FailedFiles == e.metrics.TotalFiles {
		e.logger.Error("every file failed", "files", e.metrics.TotalFiles)
		return report, ErrAllFailed
	}

	e.complete()
	e.logger.Info("hash operation complete",
		"files", e.metrics.ProcessedFiles,
		"failed", e.metrics.FailedFiles,
		"bytes", e.metrics.ProcessedBytes,
		"duration", e.metrics.Duration().String(),
		"speed_mbps", fmt.Sprintf("%.1f", e.metrics.AverageSpeedMBps()))
	return report, nil
}

// worker hashes files from jobs until the channel closes or the
// context is cancelled mid-file.
func (e *Engine) worker(ctx context.Context, jobs <-chan discover.File) {
	for f := range jobs {
		result, err := e.hasher.HashFile(ctx, f.Path, f.Rel)
		if err != nil {
			// Cancelled. The feeder stops on its own.
			return
		}
		e.merge(result)
	}
}

// resolveWorkers analyzes the volume behind each input path and sizes
// the pool. Inputs on the same volume are analyzed once; when inputs
// span volumes the most conservative recommendation wins.
func (e *Engine) resolveWorkers(ctx context.Context, paths []string, fileCount int) ([]storage.Info, int) {
	seen := make(map[string]bool)
	var infos []storage.Info
	threads := 0

	for _, p := range paths {
		info := e.analyzer.AnalyzePath(ctx, p)
		key := info.Volume
		if key == "" {
			key = p
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		infos = append(infos, info)
		if threads == 0 || info.Threads < threads {
			threads = info.Threads
		}
	}
	if threads <= 0 {
		threads = 1
	}

	workers := threads
	if e.opts.Workers > 0 {
		workers = e.opts.Workers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > fileCount {
		workers = fileCount
	}
	if workers < 1 {
		workers = 1
	}
	return infos, workers
}

// merge folds one completed file into the shared state and emits a
// progress update. Results arriving after finalization are dropped so
// a straggler cannot mutate a report that was already returned.
func (e *Engine) merge(result *types.HashResult) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.logger.Warn("dropping result after finalization", "path", result.Path)
		return
	}

	e.results[result.Path] = result
	e.metrics.ProcessedFiles++
	if result.Success() {
		e.metrics.ProcessedBytes += result.Size
	} else {
		e.metrics.FailedFiles++
	}

	base := filepath.Base(result.Path)
	e.metrics.CurrentFile = base
	update := e.snapshotLocked(e.metrics.ProgressPercent(), "Hashing "+base)
	e.mu.Unlock()

	e.notify(update)
}

// finalize stamps the end time and closes the merge gate. Idempotent.
func (e *Engine) finalize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.metrics.EndTime = time.Now()
}

// complete emits the terminal progress update.
func (e *Engine) complete() {
	e.mu.Lock()
	update := e.snapshotLocked(100, fmt.Sprintf("Hashing complete: %d files", e.metrics.ProcessedFiles))
	e.mu.Unlock()

	e.notify(update)
}

// snapshotLocked copies the live metrics into a Progress. Callers hold
// e.mu.
func (e *Engine) snapshotLocked(percent int, message string) Progress {
	return Progress{
		Percent:          percent,
		Message:          message,
		ProcessedFiles:   e.metrics.ProcessedFiles,
		TotalFiles:       e.metrics.TotalFiles,
		ProcessedBytes:   e.metrics.ProcessedBytes,
		TotalBytes:       e.metrics.TotalBytes,
		CurrentFile:      e.metrics.CurrentFile,
		AverageSpeedMBps: e.metrics.AverageSpeedMBps(),
	}
}

// notify delivers a progress update outside the state lock.
func (e *Engine) notify(p Progress) {
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(p)
	}
}
