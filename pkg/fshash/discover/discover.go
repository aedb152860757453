// Package discover resolves user-supplied paths into the concrete set
// of files to hash. Directory inputs are walked in parallel, file
// inputs are taken as-is, and a path reached through more than one
// input is kept once, first seen wins.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
)

// File is one discovered regular file.
type File struct {
	// Path is the absolute path on disk.
	Path string

	// Rel is the path relative to the input that produced the file: the
	// base name for file inputs, the walk-relative path for directory
	// inputs.
	Rel string

	// Size is the file size in bytes at discovery time.
	Size int64
}

// Options configures discovery.
type Options struct {
	// Paths are the files and directories to resolve, in the order the
	// user supplied them.
	Paths []string

	// Exclude contains glob patterns for paths to skip. Patterns match
	// the base name or the full path, and a directory match prunes its
	// whole subtree.
	Exclude []string
}

// Walker resolves inputs into files. Collection state is guarded by a
// single mutex because fastwalk invokes callbacks from many goroutines.
type Walker struct {
	opts   Options
	logger *logging.Logger

	mu       sync.Mutex
	seen     map[string]bool
	files    []File
	warnings []string
}

// New creates a Walker for the given options.
func New(opts Options) *Walker {
	return &Walker{
		opts:   opts,
		logger: logging.Get("discover"),
		seen:   make(map[string]bool),
	}
}

// Discover resolves every input path and returns the deduplicated file
// set. Unreachable inputs and unreadable directories become warnings,
// not errors; the only error returned is the context's.
func (w *Walker) Discover(ctx context.Context) ([]File, []string, error) {
	for _, input := range w.opts.Paths {
		if err := ctx.Err(); err != nil {
			return w.files, w.warnings, err
		}

		abs, err := filepath.Abs(input)
		if err != nil {
			w.addWarning(fmt.Sprintf("cannot resolve %s: %v", input, err))
			continue
		}

		info, err := os.Stat(abs)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			w.addWarning(fmt.Sprintf("path does not exist: %s", input))
			continue
		case err != nil:
			w.addWarning(fmt.Sprintf("cannot access %s: %v", input, err))
			continue
		}

		if info.IsDir() {
			if err := w.walkDir(ctx, abs); err != nil {
				return w.files, w.warnings, err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			w.addWarning(fmt.Sprintf("not a regular file: %s", input))
			continue
		}

		w.add(File{Path: abs, Rel: filepath.Base(abs), Size: info.Size()})
	}

	return w.files, w.warnings, nil
}

// walkDir walks one directory input with fastwalk.
func (w *Walker) walkDir(ctx context.Context, root string) error {
	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		<-walkCtx.Done()
		close(done)
	}()

	err := fastwalk.Walk(&conf, root, w.walkCallback(root, done))
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, fastwalk.ErrSkipFiles) {
		return err
	}
	return ctx.Err()
}

// walkCallback returns the callback function for fastwalk.Walk.
func (w *Walker) walkCallback(root string, done <-chan struct{}) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		// Check for cancellation.
		select {
		case <-done:
			return fastwalk.ErrSkipFiles
		default:
		}

		// Record the failure and keep walking.
		if err != nil {
			w.addWarning(fmt.Sprintf("cannot read %s: %v", path, err))
			return nil
		}

		if w.isExcluded(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.addWarning(fmt.Sprintf("cannot stat %s: %v", path, err))
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}

		w.add(File{Path: path, Rel: rel, Size: info.Size()})
		return nil
	}
}

// add records a file unless its path was already claimed by an earlier
// input.
func (w *Walker) add(f File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[f.Path] {
		return
	}
	w.seen[f.Path] = true
	w.files = append(w.files, f)
}

// addWarning records a non-fatal discovery problem.
func (w *Walker) addWarning(msg string) {
	w.mu.Lock()
	w.warnings = append(w.warnings, msg)
	w.mu.Unlock()
	w.logger.Warn(msg)
}

// isExcluded checks if a path matches any exclusion pattern.
func (w *Walker) isExcluded(path string) bool {
	for _, pattern := range w.opts.Exclude {
		if matchesExclusionPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchesExclusionPattern checks if a path matches a single exclusion
// pattern.
func matchesExclusionPattern(path, pattern string) bool {
	if pattern == "" {
		return false
	}

	// Check if the path starts with the exclusion pattern (for directories).
	if len(path) >= len(pattern) {
		if path == pattern {
			return true
		}
		if len(path) > len(pattern) && path[:len(pattern)+1] == pattern+string(filepath.Separator) {
			return true
		}
	}

	// Try glob matching against basename.
	if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
		return true
	}

	// Try matching against full path.
	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	return false
}
