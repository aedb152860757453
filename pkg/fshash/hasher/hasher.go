// Package hasher computes file digests with size-aware read buffers,
// cooperative cancellation, and pause support. Per-file problems are
// returned inside the result, never as errors, so one unreadable file
// cannot stop a batch.
package hasher

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// pausePoll is how often a paused worker rechecks its gates.
const pausePoll = 100 * time.Millisecond

// BufferPolicy maps a file size onto a read buffer size. Small files
// avoid oversized allocations, large files amortize read syscalls.
type BufferPolicy struct {
	// SmallMax and MediumMax are exclusive upper bounds, in bytes, for
	// the small and medium tiers.
	SmallMax  int64
	MediumMax int64

	// SmallSize, MediumSize, and LargeSize are the buffer sizes for the
	// three tiers.
	SmallSize  int
	MediumSize int
	LargeSize  int
}

// DefaultBufferPolicy returns the stock three-tier policy.
func DefaultBufferPolicy() BufferPolicy {
	return BufferPolicy{
		SmallMax:   1_000_000,
		MediumMax:  100_000_000,
		SmallSize:  256 * int(types.KiB),
		MediumSize: 2 * int(types.MiB),
		LargeSize:  10 * int(types.MiB),
	}
}

// BufferFor returns the buffer size for a file of the given size.
func (p BufferPolicy) BufferFor(size int64) int {
	switch {
	case size < p.SmallMax:
		return p.SmallSize
	case size < p.MediumMax:
		return p.MediumSize
	default:
		return p.LargeSize
	}
}

// Options configures a Hasher.
type Options struct {
	// Algorithm is the digest algorithm to apply.
	Algorithm types.Algorithm

	// Policy selects read buffer sizes. The zero value means the
	// default three-tier policy.
	Policy BufferPolicy

	// PauseCheck reports whether hashing should hold. It is polled
	// between reads; nil means never paused.
	PauseCheck func() bool
}

// Hasher digests files one at a time. It is safe for concurrent use by
// multiple workers.
type Hasher struct {
	algorithm types.Algorithm
	policy    BufferPolicy
	pause     func() bool
	logger    *logging.Logger
}

// New creates a Hasher with the given options.
func New(opts Options) *Hasher {
	if opts.Policy == (BufferPolicy{}) {
		opts.Policy = DefaultBufferPolicy()
	}
	return &Hasher{
		algorithm: opts.Algorithm,
		policy:    opts.Policy,
		pause:     opts.PauseCheck,
		logger:    logging.Get("hasher"),
	}
}

// HashFile digests one file. The returned error is non-nil only when
// ctx is cancelled mid-file; every per-file problem comes back inside
// the HashResult instead.
func (h *Hasher) HashFile(ctx context.Context, path, rel string) (*types.HashResult, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return h.failure(path, rel, start, err), nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return h.failure(path, rel, start, err), nil
	}

	digest := h.algorithm.New()
	buf := make([]byte, h.policy.BufferFor(info.Size()))

	var hashed int64
	for {
		if err := h.wait(ctx); err != nil {
			return nil, err
		}

		n, err := f.Read(buf)
		if n > 0 {
			digest.Write(buf[:n])
			hashed += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return h.failure(path, rel, start, err), nil
		}
	}

	result := &types.HashResult{
		Path:      path,
		RelPath:   rel,
		Algorithm: h.algorithm,
		Hash:      hex.EncodeToString(digest.Sum(nil)),
		Size:      hashed,
		Duration:  time.Since(start),
	}
	h.logger.Debug("hashed file",
		"path", path,
		"bytes", hashed,
		"duration", result.Duration)
	return result, nil
}

// wait blocks while hashing is paused and reports context cancellation.
func (h *Hasher) wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if h.pause == nil || !h.pause() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pausePoll):
		}
	}
}

// failure builds the per-file failure result for err.
func (h *Hasher) failure(path, rel string, start time.Time, err error) *types.HashResult {
	h.logger.Warn("file failed", "path", path, "error", err)
	return &types.HashResult{
		Path:      path,
		RelPath:   rel,
		Algorithm: h.algorithm,
		Duration:  time.Since(start),
		Error:     err.Error(),
		Kind:      classifyError(err),
	}
}

// classifyError maps an I/O failure onto its report category.
func classifyError(err error) types.ErrorKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return types.KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return types.KindPermission
	default:
		return types.KindIO
	}
}
