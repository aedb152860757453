package output

import (
	"errors"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/engine"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// FromReport converts an engine report into a Result ready for any
// formatter. runErr is the error returned by Run; a cancellation
// sentinel marks the result as interrupted.
func FromReport(report *engine.Report, sources []string, runErr error) *Result {
	res := &Result{
		Algorithm: report.Algorithm.String(),
		Sources:   sources,
		Warnings:  report.Warnings,
		Cancelled: errors.Is(runErr, engine.ErrCancelled),
	}

	for _, s := range report.Storage {
		res.Storage = append(res.Storage, StorageInfo{
			Volume:     s.Volume,
			Type:       s.Type.String(),
			Bus:        s.Bus.String(),
			Threads:    s.Threads,
			Confidence: s.Confidence,
			Method:     s.Method,
		})
	}

	res.Files = make([]FileHash, 0, len(report.Results))
	for _, r := range report.Results {
		res.Files = append(res.Files, FileHash{
			Path:      r.Path,
			RelPath:   r.RelPath,
			Hash:      r.Hash,
			Size:      r.Size,
			SizeHuman: types.FormatSize(r.Size),
			Duration:  r.Duration,
			SpeedMBps: r.SpeedMBps(),
			Error:     r.Error,
			Kind:      string(r.Kind),
		})
	}
	res.Sort()

	m := report.Metrics
	res.Stats = RunStats{
		OperationID:      m.OperationID,
		StartTime:        m.StartTime,
		Duration:         m.Duration(),
		TotalFiles:       m.TotalFiles,
		ProcessedFiles:   m.ProcessedFiles,
		FailedFiles:      m.FailedFiles,
		TotalBytes:       m.TotalBytes,
		ProcessedBytes:   m.ProcessedBytes,
		AverageSpeedMBps: m.AverageSpeedMBps(),
		Workers:          report.Workers,
	}

	logger.Debug("report prepared for output",
		"files", len(res.Files),
		"failed", res.Stats.FailedFiles,
		"cancelled", res.Cancelled)
	return res
}
