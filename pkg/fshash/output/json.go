package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Results []jsonResult  `json:"results"`
	Stats   jsonStats     `json:"stats"`
	Storage []jsonStorage `json:"storage,omitempty"`
	Meta    jsonMeta      `json:"meta"`
}

// jsonResult represents one file outcome in JSON output.
type jsonResult struct {
	Path      string  `json:"path"`
	RelPath   string  `json:"rel_path,omitempty"`
	Algorithm string  `json:"algorithm"`
	Hash      string  `json:"hash,omitempty"`
	Size      int64   `json:"size"`
	SizeHuman string  `json:"size_human"`
	Duration  string  `json:"duration,omitempty"`
	SpeedMBps float64 `json:"speed_mbps,omitempty"`
	Error     string  `json:"error,omitempty"`
	Kind      string  `json:"kind,omitempty"`
}

// jsonStats represents run statistics in JSON output.
type jsonStats struct {
	OperationID      string    `json:"operation_id"`
	StartTime        time.Time `json:"start_time"`
	Duration         string    `json:"duration"`
	TotalFiles       int64     `json:"total_files"`
	ProcessedFiles   int64     `json:"processed_files"`
	FailedFiles      int64     `json:"failed_files"`
	TotalBytes       int64     `json:"total_bytes"`
	ProcessedBytes   int64     `json:"processed_bytes"`
	AverageSpeedMBps float64   `json:"average_speed_mbps"`
	Workers          int       `json:"workers"`
}

// jsonStorage represents one volume verdict in JSON output.
type jsonStorage struct {
	Volume     string  `json:"volume,omitempty"`
	Type       string  `json:"type"`
	Bus        string  `json:"bus"`
	Threads    int     `json:"threads"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// jsonMeta represents metadata in JSON output.
type jsonMeta struct {
	Sources   []string `json:"sources"`
	Warnings  []string `json:"warnings,omitempty"`
	Cancelled bool     `json:"cancelled"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with results, stats, storage, and
// meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts Result to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *Result) jsonOutput {
	results := make([]jsonResult, len(r.Files))
	for i, file := range r.Files {
		results[i] = buildJSONResult(r.Algorithm, file)
	}

	stats := jsonStats{
		OperationID:      r.Stats.OperationID,
		StartTime:        r.Stats.StartTime,
		Duration:         formatDurationString(r.Stats.Duration),
		TotalFiles:       r.Stats.TotalFiles,
		ProcessedFiles:   r.Stats.ProcessedFiles,
		FailedFiles:      r.Stats.FailedFiles,
		TotalBytes:       r.Stats.TotalBytes,
		ProcessedBytes:   r.Stats.ProcessedBytes,
		AverageSpeedMBps: r.Stats.AverageSpeedMBps,
		Workers:          r.Stats.Workers,
	}

	storage := make([]jsonStorage, len(r.Storage))
	for i, s := range r.Storage {
		storage[i] = jsonStorage{
			Volume:     s.Volume,
			Type:       s.Type,
			Bus:        s.Bus,
			Threads:    s.Threads,
			Confidence: s.Confidence,
			Method:     s.Method,
		}
	}

	meta := jsonMeta{
		Sources:   r.Sources,
		Warnings:  r.Warnings,
		Cancelled: r.Cancelled,
	}

	return jsonOutput{
		Results: results,
		Stats:   stats,
		Storage: storage,
		Meta:    meta,
	}
}

// buildJSONResult converts one FileHash to its JSON representation.
func buildJSONResult(algorithm string, file FileHash) jsonResult {
	return jsonResult{
		Path:      file.Path,
		RelPath:   file.RelPath,
		Algorithm: algorithm,
		Hash:      file.Hash,
		Size:      file.Size,
		SizeHuman: file.SizeHuman,
		Duration:  formatDurationString(file.Duration),
		SpeedMBps: file.SpeedMBps,
		Error:     file.Error,
		Kind:      file.Kind,
	}
}

// formatDurationString formats a duration as a string for JSON output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one object per line).
// Each file outcome is written as a compact JSON object on its own line.
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, file := range r.Files {
		data, err := json.Marshal(buildJSONResult(r.Algorithm, file))
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
