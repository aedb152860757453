package output

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlOutput represents the full YAML output structure.
type yamlOutput struct {
	Results []yamlResult  `yaml:"results"`
	Stats   yamlStats     `yaml:"stats"`
	Storage []yamlStorage `yaml:"storage,omitempty"`
	Meta    yamlMeta      `yaml:"meta"`
}

// yamlResult represents one file outcome in YAML output.
type yamlResult struct {
	Path      string  `yaml:"path"`
	RelPath   string  `yaml:"rel_path,omitempty"`
	Algorithm string  `yaml:"algorithm"`
	Hash      string  `yaml:"hash,omitempty"`
	Size      int64   `yaml:"size"`
	SizeHuman string  `yaml:"size_human"`
	Duration  string  `yaml:"duration,omitempty"`
	SpeedMBps float64 `yaml:"speed_mbps,omitempty"`
	Error     string  `yaml:"error,omitempty"`
	Kind      string  `yaml:"kind,omitempty"`
}

// yamlStats represents run statistics in YAML output.
type yamlStats struct {
	OperationID      string    `yaml:"operation_id"`
	StartTime        time.Time `yaml:"start_time"`
	Duration         string    `yaml:"duration"`
	TotalFiles       int64     `yaml:"total_files"`
	ProcessedFiles   int64     `yaml:"processed_files"`
	FailedFiles      int64     `yaml:"failed_files"`
	TotalBytes       int64     `yaml:"total_bytes"`
	ProcessedBytes   int64     `yaml:"processed_bytes"`
	AverageSpeedMBps float64   `yaml:"average_speed_mbps"`
	Workers          int       `yaml:"workers"`
}

// yamlStorage represents one volume verdict in YAML output.
type yamlStorage struct {
	Volume     string  `yaml:"volume,omitempty"`
	Type       string  `yaml:"type"`
	Bus        string  `yaml:"bus"`
	Threads    int     `yaml:"threads"`
	Confidence float64 `yaml:"confidence"`
	Method     string  `yaml:"method"`
}

// yamlMeta represents metadata in YAML output.
type yamlMeta struct {
	Sources   []string `yaml:"sources"`
	Warnings  []string `yaml:"warnings,omitempty"`
	Cancelled bool     `yaml:"cancelled"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

// buildOutput converts Result to the YAML output structure.
func (f *YAMLFormatter) buildOutput(r *Result) yamlOutput {
	results := make([]yamlResult, len(r.Files))
	for i, file := range r.Files {
		results[i] = yamlResult{
			Path:      file.Path,
			RelPath:   file.RelPath,
			Algorithm: r.Algorithm,
			Hash:      file.Hash,
			Size:      file.Size,
			SizeHuman: file.SizeHuman,
			Duration:  formatDurationString(file.Duration),
			SpeedMBps: file.SpeedMBps,
			Error:     file.Error,
			Kind:      file.Kind,
		}
	}

	stats := yamlStats{
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

	storage := make([]yamlStorage, len(r.Storage))
	for i, s := range r.Storage {
		storage[i] = yamlStorage{
			Volume:     s.Volume,
			Type:       s.Type,
			Bus:        s.Bus,
			Threads:    s.Threads,
			Confidence: s.Confidence,
			Method:     s.Method,
		}
	}

	meta := yamlMeta{
		Sources:   r.Sources,
		Warnings:  r.Warnings,
		Cancelled: r.Cancelled,
	}

	return yamlOutput{
		Results: results,
		Stats:   stats,
		Storage: storage,
		Meta:    meta,
	}
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
