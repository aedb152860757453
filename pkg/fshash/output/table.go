package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// TSVFormatter formats output as tab-separated values.
// It produces a simple table with a header row followed by data rows.
type TSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *TSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	// Write header
	w.WriteString("HASH\tSIZE\tPATH\n")

	// Write data rows
	for _, file := range r.Files {
		hash := file.Hash
		if file.Failed() {
			hash = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", hash, file.Size, file.Path)
	}

	return nil
}

func init() {
	Register("tsv", func() Formatter {
		return &TSVFormatter{}
	})
}

// Ensure TSVFormatter implements Formatter.
var _ Formatter = (*TSVFormatter)(nil)

// CSVFormatter formats output as comma-separated values with proper quoting.
// It uses encoding/csv for RFC 4180 compliant output. The error column is
// empty for successful files, so the format round-trips through evidence
// spreadsheets cleanly.
type CSVFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *CSVFormatter) Format(w *bytes.Buffer, r *Result) error {
	writer := csv.NewWriter(w)

	// Write header
	if err := writer.Write([]string{"HASH", "SIZE", "PATH", "ERROR"}); err != nil {
		return err
	}

	// Write data rows
	for _, file := range r.Files {
		row := []string{file.Hash, fmt.Sprintf("%d", file.Size), file.Path, file.Error}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	Register("csv", func() Formatter {
		return &CSVFormatter{}
	})
}

// Ensure CSVFormatter implements Formatter.
var _ Formatter = (*CSVFormatter)(nil)

// MarkdownFormatter formats output as a GitHub-flavored Markdown table.
// It produces a table with header, separator, and data rows using | delimiters.
type MarkdownFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *MarkdownFormatter) Format(w *bytes.Buffer, r *Result) error {
	// Write header
	w.WriteString("| HASH | SIZE | PATH |\n")

	// Write separator
	w.WriteString("|------|------|------|\n")

	// Write data rows
	for _, file := range r.Files {
		hash := file.Hash
		if file.Failed() {
			hash = "FAILED"
		}
		// Escape pipes in the path
		escapedPath := escapeMarkdownPipe(file.Path)
		fmt.Fprintf(w, "| %s | %s | %s |\n", hash, file.SizeHuman, escapedPath)
	}

	return nil
}

// escapeMarkdownPipe escapes pipe characters in a string for Markdown tables.
func escapeMarkdownPipe(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func init() {
	Register("markdown", func() Formatter {
		return &MarkdownFormatter{}
	})
}

// Ensure MarkdownFormatter implements Formatter.
var _ Formatter = (*MarkdownFormatter)(nil)
