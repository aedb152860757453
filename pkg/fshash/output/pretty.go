package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	// Build header
	header := f.formatHeader(r)
	w.WriteString(header)
	w.WriteString("\n")

	// Build hash table
	table := f.formatTable(r)
	w.WriteString(table)

	// Build footer
	footer := f.formatFooter(r)
	w.WriteString(footer)

	// Add per-file failures if any
	if failures := r.Failures(); len(failures) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatFailures(failures))
	}

	// Add warnings if any
	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

// formatHeader builds the header box with run metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	// Sources line
	sourceLabel := LabelStyle.Render("Sources:")
	sourceValue := ValueStyle.Render(strings.Join(r.Sources, ", "))
	lines = append(lines, fmt.Sprintf("%s %s", sourceLabel, sourceValue))

	// Algorithm and run info line
	var infoParts []string

	algoLabel := LabelStyle.Render("Algorithm:")
	algoValue := ValueStyle.Render(r.Algorithm)
	infoParts = append(infoParts, fmt.Sprintf("%s %s", algoLabel, algoValue))

	hashedLabel := LabelStyle.Render("Hashed:")
	hashedValue := ValueStyle.Render(fmt.Sprintf("%d files in %s",
		r.Stats.ProcessedFiles, formatDuration(r.Stats.Duration)))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", hashedLabel, hashedValue))

	workersLabel := LabelStyle.Render("Workers:")
	workersValue := ValueStyle.Render(fmt.Sprintf("%d", r.Stats.Workers))
	infoParts = append(infoParts, fmt.Sprintf("%s %s", workersLabel, workersValue))

	lines = append(lines, strings.Join(infoParts, "  "))

	// One line per analyzed volume
	for _, s := range r.Storage {
		lines = append(lines, f.formatStorageLine(s))
	}

	// Cancellation notice
	if r.Cancelled {
		cancelledStyle := WarningStyle.Bold(true)
		lines = append(lines, cancelledStyle.Render("Hashing cancelled by user"))
	}

	content := strings.Join(lines, "\n")
	return HeaderBox.Render(content)
}

// formatStorageLine returns a styled description of one volume verdict.
func (f *PrettyFormatter) formatStorageLine(s StorageInfo) string {
	label := LabelStyle.Render("Storage:")

	desc := s.Type
	if s.Volume != "" {
		desc = fmt.Sprintf("%s %s", s.Volume, s.Type)
	}
	desc = fmt.Sprintf("%s, %d threads", desc, s.Threads)
	value := ValueStyle.Render(desc)

	method := MutedStyle.Render(fmt.Sprintf("(%s, confidence %.2f)", s.Method, s.Confidence))
	return fmt.Sprintf("%s %s %s", label, value, method)
}

// formatTable builds the hash table with HASH, SIZE, and PATH columns.
func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Files) == 0 {
		return MutedStyle.Render("  No files hashed\n")
	}

	var sb strings.Builder

	// Column headers
	hashHeader := TableHeaderStyle.Render("HASH")
	sizeHeader := TableHeaderStyle.Render("SIZE")
	pathHeader := TableHeaderStyle.Render("PATH")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", hashHeader, sizeHeader, pathHeader))

	// Calculate column widths for alignment
	hashWidth := len("FAILED")
	sizeWidth := 8
	for _, file := range r.Files {
		if len(file.Hash) > hashWidth {
			hashWidth = len(file.Hash)
		}
		if len(file.SizeHuman) > sizeWidth {
			sizeWidth = len(file.SizeHuman)
		}
	}

	// File rows
	for _, file := range r.Files {
		var hashStr string
		if file.Failed() {
			hashStr = ErrorStyle.Render(padRight("FAILED", hashWidth))
		} else {
			hashStr = HashStyle.Render(padRight(file.Hash, hashWidth))
		}
		sizeStr := SizeStyle.Render(padLeft(file.SizeHuman, sizeWidth))
		pathStr := PathStyle.Render(file.RelPath)
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", hashStr, sizeStr, pathStr))
	}

	return sb.String()
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	var parts []string

	// File count
	fileCountLabel := LabelStyle.Render("Files:")
	fileCountValue := ValueStyle.Render(fmt.Sprintf("%d", r.Stats.ProcessedFiles))
	parts = append(parts, fmt.Sprintf("%s %s", fileCountLabel, fileCountValue))

	// Failure count, only when present
	if r.Stats.FailedFiles > 0 {
		failedLabel := LabelStyle.Render("Failed:")
		failedValue := ErrorStyle.Render(fmt.Sprintf("%d", r.Stats.FailedFiles))
		parts = append(parts, fmt.Sprintf("%s %s", failedLabel, failedValue))
	}

	// Total size
	totalSizeLabel := LabelStyle.Render("Total:")
	totalSizeValue := SizeStyle.Render(humanize.IBytes(uint64(r.Stats.ProcessedBytes)))
	parts = append(parts, fmt.Sprintf("%s %s", totalSizeLabel, totalSizeValue))

	// Throughput
	speedLabel := LabelStyle.Render("Speed:")
	speedValue := ValueStyle.Render(fmt.Sprintf("%.1f MB/s", r.Stats.AverageSpeedMBps))
	parts = append(parts, fmt.Sprintf("%s %s", speedLabel, speedValue))

	// Hints
	hint := MutedStyle.Render("Use -f sum for checksum lines")
	parts = append(parts, hint)

	content := strings.Join(parts, "  ")
	return FooterBox.Render(content)
}

// formatFailures builds a block listing per-file failures.
func (f *PrettyFormatter) formatFailures(failures []FileHash) string {
	var sb strings.Builder

	titleStyle := ErrorStyle.Bold(true)
	sb.WriteString(titleStyle.Render("Failures:"))
	sb.WriteString("\n")

	for _, file := range failures {
		line := fmt.Sprintf("  %s: %s", file.RelPath, file.Error)
		sb.WriteString(ErrorStyle.Render(line))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatWarnings builds a warning block.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	titleStyle := WarningStyle.Bold(true)
	sb.WriteString(titleStyle.Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}

	return sb.String()
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// padRight pads a string with spaces on the right to achieve the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatDuration formats a time.Duration as a human-friendly string.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
