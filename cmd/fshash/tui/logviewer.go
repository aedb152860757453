package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
)

// logRingBuffer is a thread-safe ring buffer for log entries with FIFO
// eviction.
type logRingBuffer struct {
	mu         sync.RWMutex
	entries    []logging.LogEntry
	maxEntries int
}

// newLogRingBuffer creates a new ring buffer with the specified max size.
func newLogRingBuffer(maxEntries int) *logRingBuffer {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &logRingBuffer{
		entries:    make([]logging.LogEntry, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Add appends an entry to the buffer, evicting the oldest if at capacity.
func (rb *logRingBuffer) Add(entry logging.LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(rb.entries) >= rb.maxEntries {
		rb.entries = rb.entries[1:]
	}
	rb.entries = append(rb.entries, entry)
}

// Entries returns a copy of all entries in chronological order.
func (rb *logRingBuffer) Entries() []logging.LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]logging.LogEntry, len(rb.entries))
	copy(result, rb.entries)
	return result
}

// Len returns the number of entries in the buffer.
func (rb *logRingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.entries)
}

// filterEntriesByLevel returns entries at or above the specified level.
func filterEntriesByLevel(entries []logging.LogEntry, minLevel logging.Level) []logging.LogEntry {
	result := make([]logging.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Level >= minLevel {
			result = append(result, e)
		}
	}
	return result
}

// clampLogScroll ensures the scroll offset stays within valid bounds.
func clampLogScroll(offset, totalEntries, visibleRows int) int {
	if totalEntries <= visibleRows {
		return 0
	}
	maxOffset := totalEntries - visibleRows
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

// logLevelStyle returns the style for a log level.
func logLevelStyle(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelDebug:
		return logDebugStyle
	case logging.LevelInfo:
		return logInfoStyle
	case logging.LevelWarn:
		return logWarnStyle
	case logging.LevelError:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

// logLevelChar returns a single character for the log level.
func logLevelChar(level logging.Level) string {
	switch level {
	case logging.LevelDebug:
		return "D"
	case logging.LevelInfo:
		return "I"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "?"
	}
}

// renderLogViewer renders the log pane below the main view.
func renderLogViewer(entries []logging.LogEntry, filterLevel logging.Level, scrollOffset, width, height int) string {
	if height < 3 {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf(" Logs [%s] ", filterLevel.String())
	hint := keyDescStyle.Render("[1-4] filter  [↑/↓] scroll  [l] close")
	b.WriteString(titleStyle.Render(title) + hint)
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	visibleRows := height - 2
	if visibleRows < 1 {
		visibleRows = 1
	}

	filtered := filterEntriesByLevel(entries, filterLevel)
	scrollOffset = clampLogScroll(scrollOffset, len(filtered), visibleRows)

	end := scrollOffset + visibleRows
	if end > len(filtered) {
		end = len(filtered)
	}
	visible := filtered[scrollOffset:end]

	for _, entry := range visible {
		b.WriteString(renderLogEntry(entry, width))
		b.WriteString("\n")
	}
	for i := len(visible); i < visibleRows; i++ {
		b.WriteString("\n")
	}

	if len(filtered) > visibleRows {
		indicator := mutedTextStyle.Render(fmt.Sprintf(" [%d-%d/%d]", scrollOffset+1, end, len(filtered)))
		padding := width - lipgloss.Width(indicator)
		if padding > 0 {
			b.WriteString(strings.Repeat(" ", padding))
		}
		b.WriteString(indicator)
	}

	return b.String()
}

// renderLogEntry renders one log line as HH:MM:SS [L] component: message.
func renderLogEntry(entry logging.LogEntry, width int) string {
	timeStr := entry.Time.Format("15:04:05")

	comp := entry.Component
	if len(comp) > 10 {
		comp = comp[:10]
	}

	prefixWidth := len(timeStr) + 1 + 3 + 1 + len(comp) + 2
	msgWidth := width - prefixWidth
	if msgWidth < 10 {
		msgWidth = 10
	}

	msg := entry.Message
	if len(msg) > msgWidth {
		msg = msg[:msgWidth-3] + "..."
	}

	return fmt.Sprintf("%s %s %s: %s",
		logTimeStyle.Render(timeStr),
		logLevelStyle(entry.Level).Render("["+logLevelChar(entry.Level)+"]"),
		logComponentStyle.Render(comp),
		msg)
}

// LogViewerState holds the state for the log viewer pane.
type LogViewerState struct {
	Open         bool
	Buffer       *logRingBuffer
	FilterLevel  logging.Level
	ScrollOffset int
}

// NewLogViewerState creates a new log viewer state showing all levels.
func NewLogViewerState() *LogViewerState {
	return &LogViewerState{
		Buffer:      newLogRingBuffer(200),
		FilterLevel: logging.LevelDebug,
	}
}

// Toggle toggles the log viewer open/closed.
func (s *LogViewerState) Toggle() {
	s.Open = !s.Open
}

// SetFilterLevel sets the filter level and resets scrolling.
func (s *LogViewerState) SetFilterLevel(level logging.Level) {
	s.FilterLevel = level
	s.ScrollOffset = 0
}

// ScrollUp scrolls up by one line.
func (s *LogViewerState) ScrollUp() {
	if s.ScrollOffset > 0 {
		s.ScrollOffset--
	}
}

// ScrollDown scrolls down by one line.
func (s *LogViewerState) ScrollDown(visibleRows int) {
	filtered := filterEntriesByLevel(s.Buffer.Entries(), s.FilterLevel)
	maxOffset := len(filtered) - visibleRows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.ScrollOffset < maxOffset {
		s.ScrollOffset++
	}
}

// View renders the pane against the buffer's current contents.
func (s *LogViewerState) View(width, height int) string {
	return renderLogViewer(s.Buffer.Entries(), s.FilterLevel, s.ScrollOffset, width, height)
}
