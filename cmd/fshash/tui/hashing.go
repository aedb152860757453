package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/engine"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// HashModel represents the hashing phase of the TUI.
type HashModel struct {
	progress    engine.Progress
	spinner     spinner.Model
	currentFile string
	startTime   time.Time
	width       int
	height      int
	paths       []string
	algorithm   types.Algorithm
	paused      bool
	cancelling  bool
	done        bool
	err         error
}

// progressMsg is sent when hashing progress is updated.
type progressMsg engine.Progress

// hashCompleteMsg is sent when the hashing run finishes, successfully
// or not. The report may hold partial results on cancellation.
type hashCompleteMsg struct {
	report *engine.Report
	err    error
}

// NewHashModel creates a new hashing model.
func NewHashModel(paths []string, algorithm types.Algorithm) HashModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return HashModel{
		spinner:   s,
		startTime: time.Now(),
		width:     80,
		height:    24,
		paths:     paths,
		algorithm: algorithm,
	}
}

// Init initializes the hashing model.
func (m HashModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the hashing model.
func (m HashModel) Update(msg tea.Msg) (HashModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case progressMsg:
		m.progress = engine.Progress(msg)
		m.currentFile = msg.CurrentFile
		return m, nil

	case hashCompleteMsg:
		m.done = true
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the hashing model.
func (m HashModel) View() string {
	var b strings.Builder

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	b.WriteString("\n")

	// Header
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	// Hashing status
	switch {
	case m.done && m.err != nil:
		b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	case m.done:
		b.WriteString(successTextStyle.Render("  Hashing complete!"))
	case m.cancelling:
		b.WriteString(warningTextStyle.Render("  Cancelling, finishing in-flight files..."))
	case m.paused:
		b.WriteString(warningTextStyle.Render(fmt.Sprintf("  Paused: %s",
			truncatePath(m.currentFile, contentWidth-20))))
	default:
		b.WriteString(fmt.Sprintf("  %s Hashing: %s",
			m.spinner.View(),
			truncatePath(m.currentFile, contentWidth-20)))
	}
	b.WriteString("\n\n")

	// Progress bar
	b.WriteString(m.renderProgressBar(contentWidth))
	b.WriteString("\n\n")

	// Stats boxes
	b.WriteString(m.renderStats(contentWidth))
	b.WriteString("\n")

	content := b.String()
	contentLines := strings.Count(content, "\n") + 1

	availableLines := m.height - 2
	if availableLines > contentLines {
		content += strings.Repeat("\n", availableLines-contentLines)
	}

	return outerBoxStyle.Width(m.width - 2).Height(m.height - 2).Render(content)
}

// renderHeader renders the header section with key hints.
func (m HashModel) renderHeader(width int) string {
	title := titleStyle.Render(fmt.Sprintf("  fshash · %s", m.algorithm))

	hints := keyStyle.Render("[p]") + keyDescStyle.Render(" pause ") +
		keyStyle.Render("[l]") + keyDescStyle.Render(" logs ") +
		keyStyle.Render("[q]") + keyDescStyle.Render(" cancel")

	spacing := width - lipgloss.Width(title) - lipgloss.Width(hints)
	if spacing < 1 {
		spacing = 1
	}

	return title + strings.Repeat(" ", spacing) + hints
}

// renderProgressBar renders byte-granular progress. Until discovery
// reports a total, an animated indeterminate bar is shown instead.
func (m HashModel) renderProgressBar(width int) string {
	barWidth := width - 10
	if barWidth < 10 {
		barWidth = 10
	}

	fillStyle := progressFillStyle
	if m.paused {
		fillStyle = progressPausedStyle
	}

	if m.progress.TotalBytes <= 0 {
		return "  " + m.renderPulse(barWidth, fillStyle)
	}

	pct := float64(m.progress.ProcessedBytes) / float64(m.progress.TotalBytes)
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(barWidth))
	empty := barWidth - filled

	bar := "  " + fillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", empty))
	return bar + fmt.Sprintf(" %3d%%", int(pct*100))
}

// renderPulse renders the indeterminate animation used before file
// discovery completes.
func (m HashModel) renderPulse(barWidth int, fillStyle lipgloss.Style) string {
	elapsed := time.Since(m.startTime)
	position := int(elapsed.Seconds()*2) % (barWidth * 2)
	if position > barWidth {
		position = barWidth*2 - position
	}

	pulseWidth := barWidth / 5
	if pulseWidth < 3 {
		pulseWidth = 3
	}

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		dist := i - position
		if dist < 0 {
			dist = -dist
		}
		if dist < pulseWidth {
			bar.WriteString(fillStyle.Render("█"))
		} else {
			bar.WriteString(progressEmptyStyle.Render("░"))
		}
	}
	return bar.String()
}

// renderStats renders the statistics boxes.
func (m HashModel) renderStats(totalWidth int) string {
	boxWidth := (totalWidth - 10) / 4
	if boxWidth < 12 {
		boxWidth = 12
	}

	filesVal := humanize.Comma(m.progress.ProcessedFiles)
	if m.progress.TotalFiles > 0 {
		filesVal = fmt.Sprintf("%s/%s",
			humanize.Comma(m.progress.ProcessedFiles),
			humanize.Comma(m.progress.TotalFiles))
	}

	bytesVal := types.FormatSize(m.progress.ProcessedBytes)

	speedVal := "-"
	if m.progress.AverageSpeedMBps > 0 {
		speedVal = fmt.Sprintf("%.1f MB/s", m.progress.AverageSpeedMBps)
	}

	elapsedVal := formatDuration(time.Since(m.startTime))

	filesBox := m.renderStatBox("Files", filesVal, boxWidth)
	bytesBox := m.renderStatBox("Hashed", bytesVal, boxWidth)
	speedBox := m.renderStatBox("Speed", speedVal, boxWidth)
	elapsedBox := m.renderStatBox("Time", elapsedVal, boxWidth)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		"  ", filesBox, " ", bytesBox, " ", speedBox, " ", elapsedBox)
}

// renderStatBox renders a single stat box.
func (m HashModel) renderStatBox(label, value string, width int) string {
	labelStr := statsLabelStyle.Render(label)
	valueStr := statsValueStyle.Render(value)

	content := lipgloss.JoinVertical(lipgloss.Center,
		center(labelStr, width-4),
		center(valueStr, width-4))

	return statsBoxStyle.Width(width).Render(content)
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// SetProgress updates the progress.
func (m *HashModel) SetProgress(p engine.Progress) {
	m.progress = p
	m.currentFile = p.CurrentFile
}

// SetPaused updates the paused indicator.
func (m *HashModel) SetPaused(paused bool) {
	m.paused = paused
}

// SetCancelling marks the run as draining after a cancel request.
func (m *HashModel) SetCancelling() {
	m.cancelling = true
}

// SetDone marks the run as complete.
func (m *HashModel) SetDone(err error) {
	m.done = true
	m.err = err
}

// IsDone returns true if the run is complete.
func (m HashModel) IsDone() bool {
	return m.done
}

// Error returns any error from the run.
func (m HashModel) Error() error {
	return m.err
}
