package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/engine"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// AppState represents the current state of the application.
type AppState int

const (
	StateHashing AppState = iota
	StateDone
)

// logPaneHeight is the fixed height of the log pane when open.
const logPaneHeight = 10

// Options configures the TUI application.
type Options struct {
	Paths  []string
	Engine engine.Options
}

// Model is the main Bubble Tea model for the fshash TUI.
type Model struct {
	state     AppState
	hashModel HashModel
	logView   *LogViewerState
	options   Options

	// Hashing run state
	ctx          context.Context
	cancel       context.CancelFunc
	cancelling   bool
	paused       *atomic.Bool
	report       *engine.Report
	runErr       error
	progressChan chan engine.Progress
	logChan      <-chan logging.LogEntry

	// Window dimensions
	width  int
	height int
}

// NewModel creates a new TUI model with the given options. The engine's
// progress and pause hooks are wired here so the run can be driven from
// Update.
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	paused := &atomic.Bool{}
	progressChan := make(chan engine.Progress, 100)

	opts.Engine.OnProgress = func(p engine.Progress) {
		select {
		case progressChan <- p:
		default:
			// Channel full, skip this update
		}
	}
	opts.Engine.PauseCheck = paused.Load

	return Model{
		state:        StateHashing,
		hashModel:    NewHashModel(opts.Paths, opts.Engine.Algorithm),
		logView:      NewLogViewerState(),
		options:      opts,
		ctx:          ctx,
		cancel:       cancel,
		paused:       paused,
		progressChan: progressChan,
		logChan:      logging.Subscribe(),
		width:        80,
		height:       24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.hashModel.Init(),
		m.startHash(),
		m.listenForProgress(),
		m.listenForLogs(),
		m.tickUI(),
	)
}

// tickUIMsg triggers a UI refresh.
type tickUIMsg struct{}

// tickUI returns a command that periodically triggers UI updates so the
// elapsed clock and indeterminate bar keep moving between progress events.
func (m Model) tickUI() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return tickUIMsg{}
	})
}

// logEntryMsg carries one log entry into the Bubble Tea loop.
type logEntryMsg logging.LogEntry

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.hashModel.width = msg.Width
		m.hashModel.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickUIMsg:
		if m.state == StateHashing {
			return m, m.tickUI()
		}
		return m, nil

	case progressMsg:
		m.hashModel.SetProgress(engine.Progress(msg))
		return m, m.listenForProgress()

	case logEntryMsg:
		m.logView.Buffer.Add(logging.LogEntry(msg))
		return m, m.listenForLogs()

	case hashCompleteMsg:
		m.report = msg.report
		m.runErr = msg.err
		m.hashModel.SetDone(msg.err)
		m.state = StateDone
		if m.cancelling {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.hashModel, cmd = m.hashModel.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Ctrl+C quits immediately without waiting for the drain; the run
	// still counts as cancelled but no partial report is rendered.
	if key == "ctrl+c" {
		m.cancel()
		m.runErr = engine.ErrCancelled
		return m, tea.Quit
	}

	// Log pane keys work in every state while the pane is open.
	if m.logView.Open {
		switch key {
		case "l":
			m.logView.Toggle()
			return m, nil
		case "1":
			m.logView.SetFilterLevel(logging.LevelDebug)
			return m, nil
		case "2":
			m.logView.SetFilterLevel(logging.LevelInfo)
			return m, nil
		case "3":
			m.logView.SetFilterLevel(logging.LevelWarn)
			return m, nil
		case "4":
			m.logView.SetFilterLevel(logging.LevelError)
			return m, nil
		case "up":
			m.logView.ScrollUp()
			return m, nil
		case "down":
			m.logView.ScrollDown(logPaneHeight - 2)
			return m, nil
		}
	} else if key == "l" {
		m.logView.Toggle()
		return m, nil
	}

	switch m.state {
	case StateHashing:
		switch key {
		case "q", "esc":
			// Graceful cancel: let in-flight files drain, then quit
			// from the completion message.
			if !m.cancelling {
				m.cancel()
				m.cancelling = true
				m.hashModel.SetCancelling()
			}
		case "p":
			nowPaused := !m.paused.Load()
			m.paused.Store(nowPaused)
			m.hashModel.SetPaused(nowPaused)
		}

	case StateDone:
		if key == "q" || key == "esc" || key == "enter" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the current state.
func (m Model) View() string {
	mainHeight := m.height
	if m.logView.Open {
		mainHeight -= logPaneHeight
	}

	var main string
	switch m.state {
	case StateHashing:
		hm := m.hashModel
		hm.height = mainHeight
		main = hm.View()
	case StateDone:
		main = m.renderDone(mainHeight)
	}

	if m.logView.Open {
		return main + "\n" + m.logView.View(m.width-2, logPaneHeight-1)
	}
	return main
}

// renderDone renders the completion summary.
func (m Model) renderDone(height int) string {
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var b strings.Builder
	b.WriteString("\n")

	if m.runErr != nil {
		b.WriteString(errorTextStyle.Render(fmt.Sprintf("  %s", engine.UserMessage(m.runErr))))
	} else {
		b.WriteString(successTextStyle.Render("  Hashing complete"))
	}
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	if m.report != nil && m.report.Metrics != nil {
		mt := m.report.Metrics
		succeeded := mt.ProcessedFiles - mt.FailedFiles

		b.WriteString(fmt.Sprintf("  Hashed:   %s files (%s)\n",
			humanize.Comma(succeeded), types.FormatSize(mt.ProcessedBytes)))
		if mt.FailedFiles > 0 {
			b.WriteString(errorTextStyle.Render(
				fmt.Sprintf("  Failed:   %s files", humanize.Comma(mt.FailedFiles))))
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("  Speed:    %.1f MB/s\n", mt.AverageSpeedMBps()))
		b.WriteString(fmt.Sprintf("  Time:     %s\n", formatDuration(mt.Duration())))

		if len(m.report.Warnings) > 0 {
			b.WriteString(warningTextStyle.Render(
				fmt.Sprintf("  Warnings: %d", len(m.report.Warnings))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedTextStyle.Render("  The full report is printed after exit."))
	b.WriteString("\n\n")
	b.WriteString(center(keyStyle.Render("[q]")+" "+keyDescStyle.Render("Quit"), contentWidth))
	b.WriteString("\n")

	content := b.String()
	contentLines := strings.Count(content, "\n") + 1
	availableLines := height - 2
	if availableLines > contentLines {
		content += strings.Repeat("\n", availableLines-contentLines)
	}

	return outerBoxStyle.Width(m.width - 2).Height(height - 2).Render(content)
}

// startHash runs the engine in the background and reports completion.
func (m Model) startHash() tea.Cmd {
	progressChan := m.progressChan
	opts := m.options.Engine
	paths := m.options.Paths
	ctx := m.ctx

	return func() tea.Msg {
		eng, err := engine.New(opts)
		if err != nil {
			close(progressChan)
			return hashCompleteMsg{err: err}
		}

		report, err := eng.Run(ctx, paths)
		close(progressChan)
		return hashCompleteMsg{report: report, err: err}
	}
}

// listenForProgress returns a command that waits for progress updates.
func (m Model) listenForProgress() tea.Cmd {
	progressChan := m.progressChan
	return func() tea.Msg {
		p, ok := <-progressChan
		if !ok {
			// Channel closed, the run is done
			return nil
		}
		return progressMsg(p)
	}
}

// listenForLogs returns a command that waits for log entries.
func (m Model) listenForLogs() tea.Cmd {
	logChan := m.logChan
	return func() tea.Msg {
		entry, ok := <-logChan
		if !ok {
			return nil
		}
		return logEntryMsg(entry)
	}
}

// Run starts the TUI application and blocks until it exits. It returns
// the hashing report so the caller can render it on the regular screen;
// the report holds partial results when the run was cancelled.
func Run(opts Options) (*engine.Report, error) {
	model := NewModel(opts)

	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	logging.Unsubscribe(model.logChan)
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	final, ok := finalModel.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type %T", finalModel)
	}
	return final.report, final.runErr
}
