package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/engine"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

func newTestModel() Model {
	m := NewModel(Options{
		Paths:  []string{"/evidence/case-041"},
		Engine: engine.Options{Algorithm: types.SHA256},
	})
	// Tests drive Update directly, so the subscription is unused.
	logging.Unsubscribe(m.logChan)
	return m
}

func TestNewModel(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	if m.state != StateHashing {
		t.Errorf("expected initial state StateHashing, got %v", m.state)
	}
	if m.paused.Load() {
		t.Error("expected paused false initially")
	}
	if m.cancelling {
		t.Error("expected cancelling false initially")
	}
	if m.options.Engine.OnProgress == nil {
		t.Error("expected OnProgress hook to be wired")
	}
	if m.options.Engine.PauseCheck == nil {
		t.Error("expected PauseCheck hook to be wired")
	}
}

func TestHandleKeyPauseToggles(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	model := updated.(Model)

	if !model.paused.Load() {
		t.Error("expected paused true after pressing p")
	}
	if !model.options.Engine.PauseCheck() {
		t.Error("expected PauseCheck to report paused")
	}

	updated, _ = model.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	model = updated.(Model)

	if model.paused.Load() {
		t.Error("expected paused false after second p")
	}
}

func TestHandleKeyGracefulCancel(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	model := updated.(Model)

	if !model.cancelling {
		t.Error("expected cancelling true after pressing q")
	}
	if model.ctx.Err() == nil {
		t.Error("expected context cancelled after pressing q")
	}
	if cmd != nil {
		t.Error("expected no quit command; the model waits for the drain")
	}
}

func TestHandleKeyImmediateQuit(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	model := updated.(Model)

	if !errors.Is(model.runErr, engine.ErrCancelled) {
		t.Errorf("expected runErr ErrCancelled, got %v", model.runErr)
	}
	if model.ctx.Err() == nil {
		t.Error("expected context cancelled after ctrl+c")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected command to produce QuitMsg")
	}
}

func TestHandleKeyLogToggle(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	model := updated.(Model)

	if !model.logView.Open {
		t.Error("expected log viewer open after pressing l")
	}

	updated, _ = model.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	model = updated.(Model)

	if model.logView.Open {
		t.Error("expected log viewer closed after second l")
	}
}

func TestHandleKeyLogFilter(t *testing.T) {
	m := newTestModel()
	defer m.cancel()
	m.logView.Open = true

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	model := updated.(Model)

	if model.logView.FilterLevel != logging.LevelWarn {
		t.Errorf("expected filter level warn, got %v", model.logView.FilterLevel)
	}
}

func TestUpdateHashComplete(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	report := &engine.Report{
		Results:   map[string]*types.HashResult{},
		Metrics:   &types.Metrics{},
		Algorithm: types.SHA256,
	}

	updated, cmd := m.Update(hashCompleteMsg{report: report, err: nil})
	model := updated.(Model)

	if model.state != StateDone {
		t.Errorf("expected state StateDone, got %v", model.state)
	}
	if model.report != report {
		t.Error("expected report to be stored")
	}
	if model.runErr != nil {
		t.Errorf("expected nil runErr, got %v", model.runErr)
	}
	if cmd != nil {
		t.Error("expected no quit command; the done view stays up until q")
	}
}

func TestUpdateHashCompleteWhileCancelling(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	model := updated.(Model)

	report := &engine.Report{
		Results:   map[string]*types.HashResult{},
		Metrics:   &types.Metrics{},
		Algorithm: types.SHA256,
	}

	updated, cmd := model.Update(hashCompleteMsg{report: report, err: engine.ErrCancelled})
	model = updated.(Model)

	if !errors.Is(model.runErr, engine.ErrCancelled) {
		t.Errorf("expected runErr ErrCancelled, got %v", model.runErr)
	}
	if model.report != report {
		t.Error("expected partial report to be stored")
	}
	if cmd == nil {
		t.Fatal("expected quit command after drain completes")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected command to produce QuitMsg")
	}
}

func TestUpdateProgress(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	updated, cmd := m.Update(progressMsg(engine.Progress{
		ProcessedFiles: 3,
		TotalFiles:     9,
		CurrentFile:    "notes.txt",
	}))
	model := updated.(Model)

	if model.hashModel.progress.ProcessedFiles != 3 {
		t.Errorf("expected ProcessedFiles 3, got %d", model.hashModel.progress.ProcessedFiles)
	}
	if model.hashModel.currentFile != "notes.txt" {
		t.Errorf("expected currentFile notes.txt, got %s", model.hashModel.currentFile)
	}
	if cmd == nil {
		t.Error("expected a command to keep listening for progress")
	}
}

func TestUpdateWindowSize(t *testing.T) {
	m := newTestModel()
	defer m.cancel()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model := updated.(Model)

	if model.width != 120 || model.height != 40 {
		t.Errorf("expected 120x40, got %dx%d", model.width, model.height)
	}
	if model.hashModel.width != 120 {
		t.Errorf("expected hash model width 120, got %d", model.hashModel.width)
	}
}

func TestDoneViewRenders(t *testing.T) {
	m := newTestModel()
	defer m.cancel()
	m.state = StateDone
	m.report = &engine.Report{
		Results: map[string]*types.HashResult{},
		Metrics: &types.Metrics{
			TotalFiles:     4,
			ProcessedFiles: 4,
			FailedFiles:    1,
			ProcessedBytes: 1024,
		},
		Warnings:  []string{"path does not exist: /gone"},
		Algorithm: types.SHA256,
	}

	view := m.View()
	if view == "" {
		t.Error("expected non-empty done view")
	}
}
