package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/robotsim/internal/core"
)

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.DT = 0.5
	path := filepath.Join(t.TempDir(), "state.json")
	return NewModel(testEngine(), cfg, core.Rect{}, path), path
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return model
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTickSteps(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, TickMsg{})
	m = send(t, m, TickMsg{})

	if m.Steps() != 2 {
		t.Errorf("Steps() = %d, expected 2", m.Steps())
	}
	if m.engine.Time() != 1.0 {
		t.Errorf("engine time = %v, expected 1.0", m.engine.Time())
	}
	if !m.renderer.Initialized() {
		t.Error("renderer should be initialized after a tick")
	}
}

func TestModelPauseAndStep(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, keyMsg("p"))
	m = send(t, m, TickMsg{})
	if m.Steps() != 0 {
		t.Errorf("paused model stepped %d times", m.Steps())
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("View() should show paused")
	}

	m = send(t, m, keyMsg("n"))
	if m.Steps() != 1 {
		t.Errorf("single step while paused: Steps() = %d, expected 1", m.Steps())
	}

	m = send(t, m, keyMsg("p"))
	m = send(t, m, TickMsg{})
	if m.Steps() != 2 {
		t.Errorf("resumed model: Steps() = %d, expected 2", m.Steps())
	}
}

func TestModelMaxSteps(t *testing.T) {
	m, _ := newTestModel(t)
	m.config.MaxSteps = 2

	for i := 0; i < 5; i++ {
		m = send(t, m, TickMsg{})
	}
	if m.Steps() != 2 {
		t.Errorf("Steps() = %d, expected to stop at 2", m.Steps())
	}
	if !strings.Contains(m.View(), "finished") {
		t.Error("View() should report the run as finished")
	}
}

func TestModelSave(t *testing.T) {
	m, path := newTestModel(t)
	m = send(t, m, TickMsg{})
	m = send(t, m, keyMsg("s"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("state file not written: %v", err)
	}
	if string(data) != m.engine.State().Serialize() {
		t.Error("saved file should hold the current state")
	}
	if !strings.Contains(m.status, "saved") {
		t.Errorf("status = %q, expected a save message", m.status)
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)

	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if !m.renderer.Closed() {
		t.Error("renderer should be closed on quit")
	}
	if m.registration.Active() {
		t.Error("renderer should be unregistered on quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModelResize(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})

	s := m.renderer.Render()
	if s.Width() != 50 || s.Height() != 20-chromeLines {
		t.Errorf("screen = %dx%d, expected 50x%d", s.Width(), s.Height(), 20-chromeLines)
	}
}
