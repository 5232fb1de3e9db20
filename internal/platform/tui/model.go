package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/engine"
)

// chromeLines is the number of terminal rows used below the scene.
const chromeLines = 2

// Model is the Bubble Tea model that drives an engine one step per tick and
// shows it through a Renderer registered as an observer.
type Model struct {
	engine       *engine.Engine
	renderer     *Renderer
	registration *engine.Registration
	config       core.RuntimeConfig
	savePath     string

	keys ViewerKeyMap
	help help.Model

	steps    int
	paused   bool
	quitting bool
	status   string
	err      error
}

// NewModel creates a viewer for e. The renderer is registered with the
// engine immediately and released when the viewer quits. Pressing the save
// key writes the engine state to savePath.
func NewModel(e *engine.Engine, cfg core.RuntimeConfig, window core.Rect, savePath string) Model {
	r := NewRenderer(cfg.ScreenW, max(cfg.ScreenH-chromeLines, 3), window)
	return Model{
		engine:       e,
		renderer:     r,
		registration: e.RegisterObserver(r),
		config:       cfg,
		savePath:     savePath,
		keys:         DefaultViewerKeyMap(),
		help:         help.New(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.step()
		}

	case key.Matches(msg, m.keys.Save):
		if err := m.engine.SaveStateToFile(m.savePath); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("saved t=%.2fs to %s", m.engine.Time(), m.savePath)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.renderer.Resize(msg.Width, max(msg.Height-chromeLines, 3))
	m.help.Width = msg.Width
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if !m.paused && !m.finished() && m.err == nil {
		m.step()
	}
	return m, tickCmd(m.config.TickInterval())
}

func (m *Model) step() {
	if err := m.engine.Step(m.config.DT); err != nil {
		m.err = err
		return
	}
	m.steps++
}

func (m Model) finished() bool {
	return m.config.MaxSteps > 0 && m.steps >= m.config.MaxSteps
}

func (m *Model) shutdown() {
	m.quitting = true
	m.registration.Release()
	m.renderer.Close()
}

// Steps returns the number of steps taken by the viewer.
func (m Model) Steps() int {
	return m.steps
}

// Err returns the step error that stopped the simulation, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(RenderScreen(m.renderer.Render()))
	sb.WriteRune('\n')

	switch {
	case m.err != nil:
		sb.WriteString(errorStyle.Render("error: " + m.err.Error()))
	case m.paused:
		sb.WriteString(pausedStyle.Render("paused"))
		sb.WriteString(statusStyle.Render(" " + m.status))
	case m.finished():
		sb.WriteString(statusStyle.Render(fmt.Sprintf("finished after %d steps %s", m.steps, m.status)))
	default:
		sb.WriteString(statusStyle.Render(fmt.Sprintf("step %d %s", m.steps, m.status)))
	}
	sb.WriteRune('\n')
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// Run starts the viewer on e and blocks until the user quits. The engine is
// left in its final state.
func Run(e *engine.Engine, cfg core.RuntimeConfig, window core.Rect, savePath string) error {
	model := NewModel(e, cfg, window, savePath)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		m.shutdown()
		return m.Err()
	}
	return nil
}
