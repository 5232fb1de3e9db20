package tui

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/environment"
	"github.com/vovakirdan/robotsim/internal/registry"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

const (
	minWindow  = 10.0 // Smallest fitted world window, in world units
	fitMargin  = 2.0  // Padding around the fitted scene
	maxEvents  = 3    // Event lines kept for the status row
	hudPadding = 1
)

// arrows maps the eight compass sectors, counterclockwise from east.
var arrows = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// Renderer is an engine observer that draws each committed step into a
// character screen. It initializes lazily on the first step it sees, fitting
// the world window to the scene unless one was configured.
type Renderer struct {
	screen *core.Screen
	window core.Rect
	fixed  bool

	initialized bool
	closed      bool

	state *snapshot.SystemState
	env   *environment.Environment

	pendingHits   map[int]bool
	pendingMerges map[int]bool
	hits          map[int]bool
	merges        map[int]bool
	events        []string
}

var _ engine.Observer = (*Renderer)(nil)

// NewRenderer creates a renderer drawing into a width x height screen.
// A zero-sized window is fitted to the scene on the first step.
func NewRenderer(width, height int, window core.Rect) *Renderer {
	r := &Renderer{
		screen:        core.NewScreen(width, height),
		pendingHits:   make(map[int]bool),
		pendingMerges: make(map[int]bool),
		hits:          make(map[int]bool),
		merges:        make(map[int]bool),
	}
	if window.Width() > 0 && window.Height() > 0 {
		r.window, r.fixed = window, true
	}
	return r
}

// Initialized reports whether the first step has been seen.
func (r *Renderer) Initialized() bool { return r.initialized }

// Closed reports whether Close has been called.
func (r *Renderer) Closed() bool { return r.closed }

// Window returns the world area currently displayed.
func (r *Renderer) Window() core.Rect { return r.window }

// Resize changes the screen size.
func (r *Renderer) Resize(width, height int) {
	if r.closed {
		return
	}
	r.screen.Resize(width, height)
}

// Close releases the renderer. Further notifications are ignored.
// Calling Close more than once is harmless.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.state = nil
	r.env = nil
}

func (r *Renderer) initialize(state *snapshot.SystemState, env *environment.Environment) {
	r.initialized = true
	if r.fixed {
		return
	}

	var (
		box   core.Rect
		found bool
	)
	grow := func(b core.Rect) {
		if !found {
			box, found = b, true
			return
		}
		box = box.Union(b)
	}
	for _, rs := range state.RobotStates() {
		if p, ok := rs.(core.Posed); ok {
			pos, _ := p.Pose()
			if core.Finite(pos.X, pos.Y) {
				grow(core.Rect{Min: pos, Max: pos})
			}
		}
	}
	// Unbounded walls would stretch the window to infinity
	if b, ok := env.Bounds(); ok && core.Finite(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y) {
		grow(b)
	}

	box = box.Expand(fitMargin)
	c := box.Center()
	w, h := math.Max(box.Width(), minWindow), math.Max(box.Height(), minWindow)
	r.window = core.NewRect(c.X-w/2, c.Y-h/2, w, h)
}

// OnStep implements engine.Observer.
func (r *Renderer) OnStep(state *snapshot.SystemState) {
	if r.closed {
		return
	}

	env := r.decodeEnvironment(state.Environment())
	if !r.initialized {
		r.initialize(state, env)
	}

	r.state = state
	r.env = env
	r.hits, r.pendingHits = r.pendingHits, make(map[int]bool)
	r.merges, r.pendingMerges = r.pendingMerges, make(map[int]bool)
}

// OnCollision implements engine.Observer.
func (r *Renderer) OnCollision(ev engine.CollisionEvent) {
	if r.closed {
		return
	}
	r.pendingHits[ev.RobotIndex] = true
	r.logEvent(fmt.Sprintf("t=%.2f robot %d hit %s #%d", ev.Time, ev.RobotIndex, ev.Element.TypeID, ev.ElementIndex))
}

// OnMergePoint implements engine.Observer.
func (r *Renderer) OnMergePoint(ev engine.MergeEvent) {
	if r.closed {
		return
	}
	r.pendingMerges[ev.RobotIndex] = true
	r.logEvent(fmt.Sprintf("t=%.2f robot %d at merge #%d", ev.Time, ev.RobotIndex, ev.ElementIndex))
}

func (r *Renderer) logEvent(msg string) {
	r.events = append(r.events, msg)
	if len(r.events) > maxEvents {
		r.events = r.events[len(r.events)-maxEvents:]
	}
}

// Events returns the most recent event lines, oldest first.
func (r *Renderer) Events() []string {
	return append([]string(nil), r.events...)
}

// decodeEnvironment rebuilds a standalone environment from the captured
// state so the scene can be drawn without touching the engine.
// Elements of unregistered kinds are skipped.
func (r *Renderer) decodeEnvironment(s *snapshot.EnvironmentState) *environment.Environment {
	env := environment.New()
	for _, es := range s.Elements() {
		e, err := registry.DecodeElement(es)
		if err != nil {
			continue
		}
		env.AddElement(e)
	}
	return env
}

// Render draws the latest state and returns the screen.
func (r *Renderer) Render() *core.Screen {
	s := r.screen
	s.Clear()
	if r.closed {
		return s
	}

	s.DrawBox(0, 0, s.Width(), s.Height(), core.ColorGray)
	if !r.initialized {
		s.DrawText(2, s.Height()/2, "waiting for first step...", core.ColorGray)
		return s
	}

	innerW, innerH := s.Width()-2, s.Height()-2
	if innerW <= 0 || innerH <= 0 {
		return s
	}

	r.drawElements(innerW, innerH)
	r.drawRobots(innerW, innerH)

	hud := fmt.Sprintf(" t=%.2fs robots=%d ", r.state.Time(), r.state.RobotCount())
	s.DrawText(2, 0, hud, core.ColorWhite)
	if n := len(r.events); n > 0 {
		s.DrawText(2, s.Height()-1, " "+r.events[n-1]+" ", core.ColorYellow)
	}
	return s
}

// cellCenter maps an inner screen cell to the world point at its center.
// Screen rows grow downward while world Y grows upward.
func (r *Renderer) cellCenter(cx, cy, innerW, innerH int) r2.Vec {
	w := r.window
	return core.Vec(
		w.Min.X+(float64(cx)+0.5)/float64(innerW)*w.Width(),
		w.Max.Y-(float64(cy)+0.5)/float64(innerH)*w.Height(),
	)
}

// worldCell maps a world point to an inner screen cell.
func (r *Renderer) worldCell(p r2.Vec, innerW, innerH int) (int, int, bool) {
	w := r.window
	if !w.Contains(p) {
		return 0, 0, false
	}
	cx := int((p.X - w.Min.X) / w.Width() * float64(innerW))
	cy := int((w.Max.Y - p.Y) / w.Height() * float64(innerH))
	return core.Clamp(cx, 0, innerW-1), core.Clamp(cy, 0, innerH-1), true
}

// visibleElements returns the elements whose extent overlaps the window.
// Elements without an extent are always included.
func (r *Renderer) visibleElements() []core.Element {
	var out []core.Element
	for i := range r.env.Len() {
		e, _ := r.env.Element(i)
		if b, ok := e.(core.Bounded); ok && !b.Bounds().Intersects(r.window) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *Renderer) drawElements(innerW, innerH int) {
	visible := r.visibleElements()
	for cy := 0; cy < innerH; cy++ {
		for cx := 0; cx < innerW; cx++ {
			p := r.cellCenter(cx, cy, innerW, innerH)
			for _, e := range visible {
				if mp, ok := e.(core.MergePoint); ok && mp.Reached(p) {
					r.screen.SetCell(cx+hudPadding, cy+hudPadding, '·', core.ColorCyan)
					break
				}
				if e.CheckCollision(p) {
					r.screen.SetCell(cx+hudPadding, cy+hudPadding, '█', core.ColorGray)
					break
				}
			}
		}
	}
}

func (r *Renderer) drawRobots(innerW, innerH int) {
	for i, rs := range r.state.RobotStates() {
		posed, ok := rs.(core.Posed)
		if !ok {
			continue
		}
		pos, theta := posed.Pose()
		cx, cy, ok := r.worldCell(pos, innerW, innerH)
		if !ok {
			continue
		}

		color := core.ColorGreen
		switch {
		case r.hits[i]:
			color = core.ColorRed
		case r.merges[i]:
			color = core.ColorCyan
		}
		r.screen.SetCell(cx+hudPadding, cy+hudPadding, Arrow(theta), color)
	}
}

// Arrow returns the arrow rune closest to the heading theta.
func Arrow(theta float64) rune {
	if !core.Finite(theta) {
		return '•'
	}
	sector := int(math.Round(theta/(math.Pi/4))) % 8
	if sector < 0 {
		sector += 8
	}
	return arrows[sector]
}
