package tui

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/elements"
	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/environment"
	"github.com/vovakirdan/robotsim/internal/robot"
)

func testEngine() *engine.Engine {
	env := environment.New(
		elements.NewBox(core.NewRect(2, -1, 1, 2)),
		elements.NewMergeZone(core.Vec(-3, 0), 1),
	)
	r := robot.NewPointRobot(robot.WithVelocity(1, 0))
	return engine.New(engine.WithEnvironment(env), engine.WithRobots(r))
}

func TestRendererLazyInit(t *testing.T) {
	e := testEngine()
	r := NewRenderer(40, 12, core.Rect{})
	e.RegisterObserver(r)

	if r.Initialized() {
		t.Fatal("renderer should not initialize before the first step")
	}
	if !strings.Contains(r.Render().String(), "waiting") {
		t.Error("uninitialized renderer should show a waiting message")
	}

	if err := e.Step(0.5); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if !r.Initialized() {
		t.Fatal("renderer should initialize on the first step")
	}

	w := r.Window()
	for _, p := range []struct{ x, y float64 }{{0.5, 0}, {2.5, 0}, {-3, 0}} {
		if !w.Contains(core.Vec(p.x, p.y)) {
			t.Errorf("fitted window %+v should contain (%v, %v)", w, p.x, p.y)
		}
	}
}

func TestRendererFixedWindow(t *testing.T) {
	window := core.NewRect(-5, -5, 10, 10)
	r := NewRenderer(22, 12, window)
	e := testEngine()
	e.RegisterObserver(r)

	if err := e.Step(0.1); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if r.Window() != window {
		t.Errorf("Window() = %+v, expected configured %+v", r.Window(), window)
	}
}

func TestRendererDrawsScene(t *testing.T) {
	r := NewRenderer(22, 12, core.NewRect(-5, -5, 10, 10))
	e := testEngine()
	e.RegisterObserver(r)

	if err := e.Step(0.1); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	out := r.Render().String()

	if !strings.ContainsRune(out, '→') {
		t.Errorf("robot moving east should be drawn as →:\n%s", out)
	}
	if !strings.ContainsRune(out, '█') {
		t.Errorf("box obstacle should be drawn:\n%s", out)
	}
	if !strings.ContainsRune(out, '·') {
		t.Errorf("merge zone should be drawn:\n%s", out)
	}
	if !strings.Contains(out, "t=0.10s") {
		t.Errorf("HUD should show the time:\n%s", out)
	}
}

func TestRendererMarksCollisions(t *testing.T) {
	r := NewRenderer(22, 12, core.NewRect(-5, -5, 10, 10))
	e := testEngine()
	e.RegisterObserver(r)

	// The robot reaches the box at x=2 after two seconds
	for i := 0; i < 25; i++ {
		if err := e.Step(0.1); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}
	events := r.Events()
	if len(events) == 0 || !strings.Contains(events[len(events)-1], "hit BoxObstacle") {
		t.Errorf("Events() = %v, expected a box hit", events)
	}

	s := r.Render()
	found := false
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune == '→' && c.Color == core.ColorRed {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("colliding robot should be drawn in red:\n%s", s.String())
	}
	if len(events) > maxEvents {
		t.Errorf("Events() kept %d lines, expected at most %d", len(events), maxEvents)
	}
}

func TestRendererSkipsElementsOutsideWindow(t *testing.T) {
	env := environment.New(
		elements.NewBox(core.NewRect(2, -1, 1, 2)),
		elements.NewCircle(core.Vec(100, 100), 1),
	)
	e := engine.New(engine.WithEnvironment(env), engine.WithRobots(robot.NewPointRobot()))
	r := NewRenderer(22, 12, core.NewRect(-5, -5, 10, 10))
	e.RegisterObserver(r)

	if err := e.Step(0.1); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	visible := r.visibleElements()
	if len(visible) != 1 || visible[0].TypeID() != elements.BoxTypeID {
		t.Errorf("visibleElements() = %v, expected only the box", visible)
	}
}

func TestRendererFitIgnoresUnboundedElements(t *testing.T) {
	wall := elements.NewBox(core.Rect{Min: core.Vec(3, math.Inf(-1)), Max: core.Vec(4, math.Inf(1))})
	e := engine.New(
		engine.WithEnvironment(environment.New(wall)),
		engine.WithRobots(robot.NewPointRobot()),
	)
	r := NewRenderer(22, 12, core.Rect{})
	e.RegisterObserver(r)

	if err := e.Step(0.1); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	w := r.Window()
	if !core.Finite(w.Min.X, w.Min.Y, w.Max.X, w.Max.Y) {
		t.Fatalf("Window() = %+v, expected a finite window", w)
	}
	if !strings.ContainsRune(r.Render().String(), '█') {
		t.Error("the wall crosses the window and should be drawn")
	}
}

func TestRendererClose(t *testing.T) {
	r := NewRenderer(20, 10, core.Rect{})
	e := testEngine()
	e.RegisterObserver(r)

	r.Close()
	r.Close()
	if !r.Closed() {
		t.Fatal("Closed() should be true after Close()")
	}

	if err := e.Step(0.1); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if r.Initialized() {
		t.Error("closed renderer should ignore steps")
	}
	if strings.TrimSpace(r.Render().String()) != "" {
		t.Error("closed renderer should draw nothing")
	}
}

func TestArrow(t *testing.T) {
	tests := []struct {
		theta    float64
		expected rune
	}{
		{0, '→'},
		{math.Pi / 4, '↗'},
		{math.Pi / 2, '↑'},
		{math.Pi, '←'},
		{-math.Pi / 2, '↓'},
		{-math.Pi / 4, '↘'},
		{-3 * math.Pi / 4, '↙'},
		{0.1, '→'},
		{math.NaN(), '•'},
	}

	for _, tc := range tests {
		if got := Arrow(tc.theta); got != tc.expected {
			t.Errorf("Arrow(%v) = %q, expected %q", tc.theta, got, tc.expected)
		}
	}
}
