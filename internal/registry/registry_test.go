package registry

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// wall is a minimal element used to exercise the registry.
type wall struct {
	x float64
}

func (w *wall) TypeID() string               { return "test.Wall" }
func (w *wall) CheckCollision(p r2.Vec) bool { return p.X >= w.x }
func (w *wall) Update(float64)               {}
func (w *wall) GetState() string             { return "wall" }
func (w *wall) LoadState(payload string) error {
	if payload != "wall" {
		return errors.New("bad wall")
	}
	return nil
}

func init() {
	RegisterElement(ElementKind{
		Kind:   "test-wall",
		Title:  "Test wall",
		TypeID: "test.Wall",
		Build: func(p Params) (core.Element, error) {
			if err := p.Check("x"); err != nil {
				return nil, err
			}
			return &wall{x: p.Float("x", 0)}, nil
		},
		New: func() core.Element { return &wall{} },
	})
}

func TestCreateElement(t *testing.T) {
	e, err := CreateElement("test-wall", Params{"x": 3})
	if err != nil {
		t.Fatalf("CreateElement() failed: %v", err)
	}
	if !e.CheckCollision(core.Vec(3, 0)) {
		t.Error("wall at x=3 should collide at x=3")
	}
	if e.CheckCollision(core.Vec(2.9, 0)) {
		t.Error("wall at x=3 should not collide at x=2.9")
	}
}

func TestCreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		create  func() error
		wantMsg string
	}{
		{
			name:    "unknown element",
			create:  func() error { _, err := CreateElement("lava", nil); return err },
			wantMsg: `unknown element kind "lava"`,
		},
		{
			name:    "unknown robot",
			create:  func() error { _, err := CreateRobot("tank", nil); return err },
			wantMsg: `unknown robot kind "tank"`,
		},
		{
			name:    "bad parameter",
			create:  func() error { _, err := CreateElement("test-wall", Params{"y": 1}); return err },
			wantMsg: `unknown parameter "y"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.create()
			if err == nil || !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error = %v, expected it to contain %q", err, tc.wantMsg)
			}
		})
	}
}

func TestListAndExists(t *testing.T) {
	found := false
	for _, info := range ListElements() {
		if info.Kind == "test-wall" && info.TypeID == "test.Wall" {
			found = true
		}
	}
	if !found {
		t.Error("ListElements() should include test-wall")
	}
	if !ElementExists("test-wall") {
		t.Error("ElementExists(test-wall) should be true")
	}
	if RobotExists("test-wall") {
		t.Error("RobotExists(test-wall) should be false")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate element kind should panic")
		}
	}()
	RegisterElement(ElementKind{Kind: "test-wall", TypeID: "other"})
}

func TestRobotKindWithoutStateTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering a robot kind with no state decoder should panic")
		}
	}()
	RegisterRobot(RobotKind{Kind: "test-ghost", TypeID: "test.GhostState"})
}

func TestDecodeElement(t *testing.T) {
	e, err := DecodeElement(snapshot.ElementState{TypeID: "test.Wall", Payload: "wall"})
	if err != nil {
		t.Fatalf("DecodeElement() failed: %v", err)
	}
	if e.TypeID() != "test.Wall" {
		t.Errorf("TypeID() = %q", e.TypeID())
	}

	if _, err := DecodeElement(snapshot.ElementState{TypeID: "nope"}); !errors.Is(err, snapshot.ErrUnknownType) {
		t.Errorf("DecodeElement(unknown) error = %v, expected ErrUnknownType", err)
	}
	if _, err := DecodeElement(snapshot.ElementState{TypeID: "test.Wall", Payload: "x"}); err == nil {
		t.Error("DecodeElement with a bad payload should fail")
	}
}

func TestParams(t *testing.T) {
	p := Params{"a": 1}
	if p.Float("a", 5) != 1 {
		t.Error("Float(a) should return the stored value")
	}
	if p.Float("b", 5) != 5 {
		t.Error("Float(b) should return the default")
	}
	var empty Params
	if empty.Float("a", 2) != 2 {
		t.Error("nil Params should return defaults")
	}
}
