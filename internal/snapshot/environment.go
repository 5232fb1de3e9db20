package snapshot

import "fmt"

// ElementState is the captured state of one environment element: the
// element's stable typeId and its opaque serialized payload.
type ElementState struct {
	TypeID  string `json:"type"`
	Payload string `json:"state"`
}

// EnvironmentState is an ordered list of element states, one per element in
// environment insertion order.
type EnvironmentState struct {
	elements []ElementState
}

type environmentWire struct {
	Elements []ElementState `json:"elements"`
}

// NewEnvironmentState returns an environment state holding a copy of elems.
func NewEnvironmentState(elems ...ElementState) *EnvironmentState {
	return &EnvironmentState{elements: append([]ElementState(nil), elems...)}
}

// Add appends one element state.
func (s *EnvironmentState) Add(typeID, payload string) {
	s.elements = append(s.elements, ElementState{TypeID: typeID, Payload: payload})
}

// Len returns the number of element states.
func (s *EnvironmentState) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elements)
}

// Element returns the i-th element state.
func (s *EnvironmentState) Element(i int) (ElementState, bool) {
	if i < 0 || i >= s.Len() {
		return ElementState{}, false
	}
	return s.elements[i], true
}

// Elements returns a copy of all element states in order.
func (s *EnvironmentState) Elements() []ElementState {
	if s == nil {
		return nil
	}
	return append([]ElementState(nil), s.elements...)
}

// Clone returns an independent copy.
func (s *EnvironmentState) Clone() *EnvironmentState {
	if s == nil {
		return nil
	}
	return NewEnvironmentState(s.elements...)
}

func (s *EnvironmentState) wire() environmentWire {
	return environmentWire{Elements: append(make([]ElementState, 0, s.Len()), s.Elements()...)}
}

// Serialize returns the deterministic JSON form of the environment state.
func (s *EnvironmentState) Serialize() string {
	return Encode(s.wire())
}

// Deserialize replaces the receiver's contents with the decoded state.
// The receiver is untouched on failure.
func (s *EnvironmentState) Deserialize(data string) error {
	var w environmentWire
	if err := Decode(data, &w); err != nil {
		return err
	}
	elems, err := w.validate()
	if err != nil {
		return err
	}
	s.elements = elems
	return nil
}

func (w environmentWire) validate() ([]ElementState, error) {
	elems := make([]ElementState, 0, len(w.Elements))
	for i, e := range w.Elements {
		if e.TypeID == "" {
			return nil, fmt.Errorf("%w: element %d has no type", ErrDeserialize, i)
		}
		elems = append(elems, e)
	}
	return elems, nil
}
