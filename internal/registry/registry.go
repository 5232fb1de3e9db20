// Package registry provides a global registry of robot and element kinds.
// Kinds register themselves in init() functions, allowing scenarios and the
// CLI to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/robotsim/internal/core"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// RobotKind describes a registered robot kind.
type RobotKind struct {
	Kind   string // Short name used in scenarios (e.g. "point")
	Title  string // Human-readable name
	TypeID string // TypeID of the robot's states
	Build  func(p Params) (core.Robot, error)
}

// ElementKind describes a registered environment element kind.
type ElementKind struct {
	Kind   string
	Title  string
	TypeID string
	Build  func(p Params) (core.Element, error)

	// New returns a blank element of this kind, used to rebuild an element
	// from a captured snapshot.ElementState.
	New func() core.Element
}

// KindInfo contains metadata about a registered kind.
type KindInfo struct {
	Kind   string
	Title  string
	TypeID string
}

var (
	robots   = make(map[string]RobotKind)
	elements = make(map[string]ElementKind)
	mu       sync.RWMutex
)

// RegisterRobot adds a robot kind to the registry.
// Panics if a robot kind with the same name is already registered, or if
// no state decoder is registered for its TypeID.
func RegisterRobot(k RobotKind) {
	mu.Lock()
	defer mu.Unlock()

	if !snapshot.Registered(k.TypeID) {
		panic(fmt.Sprintf("registry: robot kind %q has no state type %q", k.Kind, k.TypeID))
	}
	if _, exists := robots[k.Kind]; exists {
		panic(fmt.Sprintf("registry: robot kind %q already registered", k.Kind))
	}
	robots[k.Kind] = k
}

// RegisterElement adds an element kind to the registry.
// Panics if an element kind with the same name or typeId is already registered.
func RegisterElement(k ElementKind) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := elements[k.Kind]; exists {
		panic(fmt.Sprintf("registry: element kind %q already registered", k.Kind))
	}
	for _, other := range elements {
		if other.TypeID == k.TypeID {
			panic(fmt.Sprintf("registry: element type %q already registered", k.TypeID))
		}
	}
	elements[k.Kind] = k
}

// ListRobots returns information about all registered robot kinds, sorted by kind.
func ListRobots() []KindInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]KindInfo, 0, len(robots))
	for _, k := range robots {
		result = append(result, KindInfo{Kind: k.Kind, Title: k.Title, TypeID: k.TypeID})
	}
	sortInfos(result)
	return result
}

// ListElements returns information about all registered element kinds, sorted by kind.
func ListElements() []KindInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]KindInfo, 0, len(elements))
	for _, k := range elements {
		result = append(result, KindInfo{Kind: k.Kind, Title: k.Title, TypeID: k.TypeID})
	}
	sortInfos(result)
	return result
}

func sortInfos(infos []KindInfo) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Kind < infos[j].Kind
	})
}

// CreateRobot instantiates a robot of the given kind.
// Returns an error if the kind is not registered or the parameters are invalid.
func CreateRobot(kind string, p Params) (core.Robot, error) {
	mu.RLock()
	k, ok := robots[kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown robot kind %q", kind)
	}
	r, err := k.Build(p)
	if err != nil {
		return nil, fmt.Errorf("registry: robot %q: %w", kind, err)
	}
	return r, nil
}

// CreateElement instantiates an element of the given kind.
// Returns an error if the kind is not registered or the parameters are invalid.
func CreateElement(kind string, p Params) (core.Element, error) {
	mu.RLock()
	k, ok := elements[kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown element kind %q", kind)
	}
	e, err := k.Build(p)
	if err != nil {
		return nil, fmt.Errorf("registry: element %q: %w", kind, err)
	}
	return e, nil
}

// DecodeElement rebuilds a standalone element from its captured state.
// The result is not attached to any environment.
func DecodeElement(s snapshot.ElementState) (core.Element, error) {
	mu.RLock()
	var (
		k     ElementKind
		found bool
	)
	for _, candidate := range elements {
		if candidate.TypeID == s.TypeID {
			k, found = candidate, true
			break
		}
	}
	mu.RUnlock()

	if !found {
		return nil, fmt.Errorf("%w %q", snapshot.ErrUnknownType, s.TypeID)
	}
	e := k.New()
	if err := e.LoadState(s.Payload); err != nil {
		return nil, err
	}
	return e, nil
}

// RobotExists checks if a robot kind with the given name is registered.
func RobotExists(kind string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := robots[kind]
	return ok
}

// ElementExists checks if an element kind with the given name is registered.
func ElementExists(kind string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := elements[kind]
	return ok
}
