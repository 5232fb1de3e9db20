// Package snapshot defines the immutable state values exchanged between the
// simulation engine, its entities and its observers, together with their
// JSON wire format.
//
// A snapshot never aliases live entity storage: every value handed out is a
// private copy, and mutating a live entity after capture leaves previously
// captured snapshots unchanged.
package snapshot

import (
	"fmt"
	"sort"
	"sync"
)

// RobotState is a value-semantics snapshot of one robot.
//
// Implementations are polymorphic over robot kinds. TypeID is a stable
// string key shared by every state of the same concrete kind, and it is the
// key used to find a decoder when a serialized system state is read back.
type RobotState interface {
	// TypeID returns the stable identifier of the concrete state kind.
	TypeID() string

	// Clone returns an independent deep copy.
	Clone() RobotState

	// Serialize returns the text form of the state. It is total and
	// deterministic: equal states produce byte-identical output.
	Serialize() string

	// Deserialize replaces the receiver's contents with the state encoded in
	// data. On failure the receiver is left unchanged and the error wraps
	// ErrDeserialize.
	Deserialize(data string) error
}

// Factory returns a zero-valued RobotState ready to be deserialized into.
type Factory func() RobotState

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a robot state decoder for typeID.
// Typically called from a robot package's init() function.
// Panics if the typeID is already registered.
func Register(typeID string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[typeID]; exists {
		panic(fmt.Sprintf("snapshot: state type %q already registered", typeID))
	}
	factories[typeID] = f
}

// Create decodes payload into a new state of the registered typeID.
func Create(typeID, payload string) (RobotState, error) {
	mu.RLock()
	f, ok := factories[typeID]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, typeID)
	}

	s := f()
	if err := s.Deserialize(payload); err != nil {
		return nil, err
	}
	return s, nil
}

// Registered reports whether a decoder exists for typeID.
func Registered(typeID string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[typeID]
	return ok
}

// Types returns all registered state typeIDs, sorted.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]string, 0, len(factories))
	for id := range factories {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
