package engine

import "errors"

var (
	// ErrIndexOutOfRange is returned for robot indices outside [0, RobotCount).
	ErrIndexOutOfRange = errors.New("engine: robot index out of range")

	// ErrInvalidStep is returned when Step is called with a non-positive or
	// non-finite time step.
	ErrInvalidStep = errors.New("engine: time step must be positive and finite")

	// ErrIO is returned when a state file cannot be read or written.
	ErrIO = errors.New("engine: state file I/O failed")

	// ErrObserverNotRegistered is returned when unregistering an observer
	// that holds no active registration.
	ErrObserverNotRegistered = errors.New("engine: observer not registered")
)
