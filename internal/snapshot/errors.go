package snapshot

import "errors"

var (
	// ErrTypeMismatch is returned when a state is applied to an entity of a
	// different concrete kind.
	ErrTypeMismatch = errors.New("snapshot: state type mismatch")

	// ErrCountMismatch is returned when a system or environment state does not
	// have one entry per live robot or element.
	ErrCountMismatch = errors.New("snapshot: entity count mismatch")

	// ErrDeserialize is returned for any malformed serialized state.
	ErrDeserialize = errors.New("snapshot: malformed state")

	// ErrUnknownType is returned when no decoder is registered for a typeId.
	ErrUnknownType = errors.New("snapshot: unknown state type")
)
