package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown framework, zone or transformer name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMalformedTree indicates an element tree that breaks the model's
	// preconditions (nil root, nil child). Adapters must never produce one.
	ErrMalformedTree = errors.New("malformed element tree")

	// ErrContractViolation indicates a transformer returned a zone whose type
	// or path differs from the zone it was given. The pass is aborted.
	ErrContractViolation = errors.New("transformer contract violation")

	// ErrUnsupportedConversion indicates no converter exists for a
	// source/target framework pair.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
)

// ContractViolationError reports the zone a transformer broke the
// same-type/same-path contract on.
type ContractViolationError struct {
	// Path locates the element whose zone was rewritten.
	Path Path

	// Want is the zone type handed to the transformer.
	Want ZoneType

	// Got is the zone type returned by the transformer.
	Got ZoneType

	// GotPath is the path returned by the transformer.
	GotPath Path

	// Key is set when the returned data introduced a key another zone of
	// the same element already owns.
	Key string

	// Owner is the zone type that owns Key.
	Owner ZoneType
}

// Error implements error.
func (e *ContractViolationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s at %s: %s zone introduced key %q owned by the %s zone",
			ErrContractViolation, e.Path, e.Want, e.Key, e.Owner)
	}
	if !e.Path.Equal(e.GotPath) {
		return fmt.Sprintf("%s at %s: path changed to %s",
			ErrContractViolation, e.Path, e.GotPath)
	}
	return fmt.Sprintf("%s at %s: zone type changed from %s to %s",
		ErrContractViolation, e.Path, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrContractViolation.
func (e *ContractViolationError) Unwrap() error {
	return ErrContractViolation
}
