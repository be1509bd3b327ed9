package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("model: validation failed")

	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("model: not found")
)

// ValidationError rejects a caller-correctable input. The container is left
// unchanged.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("model: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("model: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError is returned when an update targets an entity that is no
// longer owned by the container.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model: %s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
