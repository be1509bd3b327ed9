package dao

import "errors"

// Sentinel errors shared by every store so callers can use errors.Is
// regardless of the backing medium.
var (
	// ErrNotFound is returned when nothing is stored under the requested key.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID indicates that the supplied key is empty.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when the caller attempts to persist a nil
	// pointer.
	ErrNilEntity = errors.New("dao: nil entity")
)
