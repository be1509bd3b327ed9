package allocator

import (
	"errors"
	"fmt"
)

var (
	// ErrExhaustedSpace is matched by every ExhaustedSpaceError.
	ErrExhaustedSpace = errors.New("allocator: identifier space exhausted")

	// ErrInvalidDigits indicates a digit width outside [1, MaxDigits].
	ErrInvalidDigits = errors.New("allocator: invalid digit width")
)

// ExhaustedSpaceError reports that every value of the address space is
// already taken by a sibling. A wider digit width is the only remedy.
type ExhaustedSpaceError struct {
	Digits   int
	Capacity int64
	Prefix   string
}

func (e *ExhaustedSpaceError) Error() string {
	if e.Prefix == "" {
		return fmt.Sprintf("allocator: cannot generate %d-digit code, scope is full for %d elements", e.Digits, e.Capacity)
	}
	return fmt.Sprintf("allocator: cannot generate %d-digit code under %q, scope is full for %d elements", e.Digits, e.Prefix, e.Capacity)
}

// Is makes errors.Is(err, ErrExhaustedSpace) succeed.
func (e *ExhaustedSpaceError) Is(target error) bool {
	return target == ErrExhaustedSpace
}
