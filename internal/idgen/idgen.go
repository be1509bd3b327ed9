package idgen

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// DefaultNewFunc generates random UUIDs.
func DefaultNewFunc() string { return uuid.New().String() }

// NewFunc returns a new globally unique identifier as string.
var NewFunc = DefaultNewFunc

// Int64NFunc returns a uniformly distributed value in [0, n).
var Int64NFunc = rand.Int64N

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// Int64N returns a random value in [0, n). It panics when n <= 0.
func Int64N(n int64) int64 { return Int64NFunc(n) }
