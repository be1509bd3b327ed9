package allocator

import (
	"fmt"
	"strings"

	"github.com/viant/idregistry/internal/idgen"
)

// MaxDigits keeps 16^digits (plus the legacy probe slot) within int64.
const MaxDigits = 15

// ProbeMode controls how linear probing wraps around the address space.
type ProbeMode string

const (
	// ProbeStrict wraps modulo capacity, so every value is visited exactly once.
	ProbeStrict ProbeMode = "strict"
	// ProbeLegacy wraps modulo capacity+1. The extra slot formats one digit
	// wider than requested; use it only to reproduce codes of existing
	// legacy data sets.
	ProbeLegacy ProbeMode = "legacy"
)

// Valid reports whether mode is a known probe mode.
func (m ProbeMode) Valid() bool {
	return m == ProbeStrict || m == ProbeLegacy
}

// Identifiable is implemented by anything that carries an allocated code.
// FullCode returns the code including its parent prefix.
type Identifiable interface {
	FullCode() string
}

// Service allocates codes. The zero value is not usable; call New.
type Service struct {
	probe ProbeMode
	intN  func(n int64) int64
}

// Option customises Service.
type Option func(s *Service)

// WithProbe sets the probe wrap mode.
func WithProbe(mode ProbeMode) Option {
	return func(s *Service) {
		if mode.Valid() {
			s.probe = mode
		}
	}
}

// WithRand sets the random source used for the probe start. fn must return
// a value in [0, n).
func WithRand(fn func(n int64) int64) Option {
	return func(s *Service) {
		if fn != nil {
			s.intN = fn
		}
	}
}

// New creates an allocator; strict probing and idgen.Int64N by default.
func New(options ...Option) *Service {
	ret := &Service{probe: ProbeStrict}
	for _, option := range options {
		option(ret)
	}
	if ret.intN == nil {
		ret.intN = idgen.Int64N
	}
	return ret
}

// Probe returns the configured probe mode.
func (s *Service) Probe() ProbeMode {
	return s.probe
}

// Allocate returns parentPrefix followed by a digits-wide lowercase hex code
// that does not match the local part of any sibling. Siblings are full codes;
// parentPrefix is stripped from them before comparison.
func (s *Service) Allocate(digits int, siblings []string, parentPrefix string) (string, error) {
	capacity, err := Capacity(digits)
	if err != nil {
		return "", err
	}
	// exact-capacity check: the scope is full only when every slot is used
	if int64(len(siblings)) == capacity {
		return "", &ExhaustedSpaceError{Digits: digits, Capacity: capacity, Prefix: parentPrefix}
	}

	taken := make(map[string]struct{}, len(siblings))
	for _, code := range siblings {
		taken[strings.TrimPrefix(code, parentPrefix)] = struct{}{}
	}

	modulus := capacity
	if s.probe == ProbeLegacy {
		modulus = capacity + 1
	}
	candidate := s.intN(capacity)
	for probes := int64(0); probes < modulus; probes++ {
		code := Format(candidate, digits)
		if _, ok := taken[code]; !ok {
			return parentPrefix + code, nil
		}
		candidate = (candidate + 1) % modulus
	}
	// fewer siblings than slots always leaves a free value
	return "", &ExhaustedSpaceError{Digits: digits, Capacity: capacity, Prefix: parentPrefix}
}

// Allocate allocates with a default Service for any sibling type.
func Allocate[T Identifiable](digits int, siblings []T, parentPrefix string) (string, error) {
	return defaultService.Allocate(digits, Codes(siblings), parentPrefix)
}

var defaultService = New()

// Codes extracts full codes from items.
func Codes[T Identifiable](items []T) []string {
	ret := make([]string, len(items))
	for i, item := range items {
		ret[i] = item.FullCode()
	}
	return ret
}

// Capacity returns 16^digits.
func Capacity(digits int) (int64, error) {
	if digits <= 0 || digits > MaxDigits {
		return 0, fmt.Errorf("%w: %d (expected 1..%d)", ErrInvalidDigits, digits, MaxDigits)
	}
	return int64(1) << (4 * uint(digits)), nil
}

// Format renders value as zero-padded lowercase hex of at least digits chars.
func Format(value int64, digits int) string {
	return fmt.Sprintf("%0*x", digits, value)
}

// Valid reports whether code is exactly digits lowercase hex characters.
func Valid(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	return IsHex(code)
}

// IsHex reports whether code is a non-empty lowercase hex string.
func IsHex(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
