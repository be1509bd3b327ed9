// Package idgen wraps the random sources used for identifiers so that they
// can be stubbed in tests. Callers should treat produced values as opaque.
package idgen
