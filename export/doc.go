// Package export renders the identifier tree as semicolon separated lines,
// writes them to any afs supported location and diffs two renderings.
package export
