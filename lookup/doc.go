// Package lookup maps human readable registry paths to full codes and back.
// Indexes are rebuilt lazily and cached per wrapper revision.
package lookup
