package export

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffStats counts changed lines of a unified diff.
type DiffStats struct {
	Added   int
	Removed int
}

// Diff returns a unified diff between two exports named name. Identical
// inputs yield an empty diff.
func Diff(before, after, name string) (string, DiffStats, error) {
	if before == after {
		return "", DiffStats{}, nil
	}
	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: name + " (before)",
		ToFile:   name + " (after)",
		Context:  1,
	})
	if err != nil {
		return "", DiffStats{}, err
	}
	var stats DiffStats
	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			stats.Added++
		case strings.HasPrefix(line, "-"):
			stats.Removed++
		}
	}
	return patch, stats, nil
}
