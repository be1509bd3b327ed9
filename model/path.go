package model

import "strings"

// PathSeparator joins database name, category and label in display paths.
const PathSeparator = "/"

// Path pairs a human readable registry path with its globally unique code.
type Path struct {
	Path string `json:"path" yaml:"path"`
	Code string `json:"code" yaml:"code"`
}

// Tuple is the read-only export view of a registry.
type Tuple struct {
	Label    string `json:"label" yaml:"label"`
	Category string `json:"category" yaml:"category"`
	Code     string `json:"code" yaml:"code"`
}

func joinPath(database, category, label, emptyCategory string) string {
	if category == "" {
		category = emptyCategory
	}
	return strings.Join([]string{database, category, label}, PathSeparator)
}
