package export

import (
	"strings"

	"github.com/viant/idregistry/model"
)

// Separator terminates every field, the last one included.
const Separator = ";"

// Header is the first line of a wrapper export.
var Header = Line("Identifier", "Label", "GUID", "Database", "Database GUID")

// Line joins elements with Separator and terminates the line.
func Line(elements ...string) string {
	return strings.Join(elements, Separator) + Separator + "\n"
}

// Extend appends elements to an existing line.
func Extend(line string, elements ...string) string {
	return strings.ReplaceAll(line, "\n", "") + Line(elements...)
}

// Tuple renders label;category;fullCode;.
func Tuple(tuple model.Tuple) string {
	return Line(tuple.Label, tuple.Category, tuple.Code)
}

// Registry renders a single registry line.
func Registry(registry *model.Registry) string {
	return Tuple(registry.Tuple())
}

// Database renders one line per registry, suffixed with the database name and code.
func Database(database *model.Database) string {
	var sb strings.Builder
	for _, tuple := range database.Tuples() {
		sb.WriteString(Extend(Tuple(tuple), database.Name(), database.Code()))
	}
	return sb.String()
}

// Wrapper renders Header followed by every database in order.
func Wrapper(wrapper *model.Wrapper) string {
	var sb strings.Builder
	sb.WriteString(Header)
	for _, database := range wrapper.Databases() {
		sb.WriteString(Database(database))
	}
	return sb.String()
}
