package lookup

import (
	"github.com/viant/idregistry/model"
)

// Source supplies registry paths; *model.Wrapper implements it. ID must be
// unique per source instance.
type Source interface {
	ID() string
	Revision() uint64
	EnumerateAllRegistryPaths(emptyCategory string) []model.Path
}

var _ Source = (*model.Wrapper)(nil)

// Index is an immutable two-way map between display paths and full codes.
type Index struct {
	revision uint64
	paths    []model.Path
	byCode   map[string]string
	byPath   map[string]string
}

// NewIndex builds an index over paths captured at revision.
func NewIndex(paths []model.Path, revision uint64) *Index {
	ret := &Index{
		revision: revision,
		paths:    paths,
		byCode:   make(map[string]string, len(paths)),
		byPath:   make(map[string]string, len(paths)),
	}
	for _, p := range paths {
		ret.byCode[p.Code] = p.Path
		ret.byPath[p.Path] = p.Code
	}
	return ret
}

// Resolve returns the display path of a full code.
func (i *Index) Resolve(fullCode string) (string, bool) {
	ret, ok := i.byCode[fullCode]
	return ret, ok
}

// Code returns the full code of a display path.
func (i *Index) Code(path string) (string, bool) {
	ret, ok := i.byPath[path]
	return ret, ok
}

// Paths returns a copy of the indexed paths in enumeration order.
func (i *Index) Paths() []model.Path {
	return append([]model.Path(nil), i.paths...)
}

// Len returns the number of indexed registries.
func (i *Index) Len() int { return len(i.paths) }

// Revision returns the source revision the index was built from.
func (i *Index) Revision() uint64 { return i.revision }
