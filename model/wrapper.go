package model

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/viant/idregistry/internal/idgen"
)

// Wrapper is the root of the ownership tree. It allocates database codes in
// the top-level scope and is the unit of persistence. Hosts construct one
// Wrapper and pass it explicitly; there is no package level instance.
type Wrapper struct {
	id        string
	mu        sync.RWMutex
	settings  settings
	databases []*Database
	revision  atomic.Uint64
}

// NewWrapper creates an empty wrapper.
func NewWrapper(options ...Option) *Wrapper {
	return &Wrapper{id: idgen.New(), settings: newSettings(options)}
}

// ID returns an identifier unique to this wrapper instance.
func (w *Wrapper) ID() string { return w.id }

// CreateDatabase allocates a top-level code and appends a new database.
// Names must be non-empty and unique.
func (w *Wrapper) CreateDatabase(name, description string) (*Database, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indexOfName(name) != -1 {
		return nil, &ValidationError{Field: "name", Value: name, Reason: "database already exists"}
	}
	siblings := make([]string, len(w.databases))
	for i, database := range w.databases {
		siblings[i] = database.code
	}
	code, err := w.settings.allocator.Allocate(w.settings.databaseDigits, siblings, "")
	if err != nil {
		return nil, err
	}
	ret := &Database{
		name:        name,
		description: description,
		code:        code,
		settings:    w.settings,
		wrapper:     w,
	}
	w.databases = append(w.databases, ret)
	ret.revision.Store(w.revision.Add(1))
	return ret, nil
}

// RemoveDatabase removes database together with all of its registries. It
// reports false when database was not part of the wrapper.
func (w *Wrapper) RemoveDatabase(database *Database) bool {
	if database == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	index := slices.Index(w.databases, database)
	if index == -1 {
		return false
	}
	w.databases = slices.Delete(w.databases, index, index+1)
	database.detach()
	database.revision.Store(w.revision.Add(1))
	return true
}

// Databases returns a copy of the ordered database list.
func (w *Wrapper) Databases() []*Database {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.databases)
}

// Database looks a database up by code.
func (w *Wrapper) Database(code string) (*Database, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, database := range w.databases {
		if database.code == code {
			return database, true
		}
	}
	return nil, false
}

// DatabaseByName looks a database up by name.
func (w *Wrapper) DatabaseByName(name string) (*Database, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if index := w.indexOfName(name); index != -1 {
		return w.databases[index], true
	}
	return nil, false
}

// DatabaseNames returns database names in order.
func (w *Wrapper) DatabaseNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ret := make([]string, len(w.databases))
	for i, database := range w.databases {
		ret[i] = database.name
	}
	return ret
}

// RegistriesCount returns the number of registries across all databases.
func (w *Wrapper) RegistriesCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ret := 0
	for _, database := range w.databases {
		ret += database.Len()
	}
	return ret
}

// EnumerateAllRegistryPaths lists every registry of every database as a
// database/category/label path paired with its full code.
func (w *Wrapper) EnumerateAllRegistryPaths(emptyCategory string) []Path {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var ret []Path
	for _, database := range w.databases {
		ret = append(ret, database.Paths(emptyCategory)...)
	}
	return ret
}

// FindRegistry resolves a full code to its registry.
func (w *Wrapper) FindRegistry(fullCode string) (*Registry, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, database := range w.databases {
		if !strings.HasPrefix(fullCode, database.code) {
			continue
		}
		if registry, ok := database.Registry(fullCode[len(database.code):]); ok {
			return registry, true
		}
	}
	return nil, false
}

// Revision increases on every successful mutation of the tree.
func (w *Wrapper) Revision() uint64 {
	return w.revision.Load()
}

// DatabaseDigits returns the width of database codes.
func (w *Wrapper) DatabaseDigits() int { return w.settings.databaseDigits }

// RegistryDigits returns the width of registry codes.
func (w *Wrapper) RegistryDigits() int { return w.settings.registryDigits }

func (w *Wrapper) indexOfName(name string) int {
	for i, database := range w.databases {
		if database.name == name {
			return i
		}
	}
	return -1
}
