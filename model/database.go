package model

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Database owns an ordered list of registries. Registry codes are allocated
// under the database code, so full codes are unique across the Wrapper as
// long as they are unique here.
type Database struct {
	mu          sync.RWMutex
	name        string
	description string
	code        string
	settings    settings
	registries  []*Registry
	wrapper     *Wrapper
	revision    atomic.Uint64
}

// NewDatabase creates a detached database with an already allocated code.
// Databases that belong to a Wrapper are created with Wrapper.CreateDatabase.
func NewDatabase(name, description, code string, options ...Option) *Database {
	return &Database{name: name, description: description, code: code, settings: newSettings(options)}
}

// Name returns the database name.
func (d *Database) Name() string { return d.name }

// Description returns the database description.
func (d *Database) Description() string { return d.description }

// Code returns the database code.
func (d *Database) Code() string { return d.code }

// FullCode equals Code; databases live in the top-level scope.
func (d *Database) FullCode() string { return d.code }

// Digits returns the width of registry codes in this database.
func (d *Database) Digits() int { return d.settings.registryDigits }

// CreateRegistry validates the label, allocates a code scoped under the
// database code and appends the new registry. On error nothing changes.
func (d *Database) CreateRegistry(label, category string) (*Registry, error) {
	if label == "" {
		return nil, &ValidationError{Field: "label", Reason: "must not be empty"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.indexOfLabel(label) != -1 {
		return nil, &ValidationError{Field: "label", Value: label, Reason: "already exists in database " + d.name}
	}
	siblings := make([]string, len(d.registries))
	for i, registry := range d.registries {
		siblings[i] = registry.FullCode()
	}
	fullCode, err := d.settings.allocator.Allocate(d.settings.registryDigits, siblings, d.code)
	if err != nil {
		return nil, err
	}
	ret := &Registry{
		label:    label,
		category: category,
		code:     strings.TrimPrefix(fullCode, d.code),
		prefix:   d.code,
		owner:    d,
	}
	d.registries = append(d.registries, ret)
	ret.revision.Store(d.touch())
	return ret, nil
}

// DeleteRegistry removes registry; it reports false when it was not present.
func (d *Database) DeleteRegistry(registry *Registry) bool {
	if registry == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	index := slices.Index(d.registries, registry)
	if index == -1 {
		return false
	}
	d.registries = slices.Delete(d.registries, index, index+1)
	registry.revision.Store(d.touch())
	return true
}

// UpdateRegistry replaces label and category of an owned registry. The code
// is never altered.
func (d *Database) UpdateRegistry(registry *Registry, label, category string) error {
	return d.update(registry, &label, &category)
}

// Rename changes only the label of registry.
func (d *Database) Rename(registry *Registry, label string) error {
	return d.update(registry, &label, nil)
}

// Recategorize changes only the category of registry.
func (d *Database) Recategorize(registry *Registry, category string) error {
	return d.update(registry, nil, &category)
}

func (d *Database) update(registry *Registry, label, category *string) error {
	if registry == nil {
		return &NotFoundError{Kind: "registry"}
	}
	if label != nil && *label == "" {
		return &ValidationError{Field: "label", Reason: "must not be empty"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(d.registries, registry) {
		return &NotFoundError{Kind: "registry", Key: registry.FullCode()}
	}
	if label != nil && *label != registry.label && !d.settings.permissiveRename && d.indexOfLabel(*label) != -1 {
		return &ValidationError{Field: "label", Value: *label, Reason: "already exists in database " + d.name}
	}
	if label != nil {
		registry.label = *label
	}
	if category != nil {
		registry.category = *category
	}
	registry.revision.Store(d.touch())
	return nil
}

// IdentifierExists reports whether a registry uses label (exact match).
func (d *Database) IdentifierExists(label string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.indexOfLabel(label) != -1
}

// Identifiers returns registry labels in insertion order.
func (d *Database) Identifiers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ret := make([]string, len(d.registries))
	for i, registry := range d.registries {
		ret[i] = registry.label
	}
	return ret
}

// Registries returns a copy of the ordered registry list.
func (d *Database) Registries() []*Registry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.registries)
}

// Len returns the number of registries.
func (d *Database) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.registries)
}

// Registry looks a registry up by its local code.
func (d *Database) Registry(code string) (*Registry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, registry := range d.registries {
		if registry.code == code {
			return registry, true
		}
	}
	return nil, false
}

// RegistryByLabel looks a registry up by its label.
func (d *Database) RegistryByLabel(label string) (*Registry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if index := d.indexOfLabel(label); index != -1 {
		return d.registries[index], true
	}
	return nil, false
}

// ListCategories returns the sorted set of categories in use. Empty
// categories are reported as emptyCategory, which is always included.
func (d *Database) ListCategories(emptyCategory string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set := map[string]struct{}{emptyCategory: {}}
	for _, registry := range d.registries {
		category := registry.category
		if category == "" {
			category = emptyCategory
		}
		set[category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Paths returns name/category/label paths paired with full codes.
func (d *Database) Paths(emptyCategory string) []Path {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ret := make([]Path, len(d.registries))
	for i, registry := range d.registries {
		ret[i] = Path{
			Path: joinPath(d.name, registry.category, registry.label, emptyCategory),
			Code: registry.FullCode(),
		}
	}
	return ret
}

// Tuples returns the export view of every registry in order.
func (d *Database) Tuples() []Tuple {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ret := make([]Tuple, len(d.registries))
	for i, registry := range d.registries {
		ret[i] = registry.tuple()
	}
	return ret
}

func (d *Database) indexOfLabel(label string) int {
	for i, registry := range d.registries {
		if registry.label == label {
			return i
		}
	}
	return -1
}

// touch bumps the owning wrapper revision and returns it; detached
// databases report 0. Caller holds d.mu.
func (d *Database) touch() uint64 {
	if d.wrapper == nil {
		return 0
	}
	return d.wrapper.revision.Add(1)
}

// Revision returns the wrapper revision produced by creating or removing
// this database.
func (d *Database) Revision() uint64 {
	return d.revision.Load()
}

// detach drops every registry; used when the database leaves its wrapper.
func (d *Database) detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registries = nil
	d.wrapper = nil
}
