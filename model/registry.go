package model

import "sync/atomic"

// Registry is a labelled, categorised entry of a Database. Its code never
// changes after creation; label and category are mutated only through the
// owning Database so that uniqueness checks run under its lock.
type Registry struct {
	label    string
	category string
	code     string
	prefix   string
	owner    *Database
	revision atomic.Uint64
}

// Code returns the registry code local to its database.
func (r *Registry) Code() string {
	return r.code
}

// FullCode returns the database code followed by the registry code.
func (r *Registry) FullCode() string {
	return r.prefix + r.code
}

// Label returns the current label.
func (r *Registry) Label() string {
	defer r.rlock()()
	return r.label
}

// Category returns the current category; empty means uncategorized.
func (r *Registry) Category() string {
	defer r.rlock()()
	return r.category
}

// Revision returns the wrapper revision produced by the latest create,
// update or delete of this registry.
func (r *Registry) Revision() uint64 {
	return r.revision.Load()
}

// Database returns the owning database.
func (r *Registry) Database() *Database {
	return r.owner
}

// Tuple returns the export view of the registry.
func (r *Registry) Tuple() Tuple {
	defer r.rlock()()
	return r.tuple()
}

func (r *Registry) tuple() Tuple {
	return Tuple{Label: r.label, Category: r.category, Code: r.FullCode()}
}

func (r *Registry) rlock() func() {
	if r.owner == nil {
		return func() {}
	}
	r.owner.mu.RLock()
	return r.owner.mu.RUnlock
}
