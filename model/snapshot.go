package model

import (
	"fmt"
	"time"

	"github.com/viant/idregistry/internal/clock"
	"github.com/viant/idregistry/service/allocator"
)

// Snapshot is the plain-data image of a Wrapper exchanged with persistence
// collaborators. Registry codes are stored without their database prefix.
type Snapshot struct {
	ID        string           `json:"id" yaml:"id"`
	SavedAt   time.Time        `json:"savedAt" yaml:"savedAt"`
	Revision  uint64           `json:"revision" yaml:"revision"`
	Databases []DatabaseRecord `json:"databases" yaml:"databases"`
}

// DatabaseRecord is the persisted form of a Database.
type DatabaseRecord struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Code        string           `json:"code" yaml:"code"`
	Registries  []RegistryRecord `json:"registries" yaml:"registries"`
}

// RegistryRecord is the persisted form of a Registry.
type RegistryRecord struct {
	Label    string `json:"label" yaml:"label"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Code     string `json:"code" yaml:"code"`
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	ret := *s
	ret.Databases = make([]DatabaseRecord, len(s.Databases))
	for i, database := range s.Databases {
		ret.Databases[i] = database
		ret.Databases[i].Registries = append([]RegistryRecord(nil), database.Registries...)
	}
	return &ret
}

// Snapshot captures the current tree under id. The revision is read after
// every database record, so it is never older than the captured content.
func (w *Wrapper) Snapshot(id string) *Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ret := &Snapshot{
		ID:        id,
		SavedAt:   clock.Now(),
		Databases: make([]DatabaseRecord, 0, len(w.databases)),
	}
	for _, database := range w.databases {
		ret.Databases = append(ret.Databases, database.record())
	}
	ret.Revision = w.revision.Load()
	return ret
}

func (d *Database) record() DatabaseRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ret := DatabaseRecord{
		Name:        d.name,
		Description: d.description,
		Code:        d.code,
		Registries:  make([]RegistryRecord, len(d.registries)),
	}
	for i, registry := range d.registries {
		ret.Registries[i] = RegistryRecord{Label: registry.label, Category: registry.category, Code: registry.code}
	}
	return ret
}

// FromSnapshot rebuilds a Wrapper, re-checking that names, labels and codes
// are present, well formed and unique within their scope.
func FromSnapshot(snapshot *Snapshot, options ...Option) (*Wrapper, error) {
	ret := NewWrapper(options...)
	if snapshot == nil {
		return ret, nil
	}
	names := map[string]bool{}
	codes := map[string]bool{}
	for i, record := range snapshot.Databases {
		field := fmt.Sprintf("databases[%d]", i)
		switch {
		case record.Name == "":
			return nil, &ValidationError{Field: field + ".name", Reason: "must not be empty"}
		case names[record.Name]:
			return nil, &ValidationError{Field: field + ".name", Value: record.Name, Reason: "duplicate database name"}
		case !ret.settings.validCode(record.Code, ret.settings.databaseDigits):
			return nil, &ValidationError{Field: field + ".code", Value: record.Code, Reason: "malformed code"}
		case codes[record.Code]:
			return nil, &ValidationError{Field: field + ".code", Value: record.Code, Reason: "duplicate database code"}
		}
		names[record.Name] = true
		codes[record.Code] = true

		database := &Database{
			name:        record.Name,
			description: record.Description,
			code:        record.Code,
			settings:    ret.settings,
			wrapper:     ret,
			registries:  make([]*Registry, 0, len(record.Registries)),
		}
		labels := map[string]bool{}
		registryCodes := map[string]bool{}
		for j, registry := range record.Registries {
			field := fmt.Sprintf("databases[%d].registries[%d]", i, j)
			switch {
			case registry.Label == "":
				return nil, &ValidationError{Field: field + ".label", Reason: "must not be empty"}
			case labels[registry.Label]:
				return nil, &ValidationError{Field: field + ".label", Value: registry.Label, Reason: "duplicate label"}
			case !ret.settings.validCode(registry.Code, ret.settings.registryDigits):
				return nil, &ValidationError{Field: field + ".code", Value: registry.Code, Reason: "malformed code"}
			case registryCodes[registry.Code]:
				return nil, &ValidationError{Field: field + ".code", Value: registry.Code, Reason: "duplicate registry code"}
			}
			labels[registry.Label] = true
			registryCodes[registry.Code] = true
			database.registries = append(database.registries, &Registry{
				label:    registry.Label,
				category: registry.Category,
				code:     registry.Code,
				prefix:   database.code,
				owner:    database,
			})
		}
		ret.databases = append(ret.databases, database)
	}
	ret.revision.Store(snapshot.Revision)
	return ret, nil
}

// validCode reports whether code has exactly digits lowercase hex chars. With
// legacy probing the single out-of-width value 16^digits is accepted too.
func (s settings) validCode(code string, digits int) bool {
	if allocator.Valid(code, digits) {
		return true
	}
	if s.allocator.Probe() != allocator.ProbeLegacy {
		return false
	}
	capacity, err := allocator.Capacity(digits)
	return err == nil && code == allocator.Format(capacity, digits)
}
