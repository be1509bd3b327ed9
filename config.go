package idregistry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/idregistry/lookup"
	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/allocator"
	"gopkg.in/yaml.v3"
)

// Store vendors.
const (
	StoreMemory = "memory"
	StoreFs     = "fs"
	StoreSQLite = "sqlite"
)

// Config is a serialisable representation of the service configuration. The
// zero value of each section is replaced by DefaultConfig when loaded with
// LoadConfig.
type Config struct {
	Allocation AllocationConfig `json:"allocation" yaml:"allocation"`
	Registry   RegistryConfig   `json:"registry" yaml:"registry"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Lookup     LookupConfig     `json:"lookup" yaml:"lookup"`
	Tracing    TracingConfig    `json:"tracing" yaml:"tracing"`
}

type AllocationConfig struct {
	DatabaseDigits int                 `json:"databaseDigits" yaml:"databaseDigits"`
	RegistryDigits int                 `json:"registryDigits" yaml:"registryDigits"`
	Probe          allocator.ProbeMode `json:"probe" yaml:"probe"`
}

type RegistryConfig struct {
	// EmptyCategory replaces an empty category in paths and category lists.
	EmptyCategory    string `json:"emptyCategory" yaml:"emptyCategory"`
	PermissiveRename bool   `json:"permissiveRename" yaml:"permissiveRename"`
}

type StoreConfig struct {
	Vendor string `json:"vendor" yaml:"vendor"`
	// URL is the afs base URL for fs, or the database file for sqlite.
	URL string `json:"url" yaml:"url"`
	// Name is the snapshot ID used by Save and Load.
	Name   string `json:"name" yaml:"name"`
	Format string `json:"format" yaml:"format"`
}

type LookupConfig struct {
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Output      string `json:"output" yaml:"output"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Allocation: AllocationConfig{
			DatabaseDigits: model.DefaultDatabaseDigits,
			RegistryDigits: model.DefaultRegistryDigits,
			Probe:          allocator.ProbeStrict,
		},
		Registry: RegistryConfig{
			EmptyCategory: lookup.DefaultEmptyCategory,
		},
		Store: StoreConfig{
			Vendor: StoreMemory,
			Name:   "identifiers",
			Format: "json",
		},
		Lookup: LookupConfig{
			TTL: lookup.DefaultExpiration,
		},
		Tracing: TracingConfig{
			ServiceName: "idregistry",
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if err := validateDigits("allocation.databaseDigits", c.Allocation.DatabaseDigits); err != nil {
		errs = append(errs, err)
	}
	if err := validateDigits("allocation.registryDigits", c.Allocation.RegistryDigits); err != nil {
		errs = append(errs, err)
	}
	if !c.Allocation.Probe.Valid() {
		errs = append(errs, fmt.Errorf("allocation.probe %q is not supported", c.Allocation.Probe))
	}
	switch c.Store.Vendor {
	case StoreMemory:
	case StoreFs, StoreSQLite:
		if c.Store.URL == "" {
			errs = append(errs, fmt.Errorf("store.url is required for %s store", c.Store.Vendor))
		}
	default:
		errs = append(errs, fmt.Errorf("store.vendor %q is not supported", c.Store.Vendor))
	}
	if c.Store.Name == "" {
		errs = append(errs, errors.New("store.name must not be empty"))
	}
	if c.Store.Format != "" && c.Store.Format != "json" && c.Store.Format != "yaml" {
		errs = append(errs, fmt.Errorf("store.format %q is not supported", c.Store.Format))
	}
	if c.Lookup.TTL < 0 {
		errs = append(errs, errors.New("lookup.ttl must not be negative"))
	}
	return errors.Join(errs...)
}

func validateDigits(name string, digits int) error {
	if digits < 1 || digits > allocator.MaxDigits {
		return fmt.Errorf("%s must be within [1, %d], got %d", name, allocator.MaxDigits, digits)
	}
	return nil
}

// LoadConfig reads a YAML document from URL over DefaultConfig and validates
// the result. Storage options (for example an embed.FS) are passed to fs.
func LoadConfig(ctx context.Context, fs afs.Service, URL string, options ...storage.Option) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
