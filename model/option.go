package model

import "github.com/viant/idregistry/service/allocator"

const (
	// DefaultDatabaseDigits is the code width of top-level databases.
	DefaultDatabaseDigits = 2
	// DefaultRegistryDigits is the code width of registries within a database.
	DefaultRegistryDigits = 4
)

type settings struct {
	databaseDigits   int
	registryDigits   int
	allocator        *allocator.Service
	permissiveRename bool
}

func newSettings(options []Option) settings {
	ret := settings{
		databaseDigits: DefaultDatabaseDigits,
		registryDigits: DefaultRegistryDigits,
	}
	for _, option := range options {
		option(&ret)
	}
	if ret.allocator == nil {
		ret.allocator = allocator.New()
	}
	return ret
}

// Option customises a Wrapper or a standalone Database.
type Option func(s *settings)

// WithDatabaseDigits sets the width of database codes.
func WithDatabaseDigits(digits int) Option {
	return func(s *settings) { s.databaseDigits = digits }
}

// WithRegistryDigits sets the width of registry codes.
func WithRegistryDigits(digits int) Option {
	return func(s *settings) { s.registryDigits = digits }
}

// WithAllocator sets the allocator used for every level of the tree.
func WithAllocator(srv *allocator.Service) Option {
	return func(s *settings) { s.allocator = srv }
}

// WithPermissiveRename disables the label uniqueness check on rename.
// Creation is always checked.
func WithPermissiveRename(permissive bool) Option {
	return func(s *settings) { s.permissiveRename = permissive }
}
