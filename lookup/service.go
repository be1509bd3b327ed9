package lookup

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultEmptyCategory   = "<Empty>"
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Service hands out indexes, reusing one while the source revision holds.
type Service struct {
	emptyCategory string
	cache         *gocache.Cache
}

// Option customises Service.
type Option func(s *Service)

// WithEmptyCategory sets the placeholder used for registries without category.
func WithEmptyCategory(placeholder string) Option {
	return func(s *Service) { s.emptyCategory = placeholder }
}

// WithExpiration sets how long an unused index stays cached.
func WithExpiration(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cache = gocache.New(ttl, 2*ttl)
		}
	}
}

// New creates a lookup service.
func New(options ...Option) *Service {
	ret := &Service{emptyCategory: DefaultEmptyCategory}
	for _, option := range options {
		option(ret)
	}
	if ret.cache == nil {
		ret.cache = gocache.New(DefaultExpiration, DefaultCleanupInterval)
	}
	return ret
}

// Index returns the index of source at its current revision.
func (s *Service) Index(source Source) *Index {
	revision := source.Revision()
	key := s.key(source, revision)
	if cached, ok := s.cache.Get(key); ok {
		if index, ok := cached.(*Index); ok {
			return index
		}
	}
	index := NewIndex(source.EnumerateAllRegistryPaths(s.emptyCategory), revision)
	// a concurrent mutation may have raced the enumeration
	if source.Revision() == revision {
		s.cache.SetDefault(key, index)
	}
	return index
}

// Resolve returns the display path of fullCode in source.
func (s *Service) Resolve(source Source, fullCode string) (string, bool) {
	return s.Index(source).Resolve(fullCode)
}

// Code returns the full code of path in source.
func (s *Service) Code(source Source, path string) (string, bool) {
	return s.Index(source).Code(path)
}

// Flush drops every cached index.
func (s *Service) Flush() {
	s.cache.Flush()
}

// Len returns the number of cached indexes.
func (s *Service) Len() int {
	return s.cache.ItemCount()
}

func (s *Service) key(source Source, revision uint64) string {
	return fmt.Sprintf("%s/%d", source.ID(), revision)
}
