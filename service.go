package idregistry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/idregistry/lookup"
	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/allocator"
	"github.com/viant/idregistry/service/dao"
	sfs "github.com/viant/idregistry/service/dao/snapshot/fs"
	smemory "github.com/viant/idregistry/service/dao/snapshot/memory"
	ssqlite "github.com/viant/idregistry/service/dao/snapshot/sqlite"
	"github.com/viant/idregistry/service/event"
	"github.com/viant/idregistry/service/messaging"
	"github.com/viant/idregistry/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Service is the entry point hosts construct and pass around explicitly. It
// owns exactly one Wrapper at a time.
type Service struct {
	config         *Config
	fs             afs.Service
	logger         *slog.Logger
	store          dao.Service[string, model.Snapshot]
	queue          messaging.Queue[event.Event[event.Change]]
	publisher      *event.Publisher[event.Change]
	lookup         *lookup.Service
	allocator      *allocator.Service
	randFn         func(n int64) int64
	tracer         trace.Tracer
	exporter       sdktrace.SpanExporter
	provider       *sdktrace.TracerProvider
	serviceVersion string
	closers        []io.Closer

	mu      sync.Mutex
	wrapper *model.Wrapper
}

// New creates a service; the store is opened eagerly so that configuration
// errors surface here.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(ctx); err != nil {
		_ = ret.Close(ctx)
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	s.allocator = allocator.New(allocator.WithProbe(s.config.Allocation.Probe), allocator.WithRand(s.randFn))
	s.lookup = lookup.New(
		lookup.WithEmptyCategory(s.config.Registry.EmptyCategory),
		lookup.WithExpiration(s.config.Lookup.TTL),
	)
	if s.queue != nil {
		s.publisher = event.NewPublisher[event.Change](s.queue)
	}
	if err := s.initTracing(); err != nil {
		return err
	}
	return s.initStore(ctx)
}

func (s *Service) initTracing() error {
	if s.tracer != nil {
		return nil
	}
	exporter := s.exporter
	if exporter == nil && s.config.Tracing.Enabled {
		var err error
		if exporter, err = tracing.NewStdoutExporter(s.config.Tracing.Output); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if exporter == nil {
		return nil
	}
	provider, err := tracing.NewProvider(s.config.Tracing.ServiceName, s.serviceVersion, exporter)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	s.provider = provider
	s.tracer = provider.Tracer(tracing.TracerName)
	return nil
}

func (s *Service) initStore(ctx context.Context) error {
	if s.store != nil {
		return nil
	}
	switch s.config.Store.Vendor {
	case StoreFs:
		store, err := sfs.New(ctx, s.config.Store.URL, sfs.WithFs(s.fs), sfs.WithFormat(sfs.Format(s.config.Store.Format)))
		if err != nil {
			return err
		}
		s.store = store
	case StoreSQLite:
		store, err := ssqlite.New(ctx, s.config.Store.URL)
		if err != nil {
			return err
		}
		s.store = store
		s.closers = append(s.closers, store)
	default:
		s.store = smemory.New()
	}
	return nil
}

// Close flushes spans and releases the store.
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	if s.provider != nil {
		errs = append(errs, s.provider.Shutdown(ctx))
		s.provider = nil
	}
	for _, closer := range s.closers {
		errs = append(errs, closer.Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Store returns the snapshot store.
func (s *Service) Store() dao.Service[string, model.Snapshot] {
	return s.store
}

// Wrapper returns the root of the tree, creating an empty one on first use.
func (s *Service) Wrapper() *model.Wrapper {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wrapper == nil {
		s.wrapper = model.NewWrapper(s.modelOptions()...)
	}
	return s.wrapper
}

func (s *Service) modelOptions() []model.Option {
	return []model.Option{
		model.WithDatabaseDigits(s.config.Allocation.DatabaseDigits),
		model.WithRegistryDigits(s.config.Allocation.RegistryDigits),
		model.WithAllocator(s.allocator),
		model.WithPermissiveRename(s.config.Registry.PermissiveRename),
	}
}

// CreateDatabase adds a database with a freshly allocated top-level code.
func (s *Service) CreateDatabase(ctx context.Context, name, description string) (ret *model.Database, err error) {
	ctx, span := s.startSpan(ctx, "database.create", map[string]string{"name": name})
	defer func() { tracing.EndSpan(span, err) }()

	if ret, err = s.Wrapper().CreateDatabase(name, description); err != nil {
		s.logFailure(ctx, "create database", err, "name", name)
		return nil, err
	}
	span.WithAttributes(map[string]string{"code": ret.Code()})
	s.logger.InfoContext(ctx, "database created", "name", name, "code", ret.Code())
	s.publish(ctx, "CreateDatabase", event.Change{Operation: event.OperationDatabaseCreated, Database: name, Code: ret.Code(), Revision: ret.Revision()})
	return ret, nil
}

// RemoveDatabase drops database and all its registries. It reports false
// when the database is not part of the current tree.
func (s *Service) RemoveDatabase(ctx context.Context, database *model.Database) bool {
	if database == nil {
		return false
	}
	ctx, span := s.startSpan(ctx, "database.remove", map[string]string{"code": database.Code()})
	defer tracing.EndSpan(span, nil)

	if !s.Wrapper().RemoveDatabase(database) {
		return false
	}
	s.logger.InfoContext(ctx, "database removed", "name", database.Name(), "code", database.Code())
	s.publish(ctx, "RemoveDatabase", event.Change{Operation: event.OperationDatabaseRemoved, Database: database.Name(), Code: database.Code(), Revision: database.Revision()})
	return true
}

// CreateRegistry adds a registry to database with a code scoped under the
// database code.
func (s *Service) CreateRegistry(ctx context.Context, database *model.Database, label, category string) (ret *model.Registry, err error) {
	if database == nil {
		return nil, &model.NotFoundError{Kind: "database"}
	}
	ctx, span := s.startSpan(ctx, "registry.create", map[string]string{"database": database.Name(), "label": label})
	defer func() { tracing.EndSpan(span, err) }()

	if ret, err = database.CreateRegistry(label, category); err != nil {
		s.logFailure(ctx, "create registry", err, "database", database.Name(), "label", label)
		return nil, err
	}
	span.WithAttributes(map[string]string{"code": ret.FullCode()})
	s.logger.DebugContext(ctx, "registry created", "database", database.Name(), "label", label, "code", ret.FullCode())
	s.publish(ctx, "CreateRegistry", event.Change{
		Operation: event.OperationRegistryCreated,
		Database:  database.Name(),
		Code:      ret.FullCode(),
		Label:     label,
		Category:  category,
		Revision:  ret.Revision(),
	})
	return ret, nil
}

// DeleteRegistry removes registry from its database; deleting an absent
// registry is a no-op reported as false.
func (s *Service) DeleteRegistry(ctx context.Context, registry *model.Registry) bool {
	if registry == nil || registry.Database() == nil {
		return false
	}
	database := registry.Database()
	ctx, span := s.startSpan(ctx, "registry.delete", map[string]string{"code": registry.FullCode()})
	defer tracing.EndSpan(span, nil)

	if !database.DeleteRegistry(registry) {
		return false
	}
	s.logger.DebugContext(ctx, "registry deleted", "database", database.Name(), "code", registry.FullCode())
	s.publish(ctx, "DeleteRegistry", event.Change{
		Operation: event.OperationRegistryDeleted,
		Database:  database.Name(),
		Code:      registry.FullCode(),
		Label:     registry.Label(),
		Revision:  registry.Revision(),
	})
	return true
}

// UpdateRegistry replaces label and category; the code never changes.
func (s *Service) UpdateRegistry(ctx context.Context, registry *model.Registry, label, category string) error {
	return s.update(ctx, "UpdateRegistry", registry, func(database *model.Database) error {
		return database.UpdateRegistry(registry, label, category)
	})
}

// Rename changes the label of registry.
func (s *Service) Rename(ctx context.Context, registry *model.Registry, label string) error {
	return s.update(ctx, "Rename", registry, func(database *model.Database) error {
		return database.Rename(registry, label)
	})
}

// Recategorize changes the category of registry.
func (s *Service) Recategorize(ctx context.Context, registry *model.Registry, category string) error {
	return s.update(ctx, "Recategorize", registry, func(database *model.Database) error {
		return database.Recategorize(registry, category)
	})
}

func (s *Service) update(ctx context.Context, method string, registry *model.Registry, fn func(database *model.Database) error) (err error) {
	if registry == nil || registry.Database() == nil {
		return &model.NotFoundError{Kind: "registry"}
	}
	database := registry.Database()
	ctx, span := s.startSpan(ctx, "registry.update", map[string]string{"code": registry.FullCode()})
	defer func() { tracing.EndSpan(span, err) }()

	if err = fn(database); err != nil {
		s.logFailure(ctx, "update registry", err, "code", registry.FullCode())
		return err
	}
	label, category := registry.Label(), registry.Category()
	s.logger.DebugContext(ctx, "registry updated", "code", registry.FullCode(), "label", label, "category", category)
	s.publish(ctx, method, event.Change{
		Operation: event.OperationRegistryUpdated,
		Database:  database.Name(),
		Code:      registry.FullCode(),
		Label:     label,
		Category:  category,
		Revision:  registry.Revision(),
	})
	return nil
}

// Paths enumerates every registry of every database as display path and
// full code, using the configured empty category placeholder.
func (s *Service) Paths() []model.Path {
	return s.Wrapper().EnumerateAllRegistryPaths(s.config.Registry.EmptyCategory)
}

// Categories lists the distinct categories of database, placeholder included.
func (s *Service) Categories(database *model.Database) []string {
	if database == nil {
		return nil
	}
	return database.ListCategories(s.config.Registry.EmptyCategory)
}

// Index returns the path index of the current tree.
func (s *Service) Index() *lookup.Index {
	return s.lookup.Index(s.Wrapper())
}

// Resolve returns the display path of fullCode.
func (s *Service) Resolve(fullCode string) (string, bool) {
	return s.lookup.Resolve(s.Wrapper(), fullCode)
}

// Code returns the full code of a display path.
func (s *Service) Code(path string) (string, bool) {
	return s.lookup.Code(s.Wrapper(), path)
}

func (s *Service) startSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, *tracing.Span) {
	ctx, span := tracing.Start(ctx, s.tracer, name)
	span.WithAttributes(attrs)
	return ctx, span
}

func (s *Service) logFailure(ctx context.Context, operation string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, allocator.ErrExhaustedSpace) {
		s.logger.WarnContext(ctx, operation+" failed", args...)
		return
	}
	s.logger.DebugContext(ctx, operation+" rejected", args...)
}

// publish sends change; its Revision is stamped by the model during the
// mutation itself.
func (s *Service) publish(ctx context.Context, method string, change event.Change) {
	if s.publisher == nil {
		return
	}
	evt := event.NewEvent(&event.Context{EventType: string(change.Operation), Service: "idregistry", Method: method}, change)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "failed to publish change", "operation", change.Operation, "error", err)
	}
}
