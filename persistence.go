package idregistry

import (
	"context"
	"fmt"

	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/event"
	"github.com/viant/idregistry/tracing"
)

// Save writes the current tree to the store under Config.Store.Name.
func (s *Service) Save(ctx context.Context) (ret *model.Snapshot, err error) {
	ctx, span := s.startSpan(ctx, "snapshot.save", map[string]string{"id": s.config.Store.Name})
	defer func() { tracing.EndSpan(span, err) }()

	ret = s.Wrapper().Snapshot(s.config.Store.Name)
	if err = s.store.Save(ctx, ret); err != nil {
		s.logger.ErrorContext(ctx, "failed to save snapshot", "id", ret.ID, "error", err)
		return nil, fmt.Errorf("failed to save snapshot %s: %w", ret.ID, err)
	}
	s.logger.InfoContext(ctx, "snapshot saved", "id", ret.ID, "revision", ret.Revision)
	return ret, nil
}

// Load replaces the current tree with the snapshot stored under
// Config.Store.Name. The current tree is kept when the snapshot is missing
// or invalid.
func (s *Service) Load(ctx context.Context) (err error) {
	id := s.config.Store.Name
	ctx, span := s.startSpan(ctx, "snapshot.load", map[string]string{"id": id})
	defer func() { tracing.EndSpan(span, err) }()

	snapshot, err := s.store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}
	wrapper, err := model.FromSnapshot(snapshot, s.modelOptions()...)
	if err != nil {
		s.logger.ErrorContext(ctx, "invalid snapshot", "id", id, "error", err)
		return fmt.Errorf("failed to restore snapshot %s: %w", id, err)
	}
	s.mu.Lock()
	s.wrapper = wrapper
	s.mu.Unlock()
	s.lookup.Flush()

	s.logger.InfoContext(ctx, "snapshot loaded", "id", id, "revision", wrapper.Revision(), "databases", len(snapshot.Databases))
	s.publish(ctx, "Load", event.Change{Operation: event.OperationSnapshotLoaded, Code: id, Revision: wrapper.Revision()})
	return nil
}
