package memory

import (
	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/dao"
	"github.com/viant/idregistry/service/dao/store"
)

// Service keeps snapshots in process memory. Snapshots are deep-copied on
// Save and Load.
type Service = store.MemoryStore[string, model.Snapshot]

var _ dao.Service[string, model.Snapshot] = (*Service)(nil)

// New creates an empty in-memory snapshot store.
func New() *Service {
	return store.NewMemoryStore[string, model.Snapshot](
		func(s *model.Snapshot) string { return s.ID },
		(*model.Snapshot).Clone,
	)
}
