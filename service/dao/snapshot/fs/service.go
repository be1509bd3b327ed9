package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/dao"
	"gopkg.in/yaml.v3"
)

// Format selects the document encoding of stored snapshots.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func (f Format) ext() string {
	return "." + string(f)
}

// Service stores one snapshot document per ID under a base URL. Any afs
// supported scheme (file, mem, s3, gs...) can be used.
type Service struct {
	baseURL string
	format  Format
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[string, model.Snapshot] = (*Service)(nil)

// Option customises Service.
type Option func(s *Service)

// WithFormat sets the document format; JSON by default.
func WithFormat(format Format) Option {
	return func(s *Service) {
		if format == FormatJSON || format == FormatYAML {
			s.format = format
		}
	}
}

// WithFs sets the afs service.
func WithFs(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// Save persists a snapshot document.
func (s *Service) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if snapshot == nil {
		return dao.ErrNilEntity
	}
	if snapshot.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := s.encode(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", snapshot.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.snapshotURL(snapshot.ID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save snapshot to %s: %w", URL, err)
	}
	return nil
}

// Load retrieves a snapshot document.
func (s *Service) Load(ctx context.Context, id string) (*model.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	URL := s.snapshotURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if snapshot exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: snapshot %s", dao.ErrNotFound, id)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", URL, err)
	}
	return s.decode(data)
}

// Delete removes a snapshot document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	URL := s.snapshotURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if snapshot exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: snapshot %s", dao.ErrNotFound, id)
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", URL, err)
	}
	return nil
}

// List returns every snapshot stored in the configured format. Unreadable
// documents fail the whole call.
func (s *Service) List(ctx context.Context) ([]*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var ret []*model.Snapshot
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), s.format.ext()) {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", object.URL(), err)
		}
		snapshot, err := s.decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", object.URL(), err)
		}
		ret = append(ret, snapshot)
	}
	return ret, nil
}

func (s *Service) encode(snapshot *model.Snapshot) ([]byte, error) {
	if s.format == FormatYAML {
		return yaml.Marshal(snapshot)
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

func (s *Service) decode(data []byte) (*model.Snapshot, error) {
	ret := &model.Snapshot{}
	var err error
	if s.format == FormatYAML {
		err = yaml.Unmarshal(data, ret)
	} else {
		err = json.Unmarshal(data, ret)
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) snapshotURL(id string) string {
	return url.Join(s.baseURL, id+s.format.ext())
}

// New creates a snapshot store rooted at baseURL, creating it when missing.
func New(ctx context.Context, baseURL string, options ...Option) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	ret := &Service{baseURL: baseURL, format: FormatJSON}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	exists, _ := ret.fs.Exists(ctx, baseURL)
	if !exists {
		if err := ret.fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return ret, nil
}
