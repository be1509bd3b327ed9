package idregistry

import (
	"context"

	"github.com/viant/idregistry/export"
	"github.com/viant/idregistry/tracing"
)

// ExportCSV renders the header followed by one line per registry.
func (s *Service) ExportCSV() string {
	return export.Wrapper(s.Wrapper())
}

// ExportFile writes ExportCSV to dirURL/name and returns the file URL.
// Spaces are removed from name.
func (s *Service) ExportFile(ctx context.Context, dirURL, name string) (URL string, err error) {
	ctx, span := s.startSpan(ctx, "export.file", map[string]string{"dir": dirURL, "name": name})
	defer func() { tracing.EndSpan(span, err) }()

	if URL, err = export.GenerateFile(ctx, s.fs, dirURL, name, s.ExportCSV()); err != nil {
		s.logger.ErrorContext(ctx, "failed to export", "dir", dirURL, "name", name, "error", err)
		return "", err
	}
	s.logger.InfoContext(ctx, "exported", "url", URL)
	return URL, nil
}
