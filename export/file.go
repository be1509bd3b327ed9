package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// FileName removes spaces from name.
func FileName(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// GenerateFile writes data to dirURL/name, creating dirURL when missing, and
// returns the written URL. Spaces are stripped from name.
func GenerateFile(ctx context.Context, fs afs.Service, dirURL, name, data string) (string, error) {
	if fs == nil {
		fs = afs.New()
	}
	name = FileName(name)
	if name == "" {
		return "", fmt.Errorf("file name cannot be empty")
	}
	exists, err := fs.Exists(ctx, dirURL)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", dirURL, err)
	}
	if !exists {
		if err = fs.Create(ctx, dirURL, file.DefaultDirOsMode, true); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dirURL, err)
		}
	}
	URL := url.Join(dirURL, name)
	if err = fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", URL, err)
	}
	return URL, nil
}
