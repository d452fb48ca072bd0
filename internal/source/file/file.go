package file

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anyproto/remo-tui/internal/source"
	"github.com/anyproto/remo-tui/pkg/model"
)

// FileSource reads an appliance list previously saved from GET /1/appliances
type FileSource struct {
	path string
}

// New creates a new file source. Paths ending in .gz are decompressed.
func New(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the name of this source
func (f *FileSource) Name() string {
	return "file"
}

// FetchAppliances decodes the dump at the configured path
func (f *FileSource) FetchAppliances(ctx context.Context) ([]model.Appliance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(f.path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	var apps []model.Appliance
	if err := json.NewDecoder(reader).Decode(&apps); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.path, err)
	}
	return apps, nil
}

var _ source.Source = (*FileSource)(nil)
