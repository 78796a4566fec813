package ingestion

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/types"
)

// Document is a resume loaded from disk
type Document struct {
	Data     []byte
	Metadata *Metadata
}

// LoadFile reads a resume document from path. Unsupported extensions and files
// larger than maxBytes are rejected before the file is read.
func LoadFile(path string, maxBytes int64) (*Document, error) {
	filename := filepath.Base(path)
	format, err := extract.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	req := &types.ParseRequest{Filename: filename, Size: info.Size(), MaxSize: maxBytes}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &Document{Data: data, Metadata: NewMetadata(data, filename, format)}, nil
}

// ListSupported returns the paths of supported resume files directly inside dir, sorted by name
func ListSupported(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !extract.IsSupported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
