// Package imports lists receipt images waiting in the import directory.
package imports

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gabriel-vasile/mimetype"
)

// allowedTypes are the content types the OCR engines can read or convert.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/heic":      true,
	"image/heif":      true,
	"application/pdf": true,
}

// ProcessedLister reports file names that were already committed.
type ProcessedLister interface {
	ListProcessed(ctx context.Context) ([]string, error)
}

// Directory is a folder of receipt photos.
type Directory struct {
	processed ProcessedLister
	root      string
}

// NewDirectory creates a listing for root that skips names known to processed.
func NewDirectory(root string, processed ProcessedLister) *Directory {
	return &Directory{root: root, processed: processed}
}

// Root returns the directory being listed.
func (d *Directory) Root() string {
	return d.root
}

// List returns the base names of unprocessed receipt images, sorted by name.
// Files are recognized by content, not by extension.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read import directory %s: %w", d.root, err)
	}

	done := make(map[string]bool)
	if d.processed != nil {
		names, err := d.processed.ListProcessed(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load processed files: %w", err)
		}
		for _, name := range names {
			done[name] = true
		}
	}

	var files []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || done[entry.Name()] {
			continue
		}

		mtype, err := mimetype.DetectFile(d.Path(entry.Name()))
		if err != nil {
			slog.Debug("skipping unreadable import file", "name", entry.Name(), "error", err)
			continue
		}
		if !allowedTypes[mtype.String()] {
			continue
		}
		files = append(files, entry.Name())
	}

	sort.Strings(files)
	return files, nil
}

// Path returns the full path of a listed file.
func (d *Directory) Path(name string) string {
	return filepath.Join(d.root, name)
}
