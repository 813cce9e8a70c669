// Package render draws report tables onto an output surface. Rendering runs
// only after every table has been computed.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goodtune/qqhelper/internal/report"
	"github.com/goodtune/qqhelper/internal/storage"
)

// Renderer replaces the contents of a surface with r.
type Renderer interface {
	Render(ctx context.Context, r report.Report) error
}

// File writes the unstyled text layout to a file. The previous report is
// replaced atomically by renaming a temporary file over it.
type File struct {
	path string
}

// NewFile creates a file renderer for path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Render writes r to the file.
func (f *File) Render(ctx context.Context, r report.Report) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".qqhelper-report-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary report: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := NewText(tmp, false).Render(ctx, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace report: %w", err)
	}
	return nil
}

// Stored hands the report to a report store.
type Stored struct {
	store storage.ReportStore
}

// NewStored creates a renderer backed by store.
func NewStored(store storage.ReportStore) *Stored {
	return &Stored{store: store}
}

// Render replaces the stored report with r.
func (s *Stored) Render(ctx context.Context, r report.Report) error {
	if err := s.store.Replace(ctx, r); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}
