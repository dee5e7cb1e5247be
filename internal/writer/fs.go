// Package writer implements the filesystem-backed output writer.
package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	pkgwriter "github.com/goliatone/go-clientgen/pkg/writer"
)

// Option configures the writer.
type Option func(*Writer)

// WithForce allows overwriting files whose content differs.
func WithForce(force bool) Option {
	return func(w *Writer) {
		w.force = force
	}
}

// WithDryRun makes Write report outcomes without touching the disk.
func WithDryRun(dryRun bool) Option {
	return func(w *Writer) {
		w.dryRun = dryRun
	}
}

// Writer persists files under a root directory. Unchanged files are left
// alone so build tools watching the output tree see no spurious changes.
type Writer struct {
	root   string
	force  bool
	dryRun bool
}

var _ pkgwriter.Writer = (*Writer)(nil)

// New constructs a Writer rooted at dir.
func New(root string, options ...Option) (*Writer, error) {
	if root == "" {
		return nil, errors.New("writer: root directory is required")
	}
	w := &Writer{root: root}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w, nil
}

// Write persists one file. Existing identical content is skipped; existing
// different content is a conflict unless force is set. Writes go through a
// temp file and rename so a crash never leaves a half-written output.
func (w *Writer) Write(ctx context.Context, path string, content []byte) (pkgwriter.Result, error) {
	result := pkgwriter.Result{Path: path}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if path == "" {
		return result, errors.New("writer: path is required")
	}

	target := filepath.Join(w.root, filepath.FromSlash(path))

	existing, err := os.ReadFile(target)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) {
			result.Status = pkgwriter.StatusSkippedUnchanged
			return result, nil
		}
		if !w.force {
			result.Status = pkgwriter.StatusConflict
			return result, fmt.Errorf("writer: %s exists with different content", path)
		}
	case errors.Is(err, os.ErrNotExist):
		// First write for this path.
	default:
		return result, fmt.Errorf("writer: read %s: %w", path, err)
	}

	result.Status = pkgwriter.StatusWritten
	if w.dryRun {
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return result, fmt.Errorf("writer: create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".clientgen-*")
	if err != nil {
		return result, fmt.Errorf("writer: create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return result, fmt.Errorf("writer: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return result, fmt.Errorf("writer: close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return result, fmt.Errorf("writer: replace %s: %w", path, err)
	}
	return result, nil
}
