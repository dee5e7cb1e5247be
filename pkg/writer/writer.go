// Package writer defines the output-file contract used by the generator.
package writer

import "context"

// Status reports what happened to one output path.
type Status string

const (
	// StatusWritten means the file was created or replaced.
	StatusWritten Status = "written"
	// StatusSkippedUnchanged means the file already held identical content.
	StatusSkippedUnchanged Status = "skipped-unchanged"
	// StatusConflict means the file exists with different content and the
	// writer was not allowed to overwrite it.
	StatusConflict Status = "conflict"
)

// Result describes the outcome for a single path.
type Result struct {
	Path   string
	Status Status
}

// Writer persists generated file content. Paths are relative to the
// writer's configured root.
type Writer interface {
	Write(ctx context.Context, path string, content []byte) (Result, error)
}
