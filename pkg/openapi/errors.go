package openapi

import (
	"errors"
	"fmt"
)

// Sentinel reasons for schema resolution failures. Callers branch with
// errors.Is; the generation loop skips the failing unit and continues.
var (
	// ErrNotFound reports a $ref whose target is absent from the schema
	// table.
	ErrNotFound = errors.New("schema not found")

	// ErrUnsupportedRef reports a reference path outside
	// #/components/schemas.
	ErrUnsupportedRef = errors.New("unsupported reference path")
)

// SchemaError describes a failure tied to one schema reference. It is fatal
// for the schema or operation being processed, never for the whole run.
type SchemaError struct {
	// Ref is the reference or schema name that failed to resolve.
	Ref    string
	reason error
}

// NewSchemaError wraps a sentinel reason with the offending reference.
func NewSchemaError(ref string, reason error) *SchemaError {
	return &SchemaError{Ref: ref, reason: reason}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("openapi: schema %q: %v", e.Ref, e.reason)
}

func (e *SchemaError) Unwrap() error {
	return e.reason
}
