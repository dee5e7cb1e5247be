package openapi

import "context"

// Parser turns a raw Document into the Spec model downstream packages
// consume. The kin-openapi backed implementation lives under
// internal/openapi/parser.
type Parser interface {
	Parse(ctx context.Context, doc Document) (*Spec, error)
}

// ParserOptions exposes the parsing toggles the generator cares about.
type ParserOptions struct {
	// SpecName overrides the name recorded on the parsed Spec. When empty,
	// the parser derives one from the document's info title.
	SpecName string

	// DefaultTag is the operation group used for untagged operations.
	// Defaults to "default".
	DefaultTag string

	// ValidateDocument runs the backend's structural validation before
	// conversion. Defaults to true for full documents.
	ValidateDocument bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithSpecName fixes the name recorded on parsed specs.
func WithSpecName(name string) ParserOption {
	return func(opts *ParserOptions) {
		opts.SpecName = name
	}
}

// WithDefaultTag overrides the group assigned to untagged operations.
func WithDefaultTag(tag string) ParserOption {
	return func(opts *ParserOptions) {
		if tag != "" {
			opts.DefaultTag = tag
		}
	}
}

// WithDocumentValidation toggles structural validation before conversion.
func WithDocumentValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ValidateDocument = enabled
	}
}

// NewParserOptions applies ParserOption functions over the defaults.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		DefaultTag:       "default",
		ValidateDocument: true,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
