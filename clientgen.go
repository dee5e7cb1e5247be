package clientgen

import (
	"context"

	"github.com/goliatone/go-clientgen/pkg/generator"
	pkgopenapi "github.com/goliatone/go-clientgen/pkg/openapi"
	pkgwriter "github.com/goliatone/go-clientgen/pkg/writer"
)

// Request describes one generation run covering one or more specs.
type Request = generator.Request

// SpecRequest identifies a single document and scopes what to generate.
type SpecRequest = generator.SpecRequest

// Report summarises a full run.
type Report = generator.Report

// SpecReport summarises the outcome for one spec.
type SpecReport = generator.SpecReport

// WriteResult reports the per-file outcome of a run.
type WriteResult = pkgwriter.Result

// NewGenerator exposes the generator constructor from the top-level module.
func NewGenerator(options ...generator.Option) *generator.Generator {
	return generator.New(options...)
}

// Generate loads the OpenAPI source and writes a typed client for it under
// outputDir. It is the simplest entry point for callers that just want the
// generated files on disk.
func Generate(ctx context.Context, source pkgopenapi.Source, outputDir string, options ...generator.Option) (*generator.Report, error) {
	opts := append([]generator.Option{generator.WithOutputDir(outputDir)}, options...)
	gen := generator.New(opts...)
	return gen.Generate(ctx, generator.Request{
		Specs: []generator.SpecRequest{{Source: source}},
	})
}

// GenerateFromDocument writes a typed client using a pre-loaded document,
// bypassing the loader stage while still delegating to the generator.
func GenerateFromDocument(ctx context.Context, doc pkgopenapi.Document, outputDir string, options ...generator.Option) (*generator.Report, error) {
	opts := append([]generator.Option{generator.WithOutputDir(outputDir)}, options...)
	gen := generator.New(opts...)
	return gen.Generate(ctx, generator.Request{
		Specs: []generator.SpecRequest{{Document: &doc}},
	})
}
