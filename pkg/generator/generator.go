// Package generator coordinates the full pipeline: load and parse the
// documents, resolve dependencies, partition schemas into modules, emit
// artifacts and write the rendered files.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	internalloader "github.com/goliatone/go-clientgen/internal/openapi/loader"
	internalparser "github.com/goliatone/go-clientgen/internal/openapi/parser"
	internalwriter "github.com/goliatone/go-clientgen/internal/writer"
	pkgopenapi "github.com/goliatone/go-clientgen/pkg/openapi"
	"github.com/goliatone/go-clientgen/pkg/render"
	"github.com/goliatone/go-clientgen/pkg/render/typescript"
	pkgwriter "github.com/goliatone/go-clientgen/pkg/writer"
)

const defaultRendererName = "typescript"

// Option customises the generator configuration.
type Option func(*Generator)

// WithLoader injects a custom document loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(g *Generator) {
		g.loader = loader
	}
}

// WithParser injects a custom document parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(g *Generator) {
		g.parser = parser
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(g *Generator) {
		g.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used for output files.
func WithDefaultRenderer(name string) Option {
	return func(g *Generator) {
		g.defaultRenderer = name
	}
}

// WithWriter injects the output writer.
func WithWriter(writer pkgwriter.Writer) Option {
	return func(g *Generator) {
		g.writer = writer
	}
}

// WithOutputDir configures the built-in filesystem writer. Ignored when a
// writer is injected directly.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.outputDir = dir
	}
}

// WithForce lets the built-in writer overwrite conflicting files.
func WithForce(force bool) Option {
	return func(g *Generator) {
		g.force = force
	}
}

// WithDryRun reports outcomes without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(g *Generator) {
		g.dryRun = dryRun
	}
}

// WithHooks toggles emission of data-fetching hook files.
func WithHooks(enabled bool) Option {
	return func(g *Generator) {
		g.hooks = enabled
	}
}

// WithLogger injects a structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// Generator runs generation for one or more specs. Missing dependencies are
// initialised with the built-in implementations so callers can start with a
// single constructor call.
type Generator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	registry        *render.Registry
	defaultRenderer string
	writer          pkgwriter.Writer
	outputDir       string
	force           bool
	dryRun          bool
	hooks           bool
	logger          *slog.Logger

	initialiseErr   error
	defaultsApplied bool
}

// New constructs a Generator applying any provided options.
func New(options ...Option) *Generator {
	g := &Generator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

// SpecRequest identifies one document and scopes what to generate from it.
type SpecRequest struct {
	// Source identifies where the document lives. Optional when Document is
	// supplied.
	Source pkgopenapi.Source

	// Document bypasses the loader when the caller already has the payload.
	Document *pkgopenapi.Document

	// Name overrides the spec name derived from the document title.
	Name string

	// Modules selects the tag-derived modules to generate. Empty selects
	// all of them.
	Modules []string
}

// Request describes one generation run.
type Request struct {
	Specs []SpecRequest

	// FailFast stops at the first spec that errors instead of continuing
	// with the remaining ones.
	FailFast bool
}

// SpecReport summarises the outcome for one spec.
type SpecReport struct {
	Name    string
	Modules []string
	Common  []string
	Files   []pkgwriter.Result
	Err     error
}

// Report summarises a full run.
type Report struct {
	Specs []SpecReport
}

// Err joins every per-spec error, or returns nil when all specs succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, spec := range r.Specs {
		if spec.Err != nil {
			errs = append(errs, spec.Err)
		}
	}
	return errors.Join(errs...)
}

// Generate runs the pipeline for every requested spec. One failing spec
// does not abort the others unless FailFast is set; the report carries the
// per-spec outcome either way.
func (g *Generator) Generate(ctx context.Context, req Request) (*Report, error) {
	if ctx == nil {
		return nil, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.initialiseErr; err != nil {
		return nil, err
	}
	if len(req.Specs) == 0 {
		return nil, errors.New("generator: at least one spec is required")
	}

	renderer, err := g.rendererFor(g.defaultRenderer)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	multiSpec := len(req.Specs) > 1

	for _, specReq := range req.Specs {
		specReport := g.generateSpec(ctx, renderer, specReq, multiSpec)
		report.Specs = append(report.Specs, specReport)
		if specReport.Err != nil {
			g.logger.Error("spec generation failed",
				slog.String("spec", specReport.Name),
				slog.String("error", specReport.Err.Error()))
			if req.FailFast {
				return report, specReport.Err
			}
		}
	}

	return report, report.Err()
}

// Modules loads and parses a spec just far enough to list the modules its
// tags derive. Interactive callers use it to offer a real selection.
func (g *Generator) Modules(ctx context.Context, req SpecRequest) ([]string, string, error) {
	if err := g.initialiseErr; err != nil {
		return nil, "", err
	}
	doc, err := g.resolveDocument(ctx, req)
	if err != nil {
		return nil, "", err
	}
	spec, err := g.parser.Parse(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("generator: parse document: %w", err)
	}
	name := spec.Name
	if req.Name != "" {
		name = req.Name
	}
	return spec.Tags(), name, nil
}

func (g *Generator) resolveDocument(ctx context.Context, req SpecRequest) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("generator: source or document is required")
	}
	doc, err := g.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("generator: load document: %w", err)
	}
	return doc, nil
}

func (g *Generator) rendererFor(name string) (render.Renderer, error) {
	if g.registry == nil {
		return nil, errors.New("generator: renderer registry is nil")
	}
	renderer, err := g.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("generator: renderer %q: %w", name, err)
	}
	return renderer, nil
}

func (g *Generator) applyDefaults() {
	if g.defaultsApplied {
		return
	}

	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.loader == nil {
		g.loader = internalloader.New(pkgopenapi.NewLoaderOptions(
			pkgopenapi.WithHTTPFallback(30 * time.Second),
		))
	}
	if g.parser == nil {
		g.parser = internalparser.New(pkgopenapi.NewParserOptions())
	}
	if g.registry == nil {
		g.registry = render.NewRegistry()
		renderer, err := typescript.New()
		if err != nil {
			g.initialiseErr = fmt.Errorf("generator: default renderer: %w", err)
		} else {
			g.registry.MustRegister(renderer)
		}
	}
	if g.defaultRenderer == "" {
		g.defaultRenderer = defaultRendererName
	}
	if g.writer == nil {
		if g.outputDir == "" {
			g.initialiseErr = errors.New("generator: writer or output directory is required")
		} else {
			writer, err := internalwriter.New(g.outputDir,
				internalwriter.WithForce(g.force),
				internalwriter.WithDryRun(g.dryRun))
			if err != nil {
				g.initialiseErr = fmt.Errorf("generator: default writer: %w", err)
			} else {
				g.writer = writer
			}
		}
	}

	g.defaultsApplied = true
}
