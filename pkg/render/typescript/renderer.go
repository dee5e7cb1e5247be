// Package typescript renders assembled artifacts into TypeScript source
// files using the bundled templates.
package typescript

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-clientgen/pkg/render"
	"github.com/goliatone/go-clientgen/pkg/render/template"
	"github.com/goliatone/go-clientgen/pkg/render/template/gotemplate"
)

// Banner heads every generated file so accidental hand edits are easy to
// spot in review.
const Banner = "/* eslint-disable */\n// Generated file. Do not edit by hand."

// Option configures the renderer.
type Option func(*Renderer)

// WithEngine swaps the template engine, mainly for tests.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		r.engine = engine
	}
}

// WithTemplateDir layers a directory of template overrides over the
// bundled set.
func WithTemplateDir(dir string) Option {
	return func(r *Renderer) {
		r.templateDir = dir
	}
}

// Renderer emits TypeScript file content from pre-assembled blocks.
type Renderer struct {
	engine      template.TemplateRenderer
	templateDir string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer with the embedded template set.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.engine == nil {
		sub, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("typescript: load embedded templates: %w", err)
		}
		engineOpts := []gotemplate.Option{gotemplate.WithFS(sub)}
		if r.templateDir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(r.templateDir))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("typescript: build template engine: %w", err)
		}
		r.engine = engine
	}

	return r, nil
}

// Name identifies the renderer in the registry.
func (r *Renderer) Name() string {
	return "typescript"
}

// Render produces the final file content for a template id. The data map
// carries "imports" and "body" as pre-joined blocks; the banner is added
// here unless the caller supplied its own.
func (r *Renderer) Render(ctx context.Context, templateID string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["banner"]; !ok {
		data["banner"] = Banner
	}

	rendered, err := r.engine.RenderTemplate(templateID, data)
	if err != nil {
		return "", fmt.Errorf("typescript: render %q: %w", templateID, err)
	}

	// Normalize trailing whitespace so output is byte-stable across runs.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}
