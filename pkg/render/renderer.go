// Package render defines the output-rendering contract and the registry
// that lets the generator pick a renderer by name.
package render

import "context"

// Renderer turns assembled file data into final file content. The data map
// carries pre-joined text blocks (banner, imports, body); the renderer owns
// layout, not content.
type Renderer interface {
	Name() string
	Render(ctx context.Context, templateID string, data map[string]any) (string, error)
}

// Template identifiers understood by the bundled renderer.
const (
	TemplateModule = "module"
	TemplateIndex  = "index"
)
