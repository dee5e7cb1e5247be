// Package parser implements the openapi.Parser contract using kin-openapi.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-clientgen/pkg/openapi"
)

// Parser converts raw documents into the spec model.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{options: options}
}

// Parse loads the document payload and lowers it into a Spec: schemas by
// name, operations grouped by tag. Schemas that fail conversion are skipped
// individually so one malformed definition does not sink the document.
func (p *Parser) Parse(ctx context.Context, doc pkgopenapi.Document) (*pkgopenapi.Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	source, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if p.options.ValidateDocument {
		if err := source.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	name := p.options.SpecName
	if name == "" {
		name = deriveSpecName(source)
	}

	schemas := p.convertSchemas(source)
	operations := p.convertOperations(ctx, source)

	spec, err := pkgopenapi.NewSpec(name, schemas, operations)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: build spec: %w", err)
	}
	if source.Info != nil {
		spec.Title = source.Info.Title
		spec.Version = source.Info.Version
	}
	return spec, nil
}

func (p *Parser) convertSchemas(source *openapi3.T) map[string]*pkgopenapi.SchemaNode {
	out := make(map[string]*pkgopenapi.SchemaNode)
	if source.Components == nil || len(source.Components.Schemas) == 0 {
		return out
	}

	names := make([]string, 0, len(source.Components.Schemas))
	for name := range source.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := source.Components.Schemas[name]
		if ref == nil {
			continue
		}
		node, err := convertSchema(ref)
		if err != nil {
			// Fatal for this schema only; emitters treat references to it
			// as unresolved and skip the unit that needs it.
			continue
		}
		if node == nil {
			continue
		}
		node.Name = name
		out[name] = node
	}
	return out
}

func (p *Parser) convertOperations(ctx context.Context, source *openapi3.T) map[string][]pkgopenapi.Operation {
	out := make(map[string][]pkgopenapi.Operation)
	if source.Paths == nil || source.Paths.Len() == 0 {
		return out
	}

	paths := make([]string, 0, source.Paths.Len())
	for path := range source.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if ctx.Err() != nil {
			return out
		}
		item := source.Paths.Map()[path]
		if item == nil {
			continue
		}
		ordered := []struct {
			method    string
			operation *openapi3.Operation
		}{
			{"GET", item.Get},
			{"POST", item.Post},
			{"PUT", item.Put},
			{"PATCH", item.Patch},
			{"DELETE", item.Delete},
			{"HEAD", item.Head},
			{"OPTIONS", item.Options},
			{"TRACE", item.Trace},
		}
		for _, pair := range ordered {
			if pair.operation == nil {
				continue
			}
			op, err := p.convertOperation(pair.method, path, item, pair.operation)
			if err != nil {
				continue
			}
			for _, tag := range operationTags(pair.operation, p.options.DefaultTag) {
				out[tag] = append(out[tag], op)
			}
		}
	}
	return out
}

func (p *Parser) convertOperation(method, path string, item *openapi3.PathItem, source *openapi3.Operation) (pkgopenapi.Operation, error) {
	op, err := pkgopenapi.NewOperation(source.OperationID, method, path)
	if err != nil {
		return pkgopenapi.Operation{}, err
	}
	op.Summary = source.Summary
	op.Description = source.Description
	op.Tags = operationTags(source, p.options.DefaultTag)

	// Path-level parameters first, overridden by operation-level ones.
	merged := make(map[string]pkgopenapi.Parameter)
	var order []string
	collect := func(refs openapi3.Parameters) {
		for _, ref := range refs {
			param, ok := convertParameter(ref)
			if !ok {
				continue
			}
			key := param.In + ":" + param.Name
			if _, exists := merged[key]; !exists {
				order = append(order, key)
			}
			merged[key] = param
		}
	}
	collect(item.Parameters)
	collect(source.Parameters)
	for _, key := range order {
		op.Parameters = append(op.Parameters, merged[key])
	}

	if source.RequestBody != nil && source.RequestBody.Value != nil {
		op.RequestBody = convertBodySchema(source.RequestBody.Value.Content)
	}

	if source.Responses != nil {
		for status, ref := range source.Responses.Map() {
			if ref == nil || ref.Value == nil {
				continue
			}
			schema := convertBodySchema(ref.Value.Content)
			if schema == nil {
				continue
			}
			op.Responses[status] = schema
		}
	}
	return op, nil
}

func convertParameter(ref *openapi3.ParameterRef) (pkgopenapi.Parameter, bool) {
	if ref == nil || ref.Value == nil {
		return pkgopenapi.Parameter{}, false
	}
	value := ref.Value
	param := pkgopenapi.Parameter{
		Name:     strings.TrimSpace(value.Name),
		In:       strings.TrimSpace(value.In),
		Required: value.Required,
	}
	if param.Name == "" || param.In == "" {
		return pkgopenapi.Parameter{}, false
	}
	if value.Schema != nil {
		node, err := convertSchema(value.Schema)
		if err == nil {
			param.Schema = node
		}
		// A parameter with an unresolvable schema keeps a nil node and
		// degrades to the escape type at emission time.
	}
	return param, true
}

// convertBodySchema picks the JSON media type, falling back to the first
// declared content entry.
func convertBodySchema(content openapi3.Content) *pkgopenapi.SchemaNode {
	if len(content) == 0 {
		return nil
	}
	if mt, ok := content["application/json"]; ok && mt != nil {
		if node, err := convertSchema(mt.Schema); err == nil {
			return node
		}
		return nil
	}
	types := make([]string, 0, len(content))
	for mime := range content {
		types = append(types, mime)
	}
	sort.Strings(types)
	for _, mime := range types {
		mt := content[mime]
		if mt == nil {
			continue
		}
		if node, err := convertSchema(mt.Schema); err == nil {
			return node
		}
		return nil
	}
	return nil
}

func operationTags(op *openapi3.Operation, fallback string) []string {
	var tags []string
	for _, tag := range op.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = append(tags, fallback)
	}
	return tags
}

func deriveSpecName(source *openapi3.T) string {
	if source.Info == nil || strings.TrimSpace(source.Info.Title) == "" {
		return "api"
	}
	fields := strings.Fields(strings.ToLower(source.Info.Title))
	return strings.Join(fields, "-")
}
