// Package types lowers schema nodes into TypeScript type declarations.
package types

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-clientgen/pkg/emit"
	"github.com/goliatone/go-clientgen/pkg/naming"
	"github.com/goliatone/go-clientgen/pkg/openapi"
)

// maxDepth bounds recursion purely as a runaway guard for pathological
// documents; past it the expression degrades to the escape type.
const maxDepth = 100

const escapeType = "any"

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Emitter produces type declarations for the schemas of one output module.
// The enum registry is shared across every emitter of the run so enum
// identifiers stay consistent between modules and between the type and
// validator output; the processed and emitted sets are local to this
// emitter, scoping declarations to one output file.
type Emitter struct {
	spec      *openapi.Spec
	enums     *naming.EnumRegistry
	processed *emit.Set
	emitted   *emit.Set
}

// New constructs an Emitter over a spec with a run-wide enum registry.
func New(spec *openapi.Spec, enums *naming.EnumRegistry) *Emitter {
	return &Emitter{
		spec:      spec,
		enums:     enums,
		processed: emit.NewSet(),
		emitted:   emit.NewSet(),
	}
}

// EmitType lowers one named schema into its declaration plus any enum
// declarations discovered along the way. Calling it twice for the same name
// is a no-op the second time.
func (e *Emitter) EmitType(name string, node *openapi.SchemaNode) ([]emit.Artifact, error) {
	if node == nil {
		var ok bool
		node, ok = e.spec.Schema(name)
		if !ok {
			return nil, openapi.NewSchemaError(name, openapi.ErrNotFound)
		}
	}
	if !e.processed.Add(name) {
		return nil, nil
	}

	var out []emit.Artifact
	ident := naming.Pascal(name)

	switch node.Kind {
	case openapi.KindEnum:
		id := e.enums.NameForSchema(name, node.Enum)
		if e.emitted.Add(id) {
			out = append(out, enumArtifact(id, node))
		}
	case openapi.KindObject:
		out = e.objectDeclaration(ident, name, node, out)
	default:
		expr := e.expr(node, &naming.EnumContext{Parent: name}, 0, &out)
		content := declHeader(node.Description) + fmt.Sprintf("export type %s = %s;", ident, expr)
		out = append(out, emit.Artifact{Name: ident, Kind: emit.KindType, Content: content})
	}
	return out, nil
}

// Expr renders a standalone type expression for a node, returning any enum
// declarations the expression depends on. The operation emitter uses this
// for parameter and response types.
func (e *Emitter) Expr(node *openapi.SchemaNode, ctx *naming.EnumContext) (string, []emit.Artifact) {
	var out []emit.Artifact
	expr := e.expr(node, ctx, 0, &out)
	return expr, out
}

func (e *Emitter) objectDeclaration(ident, schemaName string, node *openapi.SchemaNode, out []emit.Artifact) []emit.Artifact {
	if len(node.Properties) == 0 {
		// Free-form object: a string-keyed map says more than an empty
		// interface would.
		content := declHeader(node.Description) + fmt.Sprintf("export type %s = Record<string, unknown>;", ident)
		return append(out, emit.Artifact{Name: ident, Kind: emit.KindType, Content: content})
	}

	var b strings.Builder
	if doc := emit.DocComment(node.Description); doc != "" {
		b.WriteString(doc)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "export interface %s {\n", ident)
	for _, prop := range node.Properties {
		ctx := &naming.EnumContext{Property: prop.Name, Parent: schemaName}
		expr := e.expr(prop.Schema, ctx, 1, &out)
		if prop.Nullable {
			expr += " | null"
		}
		optional := ""
		if !prop.Required {
			optional = "?"
		}
		if doc := emit.DocComment(propDescription(prop)); doc != "" {
			fmt.Fprintf(&b, "  %s\n", doc)
		}
		fmt.Fprintf(&b, "  %s%s: %s;\n", propertyKey(prop.Name), optional, expr)
	}
	b.WriteString("}")

	return append(out, emit.Artifact{Name: ident, Kind: emit.KindType, Content: b.String()})
}

func (e *Emitter) expr(node *openapi.SchemaNode, ctx *naming.EnumContext, depth int, out *[]emit.Artifact) string {
	if node == nil || depth > maxDepth {
		return escapeType
	}

	switch node.Kind {
	case openapi.KindString:
		return "string"
	case openapi.KindNumber, openapi.KindInteger:
		return "number"
	case openapi.KindBoolean:
		return "boolean"
	case openapi.KindRef:
		return naming.Pascal(node.Ref)
	case openapi.KindArray:
		item := e.expr(node.Items, ctx, depth+1, out)
		if strings.ContainsAny(item, " |") {
			return "(" + item + ")[]"
		}
		return item + "[]"
	case openapi.KindEnum:
		id := e.enums.NameFor(node.Enum, ctx)
		if e.emitted.Add(id) {
			*out = append(*out, enumArtifact(id, node))
		}
		return id
	case openapi.KindObject:
		if len(node.Properties) == 0 {
			return "Record<string, unknown>"
		}
		var b strings.Builder
		b.WriteString("{ ")
		for i, prop := range node.Properties {
			if i > 0 {
				b.WriteString("; ")
			}
			childCtx := ctx
			if ctx != nil {
				childCtx = &naming.EnumContext{Property: prop.Name, Parent: ctx.Parent}
			}
			expr := e.expr(prop.Schema, childCtx, depth+1, out)
			if prop.Nullable {
				expr += " | null"
			}
			optional := ""
			if !prop.Required {
				optional = "?"
			}
			fmt.Fprintf(&b, "%s%s: %s", propertyKey(prop.Name), optional, expr)
		}
		b.WriteString(" }")
		return b.String()
	default:
		// oneOf/anyOf/allOf are modeled precisely by the validator output
		// only; the declaration level falls back to the escape type.
		return escapeType
	}
}

func enumArtifact(ident string, node *openapi.SchemaNode) emit.Artifact {
	content := declHeader(node.Description) + fmt.Sprintf("export type %s = %s;", ident, unionLiteral(node.Enum))
	return emit.Artifact{Name: ident, Kind: emit.KindEnum, Content: content}
}

func unionLiteral(values []string) string {
	if len(values) == 0 {
		return "never"
	}
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, "'"+strings.ReplaceAll(value, "'", "\\'")+"'")
	}
	return strings.Join(quoted, " | ")
}

func declHeader(description string) string {
	if doc := emit.DocComment(description); doc != "" {
		return doc + "\n"
	}
	return ""
}

func propDescription(prop openapi.Property) string {
	if prop.Schema == nil {
		return ""
	}
	return prop.Schema.Description
}

func propertyKey(name string) string {
	if identPattern.MatchString(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "\\'") + "'"
}
