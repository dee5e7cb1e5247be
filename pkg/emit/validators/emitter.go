// Package validators lowers schema nodes into zod runtime-validator
// declarations, breaking reference cycles with deferred (lazy) wrappers.
package validators

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-clientgen/pkg/emit"
	"github.com/goliatone/go-clientgen/pkg/naming"
	"github.com/goliatone/go-clientgen/pkg/openapi"
)

// maxDepth mirrors the type emitter's runaway-recursion guard.
const maxDepth = 100

// Emitter produces validator declarations for the schemas of one output
// module. Referenced schemas that are not yet declared are emitted eagerly,
// dependency-first; schemas already on the current traversal path are
// referenced through z.lazy instead, which is what makes self-referential
// and mutually-referential schemas terminate.
type Emitter struct {
	spec       *openapi.Spec
	enums      *naming.EnumRegistry
	declared   *emit.Set
	processing map[string]bool
}

// New constructs an Emitter over a spec with a run-wide enum registry.
func New(spec *openapi.Spec, enums *naming.EnumRegistry) *Emitter {
	return &Emitter{
		spec:       spec,
		enums:      enums,
		declared:   emit.NewSet(),
		processing: make(map[string]bool),
	}
}

// DeclName returns the validator identifier declared for a schema name.
func (e *Emitter) DeclName(name string) string {
	if node, ok := e.spec.Schema(name); ok && node.Kind == openapi.KindEnum {
		return e.enums.NameForSchema(name, node.Enum) + "Schema"
	}
	return naming.Pascal(name) + "Schema"
}

// MarkDeclared records schema names whose validators are declared in
// another output file (the common module). References to them resolve by
// name instead of re-emitting the declaration here.
func (e *Emitter) MarkDeclared(names ...string) {
	for _, name := range names {
		e.declared.Add(e.DeclName(name))
	}
}

// EmitValidator lowers one named schema into its validator declaration plus
// the declarations of any not-yet-declared schemas it references, ordered
// so every reference is declared before use. Duplicate calls for the same
// name emit nothing the second time: a duplicated declaration is a
// downstream compile failure, not a cosmetic issue.
func (e *Emitter) EmitValidator(name string, node *openapi.SchemaNode) ([]emit.Artifact, error) {
	if node == nil {
		var ok bool
		node, ok = e.spec.Schema(name)
		if !ok {
			return nil, openapi.NewSchemaError(name, openapi.ErrNotFound)
		}
	}

	declName := e.DeclName(name)
	if !e.declared.Add(declName) {
		return nil, nil
	}

	e.processing[name] = true
	defer delete(e.processing, name)

	var out []emit.Artifact

	if node.Kind == openapi.KindEnum {
		out = append(out, emit.Artifact{
			Name:    declName,
			Kind:    emit.KindValidator,
			Content: fmt.Sprintf("export const %s = %s;", declName, enumExpr(node.Enum)),
		})
		return out, nil
	}

	expr, err := e.expr(node, &naming.EnumContext{Parent: name}, 0, &out)
	if err != nil {
		return nil, err
	}
	out = append(out, emit.Artifact{
		Name:    declName,
		Kind:    emit.KindValidator,
		Content: fmt.Sprintf("export const %s = %s;", declName, expr),
	})
	return out, nil
}

// Expr renders a standalone validator expression, emitting dependencies of
// the expression (referenced schemas, enum declarations) into the returned
// artifact list.
func (e *Emitter) Expr(node *openapi.SchemaNode, ctx *naming.EnumContext) (string, []emit.Artifact, error) {
	var out []emit.Artifact
	expr, err := e.expr(node, ctx, 0, &out)
	return expr, out, err
}

func (e *Emitter) expr(node *openapi.SchemaNode, ctx *naming.EnumContext, depth int, out *[]emit.Artifact) (string, error) {
	if node == nil || depth > maxDepth {
		return "z.any()", nil
	}

	switch node.Kind {
	case openapi.KindString:
		return stringExpr(node), nil
	case openapi.KindNumber:
		return numberExpr(node, false), nil
	case openapi.KindInteger:
		return numberExpr(node, true), nil
	case openapi.KindBoolean:
		return "z.boolean()", nil
	case openapi.KindEnum:
		id := e.enums.NameFor(node.Enum, ctx)
		declName := id + "Schema"
		if e.declared.Add(declName) {
			*out = append(*out, emit.Artifact{
				Name:    declName,
				Kind:    emit.KindValidator,
				Content: fmt.Sprintf("export const %s = %s;", declName, enumExpr(node.Enum)),
			})
		}
		return declName, nil
	case openapi.KindRef:
		return e.refExpr(node.Ref, out)
	case openapi.KindArray:
		item, err := e.expr(node.Items, ctx, depth+1, out)
		if err != nil {
			return "", err
		}
		return "z.array(" + item + ")", nil
	case openapi.KindObject:
		return e.objectExpr(node, ctx, depth, out)
	case openapi.KindAllOf:
		return e.compositeExpr(node.Members, ctx, depth, out, intersect)
	case openapi.KindOneOf, openapi.KindAnyOf:
		return e.compositeExpr(node.Variants, ctx, depth, out, union)
	default:
		return "z.any()", nil
	}
}

func (e *Emitter) refExpr(target string, out *[]emit.Artifact) (string, error) {
	declName := e.DeclName(target)
	if e.processing[target] {
		// Circular reference: defer evaluation instead of recursing.
		return "z.lazy(() => " + declName + ")", nil
	}
	if e.declared.Has(declName) {
		return declName, nil
	}
	deps, err := e.EmitValidator(target, nil)
	if err != nil {
		return "", err
	}
	*out = append(*out, deps...)
	return declName, nil
}

func (e *Emitter) objectExpr(node *openapi.SchemaNode, ctx *naming.EnumContext, depth int, out *[]emit.Artifact) (string, error) {
	if len(node.Properties) == 0 {
		// Free-form object, not a strictly empty one.
		return "z.record(z.string(), z.unknown())", nil
	}
	var b strings.Builder
	b.WriteString("z.object({ ")
	for i, prop := range node.Properties {
		if i > 0 {
			b.WriteString(", ")
		}
		childCtx := ctx
		if ctx != nil {
			childCtx = &naming.EnumContext{Property: prop.Name, Parent: ctx.Parent}
		}
		expr, err := e.expr(prop.Schema, childCtx, depth+1, out)
		if err != nil {
			return "", err
		}
		if prop.Nullable {
			expr += ".nullable()"
		}
		if !prop.Required {
			expr += ".optional()"
		}
		fmt.Fprintf(&b, "%s: %s", propertyKey(prop.Name), expr)
	}
	b.WriteString(" })")
	return b.String(), nil
}

type combinator int

const (
	intersect combinator = iota
	union
)

func (e *Emitter) compositeExpr(members []*openapi.SchemaNode, ctx *naming.EnumContext, depth int, out *[]emit.Artifact, mode combinator) (string, error) {
	exprs := make([]string, 0, len(members))
	for _, member := range members {
		expr, err := e.expr(member, ctx, depth+1, out)
		if err != nil {
			return "", err
		}
		exprs = append(exprs, expr)
	}
	switch len(exprs) {
	case 0:
		return "z.any()", nil
	case 1:
		// A single-member composite is that member, unwrapped.
		return exprs[0], nil
	}
	if mode == intersect {
		combined := exprs[0]
		for _, expr := range exprs[1:] {
			combined += ".and(" + expr + ")"
		}
		return combined, nil
	}
	return "z.union([" + strings.Join(exprs, ", ") + "])", nil
}

func stringExpr(node *openapi.SchemaNode) string {
	expr := "z.string()"
	switch node.Format {
	case "email":
		expr += ".email()"
	case "uri":
		expr += ".url()"
	case "uuid":
		expr += ".uuid()"
	case "date-time":
		expr += ".datetime()"
	}
	if node.MinLength != nil {
		expr += fmt.Sprintf(".min(%d)", *node.MinLength)
	}
	if node.MaxLength != nil {
		expr += fmt.Sprintf(".max(%d)", *node.MaxLength)
	}
	if node.Pattern != "" {
		expr += ".regex(new RegExp('" + strings.ReplaceAll(node.Pattern, "'", "\\'") + "'))"
	}
	return expr
}

func numberExpr(node *openapi.SchemaNode, integer bool) string {
	expr := "z.number()"
	if integer {
		expr += ".int()"
	}
	if node.Minimum != nil {
		expr += fmt.Sprintf(".min(%s)", formatNumber(*node.Minimum))
	}
	if node.Maximum != nil {
		expr += fmt.Sprintf(".max(%s)", formatNumber(*node.Maximum))
	}
	if node.MultipleOf != nil {
		expr += fmt.Sprintf(".multipleOf(%s)", formatNumber(*node.MultipleOf))
	}
	return expr
}

func enumExpr(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, "'"+strings.ReplaceAll(value, "'", "\\'")+"'")
	}
	return "z.enum([" + strings.Join(quoted, ", ") + "])"
}

func formatNumber(value float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", value), "0"), ".")
}

func propertyKey(name string) string {
	for _, r := range name {
		if !(r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return "'" + strings.ReplaceAll(name, "'", "\\'") + "'"
		}
	}
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return "'" + name + "'"
	}
	return name
}
