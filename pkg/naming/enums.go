// Package naming is the per-run naming authority for generated enum
// identifiers. Both the type and validator emitters consult one registry
// instance so a given value set or property context always maps to the same
// generated name.
package naming

import (
	"sort"
	"strings"
)

// Property names too generic to name an enum on their own; they get
// disambiguated by the schema that contains them.
var genericProperties = map[string]struct{}{
	"status": {},
	"type":   {},
	"state":  {},
	"kind":   {},
}

// EnumContext carries where an enum was encountered: the property holding
// it and the schema declaring that property.
type EnumContext struct {
	Property string
	Parent   string
}

// EnumRegistry maps registry keys to generated enum identifiers. Once a key
// is registered every later lookup returns the same identifier. A registry
// is constructed fresh per generation run and threaded explicitly through
// the emitters; it is never shared across specs.
type EnumRegistry struct {
	names map[string]string
}

// NewEnumRegistry constructs an empty registry.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{names: make(map[string]string)}
}

// ValueKey derives the cross-context reuse key from an enum's literal
// values: sorted and joined, so ordering differences in the document do not
// split identical sets.
func ValueKey(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// SchemaKey is the registry key for enums that are themselves top-level
// named schemas.
func SchemaKey(name string) string {
	return "schema:" + name
}

// ContextKey disambiguates a value key by the parent schema, used when the
// property name is too generic to stand alone.
func ContextKey(valueKey, parent string) string {
	return valueKey + ":" + parent
}

// Registered reports whether a key already maps to an identifier.
func (r *EnumRegistry) Registered(key string) bool {
	_, ok := r.names[key]
	return ok
}

// NameForSchema names an enum that is a top-level named schema. The
// identifier is also registered under the value key so property enums with
// the same literal set converge on it.
func (r *EnumRegistry) NameForSchema(schemaName string, values []string) string {
	key := SchemaKey(schemaName)
	if id, ok := r.names[key]; ok {
		return id
	}
	id := withEnumSuffix(Pascal(schemaName))
	r.names[key] = id
	valueKey := ValueKey(values)
	if _, ok := r.names[valueKey]; !ok {
		r.names[valueKey] = id
	}
	return id
}

// NameFor resolves or synthesizes the identifier for an enum found inline,
// optionally disambiguated by its property/parent context. Passing context
// whenever available is what keeps one context mapped to one type.
func (r *EnumRegistry) NameFor(values []string, ctx *EnumContext) string {
	valueKey := ValueKey(values)

	var contextKey string
	if ctx != nil && isGenericProperty(ctx.Property) {
		contextKey = ContextKey(valueKey, ctx.Parent)
		if id, ok := r.names[contextKey]; ok {
			return id
		}
	}
	if id, ok := r.names[valueKey]; ok {
		if contextKey != "" {
			r.names[contextKey] = id
		}
		return id
	}

	id := r.synthesize(values, ctx)
	if contextKey != "" {
		r.names[contextKey] = id
	}
	r.names[valueKey] = id
	return id
}

func (r *EnumRegistry) synthesize(values []string, ctx *EnumContext) string {
	switch {
	case ctx != nil && isGenericProperty(ctx.Property):
		parent := Pascal(TrimTypeSuffixes(ctx.Parent))
		property := Pascal(ctx.Property)
		if strings.Contains(strings.ToLower(parent), strings.ToLower(property)) {
			property = ""
		}
		return parent + property + "Enum"
	case ctx != nil && ctx.Property != "":
		return Pascal(ctx.Property) + "Enum"
	case len(values) > 0:
		return withEnumSuffix(Pascal(values[0]))
	default:
		return "UnnamedEnum"
	}
}

func withEnumSuffix(id string) string {
	if strings.HasSuffix(id, "Enum") {
		return id
	}
	return id + "Enum"
}

func isGenericProperty(name string) bool {
	_, ok := genericProperties[strings.ToLower(name)]
	return ok
}
