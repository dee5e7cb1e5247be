package openapi

// Kind discriminates the schema variants the generator understands. Shapes
// outside this closed set degrade to the escape type during emission rather
// than failing a run.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInteger
	KindBoolean
	KindArray
	KindObject
	KindEnum
	KindOneOf
	KindAnyOf
	KindAllOf
	KindRef
)

// String returns the lowercase variant name, mainly for error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindEnum:
		return "enum"
	case KindOneOf:
		return "oneOf"
	case KindAnyOf:
		return "anyOf"
	case KindAllOf:
		return "allOf"
	case KindRef:
		return "ref"
	}
	return "unknown"
}

// Property is a single object member. Order is significant: the parser emits
// properties sorted by name so generation stays deterministic.
type Property struct {
	Name     string
	Schema   *SchemaNode
	Required bool
	Nullable bool
}

// SchemaNode is one node of the schema tree. Exactly the fields relevant to
// the node's Kind are populated; emitters switch exhaustively on Kind and
// treat anything unexpected as the escape type.
type SchemaNode struct {
	// Name is set for top-level schemas registered in the spec's schema
	// table; inline nodes leave it empty.
	Name        string
	Kind        Kind
	Description string

	// Object.
	Properties []Property

	// Array.
	Items *SchemaNode

	// Enum values, in document order.
	Enum []string

	// Composite members for oneOf/anyOf (Variants) and allOf (Members).
	Variants []*SchemaNode
	Members  []*SchemaNode

	// Ref holds the target schema name for KindRef nodes.
	Ref string

	// Constraints for primitive kinds.
	Format     string
	Pattern    string
	MinLength  *int
	MaxLength  *int
	Minimum    *float64
	Maximum    *float64
	MultipleOf *float64

	Nullable bool
}

// Refs returns the names of schemas this node references directly, walking
// inline children but never following Ref targets. Duplicates are removed
// while the first-seen order is preserved.
func (n *SchemaNode) Refs() []string {
	if n == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	n.collectRefs(&out, seen)
	return out
}

func (n *SchemaNode) collectRefs(out *[]string, seen map[string]struct{}) {
	if n == nil {
		return
	}
	if n.Kind == KindRef {
		if _, ok := seen[n.Ref]; !ok && n.Ref != "" {
			seen[n.Ref] = struct{}{}
			*out = append(*out, n.Ref)
		}
		return
	}
	for _, prop := range n.Properties {
		prop.Schema.collectRefs(out, seen)
	}
	n.Items.collectRefs(out, seen)
	for _, variant := range n.Variants {
		variant.collectRefs(out, seen)
	}
	for _, member := range n.Members {
		member.collectRefs(out, seen)
	}
}

// Property returns the named object property, if present.
func (n *SchemaNode) Property(name string) (Property, bool) {
	if n == nil {
		return Property{}, false
	}
	for _, prop := range n.Properties {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}
