package openapi

import (
	"errors"
	"sort"
)

// Spec is the in-memory representation of one parsed OpenAPI document:
// schemas by name and operations grouped by tag. A Spec is immutable once
// built; every generation run constructs its own resolver and registries
// around it.
type Spec struct {
	// Name identifies the spec in multi-spec runs and becomes a directory
	// segment in the output layout.
	Name    string
	Title   string
	Version string

	Schemas map[string]*SchemaNode

	// Operations groups operation descriptors by tag. Untagged operations
	// land under the parser's configured default tag.
	Operations map[string][]Operation
}

// NewSpec validates the minimum structure emitters rely on.
func NewSpec(name string, schemas map[string]*SchemaNode, operations map[string][]Operation) (*Spec, error) {
	if name == "" {
		return nil, errors.New("openapi: spec name is required")
	}
	if schemas == nil {
		schemas = make(map[string]*SchemaNode)
	}
	if operations == nil {
		operations = make(map[string][]Operation)
	}
	return &Spec{Name: name, Schemas: schemas, Operations: operations}, nil
}

// Schema looks up a top-level schema by name.
func (s *Spec) Schema(name string) (*SchemaNode, bool) {
	node, ok := s.Schemas[name]
	return node, ok
}

// SchemaNames returns the schema table's keys in sorted order.
func (s *Spec) SchemaNames() []string {
	return sortedKeys(s.Schemas)
}

// Tags returns the operation group names in sorted order.
func (s *Spec) Tags() []string {
	return sortedKeys(s.Operations)
}

// OperationsFor returns the operations registered under a tag.
func (s *Spec) OperationsFor(tag string) []Operation {
	return s.Operations[tag]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
