package openapi

import "errors"

// Parameter locations as they appear in the document.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InCookie = "cookie"
)

// Parameter describes one path/query/header parameter of an operation.
type Parameter struct {
	Name     string
	In       string
	Required bool
	Schema   *SchemaNode
}

// Operation is the read-only descriptor for a single HTTP operation. It is
// derived once at parse time; emitters never mutate it.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	RequestBody *SchemaNode

	// Responses maps status codes ("200", "default") to the JSON response
	// schema, when one was declared.
	Responses map[string]*SchemaNode
}

// NewOperation validates the fields every downstream consumer relies on.
func NewOperation(id, method, path string) (Operation, error) {
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}
	return Operation{
		ID:        id,
		Method:    method,
		Path:      path,
		Responses: make(map[string]*SchemaNode),
	}, nil
}

// Response returns the schema registered for a status code.
func (op Operation) Response(code string) (*SchemaNode, bool) {
	schema, ok := op.Responses[code]
	return schema, ok
}

// PathParameters returns the parameters bound to the path template, in
// declaration order.
func (op Operation) PathParameters() []Parameter {
	var out []Parameter
	for _, param := range op.Parameters {
		if param.In == InPath {
			out = append(out, param)
		}
	}
	return out
}

// QueryParameters returns the query parameters in declaration order.
func (op Operation) QueryParameters() []Parameter {
	var out []Parameter
	for _, param := range op.Parameters {
		if param.In == InQuery {
			out = append(out, param)
		}
	}
	return out
}

// ReferencedSchemas collects every schema name the operation touches through
// parameters, the request body, and responses. The result preserves
// first-seen order and feeds the dependency closure for module partitioning.
func (op Operation) ReferencedSchemas() []string {
	var out []string
	seen := make(map[string]struct{})
	appendRefs := func(names []string) {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	for _, param := range op.Parameters {
		appendRefs(param.Schema.Refs())
	}
	appendRefs(op.RequestBody.Refs())
	for _, code := range sortedKeys(op.Responses) {
		appendRefs(op.Responses[code].Refs())
	}
	return out
}
