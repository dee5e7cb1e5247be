// Package testsupport provides terse builders for the specs and schema
// nodes the package tests assemble by hand.
package testsupport

import "github.com/goliatone/go-clientgen/pkg/openapi"

// String returns a plain string node.
func String() *openapi.SchemaNode {
	return &openapi.SchemaNode{Kind: openapi.KindString}
}

// Integer returns a plain integer node.
func Integer() *openapi.SchemaNode {
	return &openapi.SchemaNode{Kind: openapi.KindInteger}
}

// Ref returns a reference node pointing at a named schema.
func Ref(target string) *openapi.SchemaNode {
	return &openapi.SchemaNode{Kind: openapi.KindRef, Ref: target}
}

// Enum returns an inline enum node over the given literals.
func Enum(values ...string) *openapi.SchemaNode {
	return &openapi.SchemaNode{Kind: openapi.KindEnum, Enum: values}
}

// Array returns an array node over the given item schema.
func Array(items *openapi.SchemaNode) *openapi.SchemaNode {
	return &openapi.SchemaNode{Kind: openapi.KindArray, Items: items}
}

// Object returns an object node with the given properties.
func Object(props ...openapi.Property) *openapi.SchemaNode {
	return &openapi.SchemaNode{Kind: openapi.KindObject, Properties: props}
}

// Prop builds an optional property.
func Prop(name string, schema *openapi.SchemaNode) openapi.Property {
	return openapi.Property{Name: name, Schema: schema}
}

// RequiredProp builds a required property.
func RequiredProp(name string, schema *openapi.SchemaNode) openapi.Property {
	return openapi.Property{Name: name, Schema: schema, Required: true}
}

// Spec assembles a spec, panicking on invalid input so test setup stays a
// one-liner.
func Spec(name string, schemas map[string]*openapi.SchemaNode, operations map[string][]openapi.Operation) *openapi.Spec {
	for schemaName, node := range schemas {
		if node != nil && node.Name == "" {
			node.Name = schemaName
		}
	}
	spec, err := openapi.NewSpec(name, schemas, operations)
	if err != nil {
		panic(err)
	}
	return spec
}

// Operation builds an operation descriptor, panicking on invalid input.
func Operation(id, method, path string) openapi.Operation {
	op, err := openapi.NewOperation(id, method, path)
	if err != nil {
		panic(err)
	}
	return op
}
