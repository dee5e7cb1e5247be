package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-clientgen/pkg/openapi"
)

const schemaRefPrefix = "#/components/schemas/"

// convertSchema lowers a kin-openapi schema reference into a SchemaNode.
// References outside the components/schemas table fail with a SchemaError;
// shapes the generator does not model keep enough structure for emitters to
// degrade them to the escape type.
func convertSchema(ref *openapi3.SchemaRef) (*pkgopenapi.SchemaNode, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.Ref != "" {
		name, err := refName(ref.Ref)
		if err != nil {
			return nil, err
		}
		return &pkgopenapi.SchemaNode{Kind: pkgopenapi.KindRef, Ref: name}, nil
	}
	src := ref.Value
	if src == nil {
		return nil, nil
	}

	node := &pkgopenapi.SchemaNode{
		Description: src.Description,
		Format:      src.Format,
		Pattern:     src.Pattern,
		Nullable:    src.Nullable,
	}

	switch {
	case len(src.Enum) > 0:
		node.Kind = pkgopenapi.KindEnum
		for _, value := range src.Enum {
			node.Enum = append(node.Enum, fmt.Sprintf("%v", value))
		}
	case len(src.OneOf) > 0:
		node.Kind = pkgopenapi.KindOneOf
		variants, err := convertMembers(src.OneOf)
		if err != nil {
			return nil, err
		}
		node.Variants = variants
	case len(src.AnyOf) > 0:
		node.Kind = pkgopenapi.KindAnyOf
		variants, err := convertMembers(src.AnyOf)
		if err != nil {
			return nil, err
		}
		node.Variants = variants
	case len(src.AllOf) > 0:
		node.Kind = pkgopenapi.KindAllOf
		members, err := convertMembers(src.AllOf)
		if err != nil {
			return nil, err
		}
		node.Members = members
	default:
		if err := convertTyped(node, src); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func convertTyped(node *pkgopenapi.SchemaNode, src *openapi3.Schema) error {
	switch firstSchemaType(src.Type) {
	case "string":
		node.Kind = pkgopenapi.KindString
		applyStringConstraints(node, src)
	case "number":
		node.Kind = pkgopenapi.KindNumber
		applyNumericConstraints(node, src)
	case "integer":
		node.Kind = pkgopenapi.KindInteger
		applyNumericConstraints(node, src)
	case "boolean":
		node.Kind = pkgopenapi.KindBoolean
	case "array":
		node.Kind = pkgopenapi.KindArray
		items, err := convertSchema(src.Items)
		if err != nil {
			return err
		}
		node.Items = items
	default:
		// Untyped schemas with properties behave like objects; fully
		// shapeless ones become free-form objects downstream.
		node.Kind = pkgopenapi.KindObject
		return convertProperties(node, src)
	}
	return nil
}

func convertProperties(node *pkgopenapi.SchemaNode, src *openapi3.Schema) error {
	if len(src.Properties) == 0 {
		return nil
	}

	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child, err := convertSchema(src.Properties[name])
		if err != nil {
			return err
		}
		if child == nil {
			continue
		}
		node.Properties = append(node.Properties, pkgopenapi.Property{
			Name:     name,
			Schema:   child,
			Required: required[name],
			Nullable: child.Nullable,
		})
	}
	return nil
}

func convertMembers(refs openapi3.SchemaRefs) ([]*pkgopenapi.SchemaNode, error) {
	var out []*pkgopenapi.SchemaNode
	for _, ref := range refs {
		member, err := convertSchema(ref)
		if err != nil {
			return nil, err
		}
		if member != nil {
			out = append(out, member)
		}
	}
	return out, nil
}

func applyStringConstraints(node *pkgopenapi.SchemaNode, src *openapi3.Schema) {
	if src.MinLength != 0 {
		value := int(src.MinLength)
		node.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		node.MaxLength = &value
	}
}

func applyNumericConstraints(node *pkgopenapi.SchemaNode, src *openapi3.Schema) {
	if src.Min != nil {
		value := *src.Min
		node.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		node.Maximum = &value
	}
	if src.MultipleOf != nil {
		value := *src.MultipleOf
		node.MultipleOf = &value
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func refName(ref string) (string, error) {
	if !strings.HasPrefix(ref, schemaRefPrefix) {
		return "", pkgopenapi.NewSchemaError(ref, pkgopenapi.ErrUnsupportedRef)
	}
	name := strings.TrimPrefix(ref, schemaRefPrefix)
	if name == "" {
		return "", pkgopenapi.NewSchemaError(ref, pkgopenapi.ErrUnsupportedRef)
	}
	return name, nil
}
