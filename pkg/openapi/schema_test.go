package openapi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRefsCollectsDirectTargetsInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	node := &SchemaNode{
		Kind: KindObject,
		Properties: []Property{
			{Name: "b", Schema: &SchemaNode{Kind: KindRef, Ref: "Beta"}},
			{Name: "a", Schema: &SchemaNode{Kind: KindRef, Ref: "Alpha"}},
			{Name: "list", Schema: &SchemaNode{
				Kind:  KindArray,
				Items: &SchemaNode{Kind: KindRef, Ref: "Beta"},
			}},
		},
	}

	if diff := cmp.Diff([]string{"Beta", "Alpha"}, node.Refs()); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestRefsWalksComposites(t *testing.T) {
	t.Parallel()

	node := &SchemaNode{
		Kind: KindAllOf,
		Members: []*SchemaNode{
			{Kind: KindRef, Ref: "Base"},
			{Kind: KindObject, Properties: []Property{
				{Name: "extra", Schema: &SchemaNode{Kind: KindRef, Ref: "Extra"}},
			}},
		},
	}

	if diff := cmp.Diff([]string{"Base", "Extra"}, node.Refs()); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestRefsOnNilNode(t *testing.T) {
	t.Parallel()

	var node *SchemaNode
	if refs := node.Refs(); len(refs) != 0 {
		t.Fatalf("nil node returned refs: %v", refs)
	}
}

func TestOperationReferencedSchemas(t *testing.T) {
	t.Parallel()

	op, err := NewOperation("createOrder", "POST", "/orders")
	if err != nil {
		t.Fatalf("new operation: %v", err)
	}
	op.RequestBody = &SchemaNode{Kind: KindRef, Ref: "CreateOrder"}
	op.Parameters = []Parameter{
		{Name: "dryRun", In: InQuery, Schema: &SchemaNode{Kind: KindBoolean}},
	}
	op.Responses["200"] = &SchemaNode{Kind: KindRef, Ref: "Order"}
	op.Responses["422"] = &SchemaNode{Kind: KindRef, Ref: "ValidationError"}

	want := []string{"CreateOrder", "Order", "ValidationError"}
	if diff := cmp.Diff(want, op.ReferencedSchemas()); diff != "" {
		t.Fatalf("referenced schemas mismatch (-want +got):\n%s", diff)
	}
}

func TestOperationParameterFilters(t *testing.T) {
	t.Parallel()

	op, err := NewOperation("", "GET", "/users/{id}")
	if err != nil {
		t.Fatalf("new operation: %v", err)
	}
	op.Parameters = []Parameter{
		{Name: "id", In: InPath, Required: true},
		{Name: "expand", In: InQuery},
		{Name: "x-trace", In: InHeader},
	}

	if got := op.PathParameters(); len(got) != 1 || got[0].Name != "id" {
		t.Fatalf("path parameters = %+v", got)
	}
	if got := op.QueryParameters(); len(got) != 1 || got[0].Name != "expand" {
		t.Fatalf("query parameters = %+v", got)
	}
}
