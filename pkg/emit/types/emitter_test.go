package types

import (
	"strings"
	"testing"

	"github.com/goliatone/go-clientgen/pkg/emit"
	"github.com/goliatone/go-clientgen/pkg/naming"
	"github.com/goliatone/go-clientgen/pkg/openapi"
	ts "github.com/goliatone/go-clientgen/pkg/testsupport"
)

func newEmitter(t *testing.T, schemas map[string]*openapi.SchemaNode) *Emitter {
	t.Helper()
	return New(ts.Spec("test", schemas, nil), naming.NewEnumRegistry())
}

func artifactByName(t *testing.T, arts []emit.Artifact, name string) emit.Artifact {
	t.Helper()
	for _, art := range arts {
		if art.Name == name {
			return art
		}
	}
	t.Fatalf("artifact %q not found in %d artifacts", name, len(arts))
	return emit.Artifact{}
}

func TestEmitTypeObjectBecomesInterface(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, map[string]*openapi.SchemaNode{
		"user_profile": ts.Object(
			ts.RequiredProp("id", ts.String()),
			ts.Prop("age", ts.Integer()),
		),
	})

	arts, err := emitter.EmitType("user_profile", nil)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	decl := artifactByName(t, arts, "UserProfile")
	if !strings.Contains(decl.Content, "export interface UserProfile {") {
		t.Fatalf("missing interface header:\n%s", decl.Content)
	}
	if !strings.Contains(decl.Content, "id: string;") {
		t.Fatalf("required property rendered wrong:\n%s", decl.Content)
	}
	if !strings.Contains(decl.Content, "age?: number;") {
		t.Fatalf("optional property rendered wrong:\n%s", decl.Content)
	}
}

func TestEmitTypeNullableProperty(t *testing.T) {
	t.Parallel()

	nullable := ts.String()
	nullable.Nullable = true

	emitter := newEmitter(t, map[string]*openapi.SchemaNode{
		"User": {Kind: openapi.KindObject, Properties: []openapi.Property{
			{Name: "nickname", Schema: nullable, Nullable: true},
		}},
	})

	arts, err := emitter.EmitType("User", nil)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	decl := artifactByName(t, arts, "User")
	if !strings.Contains(decl.Content, "nickname?: string | null;") {
		t.Fatalf("nullable optional rendered wrong:\n%s", decl.Content)
	}
}

func TestEmitTypeEmptyObjectBecomesRecord(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, map[string]*openapi.SchemaNode{
		"Metadata": ts.Object(),
	})

	arts, err := emitter.EmitType("Metadata", nil)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	decl := artifactByName(t, arts, "Metadata")
	if !strings.Contains(decl.Content, "export type Metadata = Record<string, unknown>;") {
		t.Fatalf("free-form object rendered wrong:\n%s", decl.Content)
	}
}

func TestEmitTypeInlineEnumDeclaredOnce(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, map[string]*openapi.SchemaNode{
		"Order": ts.Object(ts.Prop("status", ts.Enum("open", "closed"))),
		"Quote": ts.Object(ts.Prop("status", ts.Enum("open", "closed"))),
	})

	orderArts, err := emitter.EmitType("Order", nil)
	if err != nil {
		t.Fatalf("emit order: %v", err)
	}
	enumDecl := artifactByName(t, orderArts, "OrderStatusEnum")
	if !strings.Contains(enumDecl.Content, "'open' | 'closed'") {
		t.Fatalf("enum union rendered wrong:\n%s", enumDecl.Content)
	}

	quoteArts, err := emitter.EmitType("Quote", nil)
	if err != nil {
		t.Fatalf("emit quote: %v", err)
	}
	for _, art := range quoteArts {
		if art.Kind == emit.KindEnum {
			t.Fatalf("enum redeclared for second usage: %s", art.Name)
		}
	}
	decl := artifactByName(t, quoteArts, "Quote")
	if !strings.Contains(decl.Content, "status?: OrderStatusEnum;") {
		t.Fatalf("second usage should reference the shared enum:\n%s", decl.Content)
	}
}

func TestEmitTypeSchemaEnum(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, map[string]*openapi.SchemaNode{
		"OrderStatus": ts.Enum("pending", "shipped"),
	})

	arts, err := emitter.EmitType("OrderStatus", nil)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	decl := artifactByName(t, arts, "OrderStatusEnum")
	if !strings.Contains(decl.Content, "export type OrderStatusEnum = 'pending' | 'shipped';") {
		t.Fatalf("schema enum rendered wrong:\n%s", decl.Content)
	}
}

func TestEmitTypeIsIdempotentPerName(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, map[string]*openapi.SchemaNode{
		"User": ts.Object(ts.Prop("id", ts.String())),
	})

	if _, err := emitter.EmitType("User", nil); err != nil {
		t.Fatalf("first emit: %v", err)
	}
	arts, err := emitter.EmitType("User", nil)
	if err != nil {
		t.Fatalf("second emit: %v", err)
	}
	if len(arts) != 0 {
		t.Fatalf("second emit produced %d artifacts", len(arts))
	}
}

func TestExprLowering(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, nil)

	cases := []struct {
		name string
		node *openapi.SchemaNode
		want string
	}{
		{"string", ts.String(), "string"},
		{"integer", ts.Integer(), "number"},
		{"boolean", &openapi.SchemaNode{Kind: openapi.KindBoolean}, "boolean"},
		{"ref", ts.Ref("user_profile"), "UserProfile"},
		{"array of string", ts.Array(ts.String()), "string[]"},
		{"array of ref", ts.Array(ts.Ref("Order")), "Order[]"},
		{"unsupported composite", &openapi.SchemaNode{Kind: openapi.KindOneOf}, "any"},
	}
	for _, tc := range cases {
		got, _ := emitter.Expr(tc.node, nil)
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestExprParenthesizesCompoundArrayItems(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, nil)

	inline := ts.Object(ts.Prop("x", ts.String()))
	got, _ := emitter.Expr(ts.Array(inline), nil)
	if !strings.HasPrefix(got, "(") || !strings.HasSuffix(got, ")[]") {
		t.Fatalf("compound item not parenthesized: %q", got)
	}
}

func TestExprMissingNodeDegradesToEscapeType(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, nil)
	if got, _ := emitter.Expr(nil, nil); got != "any" {
		t.Fatalf("nil node lowered to %q, want any", got)
	}
}

func TestEmitTypeUnknownSchemaFails(t *testing.T) {
	t.Parallel()

	emitter := newEmitter(t, nil)
	if _, err := emitter.EmitType("Ghost", nil); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}
