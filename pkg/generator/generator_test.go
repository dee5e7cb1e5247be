package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgopenapi "github.com/goliatone/go-clientgen/pkg/openapi"
	ts "github.com/goliatone/go-clientgen/pkg/testsupport"
	pkgwriter "github.com/goliatone/go-clientgen/pkg/writer"
)

// stubParser returns a pre-built spec regardless of the document payload,
// so pipeline tests exercise everything downstream of parsing.
type stubParser struct {
	spec *pkgopenapi.Spec
	err  error
}

func (s *stubParser) Parse(_ context.Context, _ pkgopenapi.Document) (*pkgopenapi.Spec, error) {
	if s.err != nil {
		return nil, s.err
	}
	// Copy so per-run name overrides do not leak between runs.
	clone := *s.spec
	return &clone, nil
}

func storeSpec() *pkgopenapi.Spec {
	listUsers := ts.Operation("listUsers", "GET", "/users")
	listUsers.Tags = []string{"users"}
	listUsers.Responses["200"] = ts.Array(ts.Ref("User"))

	getOrder := ts.Operation("", "GET", "/orders/{orderId}")
	getOrder.Tags = []string{"orders"}
	getOrder.Parameters = []pkgopenapi.Parameter{
		{Name: "orderId", In: pkgopenapi.InPath, Required: true, Schema: ts.String()},
	}
	getOrder.Responses["200"] = ts.Ref("Order")

	return ts.Spec("store", map[string]*pkgopenapi.SchemaNode{
		"User":    ts.Object(ts.RequiredProp("id", ts.String()), ts.Prop("address", ts.Ref("Address"))),
		"Order":   ts.Object(ts.RequiredProp("id", ts.String()), ts.Prop("shipTo", ts.Ref("Address"))),
		"Address": ts.Object(ts.Prop("city", ts.String())),
	}, map[string][]pkgopenapi.Operation{
		"users":  {listUsers},
		"orders": {getOrder},
	})
}

func fakeDocument() *pkgopenapi.Document {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("store.json"), []byte("{}"))
	return &doc
}

func newTestGenerator(t *testing.T, outDir string, options ...Option) *Generator {
	t.Helper()
	base := []Option{
		WithParser(&stubParser{spec: storeSpec()}),
		WithOutputDir(outDir),
	}
	return New(append(base, options...)...)
}

func readFile(t *testing.T, root, path string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

func TestGenerateProducesModuleLayout(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	gen := newTestGenerator(t, out)

	report, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{{Document: fakeDocument()}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Specs) != 1 || report.Specs[0].Err != nil {
		t.Fatalf("report = %+v", report.Specs)
	}

	for _, path := range []string{
		"common/types.ts", "common/validators.ts", "common/index.ts",
		"users/types.ts", "users/validators.ts", "users/requests.ts", "users/index.ts",
		"orders/types.ts", "orders/validators.ts", "orders/requests.ts", "orders/index.ts",
		"runtime.ts",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(path))); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
}

func TestGenerateHoistsSharedSchemasIntoCommon(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	gen := newTestGenerator(t, out)

	report, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{{Document: fakeDocument()}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := report.Specs[0].Common; len(got) != 1 || got[0] != "Address" {
		t.Fatalf("common = %v", got)
	}

	commonTypes := readFile(t, out, "common/types.ts")
	if !strings.Contains(commonTypes, "export interface Address {") {
		t.Fatalf("Address not declared in common:\n%s", commonTypes)
	}

	userTypes := readFile(t, out, "users/types.ts")
	if strings.Contains(userTypes, "export interface Address") {
		t.Fatalf("Address redeclared in users module:\n%s", userTypes)
	}
	if !strings.Contains(userTypes, "import { Address } from '../common/types';") {
		t.Fatalf("users module should import Address:\n%s", userTypes)
	}

	userValidators := readFile(t, out, "users/validators.ts")
	if !strings.Contains(userValidators, "import { AddressSchema } from '../common/validators';") {
		t.Fatalf("users validators should import AddressSchema:\n%s", userValidators)
	}
	if strings.Contains(userValidators, "export const AddressSchema") {
		t.Fatalf("AddressSchema redeclared in users module:\n%s", userValidators)
	}
}

func TestGenerateRequestsFile(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	gen := newTestGenerator(t, out)

	if _, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{{Document: fakeDocument()}},
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	requests := readFile(t, out, "users/requests.ts")
	if !strings.Contains(requests, "import { request } from '../runtime';") {
		t.Fatalf("missing runtime import:\n%s", requests)
	}
	if !strings.Contains(requests, "import { User } from './types';") {
		t.Fatalf("missing type import:\n%s", requests)
	}
	if !strings.Contains(requests, "export async function listUsers(): Promise<User[]>") {
		t.Fatalf("missing client function:\n%s", requests)
	}
	if !strings.Contains(requests, "export const listUsersKey = () => ['listUsers'] as const;") {
		t.Fatalf("missing cache key:\n%s", requests)
	}

	orders := readFile(t, out, "orders/requests.ts")
	if !strings.Contains(orders, "export async function getOrderByOrderId(orderId: string): Promise<Order>") {
		t.Fatalf("missing synthesized function:\n%s", orders)
	}
}

func TestGenerateHooksToggle(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	gen := newTestGenerator(t, out, WithHooks(true))

	if _, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{{Document: fakeDocument()}},
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	hooks := readFile(t, out, "users/hooks.ts")
	if !strings.Contains(hooks, "import { useQuery } from '@tanstack/react-query';") {
		t.Fatalf("missing react-query import:\n%s", hooks)
	}
	if !strings.Contains(hooks, "export function useListUsers()") {
		t.Fatalf("missing hook:\n%s", hooks)
	}

	index := readFile(t, out, "users/index.ts")
	if !strings.Contains(index, "export * from './hooks';") {
		t.Fatalf("hooks missing from barrel:\n%s", index)
	}

	// Without the toggle no hooks file is written.
	outOff := t.TempDir()
	genOff := newTestGenerator(t, outOff)
	if _, err := genOff.Generate(context.Background(), Request{
		Specs: []SpecRequest{{Document: fakeDocument()}},
	}); err != nil {
		t.Fatalf("generate without hooks: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outOff, "users", "hooks.ts")); !os.IsNotExist(err) {
		t.Fatalf("hooks file written despite toggle off")
	}
}

func TestGenerateSingleModuleSelectionHasNoCommon(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	gen := newTestGenerator(t, out)

	report, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{{Document: fakeDocument(), Modules: []string{"users"}}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Specs[0].Common) != 0 {
		t.Fatalf("single selection grew a common set: %v", report.Specs[0].Common)
	}
	if _, err := os.Stat(filepath.Join(out, "common")); !os.IsNotExist(err) {
		t.Fatalf("common directory created for single selection")
	}

	// With only one module selected, its dependencies stay local.
	userTypes := readFile(t, out, "users/types.ts")
	if !strings.Contains(userTypes, "export interface Address {") {
		t.Fatalf("Address should be local to the only module:\n%s", userTypes)
	}
}

func TestGenerateUnknownModuleFails(t *testing.T) {
	t.Parallel()

	gen := newTestGenerator(t, t.TempDir())
	report, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{{Document: fakeDocument(), Modules: []string{"ghost"}}},
	})
	if err == nil {
		t.Fatalf("expected error for unknown module")
	}
	if report.Specs[0].Err == nil || !strings.Contains(report.Specs[0].Err.Error(), "ghost") {
		t.Fatalf("spec report error = %v", report.Specs[0].Err)
	}
}

func TestGenerateSurvivesDanglingTransitiveRef(t *testing.T) {
	t.Parallel()

	listUsers := ts.Operation("listUsers", "GET", "/users")
	listUsers.Tags = []string{"users"}
	listUsers.Responses["200"] = ts.Array(ts.Ref("User"))

	listOrders := ts.Operation("listOrders", "GET", "/orders")
	listOrders.Tags = []string{"orders"}
	listOrders.Responses["200"] = ts.Array(ts.Ref("Order"))

	// User drags in a reference the document never declares.
	spec := ts.Spec("store", map[string]*pkgopenapi.SchemaNode{
		"User":  ts.Object(ts.RequiredProp("id", ts.String()), ts.Prop("ghost", ts.Ref("Ghost"))),
		"Order": ts.Object(ts.RequiredProp("id", ts.String())),
	}, map[string][]pkgopenapi.Operation{
		"users":  {listUsers},
		"orders": {listOrders},
	})

	out := t.TempDir()
	gen := New(WithParser(&stubParser{spec: spec}), WithOutputDir(out))

	report, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{{Document: fakeDocument()}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Specs[0].Err != nil {
		t.Fatalf("spec report error = %v", report.Specs[0].Err)
	}

	// The healthy module is untouched by the broken one.
	orderTypes := readFile(t, out, "orders/types.ts")
	if !strings.Contains(orderTypes, "export interface Order {") {
		t.Fatalf("healthy module not generated:\n%s", orderTypes)
	}

	// The resolvable part of the broken module still comes out; only the
	// dangling name is dropped.
	userTypes := readFile(t, out, "users/types.ts")
	if !strings.Contains(userTypes, "export interface User {") {
		t.Fatalf("resolvable schema dropped with the dangling one:\n%s", userTypes)
	}
	if strings.Contains(userTypes, "export interface Ghost") {
		t.Fatalf("undeclared schema materialized a declaration:\n%s", userTypes)
	}
}

func TestGenerateIsDeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	gen := newTestGenerator(t, out)
	req := Request{Specs: []SpecRequest{{Document: fakeDocument()}}}

	if _, err := gen.Generate(context.Background(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// A second generator over the same inputs must produce byte-identical
	// output, which the writer reports as skipped-unchanged.
	second := newTestGenerator(t, out)
	report, err := second.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, file := range report.Specs[0].Files {
		if file.Status != pkgwriter.StatusSkippedUnchanged {
			t.Errorf("%s: status = %s, want skipped-unchanged", file.Path, file.Status)
		}
	}
}

func TestGenerateMultiSpecPrefixesPaths(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	gen := newTestGenerator(t, out)

	report, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{
			{Document: fakeDocument(), Name: "store"},
			{Document: fakeDocument(), Name: "admin"},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(report.Specs) != 2 {
		t.Fatalf("expected 2 spec reports, got %d", len(report.Specs))
	}

	for _, path := range []string{"store/users/types.ts", "admin/users/types.ts", "store/runtime.ts", "admin/runtime.ts"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(path))); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
}

func TestGenerateContinuesPastFailingSpec(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	failing := &stubParser{err: context.DeadlineExceeded}
	working := &stubParser{spec: storeSpec()}

	gen := New(
		WithParser(&switchingParser{first: failing, rest: working}),
		WithOutputDir(out),
	)

	report, err := gen.Generate(context.Background(), Request{
		Specs: []SpecRequest{
			{Document: fakeDocument(), Name: "broken"},
			{Document: fakeDocument(), Name: "store"},
		},
	})
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if report.Specs[0].Err == nil {
		t.Fatalf("first spec should have failed")
	}
	if report.Specs[1].Err != nil {
		t.Fatalf("second spec should have succeeded: %v", report.Specs[1].Err)
	}
	if _, err := os.Stat(filepath.Join(out, "store", "users", "types.ts")); err != nil {
		t.Fatalf("surviving spec produced no output: %v", err)
	}
}

func TestGenerateFailFastStopsEarly(t *testing.T) {
	t.Parallel()

	failing := &stubParser{err: context.DeadlineExceeded}
	gen := New(
		WithParser(&switchingParser{first: failing, rest: &stubParser{spec: storeSpec()}}),
		WithOutputDir(t.TempDir()),
	)

	report, err := gen.Generate(context.Background(), Request{
		FailFast: true,
		Specs: []SpecRequest{
			{Document: fakeDocument(), Name: "broken"},
			{Document: fakeDocument(), Name: "store"},
		},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(report.Specs) != 1 {
		t.Fatalf("fail-fast should stop after the first spec, got %d reports", len(report.Specs))
	}
}

// switchingParser fails the first parse and delegates the rest.
type switchingParser struct {
	first pkgopenapi.Parser
	rest  pkgopenapi.Parser
	used  bool
}

func (s *switchingParser) Parse(ctx context.Context, doc pkgopenapi.Document) (*pkgopenapi.Spec, error) {
	if !s.used {
		s.used = true
		return s.first.Parse(ctx, doc)
	}
	return s.rest.Parse(ctx, doc)
}

func TestModulesListsTags(t *testing.T) {
	t.Parallel()

	gen := newTestGenerator(t, t.TempDir())
	tags, name, err := gen.Modules(context.Background(), SpecRequest{Document: fakeDocument()})
	if err != nil {
		t.Fatalf("modules: %v", err)
	}
	if name != "store" {
		t.Fatalf("name = %q", name)
	}
	if len(tags) != 2 || tags[0] != "orders" || tags[1] != "users" {
		t.Fatalf("tags = %v", tags)
	}
}
