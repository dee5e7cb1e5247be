package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFullConfig(t *testing.T) {
	t.Parallel()

	raw := []byte(`
output: ./generated
hooks: true
force: true
fail_fast: true
specs:
  - name: store
    source: ./store.yaml
    modules: [users, orders]
  - name: billing
    source: https://example.com/billing.json
`)

	cfg, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := &Config{
		Output:   "./generated",
		Hooks:    true,
		Force:    true,
		FailFast: true,
		Specs: []SpecConfig{
			{Name: "store", Source: "./store.yaml", Modules: []string{"users", "orders"}},
			{Name: "billing", Source: "https://example.com/billing.json"},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsMissingOutput(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("specs:\n  - source: ./a.yaml\n"))
	if err == nil || !strings.Contains(err.Error(), "output") {
		t.Fatalf("expected output error, got %v", err)
	}
}

func TestParseRejectsEmptySpecs(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("output: ./out\n"))
	if err == nil || !strings.Contains(err.Error(), "spec") {
		t.Fatalf("expected specs error, got %v", err)
	}
}

func TestParseRejectsSpecWithoutSource(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("output: ./out\nspecs:\n  - name: a\n"))
	if err == nil || !strings.Contains(err.Error(), "source") {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestParseRejectsDuplicateSpecNames(t *testing.T) {
	t.Parallel()

	raw := []byte(`
output: ./out
specs:
  - name: a
    source: ./a.yaml
  - name: a
    source: ./b.yaml
`)
	_, err := Parse(raw)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParseRejectsPathSeparatorInName(t *testing.T) {
	t.Parallel()

	raw := []byte("output: ./out\nspecs:\n  - name: a/b\n    source: ./a.yaml\n")
	_, err := Parse(raw)
	if err == nil || !strings.Contains(err.Error(), "separator") {
		t.Fatalf("expected separator error, got %v", err)
	}
}

func TestLoadReadsFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "clientgen.yaml")
	content := "output: ./out\nspecs:\n  - source: ./a.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output != "./out" {
		t.Fatalf("output = %q", cfg.Output)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
