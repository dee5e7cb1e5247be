package gotemplate

import (
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"greeting.tpl": {Data: []byte("hello {{ name }}")},
	}
}

func TestNewRequiresTemplateSource(t *testing.T) {
	t.Parallel()

	if _, err := New(); err == nil {
		t.Fatalf("expected error without a template source")
	}
}

func TestRenderTemplateFromFS(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("greeting", map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "hello world" {
		t.Fatalf("out = %q", out)
	}
}

func TestRenderStringWithCaseFilters(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderString("{{ name|pascal }} / {{ name|camel }}", map[string]any{
		"name": "user_profile",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "UserProfile / userProfile" {
		t.Fatalf("out = %q", out)
	}
}

func TestRenderDispatchesOnContent(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	inline, err := engine.Render("{{ name }}", map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("inline render: %v", err)
	}
	if inline != "x" {
		t.Fatalf("inline = %q", inline)
	}

	file, err := engine.Render("greeting", map[string]any{"name": "y"})
	if err != nil {
		t.Fatalf("file render: %v", err)
	}
	if file != "hello y" {
		t.Fatalf("file = %q", file)
	}
}

func TestGlobalContextMergesIntoEveryRender(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()), WithGlobalData(map[string]any{"name": "global"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("greeting", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "hello global" {
		t.Fatalf("out = %q", out)
	}
}
