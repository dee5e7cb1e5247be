package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-clientgen/pkg/emit"
	"github.com/goliatone/go-clientgen/pkg/emit/operations"
	emittypes "github.com/goliatone/go-clientgen/pkg/emit/types"
	emitvalidators "github.com/goliatone/go-clientgen/pkg/emit/validators"
	"github.com/goliatone/go-clientgen/pkg/graph"
	"github.com/goliatone/go-clientgen/pkg/naming"
	pkgopenapi "github.com/goliatone/go-clientgen/pkg/openapi"
	"github.com/goliatone/go-clientgen/pkg/partition"
	"github.com/goliatone/go-clientgen/pkg/render"
)

// commonModule is the directory name shared schemas land in.
const commonModule = "common"

// specRun carries the state threaded through one spec's generation: the
// parsed spec, the run-wide enum registry, the partition outcome and the
// output path prefix.
type specRun struct {
	spec      *pkgopenapi.Spec
	enums     *naming.EnumRegistry
	renderer  render.Renderer
	part      partition.Result
	commonSet map[string]struct{}
	prefix    string
}

func (g *Generator) generateSpec(ctx context.Context, renderer render.Renderer, req SpecRequest, multiSpec bool) SpecReport {
	report := SpecReport{Name: req.Name}

	doc, err := g.resolveDocument(ctx, req)
	if err != nil {
		report.Err = err
		return report
	}

	spec, err := g.parser.Parse(ctx, doc)
	if err != nil {
		report.Err = fmt.Errorf("generator: parse document: %w", err)
		return report
	}
	if req.Name != "" {
		spec.Name = req.Name
	}
	report.Name = spec.Name

	moduleSchemas := g.collectModuleSchemas(spec)

	selected := req.Modules
	if len(selected) == 0 {
		selected = spec.Tags()
	}
	for _, module := range selected {
		if _, ok := moduleSchemas[module]; !ok {
			report.Err = fmt.Errorf("generator: unknown module %q in spec %q", module, spec.Name)
			return report
		}
	}

	run := &specRun{
		spec:     spec,
		enums:    naming.NewEnumRegistry(),
		renderer: renderer,
		part:     partition.Partition(moduleSchemas, selected),
	}
	run.commonSet = make(map[string]struct{}, len(run.part.Common))
	for _, name := range run.part.Common {
		run.commonSet[name] = struct{}{}
	}
	if multiSpec {
		run.prefix = spec.Name + "/"
	}

	report.Common = run.part.Common
	report.Modules = sortedModuleNames(run.part.Modules)

	// Shared schemas first: module files reference their declarations.
	if len(run.part.Common) > 0 {
		if err := g.writeCommon(ctx, run, &report); err != nil {
			report.Err = err
			return report
		}
	}

	for _, module := range report.Modules {
		if err := g.writeModule(ctx, run, module, &report); err != nil {
			report.Err = err
			return report
		}
	}

	if err := g.writeRuntime(ctx, run, &report); err != nil {
		report.Err = err
		return report
	}

	return report
}

// collectModuleSchemas maps each tag to the sorted transitive closure of the
// schemas its operations reference. References to schemas missing from the
// document are logged and dropped so one dangling ref does not sink the tag.
func (g *Generator) collectModuleSchemas(spec *pkgopenapi.Spec) map[string][]string {
	resolver := graph.New(spec)
	out := make(map[string][]string, len(spec.Operations))

	for _, tag := range spec.Tags() {
		seen := make(map[string]struct{})
		var roots []string
		for _, op := range spec.OperationsFor(tag) {
			for _, name := range op.ReferencedSchemas() {
				if _, ok := spec.Schema(name); !ok {
					g.logger.Warn("skipping unresolved schema reference",
						slog.String("spec", spec.Name),
						slog.String("module", tag),
						slog.String("schema", name))
					continue
				}
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				roots = append(roots, name)
			}
		}
		closure, err := resolver.CollectAll(roots)
		if err != nil {
			// A dangling transitive ref fails only its own unit, never
			// the other modules of the spec.
			g.logger.Warn("module closure has unresolvable references",
				slog.String("spec", spec.Name),
				slog.String("module", tag),
				slog.String("error", err.Error()))
			closure = g.partialClosure(spec, tag, roots)
		}
		sort.Strings(closure)
		out[tag] = closure
	}
	return out
}

// partialClosure rebuilds a module's schema closure by hand after the
// resolver hit a dangling reference: reachable schemas that exist stay in,
// the unresolvable names are logged and dropped.
func (g *Generator) partialClosure(spec *pkgopenapi.Spec, tag string, roots []string) []string {
	processed := make(map[string]struct{}, len(roots))
	work := make([]string, 0, len(roots))
	for _, root := range roots {
		if _, dup := processed[root]; dup {
			continue
		}
		processed[root] = struct{}{}
		work = append(work, root)
	}

	var out []string
	for len(work) > 0 {
		name := work[0]
		work = work[1:]

		node, ok := spec.Schema(name)
		if !ok {
			g.logger.Warn("dropping unresolvable schema from module",
				slog.String("spec", spec.Name),
				slog.String("module", tag),
				slog.String("schema", name))
			continue
		}
		out = append(out, name)
		for _, target := range node.Refs() {
			if _, dup := processed[target]; dup {
				continue
			}
			processed[target] = struct{}{}
			work = append(work, target)
		}
	}
	return out
}

func (g *Generator) writeCommon(ctx context.Context, run *specRun, report *SpecReport) error {
	typesEm := emittypes.New(run.spec, run.enums)
	valEm := emitvalidators.New(run.spec, run.enums)

	var typeArts, valArts []emit.Artifact
	for _, name := range run.part.Common {
		arts, err := typesEm.EmitType(name, nil)
		if err != nil {
			g.logSkippedSchema(run.spec.Name, commonModule, name, err)
			continue
		}
		typeArts = append(typeArts, arts...)

		varts, err := valEm.EmitValidator(name, nil)
		if err != nil {
			g.logSkippedSchema(run.spec.Name, commonModule, name, err)
			continue
		}
		valArts = append(valArts, varts...)
	}

	files := []moduleFile{
		{name: "types.ts", body: joinArtifacts(typeArts)},
		{name: "validators.ts", imports: []string{zodImport}, body: joinArtifacts(valArts)},
	}
	return g.writeModuleFiles(ctx, run, commonModule, files, report)
}

// zodImport heads every validators file.
const zodImport = "import { z } from 'zod';"

type moduleFile struct {
	name    string
	imports []string
	body    string
}

func (g *Generator) writeModule(ctx context.Context, run *specRun, module string, report *SpecReport) error {
	typesEm := emittypes.New(run.spec, run.enums)
	valEm := emitvalidators.New(run.spec, run.enums)
	valEm.MarkDeclared(run.part.Common...)
	opEm := operations.New(run.spec, typesEm, operations.WithHooks(g.hooks))

	schemas := run.part.Modules[module]

	var typeArts, valArts []emit.Artifact
	for _, name := range schemas {
		arts, err := typesEm.EmitType(name, nil)
		if err != nil {
			g.logSkippedSchema(run.spec.Name, module, name, err)
			continue
		}
		typeArts = append(typeArts, arts...)

		varts, err := valEm.EmitValidator(name, nil)
		if err != nil {
			g.logSkippedSchema(run.spec.Name, module, name, err)
			continue
		}
		valArts = append(valArts, varts...)
	}

	var reqArts, hookArts []emit.Artifact
	var queryTypeNames, requestNames []string
	extraIdents := make(map[string]struct{})
	var hasQueries, hasMutations bool

	for _, op := range run.spec.OperationsFor(module) {
		result, err := opEm.EmitOperation(op)
		if err != nil {
			g.logger.Warn("skipping operation",
				slog.String("spec", run.spec.Name),
				slog.String("module", module),
				slog.String("operation", op.Method+" "+op.Path),
				slog.String("error", err.Error()))
			continue
		}
		// Enum declarations discovered through parameters or responses
		// belong with the module's type declarations.
		for _, extra := range result.Extras {
			typeArts = append(typeArts, extra)
			extraIdents[extra.Name] = struct{}{}
		}
		if result.QueryType != nil {
			reqArts = append(reqArts, *result.QueryType)
			queryTypeNames = append(queryTypeNames, result.QueryType.Name)
		}
		reqArts = append(reqArts, result.Function, result.CacheKey)
		requestNames = append(requestNames, result.Function.Name, result.CacheKey.Name)
		if result.Hook != nil {
			hookArts = append(hookArts, *result.Hook)
			if strings.Contains(result.Hook.Content, "useMutation") {
				hasMutations = true
			} else {
				hasQueries = true
			}
		}
	}

	localIdents, commonIdents := g.splitTypeIdents(run, module, extraIdents)

	var files []moduleFile

	if len(typeArts) > 0 {
		var imports []string
		if line := importLine(g.commonTypeIdents(run, module), "../"+commonModule+"/types"); line != "" {
			imports = append(imports, line)
		}
		files = append(files, moduleFile{name: "types.ts", imports: imports, body: joinArtifacts(typeArts)})
	}

	if len(valArts) > 0 {
		imports := []string{zodImport}
		if line := importLine(g.commonValidatorIdents(run, valEm, module), "../"+commonModule+"/validators"); line != "" {
			imports = append(imports, line)
		}
		files = append(files, moduleFile{name: "validators.ts", imports: imports, body: joinArtifacts(valArts)})
	}

	if len(reqArts) > 0 {
		imports := []string{"import { request } from '../runtime';"}
		if line := importLine(localIdents, "./types"); line != "" {
			imports = append(imports, line)
		}
		if line := importLine(commonIdents, "../"+commonModule+"/types"); line != "" {
			imports = append(imports, line)
		}
		files = append(files, moduleFile{name: "requests.ts", imports: imports, body: joinArtifacts(reqArts)})
	}

	if len(hookArts) > 0 {
		var hookImports []string
		switch {
		case hasQueries && hasMutations:
			hookImports = append(hookImports, "import { useQuery, useMutation } from '@tanstack/react-query';")
		case hasMutations:
			hookImports = append(hookImports, "import { useMutation } from '@tanstack/react-query';")
		default:
			hookImports = append(hookImports, "import { useQuery } from '@tanstack/react-query';")
		}
		if line := importLine(append(requestNames, queryTypeNames...), "./requests"); line != "" {
			hookImports = append(hookImports, line)
		}
		if line := importLine(localIdents, "./types"); line != "" {
			hookImports = append(hookImports, line)
		}
		if line := importLine(commonIdents, "../"+commonModule+"/types"); line != "" {
			hookImports = append(hookImports, line)
		}
		files = append(files, moduleFile{name: "hooks.ts", imports: hookImports, body: joinArtifacts(hookArts)})
	}

	return g.writeModuleFiles(ctx, run, module, files, report)
}

// splitTypeIdents partitions the type identifiers the module's operations
// reference into module-local and common, for import qualification. Extra
// identifiers are enum declarations already routed into the module's types
// file, so they count as local.
func (g *Generator) splitTypeIdents(run *specRun, module string, extraIdents map[string]struct{}) (local, common []string) {
	localSet := make(map[string]struct{})
	commonSet := make(map[string]struct{})

	for ident := range extraIdents {
		localSet[ident] = struct{}{}
	}
	for _, op := range run.spec.OperationsFor(module) {
		for _, name := range op.ReferencedSchemas() {
			node, ok := run.spec.Schema(name)
			if !ok {
				continue
			}
			ident := g.typeIdent(run, name, node)
			if _, shared := run.commonSet[name]; shared {
				commonSet[ident] = struct{}{}
			} else {
				localSet[ident] = struct{}{}
			}
		}
	}
	return setToSorted(localSet), setToSorted(commonSet)
}

// commonTypeIdents collects the common type identifiers the module's own
// schema declarations reference directly.
func (g *Generator) commonTypeIdents(run *specRun, module string) []string {
	idents := make(map[string]struct{})
	for _, name := range run.part.Modules[module] {
		node, ok := run.spec.Schema(name)
		if !ok {
			continue
		}
		for _, target := range node.Refs() {
			if _, shared := run.commonSet[target]; !shared {
				continue
			}
			targetNode, ok := run.spec.Schema(target)
			if !ok {
				continue
			}
			idents[g.typeIdent(run, target, targetNode)] = struct{}{}
		}
	}
	return setToSorted(idents)
}

// commonValidatorIdents collects the common validator declarations the
// module's schemas reference directly. Indirect references resolve inside
// the common file itself.
func (g *Generator) commonValidatorIdents(run *specRun, valEm *emitvalidators.Emitter, module string) []string {
	idents := make(map[string]struct{})
	appendRefs := func(refs []string) {
		for _, target := range refs {
			if _, shared := run.commonSet[target]; shared {
				idents[valEm.DeclName(target)] = struct{}{}
			}
		}
	}
	for _, name := range run.part.Modules[module] {
		if node, ok := run.spec.Schema(name); ok {
			appendRefs(node.Refs())
		}
	}
	return setToSorted(idents)
}

func (g *Generator) typeIdent(run *specRun, name string, node *pkgopenapi.SchemaNode) string {
	if node.Kind == pkgopenapi.KindEnum {
		return run.enums.NameForSchema(name, node.Enum)
	}
	return naming.Pascal(name)
}

func (g *Generator) writeModuleFiles(ctx context.Context, run *specRun, module string, files []moduleFile, report *SpecReport) error {
	var exports []string
	for _, file := range files {
		if strings.TrimSpace(file.body) == "" {
			continue
		}
		content, err := run.renderer.Render(ctx, render.TemplateModule, map[string]any{
			"imports": strings.Join(file.imports, "\n"),
			"body":    file.body,
		})
		if err != nil {
			return fmt.Errorf("generator: render %s/%s: %w", module, file.name, err)
		}
		if err := g.writeFile(ctx, run.prefix+module+"/"+file.name, content, report); err != nil {
			return err
		}
		exports = append(exports, "export * from './"+strings.TrimSuffix(file.name, ".ts")+"';")
	}

	if len(exports) == 0 {
		return nil
	}
	content, err := run.renderer.Render(ctx, render.TemplateIndex, map[string]any{
		"body": strings.Join(exports, "\n"),
	})
	if err != nil {
		return fmt.Errorf("generator: render %s/index.ts: %w", module, err)
	}
	return g.writeFile(ctx, run.prefix+module+"/index.ts", content, report)
}

// writeRuntime emits the spec-level fetch helper every requests file
// imports. It renders through the same pipeline so overrides and banners
// apply uniformly.
func (g *Generator) writeRuntime(ctx context.Context, run *specRun, report *SpecReport) error {
	content, err := run.renderer.Render(ctx, render.TemplateIndex, map[string]any{
		"body": runtimeSource,
	})
	if err != nil {
		return fmt.Errorf("generator: render runtime.ts: %w", err)
	}
	return g.writeFile(ctx, run.prefix+"runtime.ts", content, report)
}

func (g *Generator) writeFile(ctx context.Context, path, content string, report *SpecReport) error {
	result, err := g.writer.Write(ctx, path, []byte(content))
	report.Files = append(report.Files, result)
	if err != nil {
		return fmt.Errorf("generator: write %s: %w", path, err)
	}
	g.logger.Debug("wrote file",
		slog.String("path", result.Path),
		slog.String("status", string(result.Status)))
	return nil
}

func (g *Generator) logSkippedSchema(spec, module, name string, err error) {
	g.logger.Warn("skipping schema",
		slog.String("spec", spec),
		slog.String("module", module),
		slog.String("schema", name),
		slog.String("error", err.Error()))
}

func joinArtifacts(arts []emit.Artifact) string {
	parts := make([]string, 0, len(arts))
	for _, art := range arts {
		parts = append(parts, art.Content)
	}
	return strings.Join(parts, "\n\n")
}

func importLine(names []string, from string) string {
	if len(names) == 0 {
		return ""
	}
	unique := make(map[string]struct{}, len(names))
	for _, name := range names {
		unique[name] = struct{}{}
	}
	sorted := setToSorted(unique)
	return "import { " + strings.Join(sorted, ", ") + " } from '" + from + "';"
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func sortedModuleNames(modules map[string][]string) []string {
	out := make([]string, 0, len(modules))
	for name := range modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
