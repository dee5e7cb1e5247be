package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-clientgen/pkg/config"
	"github.com/goliatone/go-clientgen/pkg/generator"
	pkgopenapi "github.com/goliatone/go-clientgen/pkg/openapi"
	pkgwriter "github.com/goliatone/go-clientgen/pkg/writer"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	source := flag.String("source", "", "OpenAPI document path or URL (ignored with -config)")
	output := flag.String("output", "./generated", "output directory")
	modules := flag.String("modules", "", "comma-separated module (tag) selection")
	hooks := flag.Bool("hooks", false, "emit data-fetching hooks")
	force := flag.Bool("force", false, "overwrite files with conflicting content")
	dryRun := flag.Bool("dry-run", false, "report what would be written without writing")
	interactive := flag.Bool("interactive", false, "pick modules interactively")
	failFast := flag.Bool("fail-fast", false, "stop at the first spec that errors")
	verbose := flag.Bool("verbose", false, "log generation progress")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(*verbose),
	}))

	run, err := buildRun(*configPath, *source, *output, *modules, *hooks, *force, *failFast)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *interactive {
		if err := selectModulesInteractively(ctx, run); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	gen := generator.New(
		generator.WithOutputDir(run.output),
		generator.WithHooks(run.hooks),
		generator.WithForce(run.force),
		generator.WithDryRun(*dryRun),
		generator.WithLogger(logger),
	)

	report, err := gen.Generate(ctx, run.request)
	if report != nil {
		printReport(report, *dryRun)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runConfig struct {
	output  string
	hooks   bool
	force   bool
	request generator.Request
}

func buildRun(configPath, source, output, modules string, hooks, force, failFast bool) (*runConfig, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		run := &runConfig{
			output: cfg.Output,
			hooks:  cfg.Hooks,
			force:  cfg.Force,
			request: generator.Request{
				FailFast: cfg.FailFast,
			},
		}
		for _, spec := range cfg.Specs {
			src := parseSource(spec.Source)
			if src == nil {
				return nil, fmt.Errorf("invalid source %q for spec %q", spec.Source, spec.Name)
			}
			run.request.Specs = append(run.request.Specs, generator.SpecRequest{
				Source:  src,
				Name:    spec.Name,
				Modules: spec.Modules,
			})
		}
		return run, nil
	}

	src := parseSource(source)
	if src == nil {
		return nil, fmt.Errorf("a -config file or -source document is required")
	}
	return &runConfig{
		output: output,
		hooks:  hooks,
		force:  force,
		request: generator.Request{
			FailFast: failFast,
			Specs: []generator.SpecRequest{{
				Source:  src,
				Modules: splitModules(modules),
			}},
		},
	}, nil
}

// selectModulesInteractively parses each spec up front so the prompt can
// offer its real tag list.
func selectModulesInteractively(ctx context.Context, run *runConfig) error {
	gen := generator.New(generator.WithOutputDir(run.output))
	for i := range run.request.Specs {
		specReq := run.request.Specs[i]
		tags, name, err := gen.Modules(ctx, specReq)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			continue
		}
		var picked []string
		prompt := &survey.MultiSelect{
			Message: fmt.Sprintf("Modules to generate for %s:", name),
			Options: tags,
			Default: defaultSelection(specReq.Modules, tags),
		}
		if err := survey.AskOne(prompt, &picked); err != nil {
			return err
		}
		run.request.Specs[i].Modules = picked
	}
	return nil
}

func defaultSelection(configured, available []string) []string {
	if len(configured) == 0 {
		return available
	}
	return configured
}

func printReport(report *generator.Report, dryRun bool) {
	verb := "wrote"
	if dryRun {
		verb = "would write"
	}
	for _, spec := range report.Specs {
		if spec.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", spec.Name, spec.Err)
			continue
		}
		written := 0
		for _, file := range spec.Files {
			if file.Status != pkgwriter.StatusSkippedUnchanged {
				written++
			}
		}
		fmt.Printf("%s: %s %d files (%d unchanged) across %d modules\n",
			spec.Name, verb, written, len(spec.Files)-written, len(spec.Modules))
	}
}

func parseSource(raw string) pkgopenapi.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path)
}

func splitModules(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
