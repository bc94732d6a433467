package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/eventc/internal/cli/config"
	"github.com/conduit-lang/eventc/internal/cli/ui"
	"github.com/conduit-lang/eventc/internal/compiler/cache"
	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
	"github.com/conduit-lang/eventc/internal/compiler/visitors"
	"github.com/conduit-lang/eventc/internal/history"
)

type generateOptions struct {
	scenes      []string
	platform    string
	output      string
	json        bool
	noFunctions bool
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate [project]",
		Aliases: []string{"gen", "g"},
		Short:   "Generate the code of a project",
		Long: `Generate the code of every scene and events-based function of a project.

One file is written per scene in the output directory. Scenes whose events
did not change since the last run are served from the cache.

Examples:
  eventc generate
  eventc generate game.json --platform native --output build/native
  eventc generate --scene Level --scene Menu
  eventc generate --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.scenes, "scene", "s", nil, "generate only these scenes (repeatable)")
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "", "target platform: js or native (default from configuration)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from configuration)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print diagnostics as JSON")
	cmd.Flags().BoolVar(&opts.noFunctions, "no-functions", false, "skip events-based functions")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions, args []string) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	target := cfg.Platform
	if opts.platform != "" {
		target = opts.platform
	}
	outputDir := cfg.OutputDir
	if opts.output != "" {
		outputDir = opts.output
	}

	logger := root.newLogger()
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	proj, err := project.Load(projectArg(cfg, args))
	if err != nil {
		return err
	}
	for _, name := range opts.scenes {
		if _, ok := proj.Scene(name); !ok {
			fmt.Fprint(cmd.ErrOrStderr(), ui.SceneNotFoundError(name, proj.SceneNames(), root.noColor))
			return fmt.Errorf("scene %q not found", name)
		}
	}

	p, backend, err := newTarget(target)
	if err != nil {
		return err
	}
	store, release, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer release()

	started := time.Now()
	var (
		results []codegen.Result
		metrics *cache.GenerationMetrics
	)
	generate := func(status func(string)) error {
		coordinator := cache.NewCoordinator(p, backend, store, logger)
		results, metrics, err = coordinator.Generate(ctx, proj, opts.scenes...)
		if err != nil {
			return err
		}
		if !opts.noFunctions && len(opts.scenes) == 0 {
			status(fmt.Sprintf("Generating functions of %s", proj.Name))
			functions, err := codegen.NewProject(p, proj, backend).GenerateFunctionsCode(ctx)
			if err != nil {
				return err
			}
			results = append(results, functions...)
		}
		return nil
	}
	if stderr := cmd.ErrOrStderr(); !opts.json && !root.verbose && isTerminal(stderr) {
		err = ui.WithSpinner(stderr, fmt.Sprintf("Generating %s", proj.Name), root.noColor, generate)
	} else {
		err = generate(func(message string) { logger.Debug(message) })
	}
	if err != nil {
		return err
	}
	duration := time.Since(started)

	diagnostics := proj.Validate()
	var failed []string
	for _, r := range results {
		diagnostics = append(diagnostics, r.Diagnostics...)
		if r.Failed {
			failed = append(failed, r.Name)
		}
	}

	written, err := codegen.WriteResults(outputDir, backend, results)
	if err != nil {
		return err
	}
	if err := recordRuns(ctx, cfg, proj, p, backend, results, started, duration, logger); err != nil && !opts.json {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning(fmt.Sprintf("Generation history was not recorded: %v", err),
			[]string{"Check history.driver and history.dsn in eventc.yml"}, root.noColor))
	}

	out := cmd.OutOrStdout()
	if opts.json {
		report, err := diagnostics.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, report)
	} else {
		ui.WriteDiagnostics(out, diagnostics, root.noColor)
		for _, file := range written {
			fmt.Fprintf(out, "  %s\n", file)
		}
		ui.WriteSuccess(out, fmt.Sprintf("Generated %d file(s) in %s (%d scene(s) from cache)",
			len(written), duration.Round(time.Millisecond), metrics.CacheHits), root.noColor)
	}

	if len(failed) > 0 {
		if !opts.json {
			fmt.Fprint(cmd.ErrOrStderr(), ui.GenerationError(failed, root.noColor))
		}
		return fmt.Errorf("%d unit(s) failed to generate", len(failed))
	}
	return nil
}

// recordRuns stores one history row per result. History is best effort:
// a failure never fails the generation, the first one is returned for
// reporting.
func recordRuns(ctx context.Context, cfg *config.Config, proj *project.Project, p *platform.Platform, backend codegen.Backend, results []codegen.Result, started time.Time, duration time.Duration, logger *zap.Logger) error {
	store, err := openHistory(ctx, cfg)
	if err != nil {
		logger.Warn("history disabled", zap.Error(err))
		return err
	}
	if store == nil {
		return nil
	}
	defer store.Close()

	var first error
	used := visitors.SortedNames(visitors.GetUsedExtensions(p, proj))
	for _, r := range results {
		if err := store.Record(ctx, history.NewRun(proj.Name, backend.Name(), r, used, started, duration)); err != nil {
			logger.Warn("failed to record generation run", zap.String("unit", r.Name), zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}
