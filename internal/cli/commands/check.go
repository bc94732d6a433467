package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/eventc/internal/cli/ui"
	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// NewCheckCommand creates the check command
func NewCheckCommand(root *rootOptions) *cobra.Command {
	var (
		target  string
		asJSON  bool
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "check [project]",
		Short: "Validate the events of a project without writing code",
		Long: `Parse every expression of every scene and function, resolve every
instruction against the extensions of the platform and report the
diagnostics. Nothing is written and the cache is not used.

Examples:
  eventc check
  eventc check game.yaml --platform native
  eventc check --compact`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if target == "" {
				target = cfg.Platform
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			path := projectArg(cfg, args)
			proj, err := project.Load(path)
			if err != nil {
				return err
			}
			p, backend, err := newTarget(target)
			if err != nil {
				return err
			}

			generator := codegen.NewProject(p, proj, backend)
			scenes, err := generator.GenerateProjectCode(ctx)
			if err != nil {
				return err
			}
			functions, err := generator.GenerateFunctionsCode(ctx)
			if err != nil {
				return err
			}

			diagnostics := proj.Validate()
			for _, r := range append(scenes, functions...) {
				diagnostics = append(diagnostics, r.Diagnostics...)
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				report, err := diagnostics.ToJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, report)
			case compact:
				for _, diag := range diagnostics {
					if diag.File == "" {
						diag.WithFile(path)
					}
					fmt.Fprintln(out, errors.FormatCompact(diag))
				}
			default:
				ui.WriteDiagnostics(out, diagnostics, root.noColor)
			}

			if diagnostics.HasErrors() {
				errorCount, _, _ := diagnostics.ErrorCount()
				return fmt.Errorf("%s: %d error(s)", proj.Name, errorCount)
			}
			if !asJSON && !compact {
				ui.WriteSuccess(out, fmt.Sprintf("%s: %d scene(s) and %d function(s) checked",
					proj.Name, len(scenes), len(functions)), root.noColor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "platform", "p", "", "target platform: js or native (default from configuration)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print diagnostics as JSON")
	cmd.Flags().BoolVar(&compact, "compact", false, "print one line per diagnostic")

	return cmd
}
