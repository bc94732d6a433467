package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/eventc/internal/cli/ui"
	"github.com/conduit-lang/eventc/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand(root *rootOptions) *cobra.Command {
	var (
		limit int
		scene string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Long: `List the generation runs recorded in the history database, newest first.

The database is configured by history.driver and history.dsn in eventc.yml.

Examples:
  eventc history
  eventc history --scene Level --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store, err := openHistory(ctx, cfg)
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError("No history database is configured.",
					[]string{"Set history.dsn in eventc.yml, e.g. dsn: eventc-history.db"}, root.noColor))
				return fmt.Errorf("history is disabled")
			}
			defer store.Close()

			var runs []*history.Run
			if scene != "" {
				runs, err = store.ListScene(ctx, scene, limit)
			} else {
				runs, err = store.List(ctx, limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprint(out, ui.Info("No generation runs recorded yet.", root.noColor))
				return nil
			}

			table := ui.NewTable(out, []string{"STARTED", "PROJECT", "SCENE", "BACKEND", "RESULT", "ERRORS", "WARNINGS", "DURATION"}, &ui.TableOptions{NoColor: root.noColor})
			for _, run := range runs {
				result := "ok"
				if !run.Success {
					result = "failed"
				}
				table.AddRow(
					run.StartedAt.Local().Format(time.DateTime),
					run.Project,
					run.Scene,
					run.Backend,
					result,
					strconv.Itoa(run.ErrorCount),
					strconv.Itoa(run.WarningCount),
					run.Duration.Round(time.Millisecond).String(),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().StringVar(&scene, "scene", "", "only show runs of this scene")

	return cmd
}
