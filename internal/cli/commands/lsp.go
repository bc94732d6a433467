package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/eventc/internal/lsp"
)

// NewLSPCommand creates the lsp command
func NewLSPCommand(root *rootOptions) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the eventc language server for project files (.json, .yaml, .toml).

The server reports generation diagnostics while a project is edited and
offers completion, hover and document symbols for the instructions of the
target platform. It communicates via JSON-RPC over stdin/stdout and is
typically started by an editor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if target == "" {
				target = cfg.Platform
			}

			p, backend, err := newTarget(target)
			if err != nil {
				return err
			}

			logger := root.newLogger()
			defer logger.Sync()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return lsp.NewServer(p, backend, logger.Named("lsp")).Serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&target, "platform", "p", "", "target platform: js or native (default from configuration)")

	return cmd
}
