package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/eventc/internal/compiler/cache"
	"github.com/conduit-lang/eventc/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(root *rootOptions) *cobra.Command {
	var (
		host     string
		port     int
		target   string
		noOutput bool
	)

	cmd := &cobra.Command{
		Use:   "watch [project]",
		Short: "Regenerate on change and serve a live preview",
		Long: `Watch a project and regenerate its scenes whenever it is saved.

Generated code is served to preview clients, which are told over a
WebSocket when new code is available:
  GET /scenes              scene list with diagnostics counts
  GET /scenes/{name}/code  generated code of one scene
  GET /extensions          registered extensions, used ones flagged
  GET /ws                  reload notifications

A scene that fails to generate keeps serving its last good code.

Examples:
  eventc watch
  eventc watch game.json --port 9000
  eventc watch --no-output`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if target == "" {
				target = cfg.Platform
			}
			if !cmd.Flags().Changed("host") {
				host = cfg.Preview.Host
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Preview.Port
			}
			outputDir := cfg.OutputDir
			if noOutput {
				outputDir = ""
			}

			logger := root.newLogger()
			defer logger.Sync()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, backend, err := newTarget(target)
			if err != nil {
				return err
			}
			store, release, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer release()

			var recorder watch.Recorder
			historyStore, err := openHistory(ctx, cfg)
			if err != nil {
				return err
			}
			if historyStore != nil {
				defer historyStore.Close()
				recorder = historyStore
			}

			projectPath := projectArg(cfg, args)
			coordinator := cache.NewCoordinator(p, backend, store, logger.Named("cache"))
			generator := watch.NewIncrementalGenerator(projectPath, outputDir, p, backend, coordinator, recorder, logger.Named("generator"))

			serverConfig := watch.DefaultDevServerConfig(projectPath, outputDir)
			serverConfig.Host = host
			serverConfig.Port = port
			serverConfig.ConfigPath = cfg.File

			devServer, err := watch.NewDevServer(serverConfig, generator, p, logger)
			if err != nil {
				return fmt.Errorf("failed to create dev server: %w", err)
			}
			if err := devServer.Start(ctx); err != nil {
				return fmt.Errorf("failed to start dev server: %w", err)
			}

			banner := color.New(color.FgCyan, color.Bold)
			info := color.New(color.FgWhite)
			hint := color.New(color.FgYellow)
			if root.noColor {
				banner.DisableColor()
				info.DisableColor()
				hint.DisableColor()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			banner.Fprintln(out, "eventc preview server")
			info.Fprintf(out, "   Project:  %s (%s)\n", projectPath, backend.Name())
			info.Fprintf(out, "   Preview:  http://%s\n", devServer.Addr())
			info.Fprintf(out, "   Reload:   ws://%s/ws\n", devServer.Addr())
			if last := generator.LastBuild(); last != nil && !last.Success {
				hint.Fprintf(out, "   Failing scenes: %v\n", last.FailedScenes())
			}
			fmt.Fprintln(out)
			hint.Fprintln(out, "Press Ctrl+C to stop")

			<-ctx.Done()

			fmt.Fprintln(out, "\nShutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := devServer.Stop(shutdownCtx); err != nil {
				return fmt.Errorf("error stopping dev server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "preview server host (default from configuration)")
	cmd.Flags().IntVar(&port, "port", 8090, "preview server port (default from configuration)")
	cmd.Flags().StringVarP(&target, "platform", "p", "", "target platform: js or native (default from configuration)")
	cmd.Flags().BoolVar(&noOutput, "no-output", false, "keep generated code in memory instead of writing it")

	return cmd
}
