package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/eventc/internal/cli/config"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// NewInitCommand creates the init command
func NewInitCommand(root *rootOptions) *cobra.Command {
	var (
		yes   bool
		force bool
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an eventc.yml configuration",
		Long: `Create the eventc.yml configuration of a project, asking for the
project file, the target platform, the cache and the history database.

Examples:
  eventc init
  eventc init --yes --dir games/platformer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(dir, config.FileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite it)", path)
			}

			cfg := config.Default()
			if !yes {
				if err := askConfig(cfg); err != nil {
					return err
				}
			}

			if err := config.Write(path, cfg); err != nil {
				return err
			}

			successColor := color.New(color.FgGreen, color.Bold)
			infoColor := color.New(color.FgCyan)
			if root.noColor {
				successColor.DisableColor()
				infoColor.DisableColor()
			}
			out := cmd.OutOrStdout()
			successColor.Fprintf(out, "✓ Created %s\n", path)
			if _, err := project.FormatOf(cfg.Project); err != nil {
				infoColor.Fprintf(out, "  %v\n", err)
			}
			infoColor.Fprintln(out, "  Next: eventc check, then eventc generate")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept the defaults without prompting")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to create the configuration in")

	return cmd
}

// askConfig fills cfg from interactive prompts, using its values as
// defaults
func askConfig(cfg *config.Config) error {
	if err := survey.AskOne(&survey.Input{
		Message: "Project file (.json, .yaml or .toml):",
		Default: cfg.Project,
	}, &cfg.Project, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Select{
		Message: "Target platform:",
		Options: config.Platforms,
		Default: cfg.Platform,
	}, &cfg.Platform); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Output directory:",
		Default: cfg.OutputDir,
	}, &cfg.OutputDir, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Select{
		Message: "Generated code cache:",
		Options: config.CacheBackends,
		Default: cfg.Cache.Backend,
	}, &cfg.Cache.Backend); err != nil {
		return err
	}
	if cfg.Cache.Backend == "redis" {
		if err := survey.AskOne(&survey.Input{
			Message: "Redis address:",
			Default: cfg.Cache.RedisAddr,
		}, &cfg.Cache.RedisAddr, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	record := false
	if err := survey.AskOne(&survey.Confirm{
		Message: "Record generation history?",
		Default: false,
	}, &record); err != nil {
		return err
	}
	if record {
		if err := survey.AskOne(&survey.Select{
			Message: "History database:",
			Options: config.HistoryDrivers,
			Default: cfg.History.Driver,
		}, &cfg.History.Driver); err != nil {
			return err
		}
		defaultDSN := "eventc-history.db"
		if cfg.History.Driver != "sqlite3" {
			defaultDSN = "postgres://localhost:5432/eventc?sslmode=disable"
		}
		if err := survey.AskOne(&survey.Input{
			Message: "Connection string:",
			Default: defaultDSN,
		}, &cfg.History.DSN, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	return nil
}
