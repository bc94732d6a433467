package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/eventc/internal/cli/ui"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
	"github.com/conduit-lang/eventc/internal/compiler/visitors"
)

// NewExtensionsCommand creates the extensions command
func NewExtensionsCommand(root *rootOptions) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:     "extensions",
		Aliases: []string{"ext"},
		Short:   "Inspect the extensions of a platform",
		Long: `List the extensions registered for a platform and what they declare.

Examples:
  eventc extensions list
  eventc extensions show Sprite
  eventc extensions used game.json
  eventc extensions export build/extensions.json`,
	}
	cmd.PersistentFlags().StringVarP(&target, "platform", "p", "", "target platform: js or native (default from configuration)")

	platformFor := func() (*platform.Platform, error) {
		t := target
		if t == "" {
			cfg, err := root.loadConfig()
			if err != nil {
				return nil, err
			}
			t = cfg.Platform
		}
		p, _, err := newTarget(t)
		return p, err
	}

	cmd.AddCommand(newExtensionsListCommand(root, platformFor))
	cmd.AddCommand(newExtensionsShowCommand(root, platformFor))
	cmd.AddCommand(newExtensionsUsedCommand(root, platformFor))
	cmd.AddCommand(newExtensionsExportCommand(platformFor))

	return cmd
}

func catalogOf(p *platform.Platform) *metadata.Catalog {
	return &metadata.Catalog{
		Platform:    p.Target(),
		Fingerprint: p.Fingerprint(),
		Extensions:  p.Extensions(),
	}
}

func newExtensionsListCommand(root *rootOptions, platformFor func() (*platform.Platform, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := platformFor()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				data, err := metadata.Serialize(catalogOf(p))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			table := ui.NewTable(out, []string{"NAME", "FULL NAME", "CONDITIONS", "ACTIONS", "EXPRESSIONS", "OBJECTS", "BEHAVIORS"}, &ui.TableOptions{NoColor: root.noColor})
			for _, ext := range p.Extensions() {
				s := metadata.Summarize(ext)
				table.AddRow(s.Name, s.FullName,
					strconv.Itoa(s.Conditions),
					strconv.Itoa(s.Actions),
					strconv.Itoa(s.Expressions+s.StrExpressions),
					strconv.Itoa(s.Objects),
					strconv.Itoa(s.Behaviors))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the extension catalog as JSON")

	return cmd
}

func newExtensionsShowCommand(root *rootOptions, platformFor func() (*platform.Platform, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "show <extension>",
		Short: "Show what an extension declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := platformFor()
			if err != nil {
				return err
			}
			ext, ok := p.Extension(args[0])
			if !ok {
				names := make([]string, 0, len(p.Extensions()))
				for _, e := range p.Extensions() {
					names = append(names, e.Name)
				}
				fmt.Fprint(cmd.ErrOrStderr(), ui.ExtensionNotFoundError(args[0], names, root.noColor))
				return fmt.Errorf("extension %q not found", args[0])
			}

			out := cmd.OutOrStdout()
			ui.Header(out, ext.FullName, root.noColor)
			info := ui.NewKeyValueTable(out, root.noColor)
			info.AddRow("Name", ext.Name)
			if ext.Namespace != "" {
				info.AddRow("Namespace", ext.Namespace)
			}
			if ext.Description != "" {
				info.AddRow("Description", ext.Description)
			}
			if ext.Author != "" {
				info.AddRow("Author", ext.Author)
			}
			info.Render()
			fmt.Fprintln(out)

			writeMembers(out, "", ext.Members)
			for _, name := range ext.ObjectOrder {
				if obj, ok := ext.Object(name); ok {
					writeMembers(out, "object "+name+": ", obj.Members)
				}
			}
			for _, name := range ext.BehaviorOrder {
				if b, ok := ext.Behavior(name); ok {
					writeMembers(out, "behavior "+name+": ", b.Members)
				}
			}
			return nil
		},
	}
}

// writeMembers prints one sorted line per member kind
func writeMembers(out io.Writer, prefix string, m metadata.Members) {
	line := func(kind string, names []string) {
		if len(names) == 0 {
			return
		}
		sort.Strings(names)
		fmt.Fprintf(out, "%s%s: %s\n", prefix, kind, strings.Join(names, ", "))
	}
	line("conditions", keys(m.Conditions))
	line("actions", keys(m.Actions))
	line("expressions", keys(m.Expressions))
	line("string expressions", keys(m.StrExpressions))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func newExtensionsUsedCommand(root *rootOptions, platformFor func() (*platform.Platform, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "used [project]",
		Short: "List the extensions a project's events use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			proj, err := project.Load(projectArg(cfg, args))
			if err != nil {
				return err
			}
			p, err := platformFor()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range visitors.SortedNames(visitors.GetUsedExtensions(p, proj)) {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func newExtensionsExportCommand(platformFor func() (*platform.Platform, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the extension catalog to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := platformFor()
			if err != nil {
				return err
			}
			if err := metadata.WriteToFile(catalogOf(p), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
			return nil
		},
	}
}
