// Package clipboardcmd provides `nexus3 clipboard ...`: a thin CLI wrapper
// over the clipboard skills (C9/C11), for manual inspection, export, and
// import. It is not a replacement for the agent-facing skill surface — it
// routes through the same skill.Registry an MCP host uses.
package clipboardcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/incurian/nexus3/cmd/nexus3/internal"
	"github.com/incurian/nexus3/internal/skill"
)

func NewClipboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clipboard",
		Aliases: []string{"cb"},
		Short:   "Inspect and manage the scoped clipboard store",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newListCommand(),
		newGetCommand(),
		newExportCommand(),
		newImportCommand(),
	)

	return cmd
}

func runSkill(name string, args skill.Args) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	registry, mgr, err := internal.BuildRegistry(cfg, "cli")
	if err != nil {
		return err
	}
	defer mgr.Close()

	result := registry.Execute(context.Background(), name, args)
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}
	fmt.Println(result.Output)
	return nil
}

func newListCommand() *cobra.Command {
	var scope string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clipboard entries across accessible scopes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSkill("clipboard_list", skill.Args{"scope": scope, "verbose": verbose})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "Filter by scope: agent, project, or system")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Include a content preview")
	return cmd
}

func newGetCommand() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Fetch a single clipboard entry by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSkill("clipboard_get", skill.Args{"key": args[0], "scope": scope})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "agent", "Scope to read from: agent, project, or system")
	return cmd
}

func newExportCommand() *cobra.Command {
	var scope string
	var tags []string

	cmd := &cobra.Command{
		Use:   "export PATH",
		Short: "Export clipboard entries to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tagsAny := make([]any, len(tags))
			for i, t := range tags {
				tagsAny[i] = t
			}
			return runSkill("clipboard_export", skill.Args{"path": args[0], "scope": scope, "tags": tagsAny})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "all", "Scope to export: agent, project, system, or all")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only export entries with all of these tags (repeatable)")
	return cmd
}

func newImportCommand() *cobra.Command {
	var scope, conflict string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Import clipboard entries from a JSON export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSkill("clipboard_import", skill.Args{
				"path":     args[0],
				"scope":    scope,
				"conflict": conflict,
				"dry_run":  dryRun,
			})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "agent", "Scope to import into")
	cmd.Flags().StringVar(&conflict, "conflict", "skip", "Conflict policy: skip or overwrite")
	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "Report what would be imported without writing")
	return cmd
}
