// Package patchcmd provides `nexus3 patch`: manual single-shot patch
// application, useful for scripting and VCS hooks without standing up the
// full agent/skill surface. It is a thin cobra wrapper around the same
// "patch" skill an agent host calls through C11/C13.
package patchcmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/incurian/nexus3/cmd/nexus3/internal"
	"github.com/incurian/nexus3/internal/skill"
)

func NewPatchCommand() *cobra.Command {
	var (
		diffFile       string
		mode           string
		fuzzyThreshold float64
		dryRun         bool
	)

	cmd := &cobra.Command{
		Use:   "patch TARGET",
		Short: "Apply a unified diff to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			target := args[0]

			cfg, err := internal.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			registry, mgr, err := internal.BuildRegistry(cfg, "cli")
			if err != nil {
				return err
			}
			defer mgr.Close()

			result := registry.Execute(context.Background(), "patch", skill.Args{
				"target":          target,
				"diff_file":       diffFile,
				"mode":            mode,
				"fuzzy_threshold": fuzzyThreshold,
				"dry_run":         dryRun,
			})
			if !result.Success {
				return fmt.Errorf("%s", result.Error)
			}
			fmt.Println(result.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&diffFile, "diff-file", "", "Path to a file containing the unified diff (required; stdin is not read)")
	cmd.Flags().StringVar(&mode, "mode", "strict", "Hunk-matching mode: strict, tolerant, or fuzzy")
	cmd.Flags().Float64Var(&fuzzyThreshold, "fuzzy-threshold", 0.8, "Minimum similarity ratio for fuzzy matching")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and report without writing the target file")
	_ = cmd.MarkFlagRequired("diff-file")

	return cmd
}
