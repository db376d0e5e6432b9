// Package janitorcmd provides `nexus3 janitor ...`, a cobra front-end for
// internal/janitor's expiry sweep (C16), matching the shape of
// cmd/picoclaw/internal/cron's command-tree-over-a-service idiom.
package janitorcmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/incurian/nexus3/cmd/nexus3/internal"
	"github.com/incurian/nexus3/internal/janitor"
	"github.com/incurian/nexus3/internal/nexuslog"
)

func NewJanitorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "janitor",
		Short: "Run the clipboard expiry sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRunCommand(), newServeCommand())
	return cmd
}

func newJanitor() (*janitor.Service, func() error, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	_, mgr, err := internal.BuildRegistry(cfg, "janitor")
	if err != nil {
		return nil, nil, err
	}
	log := nexuslog.New(cfg.LogFormat)
	return janitor.New(mgr, cfg.JanitorCron, log), mgr.Close, nil
}

func newRunCommand() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sweep expired clipboard entries once and exit",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !once {
				return fmt.Errorf("janitor run requires --once (use 'nexus3 janitor serve' for a long-lived loop)")
			}
			j, closeFn, err := newJanitor()
			if err != nil {
				return err
			}
			defer closeFn()

			swept, err := j.RunOnce()
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}
			fmt.Printf("Swept %d expired entries\n", swept)
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single sweep pass and exit")
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the expiry sweep loop until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			j, closeFn, err := newJanitor()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			err = j.Serve(ctx)
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}
