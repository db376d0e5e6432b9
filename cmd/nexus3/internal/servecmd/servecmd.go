// Package servecmd provides `nexus3 serve`: the long-lived MCP stdio host
// process (C13), exposing the full builtin skill surface to an agent over
// the Model Context Protocol.
package servecmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/incurian/nexus3/cmd/nexus3/internal"
	"github.com/incurian/nexus3/internal/mcpserver"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the skill registry over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			registry, mgr, err := internal.BuildRegistry(cfg, "mcp")
			if err != nil {
				return err
			}
			defer mgr.Close()

			server := mcpserver.New(registry)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return mcpserver.Serve(ctx, server)
		},
	}
}
