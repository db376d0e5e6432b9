// nexus3 - a patch engine, scoped clipboard, and path-decision core for
// agent-callable skills.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/incurian/nexus3/cmd/nexus3/internal"
	"github.com/incurian/nexus3/cmd/nexus3/internal/clipboardcmd"
	"github.com/incurian/nexus3/cmd/nexus3/internal/janitorcmd"
	"github.com/incurian/nexus3/cmd/nexus3/internal/patchcmd"
	"github.com/incurian/nexus3/cmd/nexus3/internal/servecmd"
	"github.com/incurian/nexus3/cmd/nexus3/internal/version"
)

func NewNexus3Command() *cobra.Command {
	short := fmt.Sprintf("%s nexus3 - patch engine, clipboard, and path policy for agent skills v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "nexus3",
		Short:   short,
		Example: "nexus3 serve",
	}

	cmd.AddCommand(
		servecmd.NewServeCommand(),
		clipboardcmd.NewClipboardCommand(),
		patchcmd.NewPatchCommand(),
		janitorcmd.NewJanitorCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewNexus3Command()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
