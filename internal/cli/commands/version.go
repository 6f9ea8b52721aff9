package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display modmaker version information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "modmaker v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Democracy 4 mod maker: game data browser and policy table exporter")
		},
	}
}
