package commands

import (
	"fmt"

	"github.com/code-vine/reflectivesql/pkg/stores/sqlite"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display reflectsql version and the linked SQLite driver.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reflectsql v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SQLite driver: %s (%s)\n", sqlite.DriverName(), sqlite.DriverType())
		},
	}
}
