package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adcondev/wps-print/internal/config"
)

func versionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Build info needs no settings, logger or printers
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(c.stdout, "%s %s (build %s %s)\n",
				config.ServiceName, config.BuildEnvironment, config.BuildDate, config.BuildTime)
			return err
		},
	}
}
