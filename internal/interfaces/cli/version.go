package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"wizard.dev/pluginsdk/pkg/protocol"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(),
				"pluginsdk version %s\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\nPlugin API: %s\n",
				Version, BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH, protocol.PluginAPIVersion)
			return err
		},
	}
}
