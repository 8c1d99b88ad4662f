package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depends/pkg/buildinfo"
)

// versionCommand creates the version command. --version on the root
// command is the package version flag.
func (c *CLI) versionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := buildinfo.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}
			printKeyValue("version", info.Version)
			printKeyValue("commit", info.Commit)
			printKeyValue("built", info.Date)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version")
	return cmd
}
