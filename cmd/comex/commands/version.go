package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/comex/display"
	"github.com/teranos/comex/sym"
	"github.com/teranos/comex/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: sym.Short("version"),
	Long:  `Display version, build time, commit hash, and platform information for the comex binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		info := version.Get()

		if jsonOutput {
			return display.OutputJSON(cmd.OutOrStdout(), info, false)
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", info.Platform)
		fmt.Fprintf(cmd.OutOrStdout(), "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
