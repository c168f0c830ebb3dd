package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/comex/cmd/comex/commands"
	"github.com/teranos/comex/logger"
)

var rootCmd = &cobra.Command{
	Use:   "comex",
	Short: "comex - comment corpus graph explorer",
	Long: `comex - node-link views of a comment corpus.

Every comment split becomes a node and every scored relation between splits
becomes a link. Highlight a comment or a time window and the drawing follows.

Available commands:
  render  - Lay out a corpus and write SVG or D3 JSON
  serve   - Start the live WebSocket session
  import  - Copy a JSON corpus into SQLite
  config  - Inspect configuration and where it came from
  version - Show build information

Examples:
  comex render corpus.json --out graph.svg
  comex render corpus.json --highlight c42 --json graph.json
  comex serve corpus.json -v
  comex import corpus.json --db comex.db`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs")
	rootCmd.PersistentFlags().StringVar(&commands.ConfigPath, "config", "", "Config file (default: comex.toml in the project, then ~/.comex/config.toml)")

	rootCmd.AddCommand(commands.RenderCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ImportCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
