package commands

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/display"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/sym"
)

// ConfigCmd inspects the layered configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: sym.Short("config"),
	Long: sym.Short("config") + `

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (COMEX_* prefix)
3. Project config (comex.toml, searched up from the working directory)
4. User config (~/.comex/config.toml)
5. System config (/etc/comex/config.toml)
6. Default values

Examples:
  comex config show                 # Show effective configuration as TOML
  comex config show --format json   # ... as JSON
  comex config get layout.ticks     # One value
  comex config validate             # Check ranges and modes
  comex config where                # Which layer set each value`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value using dot notation (e.g. canvas.width)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show which layer set each value",
	RunE:  runConfigWhere,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func introspect() (*config.Introspection, error) {
	if ConfigPath != "" {
		return config.IntrospectFile(ConfigPath)
	}
	return config.Introspect()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	in, err := introspect()
	if err != nil {
		return err
	}
	tree := in.Tree()
	out := cmd.OutOrStdout()

	switch configFormat {
	case "json":
		return display.OutputJSON(out, tree, false)

	case "yaml":
		data, err := yaml.Marshal(tree)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# comex configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(tree)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# comex configuration\n%s", data)

	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	in, err := introspect()
	if err != nil {
		return err
	}
	s, ok := in.Setting(args[0])
	if !ok || s.Value == nil {
		return errors.NewNotFoundError("configuration key %q not found", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), s.Value)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	in, err := introspect()
	if err != nil {
		return err
	}

	rows := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range in.Settings {
		if s.Value == nil {
			continue
		}
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(rows).Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}

	counts := in.CountBySource()
	sources := make([]string, 0, len(counts))
	for src := range counts {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)
	fmt.Fprintln(cmd.OutOrStdout())
	for _, src := range sources {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d settings\n", src, counts[config.ConfigSource(src)])
	}
	return nil
}
