package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/sym"
)

// ImportCmd copies a JSON corpus into the SQLite store
var ImportCmd = &cobra.Command{
	Use:   "import <corpus.json>",
	Short: sym.Short("import"),
	Long: `Read a JSON corpus and replace the contents of the SQLite corpus store with it.
The database is created and migrated when missing.

Examples:
  comex import corpus.json
  comex import corpus.json --db /tmp/threads.db`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importDBPath string

func init() {
	ImportCmd.Flags().StringVar(&importDBPath, "db", "", "Database path (overrides database.path)")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := corpus.LoadJSON(args[0])
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg, importDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := corpus.SaveSQL(cmd.Context(), database, c); err != nil {
		return errors.Wrap(err, "failed to store corpus")
	}

	dbPath := importDBPath
	if dbPath == "" {
		dbPath = cfg.GetDatabasePath()
	}
	pterm.Success.Printfln("Imported %d comments, %d splits and %d edges into %s",
		c.Len(), c.SplitCount(), len(c.Edges), dbPath)
	return nil
}
