package commands

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/db"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/logger"
)

// ConfigPath is set by the root --config flag.
var ConfigPath string

// loadConfig reads ConfigPath when set, otherwise the layered config.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if ConfigPath != "" {
		cfg, err = config.LoadFromFile(ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// openDatabase opens and migrates a database using the specified path.
// If dbPath is empty, it uses the configured path.
func openDatabase(cfg *config.Config, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = cfg.GetDatabasePath()
	}

	database, err := db.OpenWithMigrations(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}

// isDatabase reports whether path names a SQLite corpus rather than JSON.
func isDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// corpusPath picks the positional argument, falling back to data.path.
func corpusPath(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Data.Path != "" {
		return cfg.Data.Path, nil
	}
	return "", errors.NewInvalidRequestError("no corpus given: pass a path or set data.path")
}

// loadCorpus reads a corpus from JSON or SQLite depending on the extension.
func loadCorpus(ctx context.Context, cfg *config.Config, path string) (*corpus.Corpus, error) {
	if !isDatabase(path) {
		return corpus.LoadJSON(path)
	}

	database, err := openDatabase(cfg, path)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	c, err := corpus.LoadSQL(ctx, database)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load corpus from %s", path)
	}
	return c, nil
}
