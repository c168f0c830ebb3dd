package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/internal/util"
	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/server"
	"github.com/teranos/comex/sym"
	"github.com/teranos/comex/watcher"
)

// ServeCmd starts the live session server
var ServeCmd = &cobra.Command{
	Use:     "serve [corpus]",
	Aliases: []string{"server"},
	Short:   sym.Short("serve"),
	Long: `Launch the comex server. Browsers connect over WebSocket to /ws and receive
frames as the layout runs; clicks, time ranges and zoom gestures are sent back
as messages. The corpus file is watched and reloaded on change.

Examples:
  comex serve corpus.json
  comex serve comex.db --port 9000 -v`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

var (
	servePort    int
	serveNoWatch bool
)

func init() {
	ServeCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default server.port)")
	ServeCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload the corpus when the file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Default to Info for the server
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = 1
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = util.Ptr(servePort)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := corpusPath(cfg, args)
	if err != nil {
		return err
	}
	c, err := loadCorpus(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}

	printStartupBanner(cmd.OutOrStdout(), verbosity, path, c.Len(), c.SplitCount())

	srv, err := server.New(c, cfg, logger.Logger.Named("server"))
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	if cfg.Data.Watch && !serveNoWatch {
		w, err := watchCorpus(cfg, path, srv)
		if err != nil {
			pterm.Warning.Printfln("Corpus reload disabled: %v", err)
		} else {
			defer w.Stop()
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.GetServerPort())
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return errors.Wrap(err, "server stopped unexpectedly")
	case <-sigChan:
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return errors.Wrap(err, "shutdown error")
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil
		}
	}
}

// watchCorpus reloads the corpus into srv whenever the file at path changes.
func watchCorpus(cfg *config.Config, path string, srv *server.Server) (*watcher.Watcher, error) {
	log := logger.Logger.Named("watcher")
	w, err := watcher.New(path, time.Duration(cfg.Data.DebounceMS)*time.Millisecond, log)
	if err != nil {
		return nil, err
	}
	w.OnReload(func(p string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		c, err := loadCorpus(ctx, cfg, p)
		if err != nil {
			return err
		}
		log.Infow("corpus reloaded",
			logger.FieldPath, p,
			logger.FieldCommentCount, c.Len(),
			logger.FieldEdgeCount, len(c.Edges))
		srv.Reload(c)
		return nil
	})
	w.Start()
	return w, nil
}
