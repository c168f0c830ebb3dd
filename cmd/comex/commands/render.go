package commands

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/display"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/events"
	"github.com/teranos/comex/graph"
	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/render"
	"github.com/teranos/comex/session"
	"github.com/teranos/comex/sym"
)

// RenderCmd lays a corpus out once and writes the result
var RenderCmd = &cobra.Command{
	Use:   "render [corpus]",
	Short: sym.Short("render"),
	Long: `Load a corpus (JSON, or SQLite for .db/.sqlite paths), draw it, run the
force layout until it settles and write the final frame.

Without --out or --json the SVG is written to stdout.

Examples:
  comex render corpus.json --out graph.svg
  comex render comex.db --highlight c42 --hide-edges --out graph.svg
  comex render corpus.json --from 2024-01-01T00:00:00Z --to 2024-02-01T00:00:00Z --json graph.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

var (
	renderOut       string
	renderJSON      string
	renderHighlight string
	renderFrom      string
	renderTo        string
	renderHideEdges bool
	renderCompact   bool
	renderTicks     int
	renderWidth     float64
	renderHeight    float64
)

func init() {
	RenderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write the SVG frame to this file")
	RenderCmd.Flags().StringVar(&renderJSON, "json", "", "Write the D3 node-link graph to this file")
	RenderCmd.Flags().StringVar(&renderHighlight, "highlight", "", "Highlight the comment with this id")
	RenderCmd.Flags().StringVar(&renderFrom, "from", "", "Time range start (RFC 3339)")
	RenderCmd.Flags().StringVar(&renderTo, "to", "", "Time range end (RFC 3339)")
	RenderCmd.Flags().BoolVar(&renderHideEdges, "hide-edges", false, "Do not draw links")
	RenderCmd.Flags().BoolVar(&renderCompact, "compact", false, "Write --json output on one line")
	RenderCmd.Flags().IntVar(&renderTicks, "ticks", 0, "Maximum layout ticks (default layout.ticks)")
	RenderCmd.Flags().Float64Var(&renderWidth, "width", 0, "Canvas width (default canvas.width)")
	RenderCmd.Flags().Float64Var(&renderHeight, "height", 0, "Canvas height (default canvas.height)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("width") {
		cfg.Canvas.Width = renderWidth
	}
	if cmd.Flags().Changed("height") {
		cfg.Canvas.Height = renderHeight
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeRange, err := parseTimeRange(renderFrom, renderTo)
	if err != nil {
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

	log := logger.Logger.Named("render")
	sess, err := session.New(c, cfg, log)
	if err != nil {
		return errors.Wrap(err, "failed to create session")
	}
	defer sess.Close()

	if err := sess.Redraw(); err != nil {
		if renderJSON != "" {
			if werr := writeGraph(renderJSON, sess.Export()); werr != nil {
				log.Warnw("failed to write error graph", logger.FieldPath, renderJSON, logger.FieldError, werr)
			}
		}
		return errors.Wrap(err, "redraw failed")
	}

	if renderHighlight != "" {
		sess.Interaction.SelectComment(renderHighlight)
		if sess.Interaction.Filters().Highlight != renderHighlight {
			return errors.NewInvalidRequestError("comment %q not in corpus", renderHighlight)
		}
	}
	if timeRange != nil {
		sess.Interaction.SelectTimeRange(timeRange)
	}
	if renderHideEdges {
		sess.Interaction.ChangeConfig(events.KeyLinksVisible, false)
	}

	ticks := renderTicks
	if ticks <= 0 {
		ticks = cfg.Layout.Ticks
	}
	taken := sess.Settle(ticks)
	log.Debugw("layout settled", "ticks", taken, "max_ticks", ticks)

	frame := sess.Frame()

	if renderJSON != "" {
		if err := writeGraph(renderJSON, sess.Export()); err != nil {
			return err
		}
		pterm.Success.Printfln("Wrote graph to %s", renderJSON)
	}
	if renderOut != "" {
		if err := render.WriteFile(renderOut, frame); err != nil {
			return err
		}
		pterm.Success.Printfln("Wrote %d nodes and %d links to %s", len(frame.Nodes), len(frame.Links), renderOut)
	}
	if renderOut == "" && renderJSON == "" {
		return render.SVG(cmd.OutOrStdout(), frame)
	}
	return nil
}

func parseTimeRange(from, to string) (*corpus.TimeRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, errors.NewInvalidRequestError("--from and --to must be given together")
	}
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --from %q", from)
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --to %q", to)
	}
	if end.Before(start) {
		return nil, errors.NewInvalidRequestError("--to %s is before --from %s", to, from)
	}
	return &corpus.TimeRange{Start: start, End: end}, nil
}

func writeGraph(path string, g *graph.Graph) error {
	data, err := display.MarshalJSON(g, renderCompact)
	if err != nil {
		return errors.Wrap(err, "failed to encode graph")
	}
	if err := os.WriteFile(path, data, config.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
