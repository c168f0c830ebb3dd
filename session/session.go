// Package session assembles the drawing core for one corpus: the event bus,
// the interaction and viewport controllers, a force layout and lasso
// selection, all configured from a config.Config. A Session is not safe for
// concurrent use; hosts serialise calls onto one goroutine.
package session

import (
	"go.uber.org/zap"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/edgefilter"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/events"
	"github.com/teranos/comex/graph"
	"github.com/teranos/comex/interaction"
	"github.com/teranos/comex/layout"
	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/selection"
	"github.com/teranos/comex/viewport"
)

// Canvas is a resizable viewport container.
type Canvas struct {
	Width  float64
	Height float64
}

// Size implements viewport.Container.
func (c *Canvas) Size() (float64, float64) { return c.Width, c.Height }

// Session is one live drawing.
type Session struct {
	Bus         *events.Bus
	Interaction *interaction.Controller
	Viewport    *viewport.Controller

	canvas  *Canvas
	filters edgefilter.Chain
	logger  *zap.SugaredLogger
}

// New wires a session around c. The corpus edges are run through the
// configured edge filters first. Nothing is drawn until Redraw.
func New(c *corpus.Corpus, cfg *config.Config, log *zap.SugaredLogger) (*Session, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	mode, err := viewport.ParseMode(cfg.Zoom.Mode)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Bus:     events.NewBus(log),
		canvas:  &Canvas{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height},
		filters: edgefilter.FromConfig(cfg.Edges),
		logger:  log.Named("session"),
	}

	s.Interaction = interaction.New(s.Bus, s.filter(c), interaction.Options{
		EdgesVisible: cfg.Edges.Visible,
		Logger:       log,
	})

	s.Viewport, err = viewport.New(s.Bus, s.Interaction, viewport.Options{
		Container:    s.canvas,
		NewLayout:    layout.Factory(LayoutOptions(cfg.Layout, log)),
		NewSelection: selection.Factory(),
		Style:        cfg.StyleConfig(),
		MinScale:     cfg.Zoom.MinScale,
		MaxScale:     cfg.Zoom.MaxScale,
		Mode:         mode,
		Logger:       log,
	})
	if err != nil {
		s.Interaction.Close()
		return nil, errors.Wrap(err, "create viewport")
	}
	return s, nil
}

// LayoutOptions maps the [layout] section onto force layout options.
func LayoutOptions(cfg config.LayoutConfig, log *zap.SugaredLogger) layout.Options {
	return layout.Options{
		Updates:   cfg.Updates,
		Repulsion: cfg.Repulsion,
		Rate:      cfg.Rate,
		Theta:     cfg.Theta,
		Margin:    cfg.Margin,
		Seed:      cfg.Seed,
		Logger:    log,
	}
}

func (s *Session) filter(c *corpus.Corpus) *corpus.Corpus {
	if len(s.filters) == 0 {
		return c
	}
	kept := s.filters.Apply(c)
	s.logger.Debugw("edge filters applied",
		"filters", s.filters.Name(),
		logger.FieldEdgeCount, len(kept),
		"dropped", len(c.Edges)-len(kept))
	return c.WithEdges(kept)
}

// Redraw emits a redraw notification and reports how it went.
func (s *Session) Redraw() error {
	events.Emit(s.Bus, events.RedrawRequested, events.Redraw{})
	return s.Viewport.Err()
}

// Resize changes the canvas and redraws.
func (s *Session) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return errors.NewInvalidRequestError("canvas must be positive, got %gx%g", width, height)
	}
	s.canvas.Width, s.canvas.Height = width, height
	return s.Redraw()
}

// Reload swaps in a reloaded corpus, keeping the filter state, and redraws.
func (s *Session) Reload(c *corpus.Corpus) error {
	s.Interaction.SetCorpus(s.filter(c))
	return s.Redraw()
}

// Settle ticks the layout until it stops moving or max ticks have run, and
// returns the number of ticks taken.
func (s *Session) Settle(max int) int {
	n := 0
	for n < max {
		n++
		if !s.Viewport.Tick() {
			break
		}
	}
	return n
}

// Frame returns the current drawing.
func (s *Session) Frame() viewport.Frame {
	return s.Viewport.Frame()
}

// Export returns the current model as a D3 graph. Before a successful
// redraw the graph is empty and carries the redraw error, if any.
func (s *Session) Export() *graph.Graph {
	m := s.Viewport.Model()
	if m == nil {
		return graph.ErrorGraph(s.Viewport.Err())
	}
	return m.Export(s.Interaction.Corpus(), graph.ExportOptions{
		EdgesVisible: s.Interaction.EdgesVisible(),
		Filters:      s.Interaction.Filters(),
	})
}

// Close tears the drawing down and detaches both controllers.
func (s *Session) Close() {
	s.Viewport.Close()
	s.Interaction.Close()
}
