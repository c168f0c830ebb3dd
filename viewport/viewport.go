// Package viewport owns the canvas: its dimensions, the zoom transform, the
// mouse mode and the redraw lifecycle that tears down and rebuilds the
// model, view, layout and selection on every redraw notification.
package viewport

import (
	"go.uber.org/zap"

	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/events"
	"github.com/teranos/comex/graph"
	grapherror "github.com/teranos/comex/graph/error"
	"github.com/teranos/comex/interaction"
	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/style"
	"github.com/teranos/comex/view"
)

const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 8
)

// Options configures a Controller. Container, NewLayout and NewSelection are
// required.
type Options struct {
	Container    Container
	NewLayout    LayoutFactory
	NewSelection SelectionFactory
	Style        style.Config
	MinScale     float64
	MaxScale     float64
	Mode         Mode
	Logger       *zap.SugaredLogger
}

// Controller runs the redraw lifecycle.
type Controller struct {
	bus     *events.Bus
	owner   string
	ic      *interaction.Controller
	opts    Options
	builder *graph.Builder

	width  float64
	height float64
	zoom   *Zoom
	mode   Mode

	model     *graph.Model
	view      *view.View
	layout    Layout
	selection Selection
	stopTick  func()

	redraws int
	lastErr error
	subs    []events.Subscription
	closed  bool
	logger  *zap.SugaredLogger
}

// New creates a controller subscribed to redraw. Nothing is drawn until the
// first redraw notification.
func New(bus *events.Bus, ic *interaction.Controller, opts Options) (*Controller, error) {
	if opts.Container == nil || opts.NewLayout == nil || opts.NewSelection == nil {
		return nil, errors.NewInvalidRequestError("viewport needs a container, a layout factory and a selection factory")
	}
	if opts.MinScale == 0 && opts.MaxScale == 0 {
		opts.MinScale, opts.MaxScale = DefaultMinScale, DefaultMaxScale
	}
	if opts.MinScale <= 0 || opts.MaxScale < opts.MinScale {
		return nil, errors.NewInvalidRequestError("invalid scale extent [%g, %g]", opts.MinScale, opts.MaxScale)
	}
	if opts.Mode == "" {
		opts.Mode = ModeZoom
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	vc := &Controller{
		bus:     bus,
		owner:   bus.Owner("viewport"),
		ic:      ic,
		opts:    opts,
		builder: graph.NewBuilder(log),
		zoom:    NewZoom(opts.MinScale, opts.MaxScale),
		mode:    opts.Mode,
		logger:  log.Named("viewport"),
	}
	vc.subs = append(vc.subs, events.On(bus, events.RedrawRequested, vc.owner, func(events.Redraw) {
		if err := vc.Redraw(); err != nil {
			if ge, ok := grapherror.As(err); ok {
				vc.logger.Errorw("redraw failed", ge.ToLogFields()...)
			} else {
				vc.logger.Errorw("redraw failed", logger.FieldError, err)
			}
		}
	}))
	return vc, nil
}

// Redraw tears down the current drawing and builds a new one from the
// interaction controller's corpus. On failure the previous drawing is gone
// and nothing replaces it; the error is also kept for Err.
func (vc *Controller) Redraw() error {
	if vc.closed {
		return grapherror.New(grapherror.CategoryLifecycle, errors.New("redraw on closed viewport"), "").
			WithSubcategory(grapherror.SubcategoryLifecycleClosed)
	}

	vc.teardown()

	vc.width, vc.height = vc.opts.Container.Size()
	vc.zoom.SetExtent(vc.width, vc.height)

	vc.applyMode()

	c := vc.ic.Corpus()
	model, err := vc.builder.Build(c)
	if err != nil {
		vc.lastErr = err
		return err
	}

	v := view.New(vc.bus, model, c, view.Options{
		Style:        vc.opts.Style,
		EdgesVisible: vc.ic.EdgesVisible(),
		OnClick:      vc.ic.OnNodeClick,
		Logger:       vc.logger,
	})
	layout := vc.opts.NewLayout(model, vc.width, vc.height)
	selection := vc.opts.NewSelection(v, layout)

	vc.model, vc.view, vc.layout, vc.selection = model, v, layout, selection
	vc.stopTick = layout.OnTick(func() { v.Reposition(layout) })
	vc.ic.Bind(scene{view: v, positions: layout})
	vc.applyMode()
	v.Reposition(layout)

	vc.redraws++
	vc.lastErr = nil
	vc.logger.Infow("redraw complete",
		logger.FieldWidth, vc.width,
		logger.FieldHeight, vc.height,
		logger.FieldSplitCount, model.Len(),
		logger.FieldEdgeCount, len(model.Edges),
		logger.FieldMode, vc.mode,
	)
	return nil
}

func (vc *Controller) teardown() {
	if vc.stopTick != nil {
		vc.stopTick()
		vc.stopTick = nil
	}
	if vc.layout != nil {
		vc.layout.Stop()
		vc.layout = nil
	}
	if vc.selection != nil {
		vc.selection.Destroy()
		vc.selection = nil
	}
	vc.ic.Unbind()
	if vc.view != nil {
		vc.view.Destroy()
		vc.view = nil
	}
	vc.model = nil
}

// applyMode enables exactly one of zoom and lasso gestures.
func (vc *Controller) applyMode() {
	vc.zoom.SetEnabled(vc.mode == ModeZoom)
	if vc.selection == nil {
		return
	}
	if vc.mode == ModeLasso {
		vc.selection.Attach()
	} else {
		vc.selection.Detach()
	}
}

// SetMode switches the mouse mode.
func (vc *Controller) SetMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	vc.mode = m
	vc.applyMode()
	return nil
}

// Mode returns the mouse mode.
func (vc *Controller) Mode() Mode {
	return vc.mode
}

// Tick advances the layout one step. It reports false when there is no
// drawing or the layout has settled.
func (vc *Controller) Tick() bool {
	if vc.layout == nil {
		return false
	}
	return vc.layout.Tick()
}

// ZoomBy scales by factor around the screen point (px, py).
func (vc *Controller) ZoomBy(factor, px, py float64) bool {
	return vc.zoom.ScaleBy(factor, px, py)
}

// ZoomTo sets the scale around the canvas centre.
func (vc *Controller) ZoomTo(k float64) bool {
	return vc.zoom.ScaleTo(k)
}

// Pan translates by (dx, dy) screen pixels.
func (vc *Controller) Pan(dx, dy float64) bool {
	return vc.zoom.TranslateBy(dx, dy)
}

// Centre resets scale to 1 and translation to the origin. It does not
// compute the centroid of the drawing.
func (vc *Controller) Centre() {
	vc.zoom.Reset()
}

// Transform returns the current zoom transform.
func (vc *Controller) Transform() Transform {
	return vc.zoom.Transform()
}

// Dimensions returns the canvas size measured at the last redraw.
func (vc *Controller) Dimensions() (float64, float64) {
	return vc.width, vc.height
}

// Click forwards a click on node i of the current view.
func (vc *Controller) Click(i int) error {
	if vc.view == nil {
		return errors.NewInvalidRequestError("nothing drawn")
	}
	return vc.view.Click(i)
}

// Lasso selects the nodes inside a screen rectangle. Only available in
// lasso mode.
func (vc *Controller) Lasso(r Rect) ([]int, error) {
	if vc.selection == nil {
		return nil, errors.NewInvalidRequestError("nothing drawn")
	}
	if !vc.selection.Attached() {
		return nil, errors.NewInvalidRequestError("lasso requires mouse mode %q", ModeLasso)
	}
	t := vc.zoom.Transform()
	x0, y0 := t.Invert(r.X0, r.Y0)
	x1, y1 := t.Invert(r.X1, r.Y1)
	return vc.selection.Select(Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}.Normalize()), nil
}

// Drag pins node i under the screen point (x, y).
func (vc *Controller) Drag(i int, x, y float64) error {
	if vc.layout == nil {
		return errors.NewInvalidRequestError("nothing drawn")
	}
	if i < 0 || i >= vc.model.Len() {
		return errors.NewInvalidRequestError("node %d out of range", i)
	}
	lx, ly := vc.zoom.Transform().Invert(x, y)
	vc.layout.Drag(i, lx, ly)
	vc.view.Reposition(vc.layout)
	return nil
}

// Release unpins node i.
func (vc *Controller) Release(i int) {
	if vc.layout != nil {
		vc.layout.Release(i)
	}
}

// View returns the current view, nil before the first successful redraw.
func (vc *Controller) View() *view.View {
	return vc.view
}

// Model returns the current model.
func (vc *Controller) Model() *graph.Model {
	return vc.model
}

// Redraws counts completed redraws.
func (vc *Controller) Redraws() int {
	return vc.redraws
}

// Err returns the error of the last redraw, if it failed.
func (vc *Controller) Err() error {
	return vc.lastErr
}

// Owner returns the tag under which the controller holds its subscriptions.
func (vc *Controller) Owner() string {
	return vc.owner
}

// Close tears down the drawing and unsubscribes from redraw.
func (vc *Controller) Close() {
	if vc.closed {
		return
	}
	vc.teardown()
	for _, sub := range vc.subs {
		sub.Unsubscribe()
	}
	vc.subs = nil
	vc.closed = true
}

// scene adapts the current view and layout for the interaction controller.
type scene struct {
	view      *view.View
	positions view.PositionSource
}

func (s scene) SetEdgesVisible(on bool) { s.view.SetEdgesVisible(on) }
func (s scene) Reposition()             { s.view.Reposition(s.positions) }
