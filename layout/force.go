// Package layout positions splits with a force-directed simulation. The
// simulation runs in its own coordinate space; Force rescales every step into
// the canvas and publishes the result as an explicit position table.
package layout

import (
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
	gonumlayout "gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/comex/graph"
	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/viewport"
)

// Options tunes the Eades simulation. Zero values take the defaults.
type Options struct {
	Updates   int
	Repulsion float64
	Rate      float64
	Theta     float64
	// Margin keeps nodes this far from the canvas border.
	Margin float64
	// Seed makes the initial placement reproducible when non-zero.
	Seed   uint64
	Logger *zap.SugaredLogger
}

const (
	DefaultUpdates   = 300
	DefaultRepulsion = 1
	DefaultRate      = 0.05
	DefaultTheta     = 0.2
	DefaultMargin    = 20
)

func (o Options) withDefaults() Options {
	if o.Updates <= 0 {
		o.Updates = DefaultUpdates
	}
	if o.Repulsion <= 0 {
		o.Repulsion = DefaultRepulsion
	}
	if o.Rate <= 0 {
		o.Rate = DefaultRate
	}
	if o.Theta <= 0 {
		o.Theta = DefaultTheta
	}
	if o.Margin < 0 {
		o.Margin = 0
	} else if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	return o
}

// Force is a viewport.Layout backed by gonum's EadesR2.
type Force struct {
	optimizer gonumlayout.OptimizerR2
	n         int
	width     float64
	height    float64
	margin    float64

	pos    []r2.Vec
	pinned map[int]r2.Vec

	listeners map[int]func()
	nextID    int
	running   bool
	ticks     int
	logger    *zap.SugaredLogger
}

var _ viewport.Layout = (*Force)(nil)

// New seeds a simulation with the splits and edges of m. Nodes start on a
// phyllotaxis spiral around the canvas centre until the first tick.
func New(m *graph.Model, width, height float64, opts Options) *Force {
	opts = opts.withDefaults()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range m.Splits {
		g.AddNode(simple.Node(i))
	}
	for _, e := range m.Edges {
		// Self edges carry no attraction and gonum rejects them.
		if e.Source == e.Target {
			continue
		}
		w := 1.0
		if len(e.Weights) > 0 {
			w = e.Weights[0]
		}
		if w <= 0 {
			continue
		}
		if prev, ok := g.Weight(int64(e.Source), int64(e.Target)); ok {
			w += prev
		}
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(e.Source), T: simple.Node(e.Target), W: w})
	}

	eades := &gonumlayout.EadesR2{
		Updates:   opts.Updates,
		Repulsion: opts.Repulsion,
		Rate:      opts.Rate,
		Theta:     opts.Theta,
	}
	if opts.Seed != 0 {
		eades.Src = rand.NewPCG(opts.Seed, opts.Seed)
	}

	f := &Force{
		optimizer: gonumlayout.NewOptimizerR2(g, eades.Update),
		n:         len(m.Splits),
		width:     width,
		height:    height,
		margin:    opts.Margin,
		pos:       make([]r2.Vec, len(m.Splits)),
		pinned:    make(map[int]r2.Vec),
		listeners: make(map[int]func()),
		running:   len(m.Splits) > 0,
		logger:    log.Named("layout"),
	}
	f.spiral()
	return f
}

// Factory returns a viewport.LayoutFactory building Force layouts.
func Factory(opts Options) viewport.LayoutFactory {
	return func(m *graph.Model, width, height float64) viewport.Layout {
		return New(m, width, height, opts)
	}
}

func (f *Force) spiral() {
	const step = 10
	angle := math.Pi * (3 - math.Sqrt(5))
	cx, cy := f.width/2, f.height/2
	for i := range f.pos {
		r := step * math.Sqrt(0.5+float64(i))
		a := float64(i) * angle
		f.pos[i] = r2.Vec{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
}

// Position returns the canvas coordinates of split i.
func (f *Force) Position(i int) (float64, float64, bool) {
	if i < 0 || i >= len(f.pos) {
		return 0, 0, false
	}
	return f.pos[i].X, f.pos[i].Y, true
}

// OnTick registers fn to run after every step.
func (f *Force) OnTick(fn func()) func() {
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() { delete(f.listeners, id) }
}

// Tick advances the simulation one step, rescales it into the canvas and
// notifies tick listeners. It returns false once the simulation has settled
// or was stopped.
func (f *Force) Tick() bool {
	if !f.running {
		return false
	}
	moving := f.optimizer.Update()
	if moving {
		f.fit()
	}
	f.ticks++

	for id := 0; id < f.nextID; id++ {
		if fn, ok := f.listeners[id]; ok {
			fn()
		}
	}

	if !moving {
		f.running = false
		f.logger.Debugw("layout settled", "ticks", f.ticks, logger.FieldSplitCount, f.n)
	}
	return moving
}

// fit maps the simulation's bounding box onto the canvas, preserving aspect
// ratio, then reapplies pinned positions.
func (f *Force) fit() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	raw := make([]r2.Vec, f.n)
	for i := 0; i < f.n; i++ {
		p := f.optimizer.Coord2(int64(i))
		raw[i] = p
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	availW := math.Max(f.width-2*f.margin, 0)
	availH := math.Max(f.height-2*f.margin, 0)
	dx, dy := maxX-minX, maxY-minY

	scale := math.Inf(1)
	if dx > 0 {
		scale = availW / dx
	}
	if dy > 0 {
		scale = math.Min(scale, availH/dy)
	}
	if math.IsInf(scale, 1) {
		scale = 0
	}

	cx, cy := f.width/2, f.height/2
	mx, my := (minX+maxX)/2, (minY+maxY)/2
	for i, p := range raw {
		f.pos[i] = r2.Vec{X: cx + (p.X-mx)*scale, Y: cy + (p.Y-my)*scale}
	}
	for i, p := range f.pinned {
		f.pos[i] = p
	}
}

// Drag pins split i at (x, y) until Release.
func (f *Force) Drag(i int, x, y float64) {
	if i < 0 || i >= f.n {
		return
	}
	p := r2.Vec{X: x, Y: y}
	f.pinned[i] = p
	f.pos[i] = p
}

// Release unpins split i.
func (f *Force) Release(i int) {
	delete(f.pinned, i)
}

// Running reports whether further ticks can move nodes.
func (f *Force) Running() bool {
	return f.running
}

// Ticks returns the number of steps taken.
func (f *Force) Ticks() int {
	return f.ticks
}

// Stop ends the simulation and drops every tick listener.
func (f *Force) Stop() {
	f.running = false
	f.listeners = make(map[int]func())
}
