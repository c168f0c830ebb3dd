package viewport

import (
	"github.com/teranos/comex/graph"
	"github.com/teranos/comex/view"
)

// Container is the host element the drawing fills.
type Container interface {
	Size() (width, height float64)
}

// Size is a Container of fixed dimensions.
type Size struct {
	Width  float64
	Height float64
}

// Size implements Container.
func (s Size) Size() (float64, float64) { return s.Width, s.Height }

// Layout computes node positions over time and exposes them as a position
// table.
type Layout interface {
	view.PositionSource
	// OnTick registers fn to run after every step and returns a function
	// that removes it.
	OnTick(fn func()) (cancel func())
	// Tick advances one step and reports whether the layout is still moving.
	Tick() bool
	// Drag pins node i at (x, y) in layout coordinates.
	Drag(i int, x, y float64)
	// Release unpins node i.
	Release(i int)
	Stop()
}

// LayoutFactory seeds a layout with the splits and edges of a model.
type LayoutFactory func(m *graph.Model, width, height float64) Layout

// Rect is an axis-aligned rectangle.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Normalize orders the corners so X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalize() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Selection handles lasso gestures over the rendered nodes.
type Selection interface {
	// Attach enables lasso gestures.
	Attach()
	// Detach disables them.
	Detach()
	Attached() bool
	// Select marks the nodes inside r (layout coordinates) and returns
	// their indices. Ignored while detached.
	Select(r Rect) []int
	Destroy()
}

// SelectionFactory binds a selection to a view and the layout positioning it.
type SelectionFactory func(v *view.View, positions view.PositionSource) Selection
