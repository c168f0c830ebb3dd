// Package selection implements rectangle lasso selection over the nodes of a
// view.
package selection

import (
	"github.com/teranos/comex/view"
	"github.com/teranos/comex/viewport"
)

// Lasso selects nodes whose current position falls inside a rectangle.
type Lasso struct {
	view      *view.View
	positions view.PositionSource
	attached  bool
	destroyed bool
}

var _ viewport.Selection = (*Lasso)(nil)

// New binds a lasso to v, reading positions from p. It starts detached.
func New(v *view.View, p view.PositionSource) *Lasso {
	return &Lasso{view: v, positions: p}
}

// Factory returns a viewport.SelectionFactory building lassos.
func Factory() viewport.SelectionFactory {
	return func(v *view.View, p view.PositionSource) viewport.Selection {
		return New(v, p)
	}
}

// Attach enables selection.
func (l *Lasso) Attach() {
	if !l.destroyed {
		l.attached = true
	}
}

// Detach disables selection and clears the current selection.
func (l *Lasso) Detach() {
	if l.attached && !l.destroyed {
		l.view.SetSelected(nil)
	}
	l.attached = false
}

// Attached reports whether selection is enabled.
func (l *Lasso) Attached() bool {
	return l.attached
}

// Select marks the nodes inside r and returns their indices in ascending
// order. It returns nil while detached.
func (l *Lasso) Select(r viewport.Rect) []int {
	if !l.attached || l.destroyed {
		return nil
	}
	r = r.Normalize()
	var hits []int
	for _, n := range l.view.Snapshot().Nodes {
		x, y, ok := l.positions.Position(n.Index)
		if ok && r.Contains(x, y) {
			hits = append(hits, n.Index)
		}
	}
	l.view.SetSelected(hits)
	return hits
}

// Destroy releases the view. The lasso cannot be attached again.
func (l *Lasso) Destroy() {
	l.attached = false
	l.destroyed = true
	l.view = nil
	l.positions = nil
}
