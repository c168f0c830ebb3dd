// Package view binds a graph model to renderable nodes and links. A View
// restyles itself on every filters-updated notification and moves its nodes
// when handed a position table by the layout.
package view

import (
	"go.uber.org/zap"

	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/events"
	"github.com/teranos/comex/graph"
	grapherror "github.com/teranos/comex/graph/error"
	"github.com/teranos/comex/logger"
	"github.com/teranos/comex/style"
)

// PositionSource is the explicit position table maintained by a layout.
type PositionSource interface {
	Position(i int) (x, y float64, ok bool)
}

// ClickHandler receives the split behind a clicked node.
type ClickHandler func(s graph.Split)

// Node is the rendered state of one split.
type Node struct {
	Index    int            `json:"index"`
	Origin   graph.Origin   `json:"origin"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Encoding style.Encoding `json:"style"`
	Selected bool           `json:"selected,omitempty"`
}

// Link is the rendered state of one edge.
type Link struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Width  float64 `json:"width"`
}

// Options configures a View.
type Options struct {
	Style        style.Config
	EdgesVisible bool
	OnClick      ClickHandler
	Logger       *zap.SugaredLogger
}

// View is the rendered graph of one redraw cycle.
type View struct {
	bus    *events.Bus
	owner  string
	model  *graph.Model
	corpus *corpus.Corpus
	style  style.Config

	nodes        []Node
	links        []Link
	edgesVisible bool
	edgeOpacity  float64
	onClick      ClickHandler

	subs      []events.Subscription
	destroyed bool
	logger    *zap.SugaredLogger
}

// New creates one node per split and one link per edge, subscribes to
// filters-updated and applies the initial style.
func New(bus *events.Bus, m *graph.Model, c *corpus.Corpus, opts Options) *View {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	v := &View{
		bus:          bus,
		owner:        bus.Owner("view"),
		model:        m,
		corpus:       c,
		style:        opts.Style,
		edgesVisible: opts.EdgesVisible,
		onClick:      opts.OnClick,
		logger:       log.Named("view"),
	}
	if v.edgesVisible {
		v.edgeOpacity = v.style.EdgeOpacity
	}

	v.nodes = make([]Node, len(m.Splits))
	for i, s := range m.Splits {
		v.nodes[i] = Node{Index: s.Index, Origin: s.Origin}
	}
	v.links = make([]Link, len(m.Edges))
	for i, e := range m.Edges {
		v.links[i] = Link{Source: e.Source, Target: e.Target, Width: v.style.EdgeWidth(e.Weight(0))}
	}

	v.subs = append(v.subs, events.On(bus, events.FiltersChanged, v.owner, func(events.FiltersUpdated) {
		v.Restyle()
	}))

	v.Restyle()

	v.logger.Debugw("view created",
		logger.FieldOwner, v.owner,
		logger.FieldSplitCount, len(v.nodes),
		logger.FieldEdgeCount, len(v.links),
	)
	return v
}

// Owner returns the tag under which the view holds its subscriptions.
func (v *View) Owner() string {
	return v.owner
}

// Model returns the model the view is bound to, nil after Destroy.
func (v *View) Model() *graph.Model {
	return v.model
}

// Click forwards a click on node i to the click handler.
func (v *View) Click(i int) error {
	if v.destroyed {
		return grapherror.New(grapherror.CategoryLifecycle, errors.New("click on destroyed view"), "").
			WithSubcategory(grapherror.SubcategoryLifecycleClosed).
			WithContext(logger.FieldOwner, v.owner)
	}
	if i < 0 || i >= len(v.model.Splits) {
		return errors.NewInvalidRequestError("node %d out of range [0,%d)", i, len(v.model.Splits))
	}
	if v.onClick != nil {
		v.onClick(v.model.Splits[i])
	}
	return nil
}

// Restyle recomputes every node's encoding from the shared filters.
func (v *View) Restyle() {
	if v.destroyed {
		return
	}
	filters := *v.corpus.Filters
	for i, s := range v.model.Splits {
		owner, _ := v.corpus.Comment(s.Origin.CommentID)
		v.nodes[i].Encoding = style.Resolve(s, filters, owner, v.style)
	}
}

// Reposition moves nodes to the coordinates in p. Links only follow while
// edges are visible. Splits missing from p keep their last position.
func (v *View) Reposition(p PositionSource) {
	if v.destroyed || p == nil {
		return
	}
	for i := range v.nodes {
		if x, y, ok := p.Position(i); ok {
			v.nodes[i].X, v.nodes[i].Y = x, y
		}
	}
	if !v.edgesVisible {
		return
	}
	for i := range v.links {
		l := &v.links[i]
		l.X1, l.Y1 = v.nodes[l.Source].X, v.nodes[l.Source].Y
		l.X2, l.Y2 = v.nodes[l.Target].X, v.nodes[l.Target].Y
	}
}

// SetEdgesVisible switches links on at the visible opacity or off at zero.
// A view built with edges on keeps the initial edge opacity until then.
func (v *View) SetEdgesVisible(on bool) {
	v.edgesVisible = on
	v.edgeOpacity = 0
	if on {
		v.edgeOpacity = v.style.EdgeVisibleOpacity
	}
}

// EdgesVisible reports whether links are drawn.
func (v *View) EdgesVisible() bool {
	return v.edgesVisible
}

// EdgeOpacity returns the current link stroke opacity.
func (v *View) EdgeOpacity() float64 {
	return v.edgeOpacity
}

// SetSelected marks exactly the given nodes as selected.
func (v *View) SetSelected(indices []int) {
	if v.destroyed {
		return
	}
	for i := range v.nodes {
		v.nodes[i].Selected = false
	}
	for _, i := range v.Nodes(indices) {
		v.nodes[i].Selected = true
	}
}

// Nodes filters indices down to those addressing a node of this view.
func (v *View) Nodes(indices []int) []int {
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(v.nodes) {
			out = append(out, i)
		}
	}
	return out
}

// Destroy detaches every subscription the view registered and releases the
// model. Calling it again is a no-op.
func (v *View) Destroy() {
	if v.destroyed {
		return
	}
	for _, sub := range v.subs {
		sub.Unsubscribe()
	}
	v.subs = nil
	v.nodes = nil
	v.links = nil
	v.model = nil
	v.corpus = nil
	v.onClick = nil
	v.destroyed = true

	v.logger.Debugw("view destroyed", logger.FieldOwner, v.owner)
}

// Destroyed reports whether Destroy has run.
func (v *View) Destroyed() bool {
	return v.destroyed
}
