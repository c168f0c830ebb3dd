package view

import "github.com/teranos/comex/style"

// Snapshot is a copy of the rendered state, safe to hand to a renderer or
// serialise after the view has moved on.
type Snapshot struct {
	Nodes        []Node       `json:"nodes"`
	Links        []Link       `json:"links"`
	EdgesVisible bool         `json:"edges_visible"`
	EdgeOpacity  float64      `json:"edge_opacity"`
	Style        style.Config `json:"-"`
}

// Snapshot copies the current nodes and links.
func (v *View) Snapshot() Snapshot {
	return Snapshot{
		Nodes:        append([]Node(nil), v.nodes...),
		Links:        append([]Link(nil), v.links...),
		EdgesVisible: v.edgesVisible,
		EdgeOpacity:  v.EdgeOpacity(),
		Style:        v.style,
	}
}

// Selected returns the indices of selected nodes.
func (s Snapshot) Selected() []int {
	var out []int
	for _, n := range s.Nodes {
		if n.Selected {
			out = append(out, n.Index)
		}
	}
	return out
}
