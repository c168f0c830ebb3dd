// Package graph turns a comment corpus into the node-link model the drawing
// is bound to. Nodes are splits, numbered densely in the order comments and
// their splits are visited; edges are raw (comment index, offset) references
// resolved to those numbers.
package graph

import (
	"github.com/teranos/comex/corpus"
)

// Origin locates a split inside its comment.
type Origin struct {
	CommentID string `json:"comment_id"`
	Offset    int    `json:"offset"`
}

// Split is one node of the model.
type Split struct {
	Index  int    `json:"index"`
	Origin Origin `json:"origin"`
	Text   string `json:"text"`
}

// Edge is a raw edge resolved to global split indices. Src and Tgt keep the
// raw references for diagnostics.
type Edge struct {
	Source  int           `json:"source"`
	Target  int           `json:"target"`
	Weights []float64     `json:"weights"`
	Src     corpus.RawRef `json:"src"`
	Tgt     corpus.RawRef `json:"tgt"`
}

// Weight returns the weight at index i, or 0 when absent.
func (e Edge) Weight(i int) float64 {
	if i < 0 || i >= len(e.Weights) {
		return 0
	}
	return e.Weights[i]
}

// Lookup maps a comment id to the global indices of its splits, in offset order.
type Lookup map[string][]int

// Index returns the global index of split offset of comment id.
func (l Lookup) Index(id string, offset int) (int, bool) {
	indices, ok := l[id]
	if !ok || offset < 0 || offset >= len(indices) {
		return 0, false
	}
	return indices[offset], true
}

func (l Lookup) clone() Lookup {
	out := make(Lookup, len(l))
	for id, indices := range l {
		out[id] = append([]int(nil), indices...)
	}
	return out
}

// Model is the flattened corpus. It is rebuilt on every redraw and its
// indices are only meaningful within one instance.
type Model struct {
	Splits []Split
	Edges  []Edge
	Lookup Lookup
}

// Len returns the number of splits.
func (m *Model) Len() int {
	return len(m.Splits)
}

// CommentOf returns the comment id owning split i.
func (m *Model) CommentOf(i int) (string, bool) {
	if i < 0 || i >= len(m.Splits) {
		return "", false
	}
	return m.Splits[i].Origin.CommentID, true
}

// flatten assigns global indices to every split of c in visit order.
func flatten(c *corpus.Corpus) ([]Split, Lookup) {
	splits := make([]Split, 0, c.SplitCount())
	lookup := make(Lookup, c.Len())
	for _, cm := range c.Comments() {
		indices := make([]int, 0, len(cm.Splits))
		for j, s := range cm.Splits {
			idx := len(splits)
			splits = append(splits, Split{
				Index:  idx,
				Origin: Origin{CommentID: cm.ID, Offset: j},
				Text:   s.Text,
			})
			indices = append(indices, idx)
		}
		lookup[cm.ID] = indices
	}
	return splits, lookup
}
