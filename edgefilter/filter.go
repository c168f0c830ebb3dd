// Package edgefilter prunes the raw edge list of a corpus before a graph is
// built from it.
package edgefilter

import (
	"sort"

	"github.com/teranos/comex/corpus"
)

// Weight vector positions produced by the corpus pipeline.
const (
	WeightSimilarity = 0
	WeightReplyTo    = 1
)

// Filter selects a subset of a corpus' raw edges. Filters never modify the
// corpus they are given.
type Filter interface {
	Name() string
	Apply(c *corpus.Corpus) []corpus.RawEdge
}

// Threshold keeps edges whose weight at Index is strictly greater than Min.
type Threshold struct {
	Index int
	Min   float64
}

// Name returns "sef".
func (Threshold) Name() string { return "sef" }

// Apply filters c.Edges in order.
func (f Threshold) Apply(c *corpus.Corpus) []corpus.RawEdge {
	out := make([]corpus.RawEdge, 0, len(c.Edges))
	for _, e := range c.Edges {
		if e.Weight(f.Index) > f.Min {
			out = append(out, e)
		}
	}
	return out
}

// TopK keeps, for every split, the K heaviest edges it takes part in as
// source or target. The result is the union over all splits in the order
// edges were first kept. A K of zero or less keeps every edge.
type TopK struct {
	Index int
	K     int
}

// Name returns "bsef" for similarity weights, "brtef" for reply-to weights
// and "topk" otherwise.
func (f TopK) Name() string {
	switch f.Index {
	case WeightSimilarity:
		return "bsef"
	case WeightReplyTo:
		return "brtef"
	default:
		return "topk"
	}
}

// Apply walks splits in comment order.
func (f TopK) Apply(c *corpus.Corpus) []corpus.RawEdge {
	if f.K <= 0 {
		return append([]corpus.RawEdge(nil), c.Edges...)
	}

	incident := make(map[corpus.RawRef][]int)
	for i, e := range c.Edges {
		incident[e.Src] = append(incident[e.Src], i)
		if e.Tgt != e.Src {
			incident[e.Tgt] = append(incident[e.Tgt], i)
		}
	}

	kept := make(map[int]bool)
	var out []corpus.RawEdge
	for _, ref := range splitRefs(c) {
		edges := append([]int(nil), incident[ref]...)
		sort.SliceStable(edges, func(a, b int) bool {
			return c.Edges[edges[a]].Weight(f.Index) > c.Edges[edges[b]].Weight(f.Index)
		})
		if len(edges) > f.K {
			edges = edges[:f.K]
		}
		for _, i := range edges {
			if !kept[i] {
				kept[i] = true
				out = append(out, c.Edges[i])
			}
		}
	}
	return out
}

// Chain applies filters in sequence, each one seeing the edges left by the
// previous.
type Chain []Filter

// Name joins the member names with "+".
func (ch Chain) Name() string {
	name := ""
	for i, f := range ch {
		if i > 0 {
			name += "+"
		}
		name += f.Name()
	}
	return name
}

// Apply runs every filter. An empty chain returns a copy of c.Edges.
func (ch Chain) Apply(c *corpus.Corpus) []corpus.RawEdge {
	edges := append([]corpus.RawEdge(nil), c.Edges...)
	for _, f := range ch {
		edges = f.Apply(c.WithEdges(edges))
	}
	return edges
}

// splitRefs lists every split reachable through Idx2ID, comments in
// insertion order and splits in order.
func splitRefs(c *corpus.Corpus) []corpus.RawRef {
	id2idx := make(map[string]int, len(c.Idx2ID))
	for idx, id := range c.Idx2ID {
		if prev, ok := id2idx[id]; !ok || idx < prev {
			id2idx[id] = idx
		}
	}
	var refs []corpus.RawRef
	for _, cm := range c.Comments() {
		idx, ok := id2idx[cm.ID]
		if !ok {
			continue
		}
		for j := range cm.Splits {
			refs = append(refs, corpus.RawRef{idx, j})
		}
	}
	return refs
}
