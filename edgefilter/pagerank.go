package edgefilter

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/teranos/comex/corpus"
)

const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// PageRank keeps edges touching the K highest ranked splits. With Strict
// both endpoints must be in the top K. A K of zero or less keeps every edge.
type PageRank struct {
	K      int
	Strict bool
}

// Name returns "prf".
func (PageRank) Name() string { return "prf" }

// Apply ranks splits over the directed split graph formed by c.Edges.
func (f PageRank) Apply(c *corpus.Corpus) []corpus.RawEdge {
	if f.K <= 0 {
		return append([]corpus.RawEdge(nil), c.Edges...)
	}

	top := make(map[corpus.RawRef]bool, f.K)
	for _, ref := range Rank(c) {
		if len(top) == f.K {
			break
		}
		top[ref] = true
	}

	out := make([]corpus.RawEdge, 0, len(c.Edges))
	for _, e := range c.Edges {
		src, tgt := top[e.Src], top[e.Tgt]
		if (f.Strict && src && tgt) || (!f.Strict && (src || tgt)) {
			out = append(out, e)
		}
	}
	return out
}

// Rank orders every split by descending PageRank. Ties keep comment order.
// Self loops and edges to splits outside the corpus do not take part.
func Rank(c *corpus.Corpus) []corpus.RawRef {
	refs := splitRefs(c)
	if len(refs) == 0 {
		return nil
	}

	g := simple.NewDirectedGraph()
	ids := make(map[corpus.RawRef]int64, len(refs))
	for i, ref := range refs {
		n := simple.Node(int64(i))
		g.AddNode(n)
		ids[ref] = n.ID()
	}
	for _, e := range c.Edges {
		from, ok := ids[e.Src]
		if !ok {
			continue
		}
		to, ok := ids[e.Tgt]
		if !ok || from == to {
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(from), g.Node(to)))
	}

	scores := network.PageRank(g, pageRankDamping, pageRankTolerance)

	order := make([]int, len(refs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[int64(order[a])] > scores[int64(order[b])]
	})

	out := make([]corpus.RawRef, len(order))
	for i, j := range order {
		out[i] = refs[j]
	}
	return out
}
