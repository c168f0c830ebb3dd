package edgefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/teranos/comex/config"
	"github.com/teranos/comex/corpus"
)

func edge(a, b, c, d int, w ...float64) corpus.RawEdge {
	return corpus.RawEdge{Src: corpus.RawRef{a, b}, Tgt: corpus.RawRef{c, d}, Weights: w}
}

// newCorpus builds comments c0..c(n-1) with the given split counts.
func newCorpus(t *testing.T, splits []int, edges ...corpus.RawEdge) *corpus.Corpus {
	t.Helper()
	c := corpus.New()
	for i, n := range splits {
		cm := &corpus.Comment{ID: string(rune('a' + i)), Splits: make([]corpus.Split, n)}
		require.NoError(t, c.Add(cm))
	}
	c.IndexComments()
	c.Edges = edges
	return c
}

func TestThreshold(t *testing.T) {
	c := newCorpus(t, []int{2, 2},
		edge(0, 0, 1, 0, 0.9),
		edge(0, 1, 1, 1, 0.5),
		edge(0, 0, 1, 1, 0.2),
		edge(1, 0, 0, 1),
	)

	got := Threshold{Index: 0, Min: 0.5}.Apply(c)
	assert.Equal(t, []corpus.RawEdge{c.Edges[0]}, got, "strictly greater")

	got = Threshold{Index: 0, Min: 0}.Apply(c)
	assert.Len(t, got, 3, "missing weights count as zero")

	assert.Len(t, c.Edges, 4, "corpus untouched")
}

func TestTopK(t *testing.T) {
	// a0 takes part in three edges, a1 and b0 in two, b1 in one.
	c := newCorpus(t, []int{2, 2},
		edge(0, 0, 1, 0, 0.1),
		edge(0, 0, 1, 1, 0.7),
		edge(0, 1, 1, 0, 0.3),
		edge(0, 0, 0, 1, 0.9),
	)

	got := TopK{Index: 0, K: 1}.Apply(c)
	// a0 keeps e3, a1 keeps e3 (dup), b0 keeps e2, b1 keeps e1.
	assert.Equal(t, []corpus.RawEdge{c.Edges[3], c.Edges[2], c.Edges[1]}, got)

	got = TopK{Index: 0, K: 2}.Apply(c)
	assert.Equal(t, []corpus.RawEdge{c.Edges[3], c.Edges[1], c.Edges[2], c.Edges[0]}, got)

	assert.Equal(t, c.Edges, TopK{K: 0}.Apply(c), "disabled")
}

func TestTopK_Names(t *testing.T) {
	assert.Equal(t, "bsef", TopK{Index: WeightSimilarity}.Name())
	assert.Equal(t, "brtef", TopK{Index: WeightReplyTo}.Name())
	assert.Equal(t, "topk", TopK{Index: 5}.Name())
	assert.Equal(t, "sef", Threshold{}.Name())
	assert.Equal(t, "prf", PageRank{}.Name())
	assert.Equal(t, "sef+prf", Chain{Threshold{}, PageRank{}}.Name())
}

func TestTopK_SelfLoopCountedOnce(t *testing.T) {
	c := newCorpus(t, []int{1, 1},
		edge(0, 0, 0, 0, 0.9),
		edge(0, 0, 1, 0, 0.5),
	)
	got := TopK{Index: 0, K: 1}.Apply(c)
	assert.Equal(t, []corpus.RawEdge{c.Edges[0], c.Edges[1]}, got)
}

// star points four leaves at a hub and links two leaves.
func star(t *testing.T) *corpus.Corpus {
	return newCorpus(t, []int{1, 1, 1, 1, 1},
		edge(1, 0, 0, 0, 1),
		edge(2, 0, 0, 0, 1),
		edge(3, 0, 0, 0, 1),
		edge(4, 0, 0, 0, 1),
		edge(1, 0, 2, 0, 1),
	)
}

func TestRank(t *testing.T) {
	ranked := Rank(star(t))
	require.Len(t, ranked, 5)
	assert.Equal(t, corpus.RawRef{0, 0}, ranked[0])

	assert.Nil(t, Rank(corpus.New()))
}

func TestPageRank(t *testing.T) {
	c := star(t)

	loose := PageRank{K: 1}.Apply(c)
	assert.Equal(t, c.Edges[:4], loose)

	strict := PageRank{K: 1, Strict: true}.Apply(c)
	assert.Empty(t, strict)

	all := PageRank{K: 5, Strict: true}.Apply(c)
	assert.Equal(t, c.Edges, all)

	assert.Equal(t, c.Edges, PageRank{}.Apply(c), "disabled")
}

func TestPageRank_IgnoresDanglingReferences(t *testing.T) {
	c := newCorpus(t, []int{1, 1},
		edge(0, 0, 1, 0, 1),
		edge(0, 0, 7, 3, 1),
	)
	assert.NotPanics(t, func() { PageRank{K: 1}.Apply(c) })
}

func TestChain(t *testing.T) {
	c := newCorpus(t, []int{2, 2},
		edge(0, 0, 1, 0, 0.1),
		edge(0, 0, 1, 1, 0.7),
		edge(0, 1, 1, 0, 0.3),
	)

	got := Chain{Threshold{Min: 0.2}, TopK{K: 1}}.Apply(c)
	assert.Equal(t, []corpus.RawEdge{c.Edges[1], c.Edges[2]}, got)

	assert.Equal(t, c.Edges, Chain(nil).Apply(c))
	assert.Len(t, c.Edges, 3)
}

func TestFromConfig(t *testing.T) {
	assert.Empty(t, FromConfig(config.EdgesConfig{}))

	threshold := 0.5
	ch := FromConfig(config.EdgesConfig{
		WeightIndex:    1,
		Threshold:      &threshold,
		TopK:           3,
		PageRankK:      10,
		PageRankStrict: true,
	})
	require.Len(t, ch, 3)
	assert.Equal(t, Threshold{Index: 1, Min: 0.5}, ch[0])
	assert.Equal(t, TopK{Index: 1, K: 3}, ch[1])
	assert.Equal(t, PageRank{K: 10, Strict: true}, ch[2])
}

func TestFilters_Subset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "comments")
		c := corpus.New()
		for i := 0; i < n; i++ {
			_ = c.Add(&corpus.Comment{ID: string(rune('a' + i)), Splits: make([]corpus.Split, 2)})
		}
		c.IndexComments()
		m := rapid.IntRange(0, 20).Draw(t, "edges")
		for i := 0; i < m; i++ {
			c.Edges = append(c.Edges, edge(
				rapid.IntRange(0, n-1).Draw(t, "sc"), rapid.IntRange(0, 1).Draw(t, "ss"),
				rapid.IntRange(0, n-1).Draw(t, "tc"), rapid.IntRange(0, 1).Draw(t, "ts"),
				rapid.Float64Range(0, 1).Draw(t, "w"),
			))
		}
		k := rapid.IntRange(1, 4).Draw(t, "k")

		for _, f := range []Filter{Threshold{Min: 0.5}, TopK{K: k}, PageRank{K: k}, PageRank{K: k, Strict: true}} {
			out := f.Apply(c)
			if len(out) > len(c.Edges) {
				t.Fatalf("%s grew the edge list: %d > %d", f.Name(), len(out), len(c.Edges))
			}
		}
	})
}
