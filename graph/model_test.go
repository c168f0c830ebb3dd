package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	grapherror "github.com/teranos/comex/graph/error"
)

// newCorpus builds a corpus with one comment per entry of counts, named
// c1, c2, ... and holding counts[i] splits each.
func newCorpus(t require.TestingT, counts ...int) *corpus.Corpus {
	c := corpus.New()
	for i, n := range counts {
		cm := &corpus.Comment{ID: fmt.Sprintf("c%d", i+1)}
		for j := 0; j < n; j++ {
			cm.Splits = append(cm.Splits, corpus.Split{Text: fmt.Sprintf("c%d split %d", i+1, j)})
		}
		require.NoError(t, c.Add(cm))
	}
	c.IndexComments()
	return c
}

func TestBuild_EndToEnd(t *testing.T) {
	c := newCorpus(t, 2, 1)
	c.Edges = []corpus.RawEdge{{Src: corpus.RawRef{0, 0}, Tgt: corpus.RawRef{1, 0}, Weights: []float64{5}}}
	require.Equal(t, map[int]string{0: "c1", 1: "c2"}, c.Idx2ID)

	m, err := NewBuilder(zaptest.NewLogger(t).Sugar()).Build(c)
	require.NoError(t, err)

	require.Len(t, m.Splits, 3)
	require.Len(t, m.Edges, 1)
	assert.Equal(t, 0, m.Edges[0].Source)
	assert.Equal(t, 2, m.Edges[0].Target)
	assert.Equal(t, []float64{5}, m.Edges[0].Weights)
	assert.Equal(t, corpus.RawRef{0, 0}, m.Edges[0].Src)
	assert.Equal(t, corpus.RawRef{1, 0}, m.Edges[0].Tgt)

	assert.Equal(t, Lookup{"c1": {0, 1}, "c2": {2}}, m.Lookup)
	assert.Equal(t, Origin{CommentID: "c1", Offset: 1}, m.Splits[1].Origin)
	assert.Equal(t, "c1 split 1", m.Splits[1].Text)
}

func TestBuild_EmptyCorpus(t *testing.T) {
	m, err := Build(corpus.New())
	require.NoError(t, err)
	assert.Zero(t, m.Len())
	assert.Empty(t, m.Edges)
}

func TestBuild_UsesIdx2ID(t *testing.T) {
	c := newCorpus(t, 1, 2)
	// Raw comment indices need not follow insertion order.
	c.Idx2ID = map[int]string{7: "c2", 3: "c1"}
	c.Edges = []corpus.RawEdge{{Src: corpus.RawRef{7, 1}, Tgt: corpus.RawRef{3, 0}}}

	m, err := Build(c)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Edges[0].Source)
	assert.Equal(t, 0, m.Edges[0].Target)
}

func TestBuild_ReferenceErrors(t *testing.T) {
	tests := []struct {
		name        string
		edge        corpus.RawEdge
		subcategory string
	}{
		{"source comment index missing", corpus.RawEdge{Src: corpus.RawRef{9, 0}, Tgt: corpus.RawRef{0, 0}}, grapherror.SubcategoryRefCommentIndex},
		{"target comment index missing", corpus.RawEdge{Src: corpus.RawRef{0, 0}, Tgt: corpus.RawRef{-1, 0}}, grapherror.SubcategoryRefCommentIndex},
		{"source offset out of range", corpus.RawEdge{Src: corpus.RawRef{1, 1}, Tgt: corpus.RawRef{0, 0}}, grapherror.SubcategoryRefSplitOffset},
		{"target offset negative", corpus.RawEdge{Src: corpus.RawRef{0, 0}, Tgt: corpus.RawRef{0, -1}}, grapherror.SubcategoryRefSplitOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCorpus(t, 2, 1)
			c.Edges = []corpus.RawEdge{
				{Src: corpus.RawRef{0, 0}, Tgt: corpus.RawRef{0, 1}},
				tt.edge,
			}

			m, err := Build(c)
			require.Error(t, err)
			assert.Nil(t, m, "no partial model on failure")
			assert.True(t, IsReferenceError(err))
			assert.True(t, errors.Is(err, ErrUnresolvedReference))

			ge, ok := grapherror.As(err)
			require.True(t, ok)
			assert.Equal(t, grapherror.CategoryReference, ge.Category)
			assert.Equal(t, tt.subcategory, ge.Subcategory)
			assert.Equal(t, 1, ge.Context["edge_position"])
			assert.Equal(t, tt.edge, ge.Context["edge"])
			assert.Equal(t, Lookup{"c1": {0, 1}, "c2": {2}}, ge.Context["lookup"])
			assert.NotEmpty(t, errors.GetAllDetails(err))
		})
	}
}

func TestLookupIndex(t *testing.T) {
	l := Lookup{"a": {4, 5}}
	idx, ok := l.Index("a", 1)
	assert.True(t, ok)
	assert.Equal(t, 5, idx)

	_, ok = l.Index("a", 2)
	assert.False(t, ok)
	_, ok = l.Index("b", 0)
	assert.False(t, ok)
}

func TestBuild_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(0, 6), 0, 8).Draw(t, "counts")
		c := newCorpus(t, counts...)

		// Only draw edges between comments that have splits.
		var populated []int
		for i, n := range counts {
			if n > 0 {
				populated = append(populated, i)
			}
		}
		if len(populated) > 0 {
			edgeCount := rapid.IntRange(0, 10).Draw(t, "edges")
			for k := 0; k < edgeCount; k++ {
				si := rapid.SampledFrom(populated).Draw(t, "src_comment")
				ti := rapid.SampledFrom(populated).Draw(t, "tgt_comment")
				c.Edges = append(c.Edges, corpus.RawEdge{
					Src:     corpus.RawRef{si, rapid.IntRange(0, counts[si]-1).Draw(t, "src_offset")},
					Tgt:     corpus.RawRef{ti, rapid.IntRange(0, counts[ti]-1).Draw(t, "tgt_offset")},
					Weights: []float64{rapid.Float64Range(0, 100).Draw(t, "weight")},
				})
			}
		}

		m, err := Build(c)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}

		total := 0
		for _, n := range counts {
			total += n
		}
		if m.Len() != total {
			t.Fatalf("got %d splits, want %d", m.Len(), total)
		}

		for _, cm := range c.Comments() {
			if len(m.Lookup[cm.ID]) != len(cm.Splits) {
				t.Fatalf("lookup[%s] has %d entries, want %d", cm.ID, len(m.Lookup[cm.ID]), len(cm.Splits))
			}
			for j, idx := range m.Lookup[cm.ID] {
				if got := m.Splits[idx].Origin; got != (Origin{CommentID: cm.ID, Offset: j}) {
					t.Fatalf("lookup[%s][%d] = %d has origin %+v", cm.ID, j, idx, got)
				}
			}
		}

		for i, s := range m.Splits {
			if s.Index != i {
				t.Fatalf("split %d carries index %d", i, s.Index)
			}
		}

		if len(m.Edges) != len(c.Edges) {
			t.Fatalf("resolved %d edges, want %d", len(m.Edges), len(c.Edges))
		}
		for k, e := range m.Edges {
			raw := c.Edges[k]
			if m.Splits[e.Source].Origin.CommentID != c.Idx2ID[raw.Src[0]] {
				t.Fatalf("edge %d source resolves to the wrong comment", k)
			}
			if m.Splits[e.Target].Origin.CommentID != c.Idx2ID[raw.Tgt[0]] {
				t.Fatalf("edge %d target resolves to the wrong comment", k)
			}
			if m.Splits[e.Source].Origin.Offset != raw.Src[1] || m.Splits[e.Target].Origin.Offset != raw.Tgt[1] {
				t.Fatalf("edge %d resolves to the wrong offset", k)
			}
		}
	})
}

func TestBuild_MissingIdx2IDNeverPartial(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(1, 4), 1, 5).Draw(t, "counts")
		c := newCorpus(t, counts...)
		missing := rapid.IntRange(len(counts), len(counts)+10).Draw(t, "missing")
		c.Edges = []corpus.RawEdge{{Src: corpus.RawRef{missing, 0}, Tgt: corpus.RawRef{0, 0}}}

		m, err := Build(c)
		if err == nil || m != nil {
			t.Fatalf("expected a reference error and no model, got model=%v err=%v", m, err)
		}
		if !IsReferenceError(err) {
			t.Fatalf("expected reference error, got %v", err)
		}
	})
}
