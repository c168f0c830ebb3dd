package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/graph"
	grapherror "github.com/teranos/comex/graph/error"
)

func twoComments(t *testing.T) *corpus.Corpus {
	t.Helper()
	c := corpus.New()
	require.NoError(t, c.Add(&corpus.Comment{ID: "c1", Splits: []corpus.Split{{Text: "a"}}}))
	require.NoError(t, c.Add(&corpus.Comment{ID: "c2", Splits: []corpus.Split{{Text: "b"}}}))
	c.IndexComments()
	return c
}

func TestSentinels_FromCorpus(t *testing.T) {
	c := twoComments(t)

	err := c.Add(&corpus.Comment{ID: "c1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidData))
	assert.False(t, errors.IsNotFoundError(err))
	assert.Contains(t, err.Error(), `"c1"`)

	err = c.Add(&corpus.Comment{})
	assert.True(t, errors.Is(err, errors.ErrInvalidData))
}

func TestSentinels_Kinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		notFound   bool
		badRequest bool
	}{
		{"unknown comment", errors.NewNotFoundError("comment %q", "c9"), true, false},
		{"bad config key", errors.NewInvalidRequestError("unknown config key %s", "NODE_LABELS"), false, true},
		{"bad idx2id", errors.NewInvalidDataError("idx2id key %q is not an integer", "x"), false, false},
		{"plain", errors.New("layout diverged"), false, false},
		{"nil", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, errors.IsNotFoundError(tt.err))
			assert.Equal(t, tt.badRequest, errors.IsInvalidRequestError(tt.err))
		})
	}
}

func TestReferenceErrorChain(t *testing.T) {
	c := twoComments(t)
	c.Edges = []corpus.RawEdge{{Src: corpus.RawRef{0, 0}, Tgt: corpus.RawRef{1, 3}}}

	_, err := graph.Build(c)
	require.Error(t, err)

	wrapped := errors.Wrap(err, "redraw")
	assert.True(t, errors.Is(wrapped, graph.ErrUnresolvedReference))
	assert.True(t, graph.IsReferenceError(wrapped))
	assert.Contains(t, wrapped.Error(), "redraw")
	assert.Contains(t, wrapped.Error(), `"c2" has no split 3`)

	ge, ok := grapherror.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, grapherror.CategoryReference, ge.Category)

	details := errors.GetAllDetails(wrapped)
	require.NotEmpty(t, details)
	assert.Contains(t, details[0], "partial lookup")
}

func TestWrapKeepsCauseAndHints(t *testing.T) {
	base := errors.NewNotFoundError("corpus %s", "missing.json")
	err := errors.WithHint(errors.Wrapf(base, "serve %s", "missing.json"), "pass a corpus path or set corpus.path")
	err = errors.WithDetail(err, "searched the working directory")

	assert.True(t, errors.IsNotFoundError(err))
	assert.Equal(t, []string{"pass a corpus path or set corpus.path"}, errors.GetAllHints(err))
	assert.Equal(t, []string{"searched the working directory"}, errors.GetAllDetails(err))
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func TestNilPassesThrough(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "load corpus"))
	assert.Nil(t, errors.Wrapf(nil, "load %s", "corpus.json"))
	assert.Nil(t, errors.WithHint(nil, "hint"))
}

func ExampleNewInvalidDataError() {
	err := errors.NewInvalidDataError("duplicate comment id %q", "c1")
	fmt.Println(err)
	fmt.Println(errors.Is(err, errors.ErrInvalidData))
	// Output:
	// duplicate comment id "c1": invalid data
	// true
}
