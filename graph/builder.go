package graph

import (
	"time"

	"go.uber.org/zap"

	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	grapherror "github.com/teranos/comex/graph/error"
	"github.com/teranos/comex/logger"
)

// ErrUnresolvedReference is wrapped by every edge resolution failure.
var ErrUnresolvedReference = errors.New("unresolved edge reference")

// Builder constructs models from a corpus.
type Builder struct {
	logger *zap.SugaredLogger
}

// NewBuilder creates a builder. A nil logger discards build diagnostics.
func NewBuilder(log *zap.SugaredLogger) *Builder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Builder{logger: log.Named("graph.build")}
}

// Build flattens c and resolves its edges with a silent builder.
func Build(c *corpus.Corpus) (*Model, error) {
	return NewBuilder(nil).Build(c)
}

// Build flattens c and resolves every raw edge through c.Idx2ID and the
// lookup table. The first edge that cannot be resolved aborts the build with
// a reference GraphError; no partial model is returned.
func (b *Builder) Build(c *corpus.Corpus) (*Model, error) {
	start := time.Now()

	splits, lookup := flatten(c)

	edges := make([]Edge, 0, len(c.Edges))
	for pos, raw := range c.Edges {
		source, err := resolve(c, lookup, pos, raw, "src", raw.Src)
		if err != nil {
			b.logger.Errorw("edge resolution failed", err.ToLogFields()...)
			return nil, err
		}
		target, err := resolve(c, lookup, pos, raw, "tgt", raw.Tgt)
		if err != nil {
			b.logger.Errorw("edge resolution failed", err.ToLogFields()...)
			return nil, err
		}
		edges = append(edges, Edge{
			Source:  source,
			Target:  target,
			Weights: raw.Weights,
			Src:     raw.Src,
			Tgt:     raw.Tgt,
		})
	}

	b.logger.Debugw("graph built",
		logger.FieldCommentCount, c.Len(),
		logger.FieldSplitCount, len(splits),
		logger.FieldEdgeCount, len(edges),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	return &Model{Splits: splits, Edges: edges, Lookup: lookup}, nil
}

func resolve(c *corpus.Corpus, lookup Lookup, pos int, raw corpus.RawEdge, side string, ref corpus.RawRef) (int, *grapherror.GraphError) {
	id, ok := c.Idx2ID[ref.CommentIndex()]
	if !ok {
		return 0, referenceError(lookup, pos, raw, grapherror.SubcategoryRefCommentIndex,
			errors.Wrapf(ErrUnresolvedReference, "edge %d: %s comment index %d not in idx2id", pos, side, ref.CommentIndex()))
	}
	idx, ok := lookup.Index(id, ref.Offset())
	if !ok {
		return 0, referenceError(lookup, pos, raw, grapherror.SubcategoryRefSplitOffset,
			errors.Wrapf(ErrUnresolvedReference, "edge %d: %s comment %q has no split %d", pos, side, id, ref.Offset()))
	}
	return idx, nil
}

func referenceError(lookup Lookup, pos int, raw corpus.RawEdge, sub string, err error) *grapherror.GraphError {
	partial := lookup.clone()
	err = errors.WithDetailf(err, "partial lookup: %v", partial)
	return grapherror.New(grapherror.CategoryReference, err, "").
		WithSubcategory(sub).
		WithContext("edge_position", pos).
		WithContext("edge", raw).
		WithContext("lookup", partial)
}

// IsReferenceError reports whether err is an edge resolution failure.
func IsReferenceError(err error) bool {
	return errors.Is(err, ErrUnresolvedReference)
}
