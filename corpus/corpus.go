// Package corpus holds the comment data a graph is drawn from: comments in
// insertion order, each with ordered splits, the raw edge list that
// references splits by (comment index, split offset), the idx2id table that
// bridges comment indices to comment ids, and the shared ActiveFilters.
package corpus

import (
	"sort"
	"time"

	"github.com/teranos/comex/errors"
)

// Split is one ordered sub-unit of a comment.
type Split struct {
	Text string `json:"text"`
}

// CommentFilters mirrors the global ActiveFilters onto a single comment.
// Highlight is true only for the highlighted comment; TimeRange is true when
// the comment falls inside the active time range.
type CommentFilters struct {
	Highlight bool
	TimeRange bool
}

// Comment is a single user comment decomposed into splits.
type Comment struct {
	ID        string
	Author    string
	Timestamp time.Time
	Splits    []Split
	Filters   CommentFilters
}

// RawRef addresses a split by (comment index, split offset within comment).
type RawRef [2]int

// CommentIndex returns the comment index half of the reference.
func (r RawRef) CommentIndex() int { return r[0] }

// Offset returns the split offset half of the reference.
func (r RawRef) Offset() int { return r[1] }

// RawEdge is an edge as delivered by the data source.
type RawEdge struct {
	Src     RawRef    `json:"src"`
	Tgt     RawRef    `json:"tgt"`
	Weights []float64 `json:"wgts"`
}

// Weight returns the weight at index i, or 0 when the vector is shorter.
func (e RawEdge) Weight(i int) float64 {
	if i < 0 || i >= len(e.Weights) {
		return 0
	}
	return e.Weights[i]
}

// TimeRange is an inclusive time interval.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ActiveFilters is the state shared by every component that styles nodes.
// An empty Highlight means no comment is highlighted; a nil TimeRange means
// no time filter is active.
type ActiveFilters struct {
	Highlight string
	TimeRange *TimeRange
}

// HighlightActive reports whether a comment is currently highlighted.
func (f ActiveFilters) HighlightActive() bool {
	return f.Highlight != ""
}

// TimeRangeActive reports whether a time range filter is set.
func (f ActiveFilters) TimeRangeActive() bool {
	return f.TimeRange != nil
}

// Clone returns a copy that shares no pointers with f.
func (f ActiveFilters) Clone() ActiveFilters {
	out := ActiveFilters{Highlight: f.Highlight}
	if f.TimeRange != nil {
		r := *f.TimeRange
		out.TimeRange = &r
	}
	return out
}

// Corpus is the data source for one drawing.
type Corpus struct {
	order    []string
	comments map[string]*Comment

	Edges   []RawEdge
	Idx2ID  map[int]string
	Filters *ActiveFilters
}

// New returns an empty corpus with cleared filters.
func New() *Corpus {
	return &Corpus{
		comments: make(map[string]*Comment),
		Idx2ID:   make(map[int]string),
		Filters:  &ActiveFilters{},
	}
}

// Add appends a comment. Comment ids must be non-empty and unique.
func (c *Corpus) Add(cm *Comment) error {
	if cm == nil || cm.ID == "" {
		return errors.NewInvalidDataError("comment id must not be empty")
	}
	if _, exists := c.comments[cm.ID]; exists {
		return errors.NewInvalidDataError("duplicate comment id %q", cm.ID)
	}
	c.order = append(c.order, cm.ID)
	c.comments[cm.ID] = cm
	return nil
}

// Comments returns the comments in insertion order.
func (c *Corpus) Comments() []*Comment {
	out := make([]*Comment, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.comments[id])
	}
	return out
}

// Comment looks up a comment by id.
func (c *Corpus) Comment(id string) (*Comment, bool) {
	cm, ok := c.comments[id]
	return cm, ok
}

// Len returns the number of comments.
func (c *Corpus) Len() int {
	return len(c.order)
}

// SplitCount returns the total number of splits over all comments.
func (c *Corpus) SplitCount() int {
	n := 0
	for _, id := range c.order {
		n += len(c.comments[id].Splits)
	}
	return n
}

// Text returns the text of split j of the given comment.
func (c *Corpus) Text(id string, j int) (string, bool) {
	cm, ok := c.comments[id]
	if !ok || j < 0 || j >= len(cm.Splits) {
		return "", false
	}
	return cm.Splits[j].Text, true
}

// IndexComments fills Idx2ID from insertion order when the data source did
// not provide one.
func (c *Corpus) IndexComments() {
	if len(c.Idx2ID) > 0 {
		return
	}
	c.Idx2ID = make(map[int]string, len(c.order))
	for i, id := range c.order {
		c.Idx2ID[i] = id
	}
}

// CommentIndices returns the idx2id keys in ascending order.
func (c *Corpus) CommentIndices() []int {
	keys := make([]int, 0, len(c.Idx2ID))
	for k := range c.Idx2ID {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Bounds returns the time span covered by comments with a timestamp.
func (c *Corpus) Bounds() (TimeRange, bool) {
	var r TimeRange
	found := false
	for _, id := range c.order {
		ts := c.comments[id].Timestamp
		if ts.IsZero() {
			continue
		}
		if !found || ts.Before(r.Start) {
			r.Start = ts
		}
		if !found || ts.After(r.End) {
			r.End = ts
		}
		found = true
	}
	return r, found
}

// WithEdges returns a shallow copy of c carrying edges instead of c.Edges.
// Comments, Idx2ID and Filters are shared with c.
func (c *Corpus) WithEdges(edges []RawEdge) *Corpus {
	out := *c
	out.Edges = edges
	return &out
}
