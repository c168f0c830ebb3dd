package graph

import (
	"fmt"
	"time"

	"github.com/teranos/comex/corpus"
	grapherror "github.com/teranos/comex/graph/error"
)

// ExportOptions controls what the export marks as hidden or invisible.
type ExportOptions struct {
	EdgesVisible bool
	Filters      corpus.ActiveFilters
}

// Export converts the model into the D3-style graph structure. c must be the
// corpus the model was built from.
func (m *Model) Export(c *corpus.Corpus, opts ExportOptions) *Graph {
	g := &Graph{
		Nodes: make([]Node, 0, len(m.Splits)),
		Links: make([]Link, 0, len(m.Edges)),
		Meta: Meta{
			GeneratedAt: time.Now(),
			Config: map[string]string{
				"edges_visible": fmt.Sprintf("%t", opts.EdgesVisible),
			},
		},
	}
	if opts.Filters.HighlightActive() {
		g.Meta.Config["highlight"] = opts.Filters.Highlight
	}
	if tr := opts.Filters.TimeRange; tr != nil {
		g.Meta.Config["time_range"] = tr.Start.Format(time.RFC3339) + "/" + tr.End.Format(time.RFC3339)
	}

	groups := make(map[string]int)
	for i, cm := range c.Comments() {
		groups[cm.ID] = i
	}

	for _, s := range m.Splits {
		node := Node{
			ID:      NodeID(s.Origin),
			Index:   s.Index,
			Type:    anonymousType,
			Label:   truncateLabel(s.Text),
			Visible: true,
			Group:   groups[s.Origin.CommentID],
			Metadata: map[string]interface{}{
				"comment_id": s.Origin.CommentID,
				"offset":     s.Origin.Offset,
			},
		}
		if cm, ok := c.Comment(s.Origin.CommentID); ok {
			if cm.Author != "" {
				node.Type = cm.Author
			}
			if !cm.Timestamp.IsZero() {
				node.Metadata["timestamp"] = cm.Timestamp.Format(time.RFC3339)
			}
			if opts.Filters.TimeRangeActive() && !cm.Filters.TimeRange {
				node.Visible = false
			}
			if cm.Filters.Highlight {
				node.Metadata["highlighted"] = true
			}
		}
		g.Nodes = append(g.Nodes, node)
	}

	for _, e := range m.Edges {
		linkType := LinkTypeCrossComment
		if m.Splits[e.Source].Origin.CommentID == m.Splits[e.Target].Origin.CommentID {
			linkType = LinkTypeSameComment
		}
		g.Links = append(g.Links, Link{
			Source: NodeID(m.Splits[e.Source].Origin),
			Target: NodeID(m.Splits[e.Target].Origin),
			Type:   linkType,
			Weight: e.Weight(0),
			All:    e.Weights,
			Hidden: !opts.EdgesVisible,
		})
	}

	g.Meta.Stats = Stats{
		TotalComments: c.Len(),
		TotalNodes:    len(g.Nodes),
		TotalEdges:    len(g.Links),
	}
	g.Meta.NodeTypes = collectNodeTypeInfo(g.Nodes)
	g.Meta.RelationshipTypes = collectRelationshipTypeInfo(g.Links)

	return g
}

// ErrorGraph returns an empty graph whose metadata describes err. A nil err
// yields an empty graph with no error metadata.
func ErrorGraph(err error) *Graph {
	g := &Graph{
		Nodes: []Node{},
		Links: []Link{},
		Meta:  Meta{GeneratedAt: time.Now(), Config: map[string]string{}},
	}
	if err == nil {
		return g
	}
	if ge, ok := grapherror.As(err); ok {
		g.Meta.Config = ge.ToGraphMeta()
	} else {
		g.Meta.Config["error"] = err.Error()
	}
	return g
}
