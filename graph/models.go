package graph

import (
	"time"
)

// Graph is the D3-style export of a model
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
	Meta  Meta   `json:"meta"`
}

// Node represents one split in the export
type Node struct {
	ID       string                 `json:"id"`              // "<comment id>:<offset>"
	Index    int                    `json:"index"`           // Global split index
	Type     string                 `json:"type"`            // Comment author, or "anonymous"
	Label    string                 `json:"label"`           // Truncated split text
	Visible  bool                   `json:"visible"`         // False when a time range filter excludes the comment
	Group    int                    `json:"group,omitempty"` // Position of the owning comment, for coloring
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Link represents a resolved edge
type Link struct {
	Source string    `json:"source"`           // Node ID
	Target string    `json:"target"`           // Node ID
	Type   string    `json:"type"`             // LinkTypeSameComment or LinkTypeCrossComment
	Weight float64   `json:"value"`            // First weight (D3 uses "value")
	All    []float64 `json:"wgts,omitempty"`   // Full weight vector
	Hidden bool      `json:"hidden,omitempty"` // Edge visibility switched off
}

// Meta contains metadata about the graph
type Meta struct {
	GeneratedAt       time.Time              `json:"generated_at"`
	Stats             Stats                  `json:"stats"`
	Config            map[string]string      `json:"config"`
	NodeTypes         []NodeTypeInfo         `json:"node_types"`
	RelationshipTypes []RelationshipTypeInfo `json:"relationship_types"`
}

// NodeTypeInfo describes one author's share of the nodes
type NodeTypeInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count,omitempty"`
}

// RelationshipTypeInfo describes one link type
type RelationshipTypeInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Count int    `json:"count,omitempty"`
}

// Stats provides graph statistics
type Stats struct {
	TotalComments int `json:"total_comments,omitempty"`
	TotalNodes    int `json:"total_nodes,omitempty"`
	TotalEdges    int `json:"total_edges,omitempty"`
}
