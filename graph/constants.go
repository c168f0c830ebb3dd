package graph

const (
	// Node type for splits whose comment has no author
	anonymousType = "anonymous"

	// Link types
	LinkTypeSameComment  = "same_comment"
	LinkTypeCrossComment = "cross_comment"

	// Maximum label length before truncation
	maxLabelRunes = 48
)

// authorPalette colors node types in order of first appearance
var authorPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}
