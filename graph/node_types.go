package graph

import (
	"sort"
)

// collectNodeTypeInfo counts nodes per author. Colors are assigned from the
// palette in order of first appearance so they stay stable across exports of
// the same corpus.
func collectNodeTypeInfo(nodes []Node) []NodeTypeInfo {
	typeCounts := make(map[string]int)
	var order []string
	for _, node := range nodes {
		if _, seen := typeCounts[node.Type]; !seen {
			order = append(order, node.Type)
		}
		typeCounts[node.Type]++
	}

	nodeTypes := make([]NodeTypeInfo, 0, len(order))
	for i, nodeType := range order {
		nodeTypes = append(nodeTypes, NodeTypeInfo{
			Type:  nodeType,
			Label: nodeType,
			Color: authorPalette[i%len(authorPalette)],
			Count: typeCounts[nodeType],
		})
	}

	// Most common types first in the legend
	sort.SliceStable(nodeTypes, func(i, j int) bool {
		return nodeTypes[i].Count > nodeTypes[j].Count
	})

	return nodeTypes
}
