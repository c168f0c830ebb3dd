package graph

import (
	"sort"
)

var relationshipLabels = map[string]string{
	LinkTypeSameComment:  "Within comment",
	LinkTypeCrossComment: "Across comments",
}

// collectRelationshipTypeInfo counts links per type, most common first.
func collectRelationshipTypeInfo(links []Link) []RelationshipTypeInfo {
	typeCounts := make(map[string]int)
	for _, link := range links {
		typeCounts[link.Type]++
	}

	relationshipTypes := make([]RelationshipTypeInfo, 0, len(typeCounts))
	for linkType, count := range typeCounts {
		label, ok := relationshipLabels[linkType]
		if !ok {
			label = linkType
		}
		relationshipTypes = append(relationshipTypes, RelationshipTypeInfo{
			Type:  linkType,
			Label: label,
			Count: count,
		})
	}

	sort.Slice(relationshipTypes, func(i, j int) bool {
		if relationshipTypes[i].Count != relationshipTypes[j].Count {
			return relationshipTypes[i].Count > relationshipTypes[j].Count
		}
		return relationshipTypes[i].Type < relationshipTypes[j].Type
	})

	return relationshipTypes
}
