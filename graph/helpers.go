package graph

import (
	"strconv"
	"strings"
)

// NodeID returns the export id of a split: "<comment id>:<offset>".
func NodeID(o Origin) string {
	return o.CommentID + ":" + strconv.Itoa(o.Offset)
}

// ParseNodeID reverses NodeID. Comment ids may themselves contain colons;
// the offset is everything after the last one.
func ParseNodeID(id string) (Origin, bool) {
	i := strings.LastIndexByte(id, ':')
	if i <= 0 {
		return Origin{}, false
	}
	offset, err := strconv.Atoi(id[i+1:])
	if err != nil || offset < 0 {
		return Origin{}, false
	}
	return Origin{CommentID: id[:i], Offset: offset}, true
}

// truncateLabel collapses whitespace and shortens text to maxLabelRunes,
// appending an ellipsis when cut.
func truncateLabel(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxLabelRunes {
		return text
	}
	return string(runes[:maxLabelRunes-1]) + "…"
}
