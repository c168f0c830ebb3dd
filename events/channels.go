package events

import "github.com/teranos/comex/corpus"

// Redraw requests a full teardown and rebuild of the drawing.
type Redraw struct{}

// ConfigChange reports that one drawing configuration key changed.
type ConfigChange struct {
	Key   string
	Value any
}

// CommentSelected asks for the highlight of a comment to be toggled.
type CommentSelected struct {
	CommentID string
}

// FiltersUpdated carries the filter state after a mutation.
type FiltersUpdated struct {
	Filters corpus.ActiveFilters
}

// TimeRangeSelected sets (or, with a nil Range, clears) the time filter.
type TimeRangeSelected struct {
	Range *corpus.TimeRange
}

// Channel names.
const (
	NameRedraw               = "redraw"
	NameDrawingConfigChanged = "drawing-config-changed"
	NameCommentSelected      = "comment-selected"
	NameFiltersUpdated       = "filters-updated"
	NameTimeRangeSelected    = "time-range-selected"
)

var (
	RedrawRequested      = NewChannel[Redraw](NameRedraw)
	DrawingConfigChanged = NewChannel[ConfigChange](NameDrawingConfigChanged)
	CommentSelection     = NewChannel[CommentSelected](NameCommentSelected)
	FiltersChanged       = NewChannel[FiltersUpdated](NameFiltersUpdated)
	TimeRangeSelection   = NewChannel[TimeRangeSelected](NameTimeRangeSelected)
)

// Drawing configuration keys.
const (
	// KeyLinksVisible toggles edge visibility; the value is a bool.
	KeyLinksVisible = "LINKS_VISIBLE"
)
