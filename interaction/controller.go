// Package interaction owns the shared filter state. It is the only code that
// writes corpus.ActiveFilters or the per-comment mirrors, and every write ends
// with a filters-updated notification.
package interaction

import (
	"go.uber.org/zap"

	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/events"
	"github.com/teranos/comex/graph"
	"github.com/teranos/comex/logger"
)

// Scene is the part of the current drawing the controller drives directly.
type Scene interface {
	SetEdgesVisible(on bool)
	Reposition()
}

// Options configures a Controller.
type Options struct {
	EdgesVisible bool
	Logger       *zap.SugaredLogger
}

// Controller handles clicks, highlight toggles, time range selection and
// drawing config changes.
type Controller struct {
	bus    *events.Bus
	owner  string
	corpus *corpus.Corpus
	scene  Scene

	edgesVisible bool

	subs   []events.Subscription
	logger *zap.SugaredLogger
}

// New subscribes a controller to comment-selected, time-range-selected and
// drawing-config-changed.
func New(bus *events.Bus, c *corpus.Corpus, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	ic := &Controller{
		bus:          bus,
		owner:        bus.Owner("interaction"),
		corpus:       c,
		edgesVisible: opts.EdgesVisible,
		logger:       log.Named("interaction"),
	}

	ic.subs = []events.Subscription{
		events.On(bus, events.CommentSelection, ic.owner, ic.onCommentSelected),
		events.On(bus, events.TimeRangeSelection, ic.owner, ic.onTimeRangeSelected),
		events.On(bus, events.DrawingConfigChanged, ic.owner, ic.onConfigChange),
	}
	return ic
}

// Owner returns the tag under which the controller holds its subscriptions.
func (ic *Controller) Owner() string {
	return ic.owner
}

// OnNodeClick broadcasts comment-selected for the comment owning s.
func (ic *Controller) OnNodeClick(s graph.Split) {
	events.Emit(ic.bus, events.CommentSelection, events.CommentSelected{CommentID: s.Origin.CommentID})
}

// SelectComment broadcasts comment-selected for id, as a click on one of its
// nodes would.
func (ic *Controller) SelectComment(id string) {
	events.Emit(ic.bus, events.CommentSelection, events.CommentSelected{CommentID: id})
}

// SelectTimeRange broadcasts time-range-selected. A nil range clears the filter.
func (ic *Controller) SelectTimeRange(r *corpus.TimeRange) {
	events.Emit(ic.bus, events.TimeRangeSelection, events.TimeRangeSelected{Range: r})
}

// ChangeConfig broadcasts drawing-config-changed.
func (ic *Controller) ChangeConfig(key string, value any) {
	events.Emit(ic.bus, events.DrawingConfigChanged, events.ConfigChange{Key: key, Value: value})
}

// onCommentSelected toggles the highlight. While any comment is highlighted,
// every selection clears it, whichever comment was clicked; only a selection
// made with nothing highlighted sets a new highlight.
func (ic *Controller) onCommentSelected(e events.CommentSelected) {
	filters := ic.corpus.Filters

	if filters.HighlightActive() {
		if cm, ok := ic.corpus.Comment(filters.Highlight); ok {
			cm.Filters.Highlight = false
		}
		ic.logger.Debugw("highlight cleared",
			logger.FieldCommentID, filters.Highlight,
			"clicked", e.CommentID,
		)
		filters.Highlight = ""
		ic.broadcast()
		return
	}

	cm, ok := ic.corpus.Comment(e.CommentID)
	if !ok {
		ic.logger.Warnw("selected comment not in corpus", logger.FieldCommentID, e.CommentID)
		return
	}
	cm.Filters.Highlight = true
	filters.Highlight = e.CommentID
	ic.logger.Debugw("highlight set", logger.FieldCommentID, e.CommentID)
	ic.broadcast()
}

func (ic *Controller) onTimeRangeSelected(e events.TimeRangeSelected) {
	var r *corpus.TimeRange
	if e.Range != nil {
		cp := *e.Range
		r = &cp
	}
	ic.corpus.Filters.TimeRange = r
	ic.syncTimeRange()

	if r != nil {
		ic.logger.Debugw("time range set", "start", r.Start, "end", r.End)
	} else {
		ic.logger.Debugw("time range cleared")
	}
	ic.broadcast()
}

func (ic *Controller) syncTimeRange() {
	r := ic.corpus.Filters.TimeRange
	for _, cm := range ic.corpus.Comments() {
		cm.Filters.TimeRange = r != nil && !cm.Timestamp.IsZero() && r.Contains(cm.Timestamp)
	}
}

func (ic *Controller) onConfigChange(e events.ConfigChange) {
	switch e.Key {
	case events.KeyLinksVisible:
		on, ok := e.Value.(bool)
		if !ok {
			ic.logger.Warnw("config value is not a bool", logger.FieldKey, e.Key, logger.FieldValue, e.Value)
			return
		}
		ic.edgesVisible = on
		if ic.scene == nil {
			return
		}
		ic.scene.SetEdgesVisible(on)
		if on {
			// Draw edges at the current positions instead of waiting for a tick.
			ic.scene.Reposition()
		}
	default:
		ic.logger.Debugw("config change ignored", logger.FieldKey, e.Key)
	}
}

func (ic *Controller) broadcast() {
	events.Emit(ic.bus, events.FiltersChanged, events.FiltersUpdated{Filters: ic.corpus.Filters.Clone()})
}

// Bind attaches the scene of the current redraw cycle. The scene is built
// with the held edge visibility, so Bind does not toggle it.
func (ic *Controller) Bind(s Scene) {
	ic.scene = s
}

// Unbind detaches the current scene.
func (ic *Controller) Unbind() {
	ic.scene = nil
}

// EdgesVisible reports the held edge visibility.
func (ic *Controller) EdgesVisible() bool {
	return ic.edgesVisible
}

// Filters returns a copy of the shared filter state.
func (ic *Controller) Filters() corpus.ActiveFilters {
	return ic.corpus.Filters.Clone()
}

// Corpus returns the corpus whose filters the controller writes.
func (ic *Controller) Corpus() *corpus.Corpus {
	return ic.corpus
}

// SetCorpus switches to a reloaded corpus, carrying the filter state over.
// A highlight on a comment that no longer exists is dropped.
func (ic *Controller) SetCorpus(c *corpus.Corpus) {
	prev := ic.corpus.Filters.Clone()
	ic.corpus = c

	*c.Filters = corpus.ActiveFilters{TimeRange: prev.TimeRange}
	for _, cm := range c.Comments() {
		cm.Filters.Highlight = false
	}
	if cm, ok := c.Comment(prev.Highlight); ok {
		cm.Filters.Highlight = true
		c.Filters.Highlight = prev.Highlight
	}
	ic.syncTimeRange()

	ic.logger.Infow("corpus replaced", logger.FieldCommentCount, c.Len())
	ic.broadcast()
}

// Close detaches every subscription of the controller.
func (ic *Controller) Close() {
	for _, sub := range ic.subs {
		sub.Unsubscribe()
	}
	ic.subs = nil
	ic.scene = nil
}
