// Package style derives the visual encoding of a split from the shared
// filter state. Nothing here is stored on the model; the encoding is
// recomputed whenever filters change.
package style

import (
	"math"

	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/graph"
)

// Encoding is the visual triple of one node.
type Encoding struct {
	Radius  float64 `json:"r"`
	Opacity float64 `json:"opacity"`
	Fill    string  `json:"fill"`
}

// Pair holds the two variants a boolean filter selects between.
type Pair struct {
	On  Encoding
	Off Encoding
}

func (p Pair) pick(on bool) Encoding {
	if on {
		return p.On
	}
	return p.Off
}

// Config is the style table. Highlight only contributes opacity and fill;
// TimeRange only contributes radius and opacity.
type Config struct {
	Default   Encoding
	Highlight Pair
	TimeRange Pair

	NodeStroke      string
	NodeStrokeWidth float64
	EdgeStroke      string
	EdgeOpacity     float64
	// EdgeVisibleOpacity applies once edges are switched on after the
	// initial draw.
	EdgeVisibleOpacity float64
	EdgeWidthScale     float64
}

// DefaultConfig returns the built-in style table.
func DefaultConfig() Config {
	return Config{
		Default: Encoding{Radius: 5, Opacity: 1, Fill: "#4682b4"},
		Highlight: Pair{
			On:  Encoding{Opacity: 1, Fill: "#e4572e"},
			Off: Encoding{Opacity: 0.2, Fill: "#4682b4"},
		},
		TimeRange: Pair{
			On:  Encoding{Radius: 5, Opacity: 1},
			Off: Encoding{Radius: 2.5, Opacity: 0.1},
		},
		NodeStroke:         "#fff",
		NodeStrokeWidth:    1.5,
		EdgeStroke:         "#999",
		EdgeOpacity:        0.6,
		EdgeVisibleOpacity: 1,
		EdgeWidthScale:     50,
	}
}

// Resolve computes the encoding of split s. Rules apply in order and later
// rules overwrite the channels they define:
//
//  1. cfg.Default
//  2. highlight active: opacity and fill from cfg.Highlight, picked by the
//     owner's highlight mirror
//  3. time range active: radius and opacity from cfg.TimeRange, picked by
//     the owner's time range mirror
//
// With both filters active, opacity follows the time range and fill follows
// the highlight.
func Resolve(s graph.Split, filters corpus.ActiveFilters, owner *corpus.Comment, cfg Config) Encoding {
	enc := cfg.Default

	var mirror corpus.CommentFilters
	if owner != nil {
		mirror = owner.Filters
	}

	if filters.HighlightActive() {
		v := cfg.Highlight.pick(mirror.Highlight)
		enc.Opacity = v.Opacity
		enc.Fill = v.Fill
	}

	if filters.TimeRangeActive() {
		v := cfg.TimeRange.pick(mirror.TimeRange)
		enc.Radius = v.Radius
		enc.Opacity = v.Opacity
	}

	return enc
}

// EdgeWidth returns the stroke width for an edge of weight w.
func (c Config) EdgeWidth(w float64) float64 {
	if w <= 0 || c.EdgeWidthScale <= 0 {
		return 0
	}
	return math.Sqrt(w / c.EdgeWidthScale)
}

// Key names an encoding channel.
type Key string

const (
	KeyRadius  Key = "radius"
	KeyOpacity Key = "opacity"
	KeyFill    Key = "fill"
)

// Filter names a filter in the style table.
type Filter string

const (
	FilterNone      Filter = "default"
	FilterHighlight Filter = "highlight"
	FilterTimeRange Filter = "timeRange"
)

// Value looks up a single entry of the style table: the value of key when
// filter is in state on. The result is a float64 for radius and opacity and
// a string for fill. Channels a filter does not define are an error.
func (c Config) Value(key Key, filter Filter, on bool) (interface{}, error) {
	var enc Encoding
	switch filter {
	case FilterNone:
		enc = c.Default
	case FilterHighlight:
		if key == KeyRadius {
			return nil, errors.NewInvalidRequestError("filter %s does not define %s", filter, key)
		}
		enc = c.Highlight.pick(on)
	case FilterTimeRange:
		if key == KeyFill {
			return nil, errors.NewInvalidRequestError("filter %s does not define %s", filter, key)
		}
		enc = c.TimeRange.pick(on)
	default:
		return nil, errors.NewInvalidRequestError("unknown filter %q", filter)
	}

	switch key {
	case KeyRadius:
		return enc.Radius, nil
	case KeyOpacity:
		return enc.Opacity, nil
	case KeyFill:
		return enc.Fill, nil
	}
	return nil, errors.NewInvalidRequestError("unknown style key %q", key)
}
