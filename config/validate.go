package config

import (
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/viewport"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Canvas must have an area
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.Newf("canvas must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	}

	if c.Data.DebounceMS < 0 {
		return errors.Newf("data.debounce_ms must be >= 0, got %d", c.Data.DebounceMS)
	}

	// Scale extent: positive and ordered
	if c.Zoom.MinScale <= 0 {
		return errors.Newf("zoom.min_scale must be > 0, got %g", c.Zoom.MinScale)
	}
	if c.Zoom.MaxScale < c.Zoom.MinScale {
		return errors.Newf("zoom.max_scale (%g) must be >= zoom.min_scale (%g)", c.Zoom.MaxScale, c.Zoom.MinScale)
	}
	if _, err := viewport.ParseMode(c.Zoom.Mode); err != nil {
		return errors.Wrap(err, "zoom.mode")
	}

	if err := c.Style.validate(); err != nil {
		return err
	}

	// Layout: 0 = use default, negative = invalid
	if c.Layout.Updates < 0 {
		return errors.Newf("layout.updates must be >= 0, got %d", c.Layout.Updates)
	}
	if c.Layout.Ticks < 0 {
		return errors.Newf("layout.ticks must be >= 0, got %d", c.Layout.Ticks)
	}
	if c.Layout.TickMS <= 0 {
		return errors.Newf("layout.tick_ms must be > 0, got %d", c.Layout.TickMS)
	}
	if c.Layout.Margin < 0 {
		return errors.Newf("layout.margin must be >= 0, got %g", c.Layout.Margin)
	}

	// Edge filters: 0 = disabled, negative = invalid
	if c.Edges.WeightIndex < 0 {
		return errors.Newf("edges.weight_index must be >= 0, got %d", c.Edges.WeightIndex)
	}
	if c.Edges.TopK < 0 {
		return errors.Newf("edges.top_k must be >= 0, got %d", c.Edges.TopK)
	}
	if c.Edges.PageRankK < 0 {
		return errors.Newf("edges.pagerank_k must be >= 0, got %d", c.Edges.PageRankK)
	}

	// Server port: 0 is invalid (omit for default), negative or too large is invalid
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.Newf("server.port cannot be 0 (omit for default port %d)", DefaultServerPort)
	}
	if c.Server.Port != nil && (*c.Server.Port < 0 || *c.Server.Port > 65535) {
		return errors.Newf("server.port must be in 1..65535, got %d", *c.Server.Port)
	}
	if c.Server.SnapshotRate <= 0 {
		return errors.Newf("server.snapshot_rate must be > 0, got %g", c.Server.SnapshotRate)
	}

	return nil
}

func (s StyleConfig) validate() error {
	opacities := []struct {
		key string
		val float64
	}{
		{"style.opacity", s.Opacity},
		{"style.highlight_opacity", s.HighlightOpacity},
		{"style.highlight_dim_opacity", s.HighlightDimOpacity},
		{"style.time_range_opacity", s.TimeRangeOpacity},
		{"style.time_range_dim_opacity", s.TimeRangeDimOpacity},
		{"style.edge_opacity", s.EdgeOpacity},
		{"style.edge_visible_opacity", s.EdgeVisibleOpacity},
	}
	for _, o := range opacities {
		if o.val < 0 || o.val > 1 {
			return errors.Newf("%s must be within [0, 1], got %g", o.key, o.val)
		}
	}

	radii := []struct {
		key string
		val float64
	}{
		{"style.radius", s.Radius},
		{"style.time_range_radius", s.TimeRangeRadius},
		{"style.time_range_dim_radius", s.TimeRangeDimRadius},
		{"style.node_stroke_width", s.NodeStrokeWidth},
	}
	for _, r := range radii {
		if r.val < 0 {
			return errors.Newf("%s must be >= 0, got %g", r.key, r.val)
		}
	}

	if s.EdgeWidthScale <= 0 {
		return errors.Newf("style.edge_width_scale must be > 0, got %g", s.EdgeWidthScale)
	}
	return nil
}
