// Package config loads comex settings from TOML files and COMEX_* environment
// variables using viper.
package config

import (
	"fmt"

	"github.com/teranos/comex/style"
)

// Config represents the comex configuration
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Canvas   CanvasConfig   `mapstructure:"canvas"`
	Style    StyleConfig    `mapstructure:"style"`
	Zoom     ZoomConfig     `mapstructure:"zoom"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Edges    EdgesConfig    `mapstructure:"edges"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
}

// DataConfig locates the corpus
type DataConfig struct {
	Path       string `mapstructure:"path"`        // JSON file or SQLite database
	Watch      bool   `mapstructure:"watch"`       // Reload and redraw when the file changes
	DebounceMS int    `mapstructure:"debounce_ms"` // Quiet period before a reload (default: 500)
}

// CanvasConfig sizes the drawing surface
type CanvasConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// StyleConfig is the node and edge style table
type StyleConfig struct {
	Radius  float64 `mapstructure:"radius"`
	Opacity float64 `mapstructure:"opacity"`
	Fill    string  `mapstructure:"fill"`

	HighlightFill       string  `mapstructure:"highlight_fill"`
	HighlightOpacity    float64 `mapstructure:"highlight_opacity"`
	HighlightDimFill    string  `mapstructure:"highlight_dim_fill"`
	HighlightDimOpacity float64 `mapstructure:"highlight_dim_opacity"`

	TimeRangeRadius     float64 `mapstructure:"time_range_radius"`
	TimeRangeOpacity    float64 `mapstructure:"time_range_opacity"`
	TimeRangeDimRadius  float64 `mapstructure:"time_range_dim_radius"`
	TimeRangeDimOpacity float64 `mapstructure:"time_range_dim_opacity"`

	NodeStroke         string  `mapstructure:"node_stroke"`
	NodeStrokeWidth    float64 `mapstructure:"node_stroke_width"`
	EdgeStroke         string  `mapstructure:"edge_stroke"`
	EdgeOpacity        float64 `mapstructure:"edge_opacity"`
	EdgeVisibleOpacity float64 `mapstructure:"edge_visible_opacity"` // After LINKS_VISIBLE turns edges on
	EdgeWidthScale     float64 `mapstructure:"edge_width_scale"`     // Link width is sqrt(weight / scale)
}

// ZoomConfig configures the viewport
type ZoomConfig struct {
	MinScale float64 `mapstructure:"min_scale"`
	MaxScale float64 `mapstructure:"max_scale"`
	Mode     string  `mapstructure:"mode"` // zoom or lasso
}

// LayoutConfig configures the force layout
type LayoutConfig struct {
	Updates   int     `mapstructure:"updates"`   // Force iterations before the layout settles
	Repulsion float64 `mapstructure:"repulsion"` // Node repulsion strength
	Rate      float64 `mapstructure:"rate"`      // Step size per iteration
	Theta     float64 `mapstructure:"theta"`     // Barnes-Hut approximation threshold
	Margin    float64 `mapstructure:"margin"`    // Canvas padding in pixels
	Seed      uint64  `mapstructure:"seed"`      // 0 = nondeterministic
	Ticks     int     `mapstructure:"ticks"`     // Ticks run by `comex render`
	TickMS    int     `mapstructure:"tick_ms"`   // Tick interval for `comex serve`
}

// EdgesConfig configures edge visibility and the edge filters
type EdgesConfig struct {
	Visible        bool     `mapstructure:"visible"`
	WeightIndex    int      `mapstructure:"weight_index"`    // Weight vector position used by threshold and top_k
	Threshold      *float64 `mapstructure:"threshold"`       // nil = no threshold filter
	TopK           int      `mapstructure:"top_k"`           // 0 = keep all edges per split
	PageRankK      int      `mapstructure:"pagerank_k"`      // 0 = no pagerank filter
	PageRankStrict bool     `mapstructure:"pagerank_strict"` // Require both endpoints in the top k
}

// ServerConfig configures the live session server
type ServerConfig struct {
	Port           *int     `mapstructure:"port"` // nil = default 8787, 0 is invalid (omit for default)
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	SnapshotRate   float64  `mapstructure:"snapshot_rate"` // Frames per second sent to each client
}

// DatabaseConfig configures the SQLite corpus store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Server port constants
const (
	DefaultServerPort = 8787
)

// File permission constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// GetServerPort returns server.port, or DefaultServerPort when unset
func (c *Config) GetServerPort() int {
	if c.Server.Port == nil {
		return DefaultServerPort
	}
	return *c.Server.Port
}

// GetServerAllowedOrigins returns the allowed websocket origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
		}
	}
	return c.Server.AllowedOrigins
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "comex.db"
	}
	return c.Database.Path
}

// StyleConfig builds the style table the view renders with
func (c *Config) StyleConfig() style.Config {
	s := c.Style
	return style.Config{
		Default: style.Encoding{Radius: s.Radius, Opacity: s.Opacity, Fill: s.Fill},
		Highlight: style.Pair{
			On:  style.Encoding{Opacity: s.HighlightOpacity, Fill: s.HighlightFill},
			Off: style.Encoding{Opacity: s.HighlightDimOpacity, Fill: s.HighlightDimFill},
		},
		TimeRange: style.Pair{
			On:  style.Encoding{Radius: s.TimeRangeRadius, Opacity: s.TimeRangeOpacity},
			Off: style.Encoding{Radius: s.TimeRangeDimRadius, Opacity: s.TimeRangeDimOpacity},
		},
		NodeStroke:         s.NodeStroke,
		NodeStrokeWidth:    s.NodeStrokeWidth,
		EdgeStroke:         s.EdgeStroke,
		EdgeOpacity:        s.EdgeOpacity,
		EdgeVisibleOpacity: s.EdgeVisibleOpacity,
		EdgeWidthScale:     s.EdgeWidthScale,
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Data: %s, Canvas: %gx%g, Zoom: [%g, %g], Server: {Port: %d}}",
		c.Data.Path, c.Canvas.Width, c.Canvas.Height, c.Zoom.MinScale, c.Zoom.MaxScale, c.GetServerPort())
}
