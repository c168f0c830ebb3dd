package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/comex/style"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Data defaults
	v.SetDefault("data.watch", true)
	v.SetDefault("data.debounce_ms", 500)

	// Canvas defaults
	v.SetDefault("canvas.width", 960.0)
	v.SetDefault("canvas.height", 600.0)

	// Style defaults mirror style.DefaultConfig
	s := style.DefaultConfig()
	v.SetDefault("style.radius", s.Default.Radius)
	v.SetDefault("style.opacity", s.Default.Opacity)
	v.SetDefault("style.fill", s.Default.Fill)
	v.SetDefault("style.highlight_fill", s.Highlight.On.Fill)
	v.SetDefault("style.highlight_opacity", s.Highlight.On.Opacity)
	v.SetDefault("style.highlight_dim_fill", s.Highlight.Off.Fill)
	v.SetDefault("style.highlight_dim_opacity", s.Highlight.Off.Opacity)
	v.SetDefault("style.time_range_radius", s.TimeRange.On.Radius)
	v.SetDefault("style.time_range_opacity", s.TimeRange.On.Opacity)
	v.SetDefault("style.time_range_dim_radius", s.TimeRange.Off.Radius)
	v.SetDefault("style.time_range_dim_opacity", s.TimeRange.Off.Opacity)
	v.SetDefault("style.node_stroke", s.NodeStroke)
	v.SetDefault("style.node_stroke_width", s.NodeStrokeWidth)
	v.SetDefault("style.edge_stroke", s.EdgeStroke)
	v.SetDefault("style.edge_opacity", s.EdgeOpacity)
	v.SetDefault("style.edge_visible_opacity", s.EdgeVisibleOpacity)
	v.SetDefault("style.edge_width_scale", s.EdgeWidthScale)

	// Zoom defaults
	v.SetDefault("zoom.min_scale", 0.1)
	v.SetDefault("zoom.max_scale", 8.0)
	v.SetDefault("zoom.mode", "zoom")

	// Layout defaults
	v.SetDefault("layout.updates", 300)
	v.SetDefault("layout.repulsion", 1.0)
	v.SetDefault("layout.rate", 0.05)
	v.SetDefault("layout.theta", 0.2)
	v.SetDefault("layout.margin", 20.0)
	v.SetDefault("layout.ticks", 300)
	v.SetDefault("layout.tick_ms", 33) // ~30 ticks per second

	// Edge defaults
	v.SetDefault("edges.visible", true)
	v.SetDefault("edges.weight_index", 0)

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.snapshot_rate", 10.0)

	// Database defaults
	v.SetDefault("database.path", "comex.db")
}

// BindEnvVars binds the settings most often overridden per invocation
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("data.path", "COMEX_DATA_PATH")
	v.BindEnv("database.path", "COMEX_DATABASE_PATH")
	v.BindEnv("server.port", "COMEX_SERVER_PORT")
}
