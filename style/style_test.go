package style

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/teranos/comex/corpus"
	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/graph"
)

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	split := graph.Split{Origin: graph.Origin{CommentID: "c1"}}
	tr := &corpus.TimeRange{}

	tests := []struct {
		name    string
		filters corpus.ActiveFilters
		mirror  corpus.CommentFilters
		want    Encoding
	}{
		{
			name: "no filters",
			want: cfg.Default,
		},
		{
			name:    "highlighted comment",
			filters: corpus.ActiveFilters{Highlight: "c1"},
			mirror:  corpus.CommentFilters{Highlight: true},
			want:    Encoding{Radius: cfg.Default.Radius, Opacity: cfg.Highlight.On.Opacity, Fill: cfg.Highlight.On.Fill},
		},
		{
			name:    "other comment highlighted",
			filters: corpus.ActiveFilters{Highlight: "c2"},
			want:    Encoding{Radius: cfg.Default.Radius, Opacity: cfg.Highlight.Off.Opacity, Fill: cfg.Highlight.Off.Fill},
		},
		{
			name:    "outside time range",
			filters: corpus.ActiveFilters{TimeRange: tr},
			want:    Encoding{Radius: cfg.TimeRange.Off.Radius, Opacity: cfg.TimeRange.Off.Opacity, Fill: cfg.Default.Fill},
		},
		{
			name:    "highlighted but outside time range",
			filters: corpus.ActiveFilters{Highlight: "c1", TimeRange: tr},
			mirror:  corpus.CommentFilters{Highlight: true},
			want:    Encoding{Radius: cfg.TimeRange.Off.Radius, Opacity: cfg.TimeRange.Off.Opacity, Fill: cfg.Highlight.On.Fill},
		},
		{
			name:    "unselected inside time range",
			filters: corpus.ActiveFilters{Highlight: "c2", TimeRange: tr},
			mirror:  corpus.CommentFilters{TimeRange: true},
			want:    Encoding{Radius: cfg.TimeRange.On.Radius, Opacity: cfg.TimeRange.On.Opacity, Fill: cfg.Highlight.Off.Fill},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := &corpus.Comment{ID: "c1", Filters: tt.mirror}
			assert.Equal(t, tt.want, Resolve(split, tt.filters, owner, cfg))
		})
	}
}

func TestResolve_NilOwner(t *testing.T) {
	cfg := DefaultConfig()
	enc := Resolve(graph.Split{}, corpus.ActiveFilters{Highlight: "x"}, nil, cfg)
	assert.Equal(t, cfg.Highlight.Off.Fill, enc.Fill)
}

func TestResolve_LayeringProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := Config{
			Default:   drawEncoding(t, "default"),
			Highlight: Pair{On: drawEncoding(t, "hl_on"), Off: drawEncoding(t, "hl_off")},
			TimeRange: Pair{On: drawEncoding(t, "tr_on"), Off: drawEncoding(t, "tr_off")},
		}
		mirror := corpus.CommentFilters{
			Highlight: rapid.Bool().Draw(t, "mirror_highlight"),
			TimeRange: rapid.Bool().Draw(t, "mirror_time"),
		}
		filters := corpus.ActiveFilters{Highlight: "c", TimeRange: &corpus.TimeRange{}}

		enc := Resolve(graph.Split{}, filters, &corpus.Comment{Filters: mirror}, cfg)

		if want := cfg.TimeRange.pick(mirror.TimeRange).Opacity; enc.Opacity != want {
			t.Fatalf("opacity %v, want time range value %v", enc.Opacity, want)
		}
		if want := cfg.Highlight.pick(mirror.Highlight).Fill; enc.Fill != want {
			t.Fatalf("fill %q, want highlight value %q", enc.Fill, want)
		}
		if want := cfg.TimeRange.pick(mirror.TimeRange).Radius; enc.Radius != want {
			t.Fatalf("radius %v, want time range value %v", enc.Radius, want)
		}
	})
}

func drawEncoding(t *rapid.T, label string) Encoding {
	return Encoding{
		Radius:  rapid.Float64Range(0, 20).Draw(t, label+"_r"),
		Opacity: rapid.Float64Range(0, 1).Draw(t, label+"_opacity"),
		Fill:    rapid.SampledFrom([]string{"#000", "#fff", "red", "blue"}).Draw(t, label+"_fill"),
	}
}

func TestEdgeWidth(t *testing.T) {
	cfg := DefaultConfig()
	assert.InDelta(t, math.Sqrt(0.1), cfg.EdgeWidth(5), 1e-12)
	assert.InDelta(t, 1.0, cfg.EdgeWidth(50), 1e-12)
	assert.Zero(t, cfg.EdgeWidth(-1))

	cfg.EdgeWidthScale = 0
	assert.Zero(t, cfg.EdgeWidth(5))
}

func TestValue(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key    Key
		filter Filter
		on     bool
		want   interface{}
	}{
		{KeyRadius, FilterNone, false, cfg.Default.Radius},
		{KeyFill, FilterNone, true, cfg.Default.Fill},
		{KeyOpacity, FilterHighlight, false, cfg.Highlight.Off.Opacity},
		{KeyFill, FilterHighlight, true, cfg.Highlight.On.Fill},
		{KeyRadius, FilterTimeRange, false, cfg.TimeRange.Off.Radius},
		{KeyOpacity, FilterTimeRange, true, cfg.TimeRange.On.Opacity},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter)+"/"+string(tt.key), func(t *testing.T) {
			got, err := cfg.Value(tt.key, tt.filter, tt.on)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []struct {
		key    Key
		filter Filter
	}{
		{KeyRadius, FilterHighlight},
		{KeyFill, FilterTimeRange},
		{KeyFill, Filter("author")},
		{Key("stroke"), FilterNone},
	} {
		_, err := cfg.Value(bad.key, bad.filter, true)
		assert.True(t, errors.IsInvalidRequestError(err), "%s/%s", bad.filter, bad.key)
	}
}
