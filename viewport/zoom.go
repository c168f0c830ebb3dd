package viewport

import "math"

// Transform is a pan/zoom transform: screen = layout*K + (X, Y).
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the transform with scale 1 and no translation.
var Identity = Transform{K: 1}

// Apply maps a layout point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back to layout coordinates.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

// Zoom holds the transform together with its scale extent and the viewport
// extent used as the default focal area.
type Zoom struct {
	transform Transform
	minScale  float64
	maxScale  float64
	extent    [2][2]float64
	enabled   bool
}

// NewZoom returns an enabled zoom at the identity transform.
func NewZoom(minScale, maxScale float64) *Zoom {
	return &Zoom{
		transform: Identity,
		minScale:  minScale,
		maxScale:  maxScale,
		enabled:   true,
	}
}

// Transform returns the current transform.
func (z *Zoom) Transform() Transform {
	return z.transform
}

// ScaleExtent returns the allowed scale interval.
func (z *Zoom) ScaleExtent() (float64, float64) {
	return z.minScale, z.maxScale
}

// SetExtent sets the viewport extent to [[0,0],[w,h]].
func (z *Zoom) SetExtent(w, h float64) {
	z.extent = [2][2]float64{{0, 0}, {w, h}}
}

// Extent returns the viewport extent.
func (z *Zoom) Extent() [2][2]float64 {
	return z.extent
}

// SetEnabled switches zoom gestures on or off.
func (z *Zoom) SetEnabled(on bool) {
	z.enabled = on
}

// Enabled reports whether zoom gestures are accepted.
func (z *Zoom) Enabled() bool {
	return z.enabled
}

func (z *Zoom) clamp(k float64) float64 {
	if math.IsNaN(k) {
		return z.transform.K
	}
	return math.Max(z.minScale, math.Min(z.maxScale, k))
}

// Centre returns the centre of the extent, the focal point of gestures that
// do not name one.
func (z *Zoom) Centre() (float64, float64) {
	return (z.extent[0][0] + z.extent[1][0]) / 2, (z.extent[0][1] + z.extent[1][1]) / 2
}

// ScaleBy multiplies the scale by factor around the screen point (px, py),
// keeping that point fixed. The resulting scale is clamped to the scale
// extent. Ignored while gestures are disabled.
func (z *Zoom) ScaleBy(factor, px, py float64) bool {
	if !z.enabled {
		return false
	}
	return z.scaleTo(z.transform.K*factor, px, py)
}

// ScaleTo sets the scale around the extent centre. Ignored while gestures are
// disabled.
func (z *Zoom) ScaleTo(k float64) bool {
	if !z.enabled {
		return false
	}
	px, py := z.Centre()
	return z.scaleTo(k, px, py)
}

func (z *Zoom) scaleTo(k, px, py float64) bool {
	k = z.clamp(k)
	lx, ly := z.transform.Invert(px, py)
	z.transform = Transform{K: k, X: px - lx*k, Y: py - ly*k}
	return true
}

// TranslateBy pans by (dx, dy) screen pixels. Ignored while gestures are
// disabled.
func (z *Zoom) TranslateBy(dx, dy float64) bool {
	if !z.enabled {
		return false
	}
	z.transform.X += dx
	z.transform.Y += dy
	return true
}

// Reset returns to scale 1 at the origin. This does not centre the drawing
// on its current content.
func (z *Zoom) Reset() {
	z.transform = Identity
}
