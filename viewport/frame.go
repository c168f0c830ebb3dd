package viewport

import "github.com/teranos/comex/view"

// Frame is everything a renderer needs to draw the current state.
type Frame struct {
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Transform Transform `json:"transform"`
	Mode      Mode      `json:"mode"`
	view.Snapshot
}

// Frame captures the current drawing. Before the first successful redraw
// the snapshot is empty.
func (vc *Controller) Frame() Frame {
	f := Frame{
		Width:     vc.width,
		Height:    vc.height,
		Transform: vc.zoom.Transform(),
		Mode:      vc.mode,
	}
	if vc.view != nil {
		f.Snapshot = vc.view.Snapshot()
	} else {
		f.Snapshot.Style = vc.opts.Style
	}
	return f
}
