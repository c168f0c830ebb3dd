// Package render writes a viewport frame as a standalone SVG document.
package render

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo/float"

	"github.com/teranos/comex/errors"
	"github.com/teranos/comex/viewport"
)

// SVG draws f: links when visible, then nodes with their encodings, both
// under the zoom transform.
func SVG(w io.Writer, f viewport.Frame) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(f.Width, f.Height)

	t := f.Transform
	canvas.Gtransform(fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K))

	if f.EdgesVisible && len(f.Links) > 0 {
		canvas.Group(`class="links"`, fmt.Sprintf("stroke:%s;stroke-opacity:%g", f.Style.EdgeStroke, f.EdgeOpacity))
		for _, l := range f.Links {
			canvas.Line(l.X1, l.Y1, l.X2, l.Y2, fmt.Sprintf("stroke-width:%g", l.Width))
		}
		canvas.Gend()
	}

	canvas.Group(`class="nodes"`, fmt.Sprintf("stroke:%s;stroke-width:%g", f.Style.NodeStroke, f.Style.NodeStrokeWidth))
	for _, n := range f.Nodes {
		attrs := []string{
			fmt.Sprintf(`data-index="%d"`, n.Index),
			fmt.Sprintf("fill:%s;opacity:%g", n.Encoding.Fill, n.Encoding.Opacity),
		}
		if n.Selected {
			attrs = append(attrs, `class="selected"`)
		}
		canvas.Circle(n.X, n.Y, n.Encoding.Radius, attrs...)
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()

	if ew.err != nil {
		return errors.Wrap(ew.err, "write svg")
	}
	return nil
}

// WriteFile renders f to path, replacing any existing file.
func WriteFile(path string, f viewport.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := SVG(file, f); err != nil {
		file.Close()
		return err
	}
	return errors.Wrapf(file.Close(), "close %s", path)
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
