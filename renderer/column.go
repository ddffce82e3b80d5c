package renderer

import (
	"image"
	"image/color"

	"github.com/ByLCY/booltex/layout"
)

// Translate returns a Surface that offsets every drawing call on s by
// (dx, dy). Color changes go straight to s.
func Translate(s layout.Surface, dx, dy float64) layout.Surface {
	if t, ok := s.(*translated); ok {
		return &translated{Surface: t.Surface, dx: t.dx + dx, dy: t.dy + dy}
	}
	return &translated{Surface: s, dx: dx, dy: dy}
}

type translated struct {
	layout.Surface
	dx, dy float64
}

func (t *translated) DrawString(style layout.TextStyle, s string, x, y float64) {
	t.Surface.DrawString(style, s, x+t.dx, y+t.dy)
}

func (t *translated) DrawScaledString(style layout.TextStyle, s string, x, y, scale float64) {
	t.Surface.DrawScaledString(style, s, x+t.dx, y+t.dy, scale)
}

func (t *translated) DrawLine(x1, y1, x2, y2 float64) {
	t.Surface.DrawLine(x1+t.dx, y1+t.dy, x2+t.dx, y2+t.dy)
}

func (t *translated) FillRect(x, y, w, h float64, c color.Color) {
	t.Surface.FillRect(x+t.dx, y+t.dy, w, h, c)
}

func (t *translated) StrokeRect(x, y, w, h float64, c color.Color) {
	t.Surface.StrokeRect(x+t.dx, y+t.dy, w, h, c)
}

// Column stacks several renderers vertically, each in a row as high as its
// layout plus Gap.
type Column struct {
	Rows  []*Renderer
	Gap   int
	Debug bool
}

var _ Painter = (*Column)(nil)

// Size returns the container size that holds every row at the given width.
// A width of 0 uses the widest row.
func (c *Column) Size(width int) image.Point {
	h := 0
	w := width
	for i, r := range c.Rows {
		if i > 0 {
			h += c.Gap
		}
		h += r.MeasureHeight()
		if width <= 0 {
			w = max(w, r.MeasureWidth())
		}
	}
	return image.Pt(w, h)
}

// Paint paints the rows top to bottom.
func (c *Column) Paint(s layout.Surface, container image.Point) {
	y := 0
	for _, r := range c.Rows {
		h := r.MeasureHeight()
		row := Translate(s, 0, float64(y))
		if c.Debug {
			r.DebugPaint(row, image.Pt(container.X, h))
		} else {
			r.Paint(row, image.Pt(container.X, h))
		}
		y += h + c.Gap
	}
}
