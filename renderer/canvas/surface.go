package canvasrenderer

import (
	"image/color"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/booltex/layout"
)

// Surface draws onto a canvas context that uses the CartesianIV coordinate
// system. Coordinates passed in are pixels.
type Surface struct {
	r     *Renderer
	ctx   *canvas.Context
	color color.Color
}

var _ layout.Surface = (*Surface)(nil)

// NewSurface wraps ctx; the initial color is black.
func (r *Renderer) NewSurface(ctx *canvas.Context) *Surface {
	return &Surface{r: r, ctx: ctx, color: color.Black}
}

func (s *Surface) DrawString(style layout.TextStyle, str string, x, y float64) {
	s.DrawScaledString(style, str, x, y, 1)
}

func (s *Surface) DrawScaledString(style layout.TextStyle, str string, x, y, scale float64) {
	if strings.TrimSpace(str) == "" {
		return
	}
	face := s.r.face(style, scale, s.color)
	s.ctx.DrawText(toMm(x), toMm(y), canvas.NewTextLine(face, str, canvas.Left))
}

func (s *Surface) DrawLine(x1, y1, x2, y2 float64) {
	s.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	s.ctx.SetStrokeColor(s.color)
	s.ctx.SetStrokeWidth(toMm(ruleWidth))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(x2-x1), toMm(y2-y1))
	s.ctx.DrawPath(toMm(x1), toMm(y1), p)
}

func (s *Surface) Color() color.Color { return s.color }

func (s *Surface) SetColor(c color.Color) {
	if c == nil {
		c = color.Black
	}
	s.color = c
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.ctx.SetFillColor(c)
	s.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	s.ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(w), toMm(h)))
}

func (s *Surface) StrokeRect(x, y, w, h float64, c color.Color) {
	s.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	s.ctx.SetStrokeColor(c)
	s.ctx.SetStrokeWidth(toMm(ruleWidth))
	s.ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(w), toMm(h)))
}
