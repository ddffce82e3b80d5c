// Package renderer keeps the typeset layout of one named expression and
// paints it into a container.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/ByLCY/booltex/expr"
	"github.com/ByLCY/booltex/layout"
)

const (
	// DefaultWidth and DefaultHeight are reported before anything was laid out.
	DefaultWidth  = 100
	DefaultHeight = 35

	// DefaultMargin is the gap kept left of every line.
	DefaultMargin = 15
)

// Painter draws itself centered vertically in a container of the given size.
type Painter interface {
	Paint(s layout.Surface, container image.Point)
}

// NamedExpression is an expression to display under a name. Expr may be nil,
// in which case Err is shown instead.
type NamedExpression struct {
	Name string
	Expr expr.Expr
	Err  string
}

// Renderer lays out one named expression at a time. It is not safe for
// concurrent use.
type Renderer struct {
	metrics    layout.Metrics
	params     layout.Params
	notation   *expr.Notation
	colorizer  layout.Colorizer
	foreground color.Color
	centered   bool
	margin     float64

	// container width given to SetExpressionWidth; 0 until set
	container float64

	line *layout.Line
}

var _ Painter = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithNotation selects the notation; the default is expr.Engineering.
func WithNotation(n *expr.Notation) Option { return func(r *Renderer) { r.notation = n } }

// WithParams replaces the layout constants.
func WithParams(p layout.Params) Option { return func(r *Renderer) { r.params = p } }

// WithCentered centers the expression horizontally.
func WithCentered(b bool) Option { return func(r *Renderer) { r.centered = b } }

// WithMargin sets the left margin.
func WithMargin(m float64) Option { return func(r *Renderer) { r.margin = m } }

// WithColorizer highlights subexpressions.
func WithColorizer(c layout.Colorizer) Option { return func(r *Renderer) { r.colorizer = c } }

// WithForeground sets the default text color.
func WithForeground(c color.Color) Option { return func(r *Renderer) { r.foreground = c } }

// New 创建渲染器；metrics 为必填项。
func New(metrics layout.Metrics, opts ...Option) (*Renderer, error) {
	if metrics == nil {
		return nil, fmt.Errorf("renderer: 缺少字体度量 Metrics")
	}
	r := &Renderer{
		metrics:    metrics,
		params:     layout.DefaultParams(),
		notation:   expr.Engineering,
		foreground: color.Black,
		margin:     DefaultMargin,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.notation == nil {
		return nil, fmt.Errorf("renderer: 缺少记法 Notation")
	}
	if r.margin < 0 {
		return nil, fmt.Errorf("renderer: 边距不能为负数: %g", r.margin)
	}
	return r, nil
}

// SetNotation switches the notation used by later calls to SetExpression.
// The current layout is kept; a nil notation selects expr.Engineering.
func (r *Renderer) SetNotation(n *expr.Notation) {
	if n == nil {
		n = expr.Engineering
	}
	r.notation = n
}

// Notation returns the active notation.
func (r *Renderer) Notation() *expr.Notation { return r.notation }

// SetCentered switches between centered and left aligned display and
// refits the current layout to the new margins.
func (r *Renderer) SetCentered(b bool) {
	r.centered = b
	r.refit()
}

// Centered reports whether the expression is centered.
func (r *Renderer) Centered() bool { return r.centered }

// SetColorizer installs c for later calls to SetExpression.
func (r *Renderer) SetColorizer(c layout.Colorizer) { r.colorizer = c }

// SetForeground sets the color Paint starts with.
func (r *Renderer) SetForeground(c color.Color) { r.foreground = c }

// SetExpressionWidth sets the width of the container and refits the current
// layout. One margin (two when centered) is reserved.
func (r *Renderer) SetExpressionWidth(w float64) {
	r.container = w
	r.refit()
}

// ExpressionWidth returns the width available to the lines.
func (r *Renderer) ExpressionWidth() float64 {
	if r.container <= 0 {
		return DefaultWidth
	}
	if r.centered {
		return r.container - 2*r.margin
	}
	return r.container - r.margin
}

// SetExpression typesets "name = e". A nil e is shown as an unspecified
// error.
func (r *Renderer) SetExpression(name string, e expr.Expr) {
	if e == nil {
		r.SetError(name, "")
		return
	}
	c, _ := layout.NewCompiler(r.notation, r.metrics, r.params)
	c.Colorizer = r.colorizer
	root := c.CompileEquation(name, e)
	r.line = layout.Flatten(root, 0, root.Extent().Ascent)
	r.refit()
}

// SetError shows "name = { msg }" with one box per word of msg.
func (r *Renderer) SetError(name, msg string) {
	words := strings.Fields(msg)
	if len(words) == 0 {
		words = []string{"unspecified"}
	}
	leaves := []*layout.Leaf{
		layout.NewVariable(r.metrics, name, 0),
		layout.NewString(r.metrics, " = ", 0),
		layout.NewString(r.metrics, "{", 0),
	}
	for _, w := range words {
		leaves = append(leaves, layout.NewString(r.metrics, " "+w, 1))
	}
	leaves = append(leaves, layout.NewString(r.metrics, " }", 0))
	r.setLeaves(leaves...)
}

// Clear replaces the layout by a single blank so that it keeps a height.
func (r *Renderer) Clear() {
	r.setLeaves(layout.NewString(r.metrics, " ", 0))
}

// SetNamed shows e.Expr, or e.Err when there is no expression.
func (r *Renderer) SetNamed(e NamedExpression) {
	if e.Expr != nil {
		r.SetExpression(e.Name, e.Expr)
		return
	}
	r.SetError(e.Name, e.Err)
}

func (r *Renderer) setLeaves(leaves ...*layout.Leaf) {
	ascent := 0.0
	for _, l := range leaves {
		ascent = math.Max(ascent, l.Extent().Ascent)
	}
	r.line = layout.NewLine(0, ascent, leaves...)
	r.refit()
}

func (r *Renderer) refit() {
	if r.line == nil {
		return
	}
	r.line.FitToWidth(r.ExpressionWidth(), r.params)
}

// Line returns the current layout, or nil before the first Set call.
func (r *Renderer) Line() *layout.Line { return r.line }

// MeasureWidth returns the width needed to show the layout including its
// margins.
func (r *Renderer) MeasureWidth() int {
	if r.line == nil {
		return DefaultWidth
	}
	margins := 2.0
	if r.centered {
		margins = 1
	}
	return int(math.Ceil(r.line.Width() + margins*r.margin))
}

// MeasureHeight returns the height of the layout.
func (r *Renderer) MeasureHeight() int {
	if r.line == nil {
		return DefaultHeight
	}
	return int(math.Ceil(r.line.Height()))
}

// Bounds returns where the expression is shown inside a container of the
// given size.
func (r *Renderer) Bounds(container image.Point) image.Rectangle {
	w, h := r.MeasureWidth(), r.MeasureHeight()
	x := int(r.margin)
	if r.centered {
		x = max(0, (container.X-w)/2)
	}
	y := (container.Y - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// Paint draws the layout into a container of the given size.
func (r *Renderer) Paint(s layout.Surface, container image.Point) {
	if r.line == nil {
		return
	}
	ts := r.translate(s, container)
	prev := s.Color()
	if r.foreground != nil {
		s.SetColor(r.foreground)
	}
	r.line.Paint(ts)
	s.SetColor(prev)
}

// DebugPaint is like Paint but also shades groups and atoms and labels every
// atom with its depth.
func (r *Renderer) DebugPaint(s layout.Surface, container image.Point) {
	if r.line == nil {
		return
	}
	ts := r.translate(s, container)
	prev := s.Color()
	if r.foreground != nil {
		s.SetColor(r.foreground)
	}
	r.line.DebugPaint(ts)
	s.SetColor(prev)
}

// Debug returns a Painter that paints r with DebugPaint.
func (r *Renderer) Debug() Painter { return debugPainter{r} }

type debugPainter struct{ r *Renderer }

func (d debugPainter) Paint(s layout.Surface, container image.Point) { d.r.DebugPaint(s, container) }

func (r *Renderer) translate(s layout.Surface, container image.Point) layout.Surface {
	dx := r.margin
	if r.centered {
		dx = math.Max(0, (float64(container.X)-r.line.Width())/2)
	}
	dy := (float64(container.Y) - r.line.Height()) / 2
	return Translate(s, dx, dy)
}
