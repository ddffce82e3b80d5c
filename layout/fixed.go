package layout

import (
	"fmt"
	"image/color"
	"unicode/utf8"
)

// StyleMetrics gives the size of one monospaced text style.
type StyleMetrics struct {
	Ascent, Descent, Advance float64
}

// MonoMetrics is a Metrics implementation in which every rune of a style
// has the same advance. It needs no fonts, which makes layouts
// reproducible on any machine.
type MonoMetrics map[TextStyle]StyleMetrics

var _ Metrics = MonoMetrics(nil)

// DefaultMonoMetrics approximates 14px serif glyphs (10px subscripts).
func DefaultMonoMetrics() MonoMetrics {
	return MonoMetrics{
		StyleOperator:  {Ascent: 13, Descent: 4, Advance: 7},
		StyleText:      {Ascent: 13, Descent: 4, Advance: 7},
		StyleVariable:  {Ascent: 13, Descent: 4, Advance: 8},
		StyleSubscript: {Ascent: 9, Descent: 3, Advance: 5},
	}
}

func (m MonoMetrics) Ascent(style TextStyle) float64  { return m[style].Ascent }
func (m MonoMetrics) Descent(style TextStyle) float64 { return m[style].Descent }
func (m MonoMetrics) TextWidth(style TextStyle, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * m[style].Advance
}

// Op is one call recorded by a Recorder.
type Op struct {
	Name  string
	Style TextStyle
	Text  string
	Args  []float64
	Color color.Color
}

func (op Op) String() string {
	return fmt.Sprintf("%s %v %q %v %v", op.Name, op.Style, op.Text, op.Args, op.Color)
}

// Recorder is a Surface that remembers every drawing call together with
// the color that was active at the time.
type Recorder struct {
	Ops   []Op
	color color.Color
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns a Recorder whose current color is c.
func NewRecorder(c color.Color) *Recorder { return &Recorder{color: c} }

func (r *Recorder) DrawString(style TextStyle, s string, x, y float64) {
	r.Ops = append(r.Ops, Op{Name: "text", Style: style, Text: s, Args: []float64{x, y}, Color: r.color})
}

func (r *Recorder) DrawScaledString(style TextStyle, s string, x, y, scale float64) {
	r.Ops = append(r.Ops, Op{Name: "scaled", Style: style, Text: s, Args: []float64{x, y, scale}, Color: r.color})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	r.Ops = append(r.Ops, Op{Name: "line", Args: []float64{x1, y1, x2, y2}, Color: r.color})
}

func (r *Recorder) Color() color.Color     { return r.color }
func (r *Recorder) SetColor(c color.Color) { r.color = c }

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Name: "fill", Args: []float64{x, y, w, h}, Color: c})
}

func (r *Recorder) StrokeRect(x, y, w, h float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Name: "stroke", Args: []float64{x, y, w, h}, Color: c})
}

// Texts returns the text of every string drawn, in order.
func (r *Recorder) Texts() []string {
	var res []string
	for _, op := range r.Ops {
		if op.Name == "text" || op.Name == "scaled" {
			res = append(res, op.Text)
		}
	}
	return res
}
