package layout

import (
	"fmt"
	"image/color"
	"math"
	"sort"
)

// Span is an inclusive range of atom indices.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of atoms covered by s.
func (s Span) Len() int { return s.End - s.Start + 1 }

// GroupSpan records the atoms that came from one Group; it is kept for
// debug shading only.
type GroupSpan struct {
	Span
	Depth int `json:"depth"`
}

// ColorSpan highlights a contiguous run of atoms.
type ColorSpan struct {
	Span
	Color color.Color `json:"color"`
}

// Atom is an atomic box with a position. (X, Y) is the left end of the
// baseline.
type Atom struct {
	Glyph
	Extent
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Depth int     `json:"depth"`
	Inner *Line   `json:"inner,omitempty"` // overlines only

	x0, y0 float64
}

// Move translates the atom and, for overlines, its contents.
func (a *Atom) Move(dx, dy float64) {
	a.X += dx
	a.Y += dy
	if a.Inner != nil {
		a.Inner.Move(dx, dy)
	}
}

// Paint draws the atom at its current position.
func (a *Atom) Paint(s Surface) {
	switch a.Kind {
	case KindVariable:
		s.DrawString(StyleVariable, a.Text, a.X, a.Y)
		if a.Sub != "" {
			s.DrawString(StyleSubscript, a.Sub, a.X+a.SubX, a.Y+a.SubY)
		}
	case KindConstant:
		s.DrawString(StyleText, a.Text, a.X, a.Y)
	case KindString, KindOperator:
		s.DrawString(StyleOperator, a.Text, a.X, a.Y)
	case KindLeftParen, KindRightParen:
		s.DrawScaledString(StyleOperator, a.Text, a.X, a.Y+a.Shift, a.Scale)
	case KindOverline:
		y := a.Y - a.Ascent + a.Rule
		s.DrawLine(a.X+a.Pad, y, a.X+a.Width-a.Pad, y)
		if a.Inner != nil {
			a.Inner.Paint(s)
		}
	default:
		panic(fmt.Sprintf("layout: cannot paint %v", a.Kind))
	}
}

// Line is the flattened form of a box tree: the atoms in reading order
// plus the group and highlight ranges over them.
type Line struct {
	Atoms  []*Atom     `json:"atoms"`
	Groups []GroupSpan `json:"groups,omitempty"`
	Spans  []ColorSpan `json:"spans,omitempty"`
	// Breaks lists the lines chosen by the last FitToWidth.
	Breaks []Span `json:"breaks,omitempty"`
}

// Flatten lays root out on a single baseline starting at (x, y) and
// returns its atoms. Group colors become ColorSpans over the group's
// atoms.
func Flatten(root Box, x, y float64) *Line {
	l := &Line{}
	l.add(root, x, y)

	// Spans were recorded innermost first. Paint needs them ordered by
	// start, outermost first; equal ranges keep the innermost color on top.
	for i, j := 0, len(l.Spans)-1; i < j; i, j = i+1, j-1 {
		l.Spans[i], l.Spans[j] = l.Spans[j], l.Spans[i]
	}
	sort.SliceStable(l.Spans, func(i, j int) bool {
		a, b := l.Spans[i], l.Spans[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})
	return l
}

func (l *Line) add(b Box, x, y float64) {
	switch b := b.(type) {
	case *Group:
		start := len(l.Atoms)
		gi := len(l.Groups)
		l.Groups = append(l.Groups, GroupSpan{Span: Span{Start: start}, Depth: b.depth})
		for _, c := range b.Children {
			l.add(c, x, y)
			x += c.Extent().Width
		}
		end := len(l.Atoms) - 1
		if end < start {
			l.Groups = l.Groups[:gi]
			return
		}
		l.Groups[gi].End = end
		l.addColor(start, end, b.Color)
	case *Leaf:
		l.push(&Atom{Glyph: b.Glyph, Extent: b.ext, Depth: b.depth}, x, y)
		l.addColor(len(l.Atoms)-1, len(l.Atoms)-1, b.Color)
	case *Overline:
		l.push(&Atom{
			Glyph:  Glyph{Kind: KindOverline, Pad: b.pad, Rule: b.rule},
			Extent: b.ext,
			Depth:  b.depth,
			Inner:  Flatten(b.Inner, x+b.pad, y),
		}, x, y)
		l.addColor(len(l.Atoms)-1, len(l.Atoms)-1, b.Color)
	default:
		panic(fmt.Sprintf("layout: unexpected box type %T", b))
	}
}

// NewLine lays out atoms that were not produced by a box tree, one after
// the other on the baseline y.
func NewLine(x, y float64, leaves ...*Leaf) *Line {
	children := make([]Box, len(leaves))
	for i, b := range leaves {
		children[i] = b
	}
	return Flatten(NewGroup(0, children...), x, y)
}

func (l *Line) push(a *Atom, x, y float64) {
	a.X, a.Y = x, y
	a.x0, a.y0 = x, y
	l.Atoms = append(l.Atoms, a)
}

func (l *Line) addColor(start, end int, c color.Color) {
	if c == nil {
		return
	}
	l.Spans = append(l.Spans, ColorSpan{Span: Span{Start: start, End: end}, Color: c})
}

// Move translates every atom.
func (l *Line) Move(dx, dy float64) {
	for _, a := range l.Atoms {
		a.Move(dx, dy)
	}
}

// reset puts every atom back where Flatten placed it.
func (l *Line) reset() {
	for _, a := range l.Atoms {
		a.X, a.Y = a.x0, a.y0
		if a.Inner != nil {
			a.Inner.reset()
		}
	}
	l.Breaks = nil
}

// Width returns the right edge of the rightmost atom.
func (l *Line) Width() float64 {
	w := 0.0
	for _, a := range l.Atoms {
		w = math.Max(w, a.X+a.Width)
	}
	return w
}

// Height returns the lowest descent of any atom.
func (l *Line) Height() float64 {
	h := 0.0
	for _, a := range l.Atoms {
		h = math.Max(h, a.Y+a.Descent)
	}
	return h
}

type restorePoint struct {
	end  int
	prev color.Color
}

// Paint draws all atoms. A ColorSpan switches the surface color before its
// first atom and restores the previous color after its last one.
func (l *Line) Paint(s Surface) {
	var stack []restorePoint
	next := 0
	for i, a := range l.Atoms {
		for next < len(l.Spans) && l.Spans[next].Start == i {
			stack = append(stack, restorePoint{end: l.Spans[next].End, prev: s.Color()})
			s.SetColor(l.Spans[next].Color)
			next++
		}
		a.Paint(s)
		for len(stack) > 0 && stack[len(stack)-1].end == i {
			s.SetColor(stack[len(stack)-1].prev)
			stack = stack[:len(stack)-1]
		}
	}
}

var (
	groupShade = []color.RGBA{
		{200, 100, 100, 255},
		{100, 200, 100, 255},
		{100, 100, 200, 255},
		{200, 100, 200, 255},
	}
	atomShade = []color.RGBA{
		{200, 150, 100, 255},
		{100, 200, 120, 255},
		{150, 150, 200, 255},
	}
)

// DebugPaint shades every group and atom, paints the atoms and writes each
// atom's depth below it.
func (l *Line) DebugPaint(s Surface) {
	for _, g := range l.Groups {
		x0, y0, x1, y1 := l.bounds(g.Span)
		shade(s, x0, y0, x1-x0, y1-y0, groupShade[g.Depth%len(groupShade)])
	}
	for i, a := range l.Atoms {
		shade(s, a.X, a.Y-a.Ascent, a.Width, a.Height(), atomShade[i%len(atomShade)])
	}
	l.Paint(s)
	for _, a := range l.Atoms {
		s.DrawString(StyleSubscript, fmt.Sprint(a.Depth), a.X, a.Y+a.Descent+5)
	}
}

func (l *Line) bounds(sp Span) (x0, y0, x1, y1 float64) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, a := range l.Atoms[sp.Start : sp.End+1] {
		x0 = math.Min(x0, a.X)
		y0 = math.Min(y0, a.Y-a.Ascent)
		x1 = math.Max(x1, a.X+a.Width)
		y1 = math.Max(y1, a.Y+a.Descent)
	}
	return x0, y0, x1, y1
}

func shade(s Surface, x, y, w, h float64, c color.RGBA) {
	s.FillRect(x, y, w, h, c)
	dark := color.RGBA{R: uint8(float64(c.R) * 0.7), G: uint8(float64(c.G) * 0.7), B: uint8(float64(c.B) * 0.7), A: c.A}
	s.StrokeRect(x, y, w, h, dark)
}
