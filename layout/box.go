package layout

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/ByLCY/booltex/expr"
)

// 该文件定义编译阶段使用的盒子树。盒子树只用于汇总尺寸与决定括号，
// 折行前会被 Flatten 展开成 Line。

// Extent gives the dimensions of a box.
type Extent struct {
	Width   float64 `json:"width"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// Height returns Ascent+Descent.
func (e Extent) Height() float64 { return e.Ascent + e.Descent }

// Kind tells what a glyph draws and how the line breaker treats it.
type Kind int

const (
	KindVariable Kind = iota
	KindConstant
	KindString
	KindOperator
	KindLeftParen
	KindRightParen
	KindOverline
)

var kindNames = []string{"variable", "constant", "string", "operator", "lparen", "rparen", "overline"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Glyph is the drawable content of an atomic box.
type Glyph struct {
	Kind  Kind      `json:"kind"`
	Style TextStyle `json:"style"`
	Text  string    `json:"text,omitempty"`

	// variables with a bit index
	Sub  string  `json:"sub,omitempty"`
	SubX float64 `json:"subX,omitempty"`
	SubY float64 `json:"subY,omitempty"`

	// parentheses
	Scale float64 `json:"scale,omitempty"`
	Shift float64 `json:"shift,omitempty"`

	// operators
	Precedence int `json:"precedence,omitempty"`

	// overlines
	Pad  float64 `json:"pad,omitempty"`
	Rule float64 `json:"rule,omitempty"`
}

// Box is a node of the construction-time tree.
type Box interface {
	Extent() Extent
	Depth() int
}

// Leaf is a single run of text: variable, constant, operator, parenthesis
// or plain string.
type Leaf struct {
	Glyph
	ext   Extent
	depth int
	Color color.Color
}

func (b *Leaf) Extent() Extent { return b.ext }
func (b *Leaf) Depth() int     { return b.depth }

// NewString returns a leaf drawn in the operator style that never attracts
// operator break penalties.
func NewString(m Metrics, s string, depth int) *Leaf {
	return &Leaf{
		Glyph: Glyph{Kind: KindString, Style: StyleOperator, Text: s},
		ext:   styleExtent(m, StyleOperator, s),
		depth: depth,
	}
}

// NewOperator returns an operator symbol with the given precedence level.
func NewOperator(m Metrics, sym string, precedence, depth int) *Leaf {
	return &Leaf{
		Glyph: Glyph{Kind: KindOperator, Style: StyleOperator, Text: sym, Precedence: precedence},
		ext:   styleExtent(m, StyleOperator, sym),
		depth: depth,
	}
}

// NewConstant returns a leaf showing already formatted digits.
func NewConstant(m Metrics, digits string, depth int) *Leaf {
	return &Leaf{
		Glyph: Glyph{Kind: KindConstant, Style: StyleText, Text: digits},
		ext:   styleExtent(m, StyleText, digits),
		depth: depth,
	}
}

// NewVariable returns a leaf for a variable descriptor. A bit index is
// drawn as a subscript that widens the box and deepens its descent.
// Descriptors that do not parse are shown verbatim.
func NewVariable(m Metrics, desc string, depth int) *Leaf {
	name, sub := desc, ""
	if bit, err := expr.ParseBit(desc); err == nil {
		name = bit.Name
		if bit.Index >= 0 {
			sub = strconv.Itoa(bit.Index)
		}
	}
	g := Glyph{Kind: KindVariable, Style: StyleVariable, Text: name}
	ext := styleExtent(m, StyleVariable, name)
	if sub != "" {
		g.Sub = sub
		g.SubX = ext.Width
		g.SubY = ext.Descent
		ext.Width += m.TextWidth(StyleSubscript, sub)
		ext.Descent += m.Descent(StyleSubscript)
	}
	return &Leaf{Glyph: g, ext: ext, depth: depth}
}

// NewParen returns a parenthesis sized to enclose content of the given
// height.
func NewParen(m Metrics, p Params, left bool, innerHeight float64, depth int) *Leaf {
	g := Glyph{Kind: KindRightParen, Style: StyleOperator, Text: ")"}
	if left {
		g.Kind, g.Text = KindLeftParen, "("
	}
	unit := UnitHeight(m)
	if unit <= 0 {
		unit = 1
	}
	scale := p.ParenGrowth * math.Max(1, innerHeight/unit)
	ext := Extent{
		Width:   scale * m.TextWidth(StyleOperator, g.Text),
		Ascent:  scale * m.Ascent(StyleOperator) * p.ParenGrowth,
		Descent: scale * m.Descent(StyleOperator) * p.ParenGrowth,
	}
	shift := ext.Height() * p.ParenShift
	ext.Ascent -= shift
	ext.Descent += shift
	g.Scale = scale
	g.Shift = shift
	return &Leaf{Glyph: g, ext: ext, depth: depth}
}

// UnitHeight is the height of a subscripted variable, the reference size
// for parenthesis scaling.
func UnitHeight(m Metrics) float64 {
	return m.Ascent(StyleVariable) + m.Descent(StyleVariable) + m.Descent(StyleSubscript)
}

// Overline draws a bar above its inner box.
type Overline struct {
	Inner Box
	ext   Extent
	depth int
	pad   float64
	rule  float64
	Color color.Color
}

// NewOverline wraps inner.
func NewOverline(p Params, inner Box, depth int) *Overline {
	in := inner.Extent()
	return &Overline{
		Inner: inner,
		ext: Extent{
			Width:   in.Width + 2*p.OverlinePad,
			Ascent:  in.Ascent + p.OverlineClearance,
			Descent: in.Descent,
		},
		depth: depth,
		pad:   p.OverlinePad,
		rule:  p.OverlineRule,
	}
}

func (b *Overline) Extent() Extent { return b.ext }
func (b *Overline) Depth() int     { return b.depth }

// Group is a horizontal concatenation of boxes. It only exists while
// compiling: Flatten dissolves it into its children.
type Group struct {
	Children []Box
	ext      Extent
	depth    int
	Color    color.Color
}

// NewGroup returns the horizontal concatenation of children.
func NewGroup(depth int, children ...Box) *Group {
	g := &Group{Children: children, depth: depth}
	for _, c := range children {
		ext := c.Extent()
		g.ext.Width += ext.Width
		g.ext.Ascent = math.Max(g.ext.Ascent, ext.Ascent)
		g.ext.Descent = math.Max(g.ext.Descent, ext.Descent)
	}
	return g
}

func (b *Group) Extent() Extent { return b.ext }
func (b *Group) Depth() int     { return b.depth }

func styleExtent(m Metrics, style TextStyle, s string) Extent {
	return Extent{
		Width:   m.TextWidth(style, s),
		Ascent:  m.Ascent(style),
		Descent: m.Descent(style),
	}
}
