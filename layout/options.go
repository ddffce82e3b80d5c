package layout

import (
	"fmt"
	"image/color"

	"github.com/ByLCY/booltex/expr"
)

// TextStyle 区分四种字体样式：运算符、常量、变量名与下标。
type TextStyle int

const (
	StyleOperator TextStyle = iota
	StyleText
	StyleVariable
	StyleSubscript
)

var styleNames = []string{"operator", "text", "variable", "subscript"}

func (s TextStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("TextStyle(%d)", int(s))
	}
	return styleNames[s]
}

// MarshalText 让调试 JSON 输出样式名称而不是数字。
func (s TextStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Metrics 提供字体度量，由排版后端实现（例如 canvas 渲染器）。
// 所有返回值都使用同一长度单位（通常为像素）。
type Metrics interface {
	Ascent(style TextStyle) float64
	Descent(style TextStyle) float64
	TextWidth(style TextStyle, s string) float64
}

// Surface is the drawing target. Coordinates have the origin at the top
// left with y growing downwards; text is positioned by its baseline.
type Surface interface {
	DrawString(style TextStyle, s string, x, y float64)
	// DrawScaledString draws s with every dimension multiplied by scale,
	// keeping (x, y) as the baseline origin.
	DrawScaledString(style TextStyle, s string, x, y, scale float64)
	DrawLine(x1, y1, x2, y2 float64)
	Color() color.Color
	SetColor(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h float64, c color.Color)
}

// Colorizer picks a highlight color for an expression subtree. A nil
// result leaves the subtree in the surrounding color.
type Colorizer interface {
	ColorFor(e expr.Expr) color.Color
}

// ColorizerFunc adapts a function to the Colorizer interface.
type ColorizerFunc func(e expr.Expr) color.Color

func (f ColorizerFunc) ColorFor(e expr.Expr) color.Color { return f(e) }

// Params holds the layout constants. Lengths are in metric units.
type Params struct {
	ParenGrowth float64 // each nesting level of parentheses grows by this factor
	ParenShift  float64 // fraction of a parenthesis' height moved from ascent to descent

	OverlinePad       float64 // horizontal room on each side of the bar
	OverlineClearance float64 // extra ascent reserved for the bar
	OverlineRule      float64 // distance of the bar below the top of the box

	Leading float64 // gap between lines
	Indent  float64 // extra left margin of continuation lines
}

// DefaultParams returns the constants used for 14px glyphs.
func DefaultParams() Params {
	return Params{
		ParenGrowth:       1.18,
		ParenShift:        0.10,
		OverlinePad:       1,
		OverlineClearance: 3,
		OverlineRule:      1.5,
		Leading:           6,
		Indent:            25,
	}
}
