package layout

import (
	"fmt"
	"image/color"

	"github.com/ByLCY/booltex/expr"
)

// Compiler turns expressions into box trees. A Compiler is not safe for
// concurrent use.
type Compiler struct {
	Notation  *expr.Notation
	Metrics   Metrics
	Params    Params
	Colorizer Colorizer

	depth int
}

var _ expr.Visitor[Box] = (*Compiler)(nil)

// NewCompiler 校验依赖并返回编译器。
func NewCompiler(n *expr.Notation, m Metrics, p Params) (*Compiler, error) {
	if n == nil {
		return nil, fmt.Errorf("layout: 缺少记法 Notation")
	}
	if m == nil {
		return nil, fmt.Errorf("layout: 缺少字体度量 Metrics")
	}
	return &Compiler{Notation: n, Metrics: m, Params: p}, nil
}

// Compile builds the box tree of e.
func (c *Compiler) Compile(e expr.Expr) Box {
	c.depth = 1
	return expr.Visit[Box](e, c)
}

// CompileEquation builds the box tree of "name = e".
func (c *Compiler) CompileEquation(name string, e expr.Expr) Box {
	return c.Compile(expr.Equation(name, e))
}

func (c *Compiler) VisitVariable(e expr.Expr, desc string) Box {
	b := NewVariable(c.Metrics, desc, c.depth)
	b.Color = c.colorFor(e)
	return b
}

func (c *Compiler) VisitConstant(e expr.Expr, value int64) Box {
	b := NewConstant(c.Metrics, c.Notation.FormatConstant(value), c.depth)
	b.Color = c.colorFor(e)
	return b
}

func (c *Compiler) VisitNot(e expr.Expr, operand expr.Expr) Box {
	if !c.Notation.OverlineNot() {
		return c.operator(e, expr.Not, operand, nil)
	}
	c.depth++
	inner := expr.Visit[Box](operand, c)
	c.depth--
	b := NewOverline(c.Params, inner, c.depth)
	b.Color = c.colorFor(e)
	return b
}

func (c *Compiler) VisitBinary(e expr.Expr, op expr.Op, left, right expr.Expr) Box {
	return c.operator(e, op, left, right)
}

// operator lays out "left op right", or "op left" for a prefix operator
// when right is nil.
func (c *Compiler) operator(e expr.Expr, op expr.Op, left, right expr.Expr) Box {
	level := c.Notation.Level(op)
	a := c.operand(left, op, level)
	mid := NewOperator(c.Metrics, c.Notation.Symbol(op), level, c.depth)

	var g *Group
	if right == nil {
		g = NewGroup(c.depth, mid, a)
	} else {
		b := c.operand(right, op, level)
		g = NewGroup(c.depth, a, mid, b)
	}
	g.Color = c.colorFor(e)
	return g
}

// operand compiles x and wraps it in parentheses when it binds looser than
// op, or as tight but with a different operator.
func (c *Compiler) operand(x expr.Expr, op expr.Op, level int) Box {
	xLevel := x.Precedence(c.Notation)
	xOp, ok := x.Op()
	if xLevel > level || (xLevel == level && ok && xOp == op) {
		return expr.Visit[Box](x, c)
	}

	depth := c.depth
	c.depth++
	inner := expr.Visit[Box](x, c)
	c.depth--

	h := inner.Extent().Height()
	g := NewGroup(depth,
		NewParen(c.Metrics, c.Params, true, h, depth),
		inner,
		NewParen(c.Metrics, c.Params, false, h, depth))
	g.Color = c.colorFor(x)
	return g
}

func (c *Compiler) colorFor(e expr.Expr) color.Color {
	if c.Colorizer == nil || e == nil {
		return nil
	}
	return c.Colorizer.ColorFor(e)
}
