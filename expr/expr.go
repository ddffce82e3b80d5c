package expr

import (
	"fmt"
	"math"
	"strings"
)

// Atomic 是变量与常量的优先级，高于任何运算符。
const Atomic = math.MaxInt32

// Op identifies a boolean operator.
type Op int

const (
	Eq Op = iota
	Xnor
	Xor
	Or
	And
	Not
	numOps
)

var opNames = [numOps]string{"eq", "xnor", "xor", "or", "and", "not"}

func (op Op) String() string {
	if op < 0 || op >= numOps {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// Ops lists every operator, loosest first.
func Ops() []Op {
	ops := make([]Op, numOps)
	for i := range ops {
		ops[i] = Op(i)
	}
	return ops
}

// Arity returns 1 for Not and 2 for every other operator.
func (op Op) Arity() int {
	if op == Not {
		return 1
	}
	return 2
}

// ParseOp 将运算符名称（不区分大小写）解析为 Op。
func ParseOp(name string) (Op, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range opNames {
		if s == n {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("未知运算符 %q", name)
}

// Visitor is called back by Expr.Accept with the node's parts.
type Visitor[T any] interface {
	VisitVariable(e Expr, desc string) T
	VisitConstant(e Expr, value int64) T
	VisitNot(e Expr, operand Expr) T
	VisitBinary(e Expr, op Op, left, right Expr) T
}

// Expr is a node of a boolean expression tree.
type Expr interface {
	// Precedence returns the level that binds the top of this expression
	// under n, or Atomic for leaves.
	Precedence(n *Notation) int
	// Op returns the top-level operator; ok is false for leaves.
	Op() (op Op, ok bool)
	String() string
}

// Visit dispatches e to the matching method of v.
func Visit[T any](e Expr, v Visitor[T]) T {
	switch e := e.(type) {
	case *Variable:
		return v.VisitVariable(e, e.Name)
	case *Constant:
		return v.VisitConstant(e, e.Value)
	case *NotExpr:
		return v.VisitNot(e, e.Operand)
	case *Binary:
		return v.VisitBinary(e, e.Operator, e.Left, e.Right)
	default:
		panic(fmt.Sprintf("expr: unexpected node type %T", e))
	}
}

// Variable refers to a named signal, optionally a single bit of it.
type Variable struct {
	Name string
}

// Var returns a variable node.
func Var(name string) *Variable { return &Variable{Name: name} }

func (v *Variable) Precedence(*Notation) int { return Atomic }
func (v *Variable) Op() (Op, bool)           { return 0, false }
func (v *Variable) String() string           { return v.Name }

// Constant is a literal value.
type Constant struct {
	Value int64
}

// Const returns a constant node.
func Const(v int64) *Constant { return &Constant{Value: v} }

func (c *Constant) Precedence(*Notation) int { return Atomic }
func (c *Constant) Op() (Op, bool)           { return 0, false }
func (c *Constant) String() string           { return fmt.Sprintf("%d", c.Value) }

// NotExpr negates its operand.
type NotExpr struct {
	Operand Expr
}

// Negate returns the negation of e.
func Negate(e Expr) *NotExpr { return &NotExpr{Operand: e} }

func (n *NotExpr) Precedence(nt *Notation) int { return nt.Level(Not) }
func (n *NotExpr) Op() (Op, bool)              { return Not, true }
func (n *NotExpr) String() string              { return "~(" + n.Operand.String() + ")" }

// Binary applies a two-operand operator.
type Binary struct {
	Operator    Op
	Left, Right Expr
}

// NewBinary returns left op right. It panics when op is Not.
func NewBinary(op Op, left, right Expr) *Binary {
	if op.Arity() != 2 {
		panic(fmt.Sprintf("expr: %v is not a binary operator", op))
	}
	return &Binary{Operator: op, Left: left, Right: right}
}

// AndOf、OrOf 等构造器按左结合折叠多个操作数。
func AndOf(a, b Expr, rest ...Expr) Expr  { return fold(And, a, b, rest) }
func OrOf(a, b Expr, rest ...Expr) Expr   { return fold(Or, a, b, rest) }
func XorOf(a, b Expr, rest ...Expr) Expr  { return fold(Xor, a, b, rest) }
func XnorOf(a, b Expr, rest ...Expr) Expr { return fold(Xnor, a, b, rest) }

// Equation returns name = e.
func Equation(name string, e Expr) *Binary { return NewBinary(Eq, Var(name), e) }

func fold(op Op, a, b Expr, rest []Expr) Expr {
	var res Expr = NewBinary(op, a, b)
	for _, e := range rest {
		res = NewBinary(op, res, e)
	}
	return res
}

func (b *Binary) Precedence(n *Notation) int { return n.Level(b.Operator) }
func (b *Binary) Op() (Op, bool)             { return b.Operator, true }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Operator.String() + " " + b.Right.String() + ")"
}
