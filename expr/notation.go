package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Notation maps every operator to a display symbol and a precedence level.
// A Notation is never modified after construction and may be shared.
type Notation struct {
	name        string
	label       string
	symbols     [numOps]string
	levels      [numOps]int
	defined     [numOps]bool
	overlineNot bool
	base        int
}

// OpDef 描述单个运算符在某种记法下的符号与优先级。
type OpDef struct {
	Op     Op
	Symbol string
	Level  int
}

// NotationSpec is the input to NewNotation.
type NotationSpec struct {
	Name  string
	Label string
	Ops   []OpDef
	// OverlineNot draws negation as a bar above the operand instead of a
	// prefix symbol.
	OverlineNot bool
	// Base is the radix used for constants; 0 means 16.
	Base int
}

// NewNotation validates spec and builds an immutable Notation. Every
// operator must be defined exactly once.
func NewNotation(spec NotationSpec) (*Notation, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("记法缺少名称")
	}
	n := &Notation{
		name:        spec.Name,
		label:       spec.Label,
		overlineNot: spec.OverlineNot,
		base:        spec.Base,
	}
	if n.label == "" {
		n.label = spec.Name
	}
	if n.base == 0 {
		n.base = 16
	}
	if n.base < 2 || n.base > 36 {
		return nil, fmt.Errorf("记法 %s: 不支持的进制 %d", spec.Name, spec.Base)
	}
	for _, d := range spec.Ops {
		if d.Op < 0 || d.Op >= numOps {
			return nil, fmt.Errorf("记法 %s: 非法运算符 %d", spec.Name, int(d.Op))
		}
		if n.defined[d.Op] {
			return nil, fmt.Errorf("记法 %s: 运算符 %v 重复定义", spec.Name, d.Op)
		}
		n.defined[d.Op] = true
		n.symbols[d.Op] = d.Symbol
		n.levels[d.Op] = d.Level
	}
	for op := Op(0); op < numOps; op++ {
		if !n.defined[op] {
			return nil, fmt.Errorf("记法 %s: 缺少运算符 %v", spec.Name, op)
		}
	}
	return n, nil
}

// MustNotation is like NewNotation but panics on error.
func MustNotation(spec NotationSpec) *Notation {
	n, err := NewNotation(spec)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Notation) Name() string      { return n.name }
func (n *Notation) Label() string     { return n.label }
func (n *Notation) OverlineNot() bool { return n.overlineNot }
func (n *Notation) Base() int         { return n.base }

// Symbol returns the display symbol of op. Asking for an operator that is
// outside the table is a programming error.
func (n *Notation) Symbol(op Op) string {
	n.check(op)
	return n.symbols[op]
}

// Level returns the precedence of op; larger binds tighter.
func (n *Notation) Level(op Op) int {
	n.check(op)
	return n.levels[op]
}

// FormatConstant renders v in the notation's base.
func (n *Notation) FormatConstant(v int64) string {
	return strconv.FormatInt(v, n.base)
}

// Spec returns a NotationSpec that rebuilds n. Editing the result does not
// affect n.
func (n *Notation) Spec() NotationSpec {
	spec := NotationSpec{Name: n.name, Label: n.label, OverlineNot: n.overlineNot, Base: n.base}
	for _, op := range Ops() {
		spec.Ops = append(spec.Ops, OpDef{Op: op, Symbol: n.symbols[op], Level: n.levels[op]})
	}
	return spec
}

func (n *Notation) check(op Op) {
	if op < 0 || op >= numOps || !n.defined[op] {
		panic(fmt.Sprintf("expr: notation %s has no operator %v", n.name, op))
	}
}

// Built-in notations.
var (
	Engineering = MustNotation(NotationSpec{
		Name:  "engineering",
		Label: "Engineering",
		Ops: []OpDef{
			{Eq, " = ", 0},
			{Xnor, " ⊙ ", 1},
			{Xor, " ⊕ ", 2},
			{Or, " + ", 3},
			{And, " · ", 4},
			{Not, "/", 5},
		},
		OverlineNot: true,
	})
	Mathematics = MustNotation(NotationSpec{
		Name:  "mathematics",
		Label: "Mathematics",
		Ops: []OpDef{
			{Eq, " = ", 0},
			{Xnor, " ↔ ", 1},
			{Xor, " ⊕ ", 1},
			{Or, " ∨ ", 2},
			{And, " ∧ ", 3},
			{Not, "¬", 4},
		},
	})
	Programming = MustNotation(NotationSpec{
		Name:  "programming",
		Label: "Programming (boolean)",
		Ops: []OpDef{
			{Eq, " = ", 0},
			{Xnor, " == ", 1},
			{Xor, " != ", 1},
			{Or, " || ", 2},
			{And, " && ", 3},
			{Not, "!", 4},
		},
	})
	Bitwise = MustNotation(NotationSpec{
		Name:  "bitwise",
		Label: "Programming (bitwise)",
		Ops: []OpDef{
			{Eq, " = ", 0},
			{Or, " | ", 1},
			{Xnor, " ~^ ", 2},
			{Xor, " ^ ", 2},
			{And, " & ", 3},
			{Not, "~", 4},
		},
	})
)

var builtin = map[string]*Notation{
	Engineering.name: Engineering,
	Mathematics.name: Mathematics,
	Programming.name: Programming,
	Bitwise.name:     Bitwise,
}

// Lookup returns the built-in notation with the given name.
func Lookup(name string) (*Notation, bool) {
	n, ok := builtin[strings.ToLower(name)]
	return n, ok
}

// Notations lists the built-in notations sorted by name.
func Notations() []*Notation {
	res := make([]*Notation, 0, len(builtin))
	for _, n := range builtin {
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].name < res[j].name })
	return res
}
