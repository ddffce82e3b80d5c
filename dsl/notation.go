package dsl

import (
	"fmt"
	"strings"

	"github.com/ByLCY/booltex/expr"
)

// Notations builds the declared notations in file order. A declaration may
// extend a built-in notation or one declared earlier in the file.
func (f *File) Notations() ([]*expr.Notation, error) {
	declared := map[string]*expr.Notation{}
	res := make([]*expr.Notation, 0, len(f.Decls))
	for _, d := range f.Decls {
		key := strings.ToLower(d.Name)
		if _, dup := declared[key]; dup {
			return nil, fmt.Errorf("%s: 记法 %s 重复定义", d.Pos, d.Name)
		}
		n, err := d.build(declared)
		if err != nil {
			return nil, err
		}
		declared[key] = n
		res = append(res, n)
	}
	return res, nil
}

func (d *NotationDecl) build(declared map[string]*expr.Notation) (*expr.Notation, error) {
	spec := expr.NotationSpec{Name: d.Name}
	// index into spec.Ops for operators inherited from the parent
	inherited := map[expr.Op]int{}
	if d.Extends != "" {
		parent, ok := declared[strings.ToLower(d.Extends)]
		if !ok {
			parent, ok = expr.Lookup(d.Extends)
		}
		if !ok {
			return nil, fmt.Errorf("%s: 记法 %s 继承的 %s 不存在", d.Pos, d.Name, d.Extends)
		}
		spec = parent.Spec()
		spec.Name, spec.Label = d.Name, ""
		for i, def := range spec.Ops {
			inherited[def.Op] = i
		}
	}

	seen := map[expr.Op]bool{}
	for _, e := range d.Entries {
		if s := e.Setting; s != nil {
			if err := s.apply(&spec); err != nil {
				return nil, err
			}
			continue
		}
		o := e.Operator
		op, err := expr.ParseOp(o.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.Pos, err)
		}
		if seen[op] {
			return nil, fmt.Errorf("%s: 运算符 %v 重复定义", o.Pos, op)
		}
		seen[op] = true
		def := expr.OpDef{Op: op, Symbol: string(o.Symbol), Level: o.Level}
		if i, ok := inherited[op]; ok {
			spec.Ops[i] = def
		} else {
			spec.Ops = append(spec.Ops, def)
		}
	}

	n, err := expr.NewNotation(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Pos, err)
	}
	return n, nil
}

func (s *Setting) apply(spec *expr.NotationSpec) error {
	switch s.Key {
	case "label":
		if s.Value.String == nil {
			return fmt.Errorf("%s: label 需要字符串，得到 %s", s.Pos, s.Value.text())
		}
		spec.Label = string(*s.Value.String)
	case "base":
		if s.Value.Number == nil {
			return fmt.Errorf("%s: base 需要数字，得到 %s", s.Pos, s.Value.text())
		}
		spec.Base = *s.Value.Number
	case "overline":
		if s.Value.Bool == nil {
			return fmt.Errorf("%s: overline 需要 true 或 false，得到 %s", s.Pos, s.Value.text())
		}
		spec.OverlineNot = bool(*s.Value.Bool)
	default:
		return fmt.Errorf("%s: 未知设置 %q", s.Pos, s.Key)
	}
	return nil
}

// LoadFile parses the notation file at path and builds its notations.
func LoadFile(path string) ([]*expr.Notation, error) {
	f, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return f.Notations()
}
