package binding

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/booltex/expr"
)

// maxRefDepth bounds chains of "ref" lookups so that cyclic documents fail
// instead of recursing forever.
const maxRefDepth = 32

// Converter turns decoded JSON values into expression trees. Values are
// encoded as
//
//	"a", "data[3]"                        variable
//	12, true                              constant
//	{"var": "a"} / {"const": 12}          explicit leaves
//	{"op": "and", "args": [x, y, ...]}    operator; binary operators fold left
//	{"ref": "defs.carry"}                 another value of the document
type Converter struct {
	// Root is the document "ref" paths are resolved against.
	Root any
}

// Expr converts v.
func (c Converter) Expr(v any) (expr.Expr, error) {
	return c.convert(v, "$", 0)
}

func (c Converter) convert(v any, at string, refs int) (expr.Expr, error) {
	switch v := v.(type) {
	case nil:
		return nil, fmt.Errorf("%s: 缺少表达式", at)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%s: 变量名为空", at)
		}
		if _, err := expr.ParseBit(v); err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		return expr.Var(v), nil
	case bool:
		if v {
			return expr.Const(1), nil
		}
		return expr.Const(0), nil
	case float64, json.Number:
		n, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		return expr.Const(n), nil
	case map[string]any:
		return c.convertObject(v, at, refs)
	default:
		return nil, fmt.Errorf("%s: 无法识别的表达式类型 %T", at, v)
	}
}

func (c Converter) convertObject(m map[string]any, at string, refs int) (expr.Expr, error) {
	if path, ok := m["ref"]; ok {
		p, ok := path.(string)
		if !ok {
			return nil, fmt.Errorf("%s.ref: 需要字符串路径", at)
		}
		if refs >= maxRefDepth {
			return nil, fmt.Errorf("%s: 引用层级过深（可能存在循环引用）: %s", at, p)
		}
		target, ok := Resolve(c.Root, p)
		if !ok {
			return nil, fmt.Errorf("%s: 引用 %s 不存在", at, p)
		}
		return c.convert(target, p, refs+1)
	}
	if name, ok := m["var"]; ok {
		s, ok := name.(string)
		if !ok {
			return nil, fmt.Errorf("%s.var: 需要字符串", at)
		}
		return c.convert(s, at+".var", refs)
	}
	if value, ok := m["const"]; ok {
		n, err := toInt(value)
		if err != nil {
			return nil, fmt.Errorf("%s.const: %w", at, err)
		}
		return expr.Const(n), nil
	}

	name, ok := m["op"].(string)
	if !ok {
		return nil, fmt.Errorf("%s: 对象需要 op、var、const 或 ref 字段", at)
	}
	op, err := expr.ParseOp(name)
	if err != nil {
		return nil, fmt.Errorf("%s.op: %w", at, err)
	}
	raw, _ := m["args"].([]any)
	args := make([]expr.Expr, len(raw))
	for i, a := range raw {
		if args[i], err = c.convert(a, fmt.Sprintf("%s.args[%d]", at, i), refs); err != nil {
			return nil, err
		}
	}

	switch {
	case op == expr.Not:
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: not 需要 1 个参数，得到 %d 个", at, len(args))
		}
		return expr.Negate(args[0]), nil
	case op == expr.Eq:
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: eq 需要 2 个参数，得到 %d 个", at, len(args))
		}
		return expr.NewBinary(op, args[0], args[1]), nil
	case len(args) < 2:
		return nil, fmt.Errorf("%s: %v 至少需要 2 个参数，得到 %d 个", at, op, len(args))
	}
	e := expr.Expr(expr.NewBinary(op, args[0], args[1]))
	for _, a := range args[2:] {
		e = expr.NewBinary(op, e, a)
	}
	return e, nil
}

func toInt(v any) (int64, error) {
	switch v := v.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("常量必须为整数: %s", v)
		}
		return n, nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt64 {
			return 0, fmt.Errorf("常量必须为整数: %g", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("常量需要数字，得到 %T", v)
	}
}
