package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
// 指向表达式对象的路径会替换为表达式的文本形式。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(exprPattern.FindStringSubmatch(match)[1])
		val, ok := Resolve(data, path)
		if !ok {
			return match
		}
		return formatValue(val, data)
	})
}

func formatValue(v any, root any) string {
	switch v := v.(type) {
	case string:
		return v
	case map[string]any:
		if e, err := (Converter{Root: root}).Expr(v); err == nil {
			return e.String()
		}
	}
	return fmt.Sprint(v)
}

// step is one element of a parsed path: a map key or an array index.
type step struct {
	key   string
	index int
}

func (s step) isIndex() bool { return s.key == "" }

// parsePath splits "defs.carry", "signals[2]" or "rows[0][1].name" into
// steps. Empty segments and malformed brackets are errors.
func parsePath(path string) ([]step, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("路径为空")
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		name = strings.TrimSpace(name)
		if name != "" {
			steps = append(steps, step{key: name})
		}
		if rest == "" && strings.Contains(segment, "[") {
			return nil, fmt.Errorf("路径 %q 中的下标不完整", path)
		}
		for rest != "" {
			idx, after, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, fmt.Errorf("路径 %q 缺少 ]", path)
			}
			n, err := strconv.Atoi(strings.TrimSpace(idx))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("路径 %q 的下标 %q 非法", path, idx)
			}
			steps = append(steps, step{index: n})
			if after == "" {
				break
			}
			if after[0] != '[' {
				return nil, fmt.Errorf("路径 %q 中 ] 后出现多余字符", path)
			}
			rest = after[1:]
		}
		if name == "" && !strings.HasPrefix(segment, "[") {
			return nil, fmt.Errorf("路径 %q 含有空段", path)
		}
	}
	return steps, nil
}

// Resolve looks up a dotted path such as "defs.carry" or "signals[2]" in a
// decoded JSON value.
func Resolve(data any, path string) (any, bool) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, false
	}
	current := data
	for _, s := range steps {
		if s.isIndex() {
			list, ok := current.([]any)
			if !ok || s.index >= len(list) {
				return nil, false
			}
			current = list[s.index]
			continue
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[s.key]; !ok {
			return nil, false
		}
	}
	return current, true
}
