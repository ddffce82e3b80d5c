package binding

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ByLCY/booltex/renderer"
)

// Document is a decoded input file:
//
//	{
//	  "notation": "mathematics",
//	  "width": "120mm",
//	  "centered": false,
//	  "defs": {"carry": {"op": "and", "args": ["a", "b"]}},
//	  "expressions": [
//	    {"name": "cout", "expr": {"ref": "defs.carry"}},
//	    {"name": "s", "error": "未定义: ${defs.sum}"}
//	  ]
//	}
//
// "expressions" may also be an object mapping names to expressions; the
// entries are then sorted by name.
type Document struct {
	Notation    string
	Width       string
	Centered    bool
	Expressions []renderer.NamedExpression
}

// Decode reads a JSON document from r.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}
	return FromValue(root)
}

// DecodeFile reads the JSON document at path.
func DecodeFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取文档 %s 失败: %w", path, err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// FromValue builds a Document from an already decoded JSON value. An entry
// whose expression does not convert is kept with the conversion error as
// its message, so it is displayed on the error path.
func FromValue(root any) (*Document, error) {
	m, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("文档根节点必须是对象，得到 %T", root)
	}
	doc := &Document{}
	if v, ok := m["notation"]; ok {
		if doc.Notation, ok = v.(string); !ok {
			return nil, fmt.Errorf("notation 需要字符串，得到 %T", v)
		}
	}
	switch v := m["width"].(type) {
	case nil:
	case string:
		doc.Width = v
	case json.Number:
		doc.Width = v.String()
	case float64:
		doc.Width = fmt.Sprint(v)
	default:
		return nil, fmt.Errorf("width 需要字符串或数字，得到 %T", v)
	}
	if v, ok := m["centered"]; ok {
		if doc.Centered, ok = v.(bool); !ok {
			return nil, fmt.Errorf("centered 需要布尔值，得到 %T", v)
		}
	}

	conv := Converter{Root: root}
	switch list := m["expressions"].(type) {
	case nil:
	case []any:
		for i, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("expressions[%d] 必须是对象，得到 %T", i, item)
			}
			name, _ := entry["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("expressions[%d] 缺少 name", i)
			}
			msg, _ := entry["error"].(string)
			doc.Expressions = append(doc.Expressions, conv.named(root, name, entry["expr"], msg))
		}
	case map[string]any:
		names := make([]string, 0, len(list))
		for name := range list {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			doc.Expressions = append(doc.Expressions, conv.named(root, name, list[name], ""))
		}
	default:
		return nil, fmt.Errorf("expressions 需要数组或对象，得到 %T", list)
	}
	return doc, nil
}

func (c Converter) named(root any, name string, v any, msg string) renderer.NamedExpression {
	ne := renderer.NamedExpression{Name: Interpolate(name, root)}
	if v == nil {
		ne.Err = Interpolate(msg, root)
		return ne
	}
	e, err := c.Expr(v)
	if err != nil {
		ne.Err = err.Error()
		return ne
	}
	ne.Expr = e
	return ne
}
