package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Bit is a variable descriptor split into a base name and an optional bit
// index. Index is -1 when the descriptor names the whole variable.
type Bit struct {
	Name  string
	Index int
}

// ParseBit parses "name", "name[3]" or "name:3".
func ParseBit(desc string) (Bit, error) {
	s := strings.TrimSpace(desc)
	if s == "" {
		return Bit{}, fmt.Errorf("变量描述为空")
	}
	name, idx := s, ""
	if i := strings.IndexByte(s, '['); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return Bit{}, fmt.Errorf("变量描述 %q 缺少 ]", desc)
		}
		name, idx = s[:i], s[i+1:len(s)-1]
	} else if i := strings.IndexByte(s, ':'); i >= 0 {
		name, idx = s[:i], s[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Bit{}, fmt.Errorf("变量描述 %q 缺少名称", desc)
	}
	if idx == "" {
		if name != s {
			return Bit{}, fmt.Errorf("变量描述 %q 缺少位序号", desc)
		}
		return Bit{Name: name, Index: -1}, nil
	}
	b, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil || b < 0 {
		return Bit{}, fmt.Errorf("变量描述 %q 的位序号非法", desc)
	}
	return Bit{Name: name, Index: b}, nil
}

func (b Bit) String() string {
	if b.Index < 0 {
		return b.Name
	}
	return fmt.Sprintf("%s[%d]", b.Name, b.Index)
}
