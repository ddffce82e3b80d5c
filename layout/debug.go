package layout

import (
	"encoding/json"
	"os"
)

// DebugEntry pairs a layout with the name it was typeset for.
type DebugEntry struct {
	Name string `json:"name"`
	Line *Line  `json:"line"`
}

// WriteDebugJSON 将折行后的盒子序列输出为 JSON，便于调试或可视化。
func WriteDebugJSON(entries []DebugEntry, path string) error {
	if entries == nil {
		entries = []DebugEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
