package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/booltex/layout"
)

// Face selects a built-in font and its size in pixels.
type Face struct {
	Font string
	Size float64
}

// DefaultFaces returns the faces used for each text style: plain operators,
// bold constants, bold italic variables and small italic subscripts.
func DefaultFaces() map[layout.TextStyle]Face {
	return map[layout.TextStyle]Face{
		layout.StyleOperator:  {Font: "Go-Regular", Size: 14},
		layout.StyleText:      {Font: "Go-Bold", Size: 14},
		layout.StyleVariable:  {Font: "Go-BoldItalic", Size: 14},
		layout.StyleSubscript: {Font: "Go-Italic", Size: 10},
	}
}

// Metrics measures text with x/image opentype faces rendered at 72 DPI, so
// that one point is one pixel.
type Metrics struct {
	mu    sync.Mutex // opentype faces are not safe for concurrent use
	faces map[layout.TextStyle]font.Face
}

var _ layout.Metrics = (*Metrics)(nil)

// NewMetrics parses the fonts named in faces. Styles missing from faces use
// DefaultFaces.
func NewMetrics(faces map[layout.TextStyle]Face) (*Metrics, error) {
	spec := DefaultFaces()
	for style, f := range faces {
		spec[style] = f
	}
	parsed := map[string]*opentype.Font{}
	m := &Metrics{faces: map[layout.TextStyle]font.Face{}}
	for style, f := range spec {
		if f.Size <= 0 {
			return nil, fmt.Errorf("字体 %s 的字号必须为正数: %g", f.Font, f.Size)
		}
		otf, ok := parsed[f.Font]
		if !ok {
			data, err := Load(f.Font)
			if err != nil {
				return nil, err
			}
			otf, err = opentype.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("解析字体 %s 失败: %w", f.Font, err)
			}
			parsed[f.Font] = otf
		}
		face, err := opentype.NewFace(otf, &opentype.FaceOptions{
			Size:    f.Size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("创建字体 %s (%s) 失败: %w", f.Font, style, err)
		}
		m.faces[style] = face
	}
	return m, nil
}

func (m *Metrics) Ascent(style layout.TextStyle) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(m.faces[style].Metrics().Ascent)
}

func (m *Metrics) Descent(style layout.TextStyle) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(m.faces[style].Metrics().Descent)
}

func (m *Metrics) TextWidth(style layout.TextStyle, s string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(font.MeasureString(m.faces[style], s))
}

// Close releases the faces.
func (m *Metrics) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.faces {
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
