package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/booltex/fonts"
	"github.com/ByLCY/booltex/layout"
	"github.com/ByLCY/booltex/renderer"
)

// Format is an output file format.
type Format string

const (
	PDF Format = "pdf"
	SVG Format = "svg"
	PNG Format = "png"
)

// FormatForPath 根据文件扩展名推断输出格式。
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "pdf":
		return PDF, nil
	case "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q（可选 pdf/svg/png）", ext)
	}
}

// ruleWidth is the stroke width of overlines and debug frames, in px.
const ruleWidth = 1

// Renderer measures and draws text with github.com/tdewolff/canvas. Layout
// coordinates are pixels; canvas works in millimeters, so every value is
// converted at the boundary.
type Renderer struct {
	baseDir    string
	background color.Color
	pngScale   float64

	fontMu   sync.Mutex
	families map[layout.TextStyle]*canvas.FontFamily
	sizes    map[layout.TextStyle]float64 // px
	faces    map[faceKey]*canvas.FontFace
}

var _ layout.Metrics = (*Renderer)(nil)

type faceKey struct {
	style layout.TextStyle
	scale float64
	color color.RGBA
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	// Fonts overrides the font of a text style; see Resource.
	Fonts map[layout.TextStyle]Resource
	// Sizes overrides the font size of a text style, in px.
	Sizes map[layout.TextStyle]float64
	// Background fills the page before painting; nil leaves it transparent.
	Background color.Color
	// PNGScale is the number of output pixels per layout pixel.
	PNGScale float64
}

// Resource can be provided either by Bytes or by Path. A Path starting
// with "embed:" names a font of the fonts package.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a renderer with the built-in fonts on a white page.
func NewRenderer() (*Renderer, error) {
	return NewRendererWithOptions(Options{Background: canvas.White})
}

// NewRendererWithOptions creates a renderer and loads all fonts up front.
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	r := &Renderer{
		baseDir:    opts.BaseDir,
		background: opts.Background,
		pngScale:   opts.PNGScale,
		families:   map[layout.TextStyle]*canvas.FontFamily{},
		sizes:      map[layout.TextStyle]float64{},
		faces:      map[faceKey]*canvas.FontFace{},
	}
	if r.pngScale <= 0 {
		r.pngScale = 2
	}
	for style, f := range fonts.DefaultFaces() {
		res, ok := opts.Fonts[style]
		if !ok {
			res = Resource{Path: "embed:" + f.Font}
		}
		size := f.Size
		if s, ok := opts.Sizes[style]; ok {
			size = s
		}
		if size <= 0 {
			return nil, fmt.Errorf("%s 样式的字号必须为正数: %g", style, size)
		}
		data, err := r.loadFontBytes(res)
		if err != nil {
			return nil, err
		}
		family := canvas.NewFontFamily("booltex-" + style.String())
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载 %s 样式字体失败: %w", style, err)
		}
		r.families[style] = family
		r.sizes[style] = size
	}
	return r, nil
}

func (r *Renderer) loadFontBytes(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, fmt.Errorf("字体资源缺少 Bytes 或 Path")
	}
	if strings.HasPrefix(res.Path, "embed:") {
		return fonts.Load(res.Path)
	}
	path := res.Path
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", res.Path)
		}
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
	}
	return data, nil
}

// face returns the face of style enlarged by scale and filled with c.
func (r *Renderer) face(style layout.TextStyle, scale float64, c color.Color) *canvas.FontFace {
	key := faceKey{style: style, scale: scale, color: color.RGBAModel.Convert(c).(color.RGBA)}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f
	}
	family, ok := r.families[style]
	if !ok {
		panic(fmt.Sprintf("canvasrenderer: unknown text style %v", style))
	}
	f := family.Face(toPt(r.sizes[style]*scale), key.color, canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = f
	return f
}

// Ascent implements layout.Metrics.
func (r *Renderer) Ascent(style layout.TextStyle) float64 {
	return toPx(r.face(style, 1, color.Black).Metrics().Ascent)
}

// Descent implements layout.Metrics.
func (r *Renderer) Descent(style layout.TextStyle) float64 {
	return toPx(r.face(style, 1, color.Black).Metrics().Descent)
}

// TextWidth implements layout.Metrics.
func (r *Renderer) TextWidth(style layout.TextStyle, s string) float64 {
	if s == "" {
		return 0
	}
	return toPx(r.face(style, 1, color.Black).TextWidth(s))
}

// Render paints p into a page of the given size in px and writes it to w.
func (r *Renderer) Render(w io.Writer, format Format, size image.Point, p renderer.Painter) error {
	if p == nil {
		return fmt.Errorf("缺少可渲染的内容")
	}
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("页面尺寸无效: %v", size)
	}
	width, height := toMm(float64(size.X)), toMm(float64(size.Y))
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与布局一致：左上角为原点，y 向下
	if r.background != nil {
		ctx.SetFillColor(r.background)
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.DrawPath(0, 0, canvas.Rectangle(width, height))
	}
	p.Paint(r.NewSurface(ctx), size)

	switch format {
	case PDF:
		writer := pdf.New(w, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case SVG:
		writer := svg.New(w, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case PNG:
		img := rasterizer.Draw(c, canvas.DPMM(layout.MmToPx*r.pngScale), canvas.DefaultColorSpace)
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("写入 PNG 失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的输出格式 %q", format)
	}
	return nil
}

// toPt 将像素(px)转换为点(pt)，用于创建字体面。
func toPt(px float64) float64 { return px * layout.PxToMm * layout.MmToPt }

func toMm(px float64) float64 { return px * layout.PxToMm }

func toPx(mm float64) float64 { return mm * layout.MmToPx }
