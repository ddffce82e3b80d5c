package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/booltex/binding"
	"github.com/ByLCY/booltex/dsl"
	"github.com/ByLCY/booltex/expr"
	"github.com/ByLCY/booltex/fonts"
	"github.com/ByLCY/booltex/layout"
	"github.com/ByLCY/booltex/renderer"
	canvasrenderer "github.com/ByLCY/booltex/renderer/canvas"
)

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "examples/demo.json", "表达式 JSON 文件路径")
	flag.StringVar(&opts.output, "out", "output/demo.pdf", "输出路径（.pdf/.svg/.png）")
	flag.StringVar(&opts.width, "width", "", "显示宽度，如 120mm、480px；为空时使用文档中的 width")
	flag.StringVar(&opts.notation, "notation", "", "记法名称；为空时使用文档中的 notation")
	flag.StringVar(&opts.notations, "notations", "", "自定义记法定义文件")
	flag.BoolVar(&opts.centered, "centered", false, "水平居中显示")
	flag.StringVar(&opts.metrics, "metrics", "canvas", "排版度量：canvas、opentype 或 mono")
	flag.IntVar(&opts.gap, "gap", 8, "表达式之间的间距（px）")
	flag.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径")
	flag.BoolVar(&opts.shade, "shade", false, "绘制分组与盒子的调试底色")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", opts.output)
}

type options struct {
	input, output string
	width         string
	notation      string
	notations     string
	centered      bool
	metrics       string
	gap           int
	debug         string
	shade         bool
}

const defaultWidth = "120mm"

// run 串联文档解析、排版与渲染。
func run(opts options) error {
	doc, err := binding.DecodeFile(opts.input)
	if err != nil {
		return err
	}

	name := firstNonEmpty(opts.notation, doc.Notation, expr.Engineering.Name())
	notation, err := findNotation(name, opts.notations)
	if err != nil {
		return err
	}
	width, err := layout.ParseLength(firstNonEmpty(opts.width, doc.Width, defaultWidth))
	if err != nil {
		return fmt.Errorf("解析宽度失败: %w", err)
	}
	format, err := canvasrenderer.FormatForPath(opts.output)
	if err != nil {
		return err
	}

	cr, err := canvasrenderer.NewRenderer()
	if err != nil {
		return fmt.Errorf("初始化渲染器失败: %w", err)
	}
	metrics, err := chooseMetrics(opts.metrics, cr)
	if err != nil {
		return err
	}

	col := &renderer.Column{Gap: opts.gap, Debug: opts.shade}
	var entries []layout.DebugEntry
	for _, ne := range doc.Expressions {
		r, err := renderer.New(metrics,
			renderer.WithNotation(notation),
			renderer.WithCentered(opts.centered || doc.Centered))
		if err != nil {
			return err
		}
		r.SetExpressionWidth(width.ToPX())
		r.SetNamed(ne)
		col.Rows = append(col.Rows, r)
		entries = append(entries, layout.DebugEntry{Name: ne.Name, Line: r.Line()})
	}
	if len(col.Rows) == 0 {
		return fmt.Errorf("%s 中没有表达式", opts.input)
	}

	if opts.debug != "" {
		if err := writeDebug(entries, opts.debug); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := cr.Render(&buf, format, col.Size(int(width.ToPX())), col); err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// findNotation 先在自定义记法文件中查找，再查内置记法。
func findNotation(name, file string) (*expr.Notation, error) {
	if file != "" {
		ns, err := dsl.LoadFile(file)
		if err != nil {
			return nil, err
		}
		for _, n := range ns {
			if strings.EqualFold(n.Name(), name) {
				return n, nil
			}
		}
	}
	if n, ok := expr.Lookup(name); ok {
		return n, nil
	}
	var known []string
	for _, n := range expr.Notations() {
		known = append(known, n.Name())
	}
	return nil, fmt.Errorf("未知记法 %q（内置：%s）", name, strings.Join(known, ", "))
}

func chooseMetrics(kind string, cr *canvasrenderer.Renderer) (layout.Metrics, error) {
	switch kind {
	case "", "canvas":
		return cr, nil
	case "opentype":
		m, err := fonts.NewMetrics(nil)
		if err != nil {
			return nil, fmt.Errorf("加载 opentype 度量失败: %w", err)
		}
		return m, nil
	case "mono":
		return layout.DefaultMonoMetrics(), nil
	default:
		return nil, fmt.Errorf("未知度量 %q（可选 canvas、opentype、mono）", kind)
	}
}

func writeDebug(entries []layout.DebugEntry, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(entries, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
