package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/booltex/expr"
	"github.com/ByLCY/booltex/layout"
)

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(layout.DefaultMonoMetrics(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func texts(l *layout.Line) []string {
	var res []string
	for _, a := range l.Atoms {
		res = append(res, a.Text)
	}
	return res
}

func chain(n int) expr.Expr {
	vars := make([]expr.Expr, n)
	for i := range vars {
		vars[i] = expr.Var(string(rune('a' + i)))
	}
	return expr.OrOf(vars[0], vars[1], vars[2:]...)
}

func TestNewValidates(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for missing metrics")
	}
	if _, err := New(layout.DefaultMonoMetrics(), WithMargin(-1)); err == nil {
		t.Fatalf("expected error for negative margin")
	}
	if _, err := New(layout.DefaultMonoMetrics(), WithNotation(nil)); err == nil {
		t.Fatalf("expected error for nil notation")
	}
}

func TestDefaultsBeforeLayout(t *testing.T) {
	r := newRenderer(t)
	if r.MeasureWidth() != DefaultWidth || r.MeasureHeight() != DefaultHeight {
		t.Fatalf("unexpected default size %dx%d", r.MeasureWidth(), r.MeasureHeight())
	}
	if r.Line() != nil {
		t.Fatalf("expected no layout")
	}
	rec := layout.NewRecorder(color.Black)
	r.Paint(rec, image.Pt(200, 50))
	if len(rec.Ops) != 0 {
		t.Fatalf("painted an empty renderer: %v", rec.Ops)
	}
}

func TestSetExpression(t *testing.T) {
	r := newRenderer(t, WithNotation(expr.Mathematics))
	r.SetExpression("x", expr.AndOf(expr.Var("a"), expr.Var("b")))
	if diff := cmp.Diff([]string{"x", " = ", "a", " ∧ ", "b"}, texts(r.Line())); diff != "" {
		t.Fatalf("atoms mismatch (-want +got):\n%s", diff)
	}
	// 66 wide, 17 high, plus two margins
	if r.MeasureWidth() != 96 || r.MeasureHeight() != 17 {
		t.Fatalf("unexpected size %dx%d", r.MeasureWidth(), r.MeasureHeight())
	}
}

func TestSetError(t *testing.T) {
	r := newRenderer(t)
	r.SetError("X", "bad token")
	l := r.Line()
	if diff := cmp.Diff([]string{"X", " = ", "{", " bad", " token", " }"}, texts(l)); diff != "" {
		t.Fatalf("atoms mismatch (-want +got):\n%s", diff)
	}
	if l.Atoms[0].Kind != layout.KindVariable {
		t.Fatalf("name should be a variable box, got %v", l.Atoms[0].Kind)
	}
	for i, want := range []int{0, 0, 0, 1, 1, 0} {
		if l.Atoms[i].Depth != want {
			t.Fatalf("atom %d depth %d, want %d", i, l.Atoms[i].Depth, want)
		}
	}
}

func TestSetNamed(t *testing.T) {
	r := newRenderer(t)
	r.SetNamed(NamedExpression{Name: "y"})
	if diff := cmp.Diff([]string{"y", " = ", "{", " unspecified", " }"}, texts(r.Line())); diff != "" {
		t.Fatalf("atoms mismatch (-want +got):\n%s", diff)
	}
	r.SetNamed(NamedExpression{Name: "y", Err: "syntax error"})
	if got := texts(r.Line())[3:5]; !cmp.Equal(got, []string{" syntax", " error"}) {
		t.Fatalf("unexpected message boxes %q", got)
	}
	r.SetNamed(NamedExpression{Name: "y", Expr: expr.Var("a"), Err: "ignored"})
	if diff := cmp.Diff([]string{"y", " = ", "a"}, texts(r.Line())); diff != "" {
		t.Fatalf("atoms mismatch (-want +got):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	r := newRenderer(t)
	r.SetExpression("x", expr.Var("a"))
	r.Clear()
	if diff := cmp.Diff([]string{" "}, texts(r.Line())); diff != "" {
		t.Fatalf("atoms mismatch (-want +got):\n%s", diff)
	}
	if r.MeasureHeight() <= 0 {
		t.Fatalf("cleared layout collapsed")
	}
}

func TestExpressionWidthFollowsMargins(t *testing.T) {
	r := newRenderer(t)
	if got := r.ExpressionWidth(); got != DefaultWidth {
		t.Fatalf("default expression width %g", got)
	}
	r.SetExpressionWidth(200)
	if got := r.ExpressionWidth(); got != 200-DefaultMargin {
		t.Fatalf("left aligned width %g", got)
	}
	r.SetCentered(true)
	if got := r.ExpressionWidth(); got != 200-2*DefaultMargin {
		t.Fatalf("centered width %g", got)
	}
}

func TestSetExpressionWidthRefits(t *testing.T) {
	r := newRenderer(t, WithNotation(expr.Mathematics))
	r.SetExpressionWidth(100 + DefaultMargin)
	r.SetExpression("x", chain(6))
	if n := len(r.Line().Breaks); n < 2 {
		t.Fatalf("expected a wrapped layout, got %d lines", n)
	}
	narrow := r.MeasureHeight()

	r.SetExpressionWidth(400)
	if n := len(r.Line().Breaks); n != 1 {
		t.Fatalf("expected one line after widening, got %d", n)
	}
	if r.MeasureHeight() >= narrow {
		t.Fatalf("height did not shrink: %d >= %d", r.MeasureHeight(), narrow)
	}
}

func TestSetNotationKeepsLayout(t *testing.T) {
	r := newRenderer(t, WithNotation(expr.Mathematics))
	r.SetExpression("x", expr.AndOf(expr.Var("a"), expr.Var("b")))
	r.SetNotation(expr.Programming)
	if texts(r.Line())[3] != " ∧ " {
		t.Fatalf("layout changed before SetExpression: %q", texts(r.Line()))
	}
	r.SetExpression("x", expr.AndOf(expr.Var("a"), expr.Var("b")))
	if texts(r.Line())[3] != " && " {
		t.Fatalf("notation not applied: %q", texts(r.Line()))
	}
	r.SetNotation(nil)
	if r.Notation() != expr.Engineering {
		t.Fatalf("nil notation should select the default")
	}
}

func TestBounds(t *testing.T) {
	r := newRenderer(t, WithNotation(expr.Mathematics))
	r.SetExpression("x", expr.AndOf(expr.Var("a"), expr.Var("b")))
	container := image.Pt(200, 50)
	if got, want := r.Bounds(container), image.Rect(15, 16, 111, 33); got != want {
		t.Fatalf("left aligned bounds %v, want %v", got, want)
	}
	r.SetCentered(true)
	// 66 + one margin = 81
	if got, want := r.Bounds(container), image.Rect(59, 16, 140, 33); got != want {
		t.Fatalf("centered bounds %v, want %v", got, want)
	}
	if got := r.Bounds(image.Pt(10, 50)); got.Min.X != 0 {
		t.Fatalf("centered bounds should not start left of the container: %v", got)
	}
}

func TestPaint(t *testing.T) {
	fg := color.RGBA{10, 20, 30, 255}
	r := newRenderer(t, WithNotation(expr.Mathematics), WithForeground(fg))
	r.SetExpression("x", expr.AndOf(expr.Var("a"), expr.Var("b")))

	rec := layout.NewRecorder(color.White)
	r.Paint(rec, image.Pt(200, 50))
	if diff := cmp.Diff([]string{"x", " = ", "a", " ∧ ", "b"}, rec.Texts()); diff != "" {
		t.Fatalf("painted texts mismatch (-want +got):\n%s", diff)
	}
	first := rec.Ops[0]
	// margin 15, vertically centered: (50-17)/2 + ascent 13
	if diff := cmp.Diff([]float64{15, 29.5}, first.Args); diff != "" {
		t.Fatalf("first glyph position (-want +got):\n%s", diff)
	}
	for _, op := range rec.Ops {
		if op.Color != fg {
			t.Fatalf("op %v not painted in the foreground color", op)
		}
	}
	if rec.Color() != color.White {
		t.Fatalf("surface color not restored: %v", rec.Color())
	}
}

func TestPaintColorizer(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	b := expr.Var("b")
	r := newRenderer(t, WithNotation(expr.Mathematics), WithColorizer(layout.ColorizerFunc(func(e expr.Expr) color.Color {
		if e == b {
			return red
		}
		return nil
	})))
	r.SetExpression("x", expr.AndOf(expr.Var("a"), b))
	rec := layout.NewRecorder(color.Black)
	r.Paint(rec, image.Pt(200, 50))
	for _, op := range rec.Ops {
		want := color.Color(color.Black)
		if op.Text == "b" {
			want = red
		}
		if op.Color != want {
			t.Fatalf("%q painted in %v, want %v", op.Text, op.Color, want)
		}
	}
}

func TestDebugPaint(t *testing.T) {
	r := newRenderer(t, WithNotation(expr.Mathematics))
	r.SetExpression("x", expr.AndOf(expr.Var("a"), expr.Var("b")))
	rec := layout.NewRecorder(color.Black)
	r.Debug().Paint(rec, image.Pt(200, 50))

	fills := 0
	for _, op := range rec.Ops {
		if op.Name == "fill" {
			fills++
			if op.Args[0] < 15 {
				t.Fatalf("shading not translated: %v", op)
			}
		}
	}
	if fills == 0 {
		t.Fatalf("no debug shading painted")
	}
}

func TestRepeatedLayoutIsIdentical(t *testing.T) {
	r := newRenderer(t)
	r.SetExpressionWidth(90)
	e := expr.AndOf(expr.OrOf(expr.Var("a"), expr.Negate(expr.Var("b"))), chain(5))

	paint := func() []layout.Op {
		r.SetExpression("out", e)
		rec := layout.NewRecorder(color.Black)
		r.Paint(rec, image.Pt(120, 200))
		return rec.Ops
	}
	if diff := cmp.Diff(paint(), paint()); diff != "" {
		t.Fatalf("layouts differ:\n%s", diff)
	}
}

func TestColumn(t *testing.T) {
	r1, r2 := newRenderer(t), newRenderer(t)
	r1.SetExpression("x", expr.Var("a"))
	r2.SetExpression("y", expr.Var("b"))
	col := &Column{Rows: []*Renderer{r1, r2}, Gap: 4}

	size := col.Size(0)
	if size.Y != 17+4+17 || size.X != r1.MeasureWidth() {
		t.Fatalf("unexpected column size %v", size)
	}
	if got := col.Size(300); got.X != 300 {
		t.Fatalf("explicit width ignored: %v", got)
	}

	rec := layout.NewRecorder(color.Black)
	col.Paint(rec, size)
	var ys []float64
	for _, op := range rec.Ops {
		if op.Text == "x" || op.Text == "y" {
			ys = append(ys, op.Args[1])
		}
	}
	if diff := cmp.Diff([]float64{13, 34}, ys); diff != "" {
		t.Fatalf("row baselines (-want +got):\n%s", diff)
	}
}

func TestTranslateNests(t *testing.T) {
	rec := layout.NewRecorder(color.Black)
	s := Translate(Translate(rec, 1, 2), 3, 4)
	s.DrawLine(0, 0, 1, 1)
	if diff := cmp.Diff([]float64{4, 6, 5, 7}, rec.Ops[0].Args); diff != "" {
		t.Fatalf("line mismatch (-want +got):\n%s", diff)
	}
}
