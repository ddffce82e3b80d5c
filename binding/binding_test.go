package binding

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/booltex/expr"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return v
}

func TestResolveAndInterpolate(t *testing.T) {
	data := decode(t, `{"user": {"name": "Ada"}, "bits": [["x", "y"], ["z"]]}`)
	if v, ok := Resolve(data, "bits[0][1]"); !ok || v != "y" {
		t.Fatalf("Resolve: %v %v", v, ok)
	}
	if _, ok := Resolve(data, "bits[5]"); ok {
		t.Fatalf("expected out of range lookup to fail")
	}
	if _, ok := Resolve(data, "user.name.first"); ok {
		t.Fatalf("expected lookup through a string to fail")
	}
	got := Interpolate("hi ${user.name}, ${ bits[1][0] } ${missing}", data)
	if got != "hi Ada, z ${missing}" {
		t.Fatalf("Interpolate: %q", got)
	}
	if Interpolate("${a}", nil) != "${a}" {
		t.Fatalf("nil data should leave text unchanged")
	}

	defs := decode(t, `{"defs": {"carry": {"op": "and", "args": ["a", "b"]}, "n": 3}}`)
	if got := Interpolate("carry = ${defs.carry}, n = ${defs.n}", defs); got != "carry = (a and b), n = 3" {
		t.Fatalf("Interpolate expression: %q", got)
	}
}

func TestParsePath(t *testing.T) {
	steps, err := parsePath("rows[0][12].name")
	if err != nil {
		t.Fatalf("parsePath: %v", err)
	}
	want := []step{{key: "rows"}, {index: 0}, {index: 12}, {key: "name"}}
	if diff := cmp.Diff(want, steps, cmp.AllowUnexported(step{})); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"", "a..b", "a[", "a[1", "a[x]", "a[-1]", "a[1]b"} {
		if _, err := parsePath(bad); err == nil {
			t.Fatalf("parsePath(%q): expected error", bad)
		}
	}
}

func TestConvert(t *testing.T) {
	root := decode(t, `{"defs": {"carry": {"op": "and", "args": ["a", "b"]}}}`)
	conv := Converter{Root: root}
	cases := []struct {
		in   string
		want string
	}{
		{`"a"`, "a"},
		{`"data[3]"`, "data[3]"},
		{`12`, "12"},
		{`true`, "1"},
		{`{"const": 7}`, "7"},
		{`{"var": "q"}`, "q"},
		{`{"op": "not", "args": ["a"]}`, "~(a)"},
		{`{"op": "or", "args": ["a", "b", "c"]}`, "((a or b) or c)"},
		{`{"op": "XOR", "args": [{"ref": "defs.carry"}, 1]}`, "((a and b) xor 1)"},
		{`{"op": "eq", "args": ["y", "a"]}`, "(y eq a)"},
	}
	for _, c := range cases {
		e, err := conv.Expr(decode(t, c.in))
		if err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if got := e.String(); got != c.want {
			t.Fatalf("%s: got %s want %s", c.in, got, c.want)
		}
	}
}

func TestConvertFoldsLeft(t *testing.T) {
	e, err := Converter{}.Expr(decode(t, `{"op": "and", "args": ["a", "b", "c"]}`))
	if err != nil {
		t.Fatal(err)
	}
	want := expr.AndOf(expr.Var("a"), expr.Var("b"), expr.Var("c"))
	if diff := cmp.Diff(want, e); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertErrors(t *testing.T) {
	root := decode(t, `{"loop": {"ref": "loop"}}`)
	conv := Converter{Root: root}
	cases := map[string]string{
		"null":            `null`,
		"empty name":      `" "`,
		"bad bit":         `"a[x]"`,
		"fraction":        `1.5`,
		"array":           `["a"]`,
		"unknown op":      `{"op": "nand", "args": ["a", "b"]}`,
		"not arity":       `{"op": "not", "args": ["a", "b"]}`,
		"eq arity":        `{"op": "eq", "args": ["a", "b", "c"]}`,
		"binary arity":    `{"op": "and", "args": ["a"]}`,
		"no kind":         `{"args": ["a"]}`,
		"missing ref":     `{"ref": "nowhere"}`,
		"cyclic ref":      `{"ref": "loop"}`,
		"bad nested leaf": `{"op": "or", "args": ["a", {"const": "x"}]}`,
	}
	for name, in := range cases {
		if _, err := conv.Expr(decode(t, in)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

const sampleDoc = `{
  "notation": "mathematics",
  "width": "120mm",
  "centered": true,
  "defs": {"carry": {"op": "and", "args": ["a", "b"]}, "sum": "s0"},
  "expressions": [
    {"name": "cout", "expr": {"ref": "defs.carry"}},
    {"name": "${defs.sum}", "error": "no driver for ${defs.sum}"},
    {"name": "bad", "expr": {"op": "not", "args": []}},
    {"name": "unset"}
  ]
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Notation != "mathematics" || doc.Width != "120mm" || !doc.Centered {
		t.Fatalf("unexpected settings %+v", doc)
	}
	if len(doc.Expressions) != 4 {
		t.Fatalf("expected 4 expressions, got %d", len(doc.Expressions))
	}
	if e := doc.Expressions[0]; e.Name != "cout" || e.Expr == nil || e.Expr.String() != "(a and b)" {
		t.Fatalf("unexpected first entry %+v", e)
	}
	if e := doc.Expressions[1]; e.Name != "s0" || e.Expr != nil || e.Err != "no driver for s0" {
		t.Fatalf("unexpected error entry %+v", e)
	}
	if e := doc.Expressions[2]; e.Expr != nil || !strings.Contains(e.Err, "not") {
		t.Fatalf("conversion error not kept: %+v", e)
	}
	if e := doc.Expressions[3]; e.Expr != nil || e.Err != "" {
		t.Fatalf("unexpected unset entry %+v", e)
	}
}

func TestDecodeObjectForm(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"width": 300, "expressions": {"y": "b", "x": "a"}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Width != "300" {
		t.Fatalf("numeric width: %q", doc.Width)
	}
	var names []string
	for _, e := range doc.Expressions {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"x", "y"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	for _, in := range []string{
		`[]`,
		`{"notation": 3}`,
		`{"width": true}`,
		`{"centered": "yes"}`,
		`{"expressions": "a"}`,
		`{"expressions": [1]}`,
		`{"expressions": [{"expr": "a"}]}`,
		`{`,
	} {
		if _, err := Decode(strings.NewReader(in)); err == nil {
			t.Fatalf("%s: expected error", in)
		}
	}
}
