package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	for _, px := range samples {
		mm := px * PxToMm
		back := mm * MmToPx
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→mm→px 往返误差过大: in=%gpx mm=%g back=%g diff=%g", px, mm, back, diff)
		}
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthToConversions(t *testing.T) {
	// 1 in = 25.4 mm = 96 px
	in := Length{Value: 1, Unit: UnitIN}
	if got := in.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
	if got := in.ToPX(); math.Abs(got-96) > 1e-9 {
		t.Fatalf("1in 转 px 期望 96，实际 %g", got)
	}
	cm := Length{Value: 2.54, Unit: UnitCM}
	if got := cm.ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	pt := Length{Value: 12, Unit: UnitPT}
	if got := pt.ToMM(); math.Abs(got-12*PtToMm) > 1e-9 {
		t.Fatalf("12pt 转 mm 期望 %g，实际 %g", 12*PtToMm, got)
	}
	// 无单位的数值按像素处理
	bare := Length{Value: 300}
	if got := bare.ToPX(); got != 300 {
		t.Fatalf("300 转 px 期望 300，实际 %g", got)
	}
	if got := bare.ToMM(); math.Abs(got-300*PxToMm) > 1e-9 {
		t.Fatalf("300 转 mm 期望 %g，实际 %g", 300*PxToMm, got)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"120mm", Length{120, UnitMM}},
		{" 300PX ", Length{300, UnitPX}},
		{"90pt", Length{90, UnitPT}},
		{"2.5in", Length{2.5, UnitIN}},
		{"250", Length{250, UnitNone}},
	}
	for _, c := range cases {
		got, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseLength(%q): got %v want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "mm", "abc", "-3px"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q): expected error", bad)
		}
	}
}
