package anim

import (
	"math"
	"testing"
)

func TestToggleRestsOnRight(t *testing.T) {
	if got := ToggleWeight(0, false); got != ToggleWeightRight {
		t.Fatalf("未开启动画时开关应停在 10，实际 %g", got)
	}
	if got := ToggleWeight(math.Pi/2, true); math.Abs(got-10) > 1e-9 {
		t.Fatalf("phase=π/2 时开关应在右端，实际 %g", got)
	}
	if got := ToggleWeight(3*math.Pi/2, true); math.Abs(got-100) > 1e-9 {
		t.Fatalf("phase=3π/2 时开关应在左端，实际 %g", got)
	}
	if got := ToggleWeight(0, true); math.Abs(got-55) > 1e-9 {
		t.Fatalf("phase=0 时开关应在中点，实际 %g", got)
	}
}

func TestEaseInOutCubic(t *testing.T) {
	for _, c := range []struct{ in, want float64 }{{0, 0}, {0.5, 0.5}, {1, 1}, {0.25, 0.0625}} {
		if got := EaseInOutCubic(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("EaseInOutCubic(%g)=%g want %g", c.in, got, c.want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := map[rune]GlyphKind{
		'A':           GlyphRegular,
		' ':           GlyphRegular,
		ToggleOutline: GlyphToggle,
		ToggleFilled:  GlyphToggle,
		LigatureLogo:  GlyphLigature,
	}
	for r, want := range cases {
		if got := Classify(r); got != want {
			t.Fatalf("Classify(%U)=%s want %s", r, got, want)
		}
	}
}

func TestLogicalLength(t *testing.T) {
	cases := map[string]int{
		"":                           0,
		"ABC":                        3,
		"héllo":                      5,
		string(LigatureLogo):         5,
		"A" + string(LigatureLogo):   6,
		string(ToggleOutline) + "ON": 3,
	}
	for in, want := range cases {
		if got := LogicalLength(in); got != want {
			t.Fatalf("LogicalLength(%q)=%d want %d", in, got, want)
		}
	}
}
