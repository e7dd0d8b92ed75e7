package anim

import (
	"math"
	"testing"
)

// TestDiscreteColorIsPaletteMember 验证非平滑模式下返回值总是调色板中的原色。
func TestDiscreteColorIsPaletteMember(t *testing.T) {
	for _, mode := range ColorModes() {
		p, ok := LookupPalette(mode)
		if !ok {
			continue
		}
		for step := 0; step < 50; step++ {
			phase := float64(step) / 50 * 2 * math.Pi
			for i := 0; i < 12; i++ {
				for j := 0; j < 4; j++ {
					c := GetColor(i, j, phase, mode, false)
					if !contains(p.Colors, c) {
						t.Fatalf("mode=%s phase=%g (%d,%d) 返回 %s，不在调色板中", mode, phase, i, j, c.Hex())
					}
				}
			}
		}
	}
}

// TestSmoothColorBetweenNeighbours 验证平滑模式的结果落在相邻两色之间。
func TestSmoothColorBetweenNeighbours(t *testing.T) {
	p, _ := LookupPalette(ColorSunset)
	n := len(p.Colors)
	for step := 0; step < 40; step++ {
		phase := float64(step) / 40 * 2 * math.Pi
		for i := 0; i < 6; i++ {
			c := CycleColor(i, 1, phase, p.Colors, true)
			if _, err := ParseHex(c.Hex()); err != nil {
				t.Fatalf("平滑颜色不是合法 hex: %v", err)
			}
			found := false
			for k := 0; k < n; k++ {
				if between(c, p.Colors[k], p.Colors[(k+1)%n]) {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("颜色 %s 不在任何相邻色对之间", c.Hex())
			}
		}
	}
}

// TestColorCycleClosesLoop 验证相位 0 与 2π 的颜色一致（循环无缝）。
func TestColorCycleClosesLoop(t *testing.T) {
	for _, mode := range ColorModes() {
		for i := 0; i < 5; i++ {
			a := GetColor(i, 2, 0, mode, true)
			b := GetColor(i, 2, 2*math.Pi, mode, true)
			if !near(a, b) {
				t.Fatalf("mode=%s 循环首尾颜色不同: %s vs %s", mode, a.Hex(), b.Hex())
			}
		}
	}
}

func TestGlyphsArePhaseShifted(t *testing.T) {
	p, _ := LookupPalette(ColorRainbow)
	distinct := map[Color]bool{}
	for i := 0; i < 10; i++ {
		distinct[CycleColor(i, 0, 0, p.Colors, false)] = true
	}
	if len(distinct) < 2 {
		t.Fatalf("同一行的字形不应同色闪烁")
	}
}

func TestMonoAndInvertedBypassCycling(t *testing.T) {
	for step := 0; step < 8; step++ {
		phase := float64(step)
		if c := GetColor(step, step, phase, ColorMono, true); c != Black {
			t.Fatalf("mono 前景应为黑色，实际 %s", c.Hex())
		}
		if c := GetColor(step, step, phase, ColorInverted, true); c != White {
			t.Fatalf("inverted 前景应为白色，实际 %s", c.Hex())
		}
	}
	if RoleColor(ColorMono, RoleBackground) != White || RoleColor(ColorInverted, RoleBackground) != Black {
		t.Fatalf("背景色角色错误")
	}
}

func TestPaletteTurns(t *testing.T) {
	cases := map[int]int{1: 1, 2: 1, 5: 1, 7: 1, 8: 2, 10: 2, 13: 3}
	for n, want := range cases {
		if got := PaletteTurns(n); got != want {
			t.Fatalf("PaletteTurns(%d)=%d want %d", n, got, want)
		}
	}
}

func TestParseHexForms(t *testing.T) {
	cases := map[string]Color{
		"#fff":      White,
		"#000000":   Black,
		"#ff000080": {255, 0, 0, 128},
	}
	for in, want := range cases {
		got, err := ParseHex(in)
		if err != nil || got != want {
			t.Fatalf("ParseHex(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	if _, err := ParseHex("#12"); err == nil {
		t.Fatalf("非法长度应报错")
	}
}

func contains(cs []Color, c Color) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

// near 允许插值取整带来的 1 级误差。
func near(a, b Color) bool {
	d := func(x, y uint8) bool { return x-y <= 1 || y-x <= 1 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func between(c, a, b Color) bool {
	in := func(v, x, y uint8) bool {
		lo, hi := x, y
		if lo > hi {
			lo, hi = hi, lo
		}
		return v >= lo && v <= hi
	}
	return in(c.R, a.R, b.R) && in(c.G, a.G, b.G) && in(c.B, a.B, b.B)
}
