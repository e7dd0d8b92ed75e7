package anim

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color 采用 0-255 的 RGBA 数值（非预乘）。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Hex 返回 #rrggbb；带透明度时返回 #rrggbbaa。
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// WithAlpha 返回替换透明度后的颜色。
func (c Color) WithAlpha(a float64) Color {
	c.A = uint8(math.Round(clamp(a, 0, 1) * 255))
	return c
}

// ParseHex 解析 #rgb、#rrggbb、#rrggbbaa 形式的颜色。
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("颜色 %q 格式错误", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色 %q 格式错误: %w", s, err)
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex 用于包级常量表，解析失败直接 panic。
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Mix 在 a、b 之间做线性 RGB 插值。
func Mix(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

const (
	// cycleSlowdown 把调色板循环速度降到原始速度的 20%。
	cycleSlowdown = 0.2
	glyphOffset   = 0.15
	lineOffset    = 0.5
)

// PaletteTurns 返回一个动画循环内调色板完整转过的圈数（round(len*0.2)，至少 1）。
// 取整数圈保证循环首尾颜色一致。
func PaletteTurns(n int) int {
	turns := int(math.Round(float64(n) * cycleSlowdown))
	if turns < 1 {
		return 1
	}
	return turns
}

// CycleColor 根据相位为第 lineIndex 行第 charIndex 个字形选取调色板颜色。
// smooth 为 false 时返回调色板中的原色；为 true 时在相邻两色之间插值。
func CycleColor(charIndex, lineIndex int, phase float64, colors []Color, smooth bool) Color {
	n := len(colors)
	if n == 0 {
		return Black
	}
	if n == 1 {
		return colors[0]
	}
	index := phase/(2*math.Pi)*float64(n)*float64(PaletteTurns(n)) +
		float64(charIndex)*glyphOffset + float64(lineIndex)*lineOffset
	base := math.Floor(index)
	a := wrapIndex(int(base), n)
	if !smooth {
		return colors[a]
	}
	return Mix(colors[a], colors[wrapIndex(a+1, n)], index-base)
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
