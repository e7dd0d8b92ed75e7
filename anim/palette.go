package anim

import (
	"fmt"
	"sort"
	"strings"
)

// ColorMode 选择着色方式：mono/inverted 为固定双色，其余为调色板循环。
type ColorMode string

const (
	ColorMono     ColorMode = "mono"
	ColorInverted ColorMode = "inverted"
	ColorSunset   ColorMode = "sunset"
	ColorOcean    ColorMode = "ocean"
	ColorNeon     ColorMode = "neon"
	ColorForest   ColorMode = "forest"
	ColorCandy    ColorMode = "candy"
	ColorRainbow  ColorMode = "rainbow"
	ColorEmber    ColorMode = "ember"
)

// Role 区分前景与背景。
type Role int

const (
	RoleForeground Role = iota
	RoleBackground
)

// Palette 是有序的离散颜色表以及配套背景色。
type Palette struct {
	Mode       ColorMode
	Colors     []Color
	Background Color
}

func hexes(values ...string) []Color {
	out := make([]Color, len(values))
	for i, v := range values {
		out[i] = MustHex(v)
	}
	return out
}

var palettes = map[ColorMode]Palette{
	ColorSunset: {
		Mode:       ColorSunset,
		Colors:     hexes("#ff5e5b", "#ff9f43", "#ffd166", "#ef476f", "#9b5de5"),
		Background: MustHex("#1b1028"),
	},
	ColorOcean: {
		Mode:       ColorOcean,
		Colors:     hexes("#03045e", "#0077b6", "#00b4d8", "#90e0ef", "#caf0f8", "#48cae4"),
		Background: MustHex("#f4fbff"),
	},
	ColorNeon: {
		Mode:       ColorNeon,
		Colors:     hexes("#39ff14", "#ff10f0", "#00f0ff", "#fff01f", "#ff3131"),
		Background: MustHex("#0a0a0a"),
	},
	ColorForest: {
		Mode:       ColorForest,
		Colors:     hexes("#1b4332", "#2d6a4f", "#40916c", "#52b788", "#74c69d", "#95d5b2", "#b7e4c7"),
		Background: MustHex("#f1f7ee"),
	},
	ColorCandy: {
		Mode:       ColorCandy,
		Colors:     hexes("#ffafcc", "#ffc8dd", "#cdb4db", "#bde0fe", "#a2d2ff"),
		Background: MustHex("#2b2d42"),
	},
	ColorRainbow: {
		Mode: ColorRainbow,
		Colors: hexes("#e81416", "#ff6f00", "#ffa500", "#faeb36", "#79c314", "#2ec4b6", "#487de7",
			"#4b369d", "#70369d", "#c71585"),
		Background: MustHex("#111111"),
	},
	ColorEmber: {
		Mode:       ColorEmber,
		Colors:     hexes("#370617", "#6a040f", "#9d0208", "#d00000", "#dc2f02", "#e85d04", "#f48c06", "#faa307"),
		Background: MustHex("#000000"),
	},
}

// ColorModes 返回全部着色方式，按名称排序，mono/inverted 在前。
func ColorModes() []ColorMode {
	out := []ColorMode{ColorMono, ColorInverted}
	var names []string
	for m := range palettes {
		names = append(names, string(m))
	}
	sort.Strings(names)
	for _, n := range names {
		out = append(out, ColorMode(n))
	}
	return out
}

// ParseColorMode 解析着色方式名称。
func ParseColorMode(s string) (ColorMode, error) {
	m := ColorMode(strings.ToLower(strings.TrimSpace(s)))
	if m == ColorMono || m == ColorInverted {
		return m, nil
	}
	if _, ok := palettes[m]; ok {
		return m, nil
	}
	return ColorMono, fmt.Errorf("未知的着色方式 %q", s)
}

// LookupPalette 返回调色板；mono/inverted 没有调色板。
func LookupPalette(mode ColorMode) (Palette, bool) {
	p, ok := palettes[mode]
	return p, ok
}

// RoleColor 返回固定的前景/背景色。调色板模式下前景取第一个颜色。
func RoleColor(mode ColorMode, role Role) Color {
	switch mode {
	case ColorInverted:
		if role == RoleBackground {
			return Black
		}
		return White
	case ColorMono:
		if role == RoleBackground {
			return White
		}
		return Black
	}
	p, ok := palettes[mode]
	if !ok {
		return RoleColor(ColorMono, role)
	}
	if role == RoleBackground {
		return p.Background
	}
	return p.Colors[0]
}

// GetColor 是对外的颜色入口：mono/inverted 绕过循环，直接返回前景色。
func GetColor(charIndex, lineIndex int, phase float64, mode ColorMode, smooth bool) Color {
	p, ok := palettes[mode]
	if !ok {
		return RoleColor(mode, RoleForeground)
	}
	return CycleColor(charIndex, lineIndex, phase, p.Colors, smooth)
}
