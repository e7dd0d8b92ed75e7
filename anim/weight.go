package anim

import (
	"fmt"
	"math"
	"strings"
)

// Mode 选择字重动画方式。
type Mode string

const (
	ModeNone      Mode = "none"
	ModeWave      Mode = "wave"
	ModePulse     Mode = "pulse"
	ModeRotate    Mode = "rotate"
	ModeBreathe   Mode = "breathe"
	ModeBounce    Mode = "bounce"
	ModeSpotlight Mode = "spotlight"
)

// Modes 列出全部可选动画方式（不含 none）。
var Modes = []Mode{ModeWave, ModePulse, ModeRotate, ModeBreathe, ModeBounce, ModeSpotlight}

// ParseMode 解析动画方式名称，大小写不敏感。
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" || m == ModeNone {
		return ModeNone, nil
	}
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("未知的动画方式 %q", s)
}

// boostShare 是内部行中心加粗量占字重区间的比例。
const boostShare = 0.5

// GradientInput 描述一个字形在文字块中的位置以及字重区间。
type GradientInput struct {
	CharIndex  int
	LineIndex  int
	NumLines   int
	TextLength int
	MinWeight  float64
	MaxWeight  float64
}

// BaseWeight 计算未加动画的渐变字重。
//
// 每行的起止字重随行号从 max→min 扫过：第 j 行 start=lerp(max,min,t)、end=lerp(min,max,t)，
// t=j/(N-1)。行内按字符序号线性插值。非首末行再叠加一个钟形加粗，
// 在行中点与块的垂直中点达到峰值，形成菱形热点。
func BaseWeight(in GradientInput) float64 {
	lo, hi := in.MinWeight, in.MaxWeight
	t := 0.0
	if in.NumLines > 1 {
		t = float64(in.LineIndex) / float64(in.NumLines-1)
	}
	start := lerp(hi, lo, t)
	end := lerp(lo, hi, t)

	u := 0.0
	if in.TextLength > 1 {
		u = float64(in.CharIndex) / float64(in.TextLength-1)
	}
	w := lerp(start, end, u)

	if in.NumLines > 2 && in.LineIndex > 0 && in.LineIndex < in.NumLines-1 {
		w += boostShare * (hi - lo) * bell(float64(in.CharIndex), float64(in.TextLength-1)/2) *
			bell(float64(in.LineIndex), float64(in.NumLines-1)/2)
	}
	return clamp(w, lo, hi)
}

// bell 返回 1-(d/half)^2，d 为到中心的距离；half 为 0 时视为正中。
func bell(pos, half float64) float64 {
	if half <= 0 {
		return 1
	}
	d := math.Abs(pos-half) / half
	return math.Max(0, 1-d*d)
}

// WeightInput 汇总字重动画需要的全部参数。
type WeightInput struct {
	CharIndex   int
	LineIndex   int
	BaseWeight  float64
	Mode        Mode
	Phase       float64
	OriginX     float64 // spotlight 原点，归一化到 [0,1]
	OriginY     float64
	PhaseOffset float64
	NumLines    int
	TextLength  int
	MinWeight   float64
	MaxWeight   float64
}

// Weight 在基础字重上叠加动画扰动，结果总在 [MinWeight, MaxWeight] 内。
func Weight(in WeightInput) float64 {
	i, j := float64(in.CharIndex), float64(in.LineIndex)
	w := in.BaseWeight
	switch in.Mode {
	case ModeWave:
		w += 15 * math.Sin(in.Phase+i*0.3+j*0.5)
	case ModePulse:
		w += 20 * math.Sin(in.Phase)
	case ModeRotate:
		w += 20 * math.Sin(in.Phase+(i+j)*0.4)
	case ModeBreathe:
		w += (math.Sin(in.Phase)+1)/2*30 - 15
	case ModeBounce:
		w += math.Abs(math.Sin(in.Phase+i*0.2)) * 25
	case ModeSpotlight:
		w = spotlight(in)
	default:
		// 未知方式不做扰动
	}
	return clamp(w, in.MinWeight, in.MaxWeight)
}

// spotlight 完全重算字重：一半取决于到原点的距离，另一半是从原点向外扩散的波纹。
func spotlight(in WeightInput) float64 {
	nx, ny := 0.5, 0.5
	if in.TextLength > 1 {
		nx = float64(in.CharIndex) / float64(in.TextLength-1)
	}
	if in.NumLines > 1 {
		ny = float64(in.LineIndex) / float64(in.NumLines-1)
	}
	dist := math.Hypot(nx-in.OriginX, ny-in.OriginY)
	span := in.MaxWeight - in.MinWeight
	byDistance := in.MaxWeight - span*math.Min(dist/math.Sqrt2, 1)
	ripple := (math.Sin(in.Phase-dist*2*math.Pi+in.PhaseOffset) + 1) / 2
	return 0.5*byDistance + 0.5*(in.MinWeight+span*ripple)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
