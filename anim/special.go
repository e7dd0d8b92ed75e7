package anim

import "math"

// 特殊字形按码位识别，不参与普通的字重/颜色动画。
const (
	// ToggleOutline 与 ToggleFilled 是开关字形（空心/实心胶囊）。
	ToggleOutline rune = '\uE000'
	ToggleFilled  rune = '\uE001'
	// LigatureLogo 是多字符标志的连字字形，渲染为单个字形。
	LigatureLogo rune = '\uE010'

	// LigatureLength 是连字在宽度/长度预算中折算的逻辑字符数。
	LigatureLength = 5

	// ToggleWeightLeft/Right 是开关字形重用字重轴时的两端取值：100 在左，10 在右。
	ToggleWeightLeft  = 100.0
	ToggleWeightRight = 10.0
)

// GlyphKind 是字形分类结果。
type GlyphKind int

const (
	GlyphRegular GlyphKind = iota
	GlyphToggle
	GlyphLigature
)

func (k GlyphKind) String() string {
	switch k {
	case GlyphToggle:
		return "toggle"
	case GlyphLigature:
		return "ligature"
	default:
		return "regular"
	}
}

// Classify 按码位识别特殊字形。必须先于字重/颜色计算调用。
func Classify(r rune) GlyphKind {
	switch r {
	case ToggleOutline, ToggleFilled:
		return GlyphToggle
	case LigatureLogo:
		return GlyphLigature
	default:
		return GlyphRegular
	}
}

// LogicalLength 返回文本的逻辑长度：连字记 5，其余每个码位记 1。
func LogicalLength(text string) int {
	n := 0
	for _, r := range text {
		if Classify(r) == GlyphLigature {
			n += LigatureLength
			continue
		}
		n++
	}
	return n
}

// EaseInOutCubic: p<0.5 ? 4p³ : 1-(-2p+2)³/2。
func EaseInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}

// ToggleProgress 返回开关内部圆点的进度：0 在左端，1 在右端（静止位置）。
func ToggleProgress(phase float64, animated bool) float64 {
	if !animated {
		return 1
	}
	raw := (math.Sin(phase) + 1) / 2
	return EaseInOutCubic(raw)
}

// ToggleWeight 把进度映射到开关字形的字重轴：weight = 100 - 90*progress。
func ToggleWeight(phase float64, animated bool) float64 {
	return ToggleWeightLeft - (ToggleWeightLeft-ToggleWeightRight)*ToggleProgress(phase, animated)
}
