package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit 是长度在场景文件中书写时的单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位，按像素处理
	UnitPX
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// DPI 是物理单位与像素之间的换算基准。
const DPI = 96.0

// 换算常量。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	MmToPx = DPI / 25.4
	PxToMm = 25.4 / DPI
)

func (u Unit) String() string {
	switch u {
	case UnitPX:
		return "px"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length 保留数值与原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM 换算为毫米。
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value * PxToMm
	}
}

// ToPX 换算为像素（96dpi）。像素与无单位数值原样返回。
func (l Length) ToPX() float64 {
	if l.Unit == UnitPX || l.Unit == UnitNone {
		return l.Value
	}
	return l.ToMM() * MmToPx
}

// ToPT 换算为磅。
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

var suffixes = []struct {
	s string
	u Unit
}{{"px", UnitPX}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// ParseLength 解析 "24px"、"12.5mm"、"1in" 等长度写法，无单位时按像素。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range suffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
