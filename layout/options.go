package layout

import (
	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

// LayoutFunc 在 r 上按 s 绘制一帧。布局只读 s，不保留帧间状态。
type LayoutFunc func(r renderer.Renderer, s *settings.Settings) error

// Control 是界面上与主题相关的可调参数。
type Control string

const (
	ControlText   Control = "text"
	ControlLines  Control = "lines"
	ControlWeight Control = "weight"
	ControlWidth  Control = "width"
	ControlMode   Control = "mode"
	ControlColor  Control = "color"
	ControlSpeed  Control = "speed"
	ControlOrigin Control = "origin"
)

// Preset 是主题的不可变描述：布局函数、默认值与能力开关。
type Preset struct {
	Kind      settings.ThemeKind `json:"kind"`
	Layout    LayoutFunc         `json:"-"`
	ColorMode anim.ColorMode     `json:"colorMode"`
	Lines     int                `json:"lines"`
	Text      string             `json:"text"`

	Animated       bool `json:"animated"`
	VariableWeight bool `json:"variableWeight"`

	Controls []Control `json:"controls"`
}

// Has 报告该主题是否使用某个控件。
func (p Preset) Has(c Control) bool {
	for _, x := range p.Controls {
		if x == c {
			return true
		}
	}
	return false
}
