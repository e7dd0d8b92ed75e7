package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/logging"
	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

var (
	textControls = []Control{ControlText, ControlLines, ControlWeight, ControlWidth, ControlMode, ControlColor, ControlSpeed, ControlOrigin}

	presets = map[settings.ThemeKind]Preset{
		settings.ThemeClassic: {
			Kind: settings.ThemeClassic, Layout: layoutClassic,
			ColorMode: anim.ColorMono, Lines: 1, Text: "TYPELOOP",
			Animated: true, VariableWeight: true,
			Controls: []Control{ControlText, ControlWeight, ControlWidth, ControlMode, ControlColor, ControlSpeed, ControlOrigin},
		},
		settings.ThemeGridlines: {
			Kind: settings.ThemeGridlines, Layout: layoutGridlines,
			ColorMode: anim.ColorMono, Lines: 5, Text: "GRID",
			Animated: true, VariableWeight: true,
			Controls: textControls,
		},
		settings.ThemeMultiline: {
			Kind: settings.ThemeMultiline, Layout: layoutMultiline,
			ColorMode: anim.ColorSunset, Lines: 3, Text: "MAKE TYPE MOVE",
			Animated: true, VariableWeight: true,
			Controls: textControls,
		},
		settings.ThemeToggle: {
			Kind: settings.ThemeToggle, Layout: layoutToggle,
			ColorMode: anim.ColorMono, Lines: 1, Text: "DARK MODE",
			Animated: true, VariableWeight: true,
			Controls: []Control{ControlText, ControlLines, ControlWidth, ControlColor, ControlSpeed},
		},
		settings.ThemeLigature: {
			Kind: settings.ThemeLigature, Layout: layoutLigature,
			ColorMode: anim.ColorInverted, Lines: 4, Text: "LOOP",
			Animated: true, VariableWeight: true,
			Controls: []Control{ControlText, ControlLines, ControlWeight, ControlMode, ControlColor, ControlSpeed},
		},
		settings.ThemeTerminal: {
			Kind: settings.ThemeTerminal, Layout: layoutTerminal,
			ColorMode: anim.ColorInverted, Lines: 6, Text: "hello world",
			Animated: true, VariableWeight: true,
			Controls: []Control{ControlText, ControlLines, ControlWeight, ControlColor, ControlSpeed},
		},
		settings.ThemeBounce: {
			Kind: settings.ThemeBounce, Layout: layoutBounce,
			ColorMode: anim.ColorSunset, Lines: 1, Text: "LOGO",
			Animated: true, VariableWeight: false,
			Controls: []Control{ControlText, ControlColor, ControlSpeed},
		},
	}
)

// Lookup 返回主题的预设。
func Lookup(kind settings.ThemeKind) (Preset, error) {
	p, ok := presets[kind]
	if !ok {
		return Preset{}, fmt.Errorf("未知的主题 %q", kind)
	}
	return p, nil
}

// Presets 按 settings.Themes 的顺序返回全部预设。
func Presets() []Preset {
	out := make([]Preset, 0, len(settings.Themes))
	for _, k := range settings.Themes {
		out = append(out, presets[k])
	}
	return out
}

// ApplyPreset 切换到 kind 主题并写入其默认着色方式、行数、文字与能力开关。
func ApplyPreset(s *settings.Settings, kind settings.ThemeKind) error {
	p, err := Lookup(kind)
	if err != nil {
		return err
	}
	s.Theme = p.Kind
	s.ColorMode = p.ColorMode
	s.Lines = p.Lines
	s.Text = p.Text
	s.Animated = p.Animated
	s.VariableWeight = p.VariableWeight
	return nil
}

// Render 是布局入口：校验参数，按主题查表并绘制一帧。
// 空文本只绘制背景。错误原样向调用方传递。
func Render(r renderer.Renderer, s *settings.Settings) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	p, err := Lookup(s.Theme)
	if err != nil {
		return err
	}
	logging.Logger().Debug("render",
		"theme", s.Theme, "time", s.Time, "phase", s.Phase(), "frame", s.Frame())
	if strings.TrimSpace(s.Text) == "" {
		return paintBackground(r, newStyler(s))
	}
	return p.Layout(r, s)
}
