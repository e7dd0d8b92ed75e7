// Package settings 定义一次渲染所需的全部参数。
//
// Settings 以指针显式传入每个布局函数，包内没有全局可变状态。导出流程通过
// Override 临时修改参数，并在所有退出路径上恢复。
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ByLCY/typeloop/anim"
)

// ErrInvalid 标记校验失败，具体字段通过 %w 包装给出。
var ErrInvalid = errors.New("参数无效")

// ThemeKind 是主题名。
type ThemeKind string

const (
	ThemeClassic   ThemeKind = "classic"
	ThemeGridlines ThemeKind = "gridlines"
	ThemeMultiline ThemeKind = "multiline"
	ThemeToggle    ThemeKind = "toggle"
	ThemeLigature  ThemeKind = "ligature"
	ThemeTerminal  ThemeKind = "terminal"
	ThemeBounce    ThemeKind = "bounce"
)

// Themes 按固定顺序列出全部主题。
var Themes = []ThemeKind{
	ThemeClassic, ThemeGridlines, ThemeMultiline, ThemeToggle,
	ThemeLigature, ThemeTerminal, ThemeBounce,
}

// ParseTheme 解析主题名，大小写不敏感。
func ParseTheme(s string) (ThemeKind, error) {
	k := ThemeKind(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Themes {
		if k == t {
			return k, nil
		}
	}
	return ThemeClassic, fmt.Errorf("未知的主题 %q", s)
}

// Size 是画布尺寸，单位为像素。
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Settings 汇总一次渲染的参数。
type Settings struct {
	Text      string         `json:"text"`
	Theme     ThemeKind      `json:"theme"`
	ColorMode anim.ColorMode `json:"colorMode"`
	Lines     int            `json:"lines"`

	MinWeight   float64 `json:"minWeight"`
	MaxWeight   float64 `json:"maxWeight"`
	Width       float64 `json:"width"`
	OpticalSize float64 `json:"opticalSize"`

	Mode  anim.Mode `json:"mode"`
	Speed float64   `json:"speed"`
	Time  float64   `json:"time"`

	Size   Size    `json:"size"`
	Margin float64 `json:"margin"`

	// 能力开关
	Animated       bool `json:"animated"`
	VariableWeight bool `json:"variableWeight"`
	Smooth         bool `json:"smooth"`

	// spotlight 参数，原点归一化到 [0,1]²
	OriginX     float64 `json:"originX"`
	OriginY     float64 `json:"originY"`
	PhaseOffset float64 `json:"phaseOffset"`
}

// Defaults 返回默认参数：1080×1080 画布上的 classic 主题。
func Defaults() Settings {
	return Settings{
		Text:           "TYPELOOP",
		Theme:          ThemeClassic,
		ColorMode:      anim.ColorMono,
		Lines:          1,
		MinWeight:      10,
		MaxWeight:      100,
		Width:          100,
		OpticalSize:    0,
		Mode:           anim.ModeWave,
		Speed:          1,
		Size:           Size{W: 1080, H: 1080},
		Margin:         64,
		Animated:       true,
		VariableWeight: true,
		OriginX:        0.5,
		OriginY:        0.5,
	}
}

// Validate 检查参数约束。返回的错误包装 ErrInvalid。
func (s *Settings) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s %s", ErrInvalid, field, fmt.Sprintf(format, args...)))
	}
	if _, err := ParseTheme(string(s.Theme)); err != nil {
		fail("theme", "未知取值 %q", s.Theme)
	}
	if _, err := anim.ParseColorMode(string(s.ColorMode)); err != nil {
		fail("colorMode", "未知取值 %q", s.ColorMode)
	}
	if _, err := anim.ParseMode(string(s.Mode)); err != nil {
		fail("mode", "未知取值 %q", s.Mode)
	}
	if s.Lines < 1 {
		fail("lines", "必须 ≥ 1，实际 %d", s.Lines)
	}
	if s.MinWeight > s.MaxWeight {
		fail("weight", "最小字重 %g 大于最大字重 %g", s.MinWeight, s.MaxWeight)
	}
	if !(s.Speed > 0) {
		fail("speed", "必须大于 0，实际 %g", s.Speed)
	}
	if s.Size.W < 0 || s.Size.H < 0 {
		fail("size", "不能为负数 (%gx%g)", s.Size.W, s.Size.H)
	}
	if s.Margin < 0 {
		fail("margin", "不能为负数 (%g)", s.Margin)
	}
	return errors.Join(errs...)
}

// Phase 返回当前时间对应的动画相位；关闭动画时固定为 0。
func (s *Settings) Phase() float64 {
	if !s.Animated {
		return 0
	}
	return anim.NormalizeTime(s.Time, s.Speed, anim.BaseCycleFrames, anim.FPS)
}

// Frame 返回当前时间所在的循环内帧号。
func (s *Settings) Frame() int {
	return anim.FrameIndex(s.Time, s.Speed, anim.BaseCycleFrames, anim.FPS)
}

// CycleFrames 返回当前速度下一个循环的帧数。
func (s *Settings) CycleFrames() int {
	return anim.CycleFrames(s.Speed, anim.BaseCycleFrames, anim.FPS)
}

// Usable 返回扣除边距后的可用区域；边距过大时宽高取 0。
func (s *Settings) Usable() (x, y, w, h float64) {
	w = s.Size.W - 2*s.Margin
	h = s.Size.H - 2*s.Margin
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return s.Margin, s.Margin, w, h
}

// Override 以作用域方式临时修改参数：调用 fn 修改 s，返回的 restore 把 s 恢复为调用前的值。
// 调用方应当 defer restore()，保证出错或 panic 时同样恢复。
func (s *Settings) Override(fn func(*Settings)) (restore func()) {
	saved := *s
	fn(s)
	return func() { *s = saved }
}
