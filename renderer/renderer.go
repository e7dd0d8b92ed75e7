// Package renderer 定义主题布局与具体输出后端之间的绘制契约。
//
// 布局只通过 Renderer 接口绘制；栅格后端（renderer/raster）与矢量后端（renderer/canvas）
// 共用本包的字形轮廓、基线与胶囊几何计算，因此同一次布局在两个后端上的几何完全一致，
// 差别只在输出形式（像素或路径数据）。
package renderer

import (
	"errors"
	"fmt"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
)

// ErrUnsupported 表示后端没有实现某个绘制原语。
var ErrUnsupported = errors.New("后端不支持该操作")

// Baseline 决定文字 y 坐标的含义。
type Baseline int

const (
	BaselineAlphabetic Baseline = iota // y 为字母基线
	BaselineTop                        // y 为上伸部顶端
	BaselineMiddle                     // y 为上伸部与下伸部的中点
)

func (b Baseline) String() string {
	switch b {
	case BaselineTop:
		return "top"
	case BaselineMiddle:
		return "middle"
	default:
		return "alphabetic"
	}
}

// TextStyle 描述一次文字绘制的字号、可变轴与颜色。
type TextStyle struct {
	Size        float64
	Weight      float64
	Width       float64
	OpticalSize float64
	Color       anim.Color
	Baseline    Baseline
}

// Axes 返回对应的可变轴取值。
func (s TextStyle) Axes() fonts.Axes {
	return fonts.Axes{Weight: s.Weight, Width: s.Width, OpticalSize: s.OpticalSize}
}

// Pill 是开关胶囊：圆角轨道加一个随相位左右移动的圆点。
type Pill struct {
	X, Y, W, H  float64
	Phase       float64
	Animated    bool
	Filled      bool
	Track       anim.Color
	Knob        anim.Color
	StrokeWidth float64
}

// Renderer 是后端必须实现的绘制能力。所有方法在失败时返回错误，布局函数原样向上传递。
type Renderer interface {
	// Size 返回画布尺寸（像素）。
	Size() (w, h float64)
	Font() *fonts.Provider

	Background(c anim.Color) error

	MeasureText(text string, st TextStyle) (float64, error)
	MeasureGlyph(r rune, st TextStyle) (float64, error)
	DrawText(text string, x, y float64, st TextStyle) error
	DrawGlyph(r rune, x, y float64, st TextStyle) error

	FillRect(x, y, w, h float64, c anim.Color) error
	StrokeRect(x, y, w, h, lineWidth float64, c anim.Color) error
	FillCircle(cx, cy, radius float64, c anim.Color) error
	StrokeCircle(cx, cy, radius, lineWidth float64, c anim.Color) error
	DrawPill(p Pill) error

	// 变换栈：只支持平移与等比缩放。
	Save() error
	Restore() error
	Translate(x, y float64) error
	Scale(s float64) error

	// Offscreen 创建一个子画布，由调用方通过 Composite 合成回父画布。
	Offscreen(w, h float64) (Renderer, error)
	Composite(child Renderer, dx, dy, dw, dh float64) error
}

func unsupported(op string) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, op)
}

// Unimplemented 的所有绘制方法都返回 ErrUnsupported。
// 嵌入它的后端在缺少某个原语时会在开发阶段直接报错，而不是静默地少画内容。
type Unimplemented struct{}

var _ Renderer = Unimplemented{}

func (Unimplemented) Size() (float64, float64) { return 0, 0 }
func (Unimplemented) Font() *fonts.Provider     { return nil }

func (Unimplemented) Background(anim.Color) error { return unsupported("Background") }

func (Unimplemented) MeasureText(string, TextStyle) (float64, error) {
	return 0, unsupported("MeasureText")
}

func (Unimplemented) MeasureGlyph(rune, TextStyle) (float64, error) {
	return 0, unsupported("MeasureGlyph")
}

func (Unimplemented) DrawText(string, float64, float64, TextStyle) error {
	return unsupported("DrawText")
}

func (Unimplemented) DrawGlyph(rune, float64, float64, TextStyle) error {
	return unsupported("DrawGlyph")
}

func (Unimplemented) FillRect(float64, float64, float64, float64, anim.Color) error {
	return unsupported("FillRect")
}

func (Unimplemented) StrokeRect(float64, float64, float64, float64, float64, anim.Color) error {
	return unsupported("StrokeRect")
}

func (Unimplemented) FillCircle(float64, float64, float64, anim.Color) error {
	return unsupported("FillCircle")
}

func (Unimplemented) StrokeCircle(float64, float64, float64, float64, anim.Color) error {
	return unsupported("StrokeCircle")
}

func (Unimplemented) DrawPill(Pill) error { return unsupported("DrawPill") }

func (Unimplemented) Save() error                      { return unsupported("Save") }
func (Unimplemented) Restore() error                   { return unsupported("Restore") }
func (Unimplemented) Translate(float64, float64) error { return unsupported("Translate") }
func (Unimplemented) Scale(float64) error              { return unsupported("Scale") }

func (Unimplemented) Offscreen(float64, float64) (Renderer, error) {
	return nil, unsupported("Offscreen")
}

func (Unimplemented) Composite(Renderer, float64, float64, float64, float64) error {
	return unsupported("Composite")
}
