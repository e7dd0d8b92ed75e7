package renderer

import (
	"errors"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
)

// Stack 是平移加等比缩放的变换栈，两个后端共用。
type Stack struct {
	cur   canvas.Matrix
	saved []canvas.Matrix
}

// NewStack 返回单位变换的栈。
func NewStack() Stack {
	return Stack{cur: canvas.Identity}
}

func (s *Stack) Save() error {
	s.saved = append(s.saved, s.cur)
	return nil
}

// Restore 弹出最近一次 Save；栈为空时报错。
func (s *Stack) Restore() error {
	if len(s.saved) == 0 {
		return errors.New("变换栈为空，Restore 多于 Save")
	}
	s.cur = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	return nil
}

func (s *Stack) Translate(x, y float64) error {
	s.cur = s.cur.Translate(x, y)
	return nil
}

func (s *Stack) Scale(k float64) error {
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return errors.New("缩放比例必须为正的有限数")
	}
	s.cur = s.cur.Scale(k, k)
	return nil
}

// Matrix 返回当前累计变换。
func (s *Stack) Matrix() canvas.Matrix { return s.cur }

// Depth 返回尚未 Restore 的 Save 次数。
func (s *Stack) Depth() int { return len(s.saved) }

// Metrics 基于 fonts.Provider 实现测量方法，供后端嵌入。
type Metrics struct {
	Provider *fonts.Provider
}

func (m Metrics) Font() *fonts.Provider { return m.Provider }

func (m Metrics) MeasureText(text string, st TextStyle) (float64, error) {
	return m.Provider.Measure(text, st.Size, st.Axes())
}

func (m Metrics) MeasureGlyph(r rune, st TextStyle) (float64, error) {
	return m.Provider.Advance(r, st.Size, st.Axes())
}

// BaselineOffset 返回从给定 y 到字母基线的偏移量（y 轴向下）。
func BaselineOffset(f *fonts.Provider, size float64, b Baseline) (float64, error) {
	if b == BaselineAlphabetic {
		return 0, nil
	}
	asc, err := f.Ascender(size)
	if err != nil {
		return 0, err
	}
	if b == BaselineTop {
		return asc, nil
	}
	desc, err := f.Descender(size)
	if err != nil {
		return 0, err
	}
	return (asc + desc) / 2, nil
}

// TextPath 返回在 (x, y) 处按 st 绘制 text 的轮廓（画布局部坐标）。
func TextPath(f *fonts.Provider, text string, x, y float64, st TextStyle) (*canvas.Path, error) {
	off, err := BaselineOffset(f, st.Size, st.Baseline)
	if err != nil {
		return nil, err
	}
	p, _, err := f.Path(text, x, y+off, st.Size, st.Axes())
	return p, err
}

// Shape 是一个带颜色的填充路径。描边也先展开成环形路径，后端只需实现填充。
type Shape struct {
	Path  *canvas.Path
	Color anim.Color
}

// PillKnob 返回胶囊内圆点的圆心与半径。
// 进度为 0 时圆点贴左端，为 1 时贴右端；关闭动画时停在右端。
func PillKnob(p Pill) (cx, cy, r float64) {
	inset := math.Max(p.StrokeWidth*1.5, p.H*0.12)
	r = math.Max(p.H/2-inset, 0)
	progress := anim.ToggleProgress(p.Phase, p.Animated)
	cx = p.X + p.H/2 + progress*math.Max(p.W-p.H, 0)
	cy = p.Y + p.H/2
	return cx, cy, r
}

// PillShapes 把胶囊展开为待填充的路径：轨道（实心或环形）与圆点。
func PillShapes(p Pill) []Shape {
	cx, cy, r := PillKnob(p)
	track := canvas.RoundedRectangle(p.W, p.H, p.H/2).Translate(p.X, p.Y)
	knob := canvas.Circle(r).Translate(cx, cy)
	if p.Filled {
		return []Shape{
			{Path: track, Color: p.Track},
			{Path: knob, Color: p.Knob},
		}
	}
	return []Shape{
		{Path: track.Stroke(PillStrokeWidth(p), canvas.ButtCap, canvas.MiterJoin, canvas.Tolerance), Color: p.Track},
		{Path: knob, Color: p.Track},
	}
}

// PillStrokeWidth 返回空心胶囊的描边宽度，未指定时按高度取默认值。
func PillStrokeWidth(p Pill) float64 {
	if p.StrokeWidth > 0 {
		return p.StrokeWidth
	}
	return math.Max(p.H*0.06, 1)
}
