// Package layout 实现各主题的排版：把文本与参数变成一组定位好的、带字重与颜色的绘制调用。
//
// 多行主题共用两遍排版：先在参考字号下测量每行宽度（使用与绘制时相同的字重规则，
// 动画带来的宽度变化因此被计入），再按可用区域求出统一缩放，在最终字号下重新测量并居中绘制。
package layout

import (
	"math"
	"strings"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

const (
	// RefSize 是测量阶段的参考字号。
	RefSize = 1000.0
	// LineSpacing 是行高与字号之比。
	LineSpacing = 1.2

	ruleThickness = 0.015 // 网格线粗细（em）
	ruleAlpha     = 0.3
)

// styler 计算每个字形的字重、宽度轴与颜色。
type styler struct {
	s     *settings.Settings
	phase float64
	mode  anim.Mode
	color anim.ColorMode
}

func newStyler(s *settings.Settings) styler {
	return styler{s: s, phase: s.Phase(), mode: s.Mode, color: s.ColorMode}
}

// style 返回第 line 行第 char 个字形的样式。特殊字形先于普通动画判断，使用各自的规则。
func (st styler) style(g rune, char, line, lines, length int) renderer.TextStyle {
	s := st.s
	out := renderer.TextStyle{Width: s.Width, OpticalSize: s.OpticalSize}
	switch anim.Classify(g) {
	case anim.GlyphToggle:
		out.Weight = anim.ToggleWeight(st.phase, s.Animated)
		out.Color = anim.RoleColor(st.color, anim.RoleForeground)
		return out
	case anim.GlyphLigature:
		out.Weight = s.MaxWeight
		out.Color = anim.RoleColor(st.color, anim.RoleForeground)
		return out
	}

	out.Color = anim.GetColor(char, line, st.phase, st.color, s.Smooth)
	if !s.VariableWeight {
		out.Weight = (s.MinWeight + s.MaxWeight) / 2
		return out
	}
	base := anim.BaseWeight(anim.GradientInput{
		CharIndex:  char,
		LineIndex:  line,
		NumLines:   lines,
		TextLength: length,
		MinWeight:  s.MinWeight,
		MaxWeight:  s.MaxWeight,
	})
	out.Weight = anim.Weight(anim.WeightInput{
		CharIndex:   char,
		LineIndex:   line,
		BaseWeight:  base,
		Mode:        st.mode,
		Phase:       st.phase,
		OriginX:     s.OriginX,
		OriginY:     s.OriginY,
		PhaseOffset: s.PhaseOffset,
		NumLines:    lines,
		TextLength:  length,
		MinWeight:   s.MinWeight,
		MaxWeight:   s.MaxWeight,
	})
	return out
}

// textRow 把 text 拆成逐字形的单元，line 为参与渐变计算的行号。
func (st styler) textRow(text string, line, lines int) row {
	runes := []rune(text)
	out := row{cells: make([]cell, len(runes))}
	for i, g := range runes {
		out.cells[i] = cell{r: g, style: st.style(g, i, line, lines, len(runes))}
	}
	return out
}

func (st styler) foreground() anim.Color { return anim.RoleColor(st.color, anim.RoleForeground) }
func (st styler) background() anim.Color { return anim.RoleColor(st.color, anim.RoleBackground) }

// measure 在给定字号下测量每个单元的前进宽度。
func (rw *row) measure(r renderer.Renderer, size float64) error {
	rw.width = 0
	for i := range rw.cells {
		c := &rw.cells[i]
		if c.pill != nil {
			c.advance = (c.pill.w + c.gap) * size
		} else {
			st := c.style
			st.Size = size
			w, err := r.MeasureGlyph(c.r, st)
			if err != nil {
				return err
			}
			c.advance = w + c.gap*size
		}
		rw.width += c.advance
	}
	return nil
}

// draw 从 x 开始逐个绘制单元，mid 为行的垂直中线。调用前需以同一字号 measure。
func (rw row) draw(r renderer.Renderer, x, mid, size float64) error {
	for _, c := range rw.cells {
		if err := c.draw(r, x, mid, size); err != nil {
			return err
		}
		x += c.advance
	}
	return nil
}

func (c cell) draw(r renderer.Renderer, x, mid, size float64) error {
	if p := c.pill; p != nil {
		h := p.h * size
		return r.DrawPill(renderer.Pill{
			X: x, Y: mid - h/2, W: p.w * size, H: h,
			Phase:       p.phase,
			Animated:    p.animated,
			Filled:      p.filled,
			Track:       p.track,
			Knob:        p.knob,
			StrokeWidth: h * 0.08,
		})
	}
	st := c.style
	st.Size = size
	st.Baseline = renderer.BaselineMiddle
	return r.DrawGlyph(c.r, x, mid, st)
}

// block 是按两遍排版放置的多行内容。
type block struct {
	rows  []row
	align align
	rules *anim.Color // 非空时在每行下方画一条细线
}

// measure 在 size 下测量全部行，返回最宽一行的宽度。
func (b *block) measure(r renderer.Renderer, size float64) (float64, error) {
	maxW := 0.0
	for i := range b.rows {
		if err := b.rows[i].measure(r, size); err != nil {
			return 0, err
		}
		maxW = math.Max(maxW, b.rows[i].width)
	}
	return maxW, nil
}

// fit 是两遍排版的缩放步骤：scale = min(可用宽 / 最宽行, 可用高 / 块高)。
// 可用区域为空时 ok 为 false。
func fit(maxW, blockH, usableW, usableH float64) (scale float64, ok bool) {
	if usableW <= 0 || usableH <= 0 || blockH <= 0 {
		return 0, false
	}
	scale = usableH / blockH
	if maxW > 0 {
		scale = math.Min(scale, usableW/maxW)
	}
	return scale, scale > 0
}

// draw 执行两遍排版并绘制。
func (b *block) draw(r renderer.Renderer, s *settings.Settings) error {
	if len(b.rows) == 0 {
		return nil
	}
	refW, err := b.measure(r, RefSize)
	if err != nil {
		return err
	}
	ux, uy, uw, uh := s.Usable()
	n := float64(len(b.rows))
	scale, ok := fit(refW, n*RefSize*LineSpacing, uw, uh)
	if !ok {
		return nil
	}
	size := RefSize * scale
	maxW, err := b.measure(r, size)
	if err != nil {
		return err
	}
	lineH := size * LineSpacing
	top := uy + (uh-lineH*n)/2

	if err := r.Save(); err != nil {
		return err
	}
	err = b.drawRows(r, ux, top, uw, maxW, lineH, size)
	if rerr := r.Restore(); err == nil {
		err = rerr
	}
	return err
}

// drawRows 在以块左上角为原点的坐标系中绘制各行。
func (b *block) drawRows(r renderer.Renderer, ux, top, uw, maxW, lineH, size float64) error {
	if err := r.Translate(ux, top); err != nil {
		return err
	}
	for j, rw := range b.rows {
		if b.rules != nil {
			t := math.Max(size*ruleThickness, 1)
			if err := r.FillRect(0, float64(j+1)*lineH-t, uw, t, *b.rules); err != nil {
				return err
			}
		}
		x := (uw - rw.width) / 2
		if b.align == alignLeft {
			x = (uw - maxW) / 2
		}
		if err := rw.draw(r, x, (float64(j)+0.5)*lineH, size); err != nil {
			return err
		}
	}
	return nil
}

// oneLine 把文本中的换行与连续空白合并为单个空格。
func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// paintBackground 用着色方式的背景色清空画布。
func paintBackground(r renderer.Renderer, st styler) error {
	return r.Background(st.background())
}
