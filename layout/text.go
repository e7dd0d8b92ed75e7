package layout

import (
	"math"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

// LigatureBudget 是连字主题平铺图案的目标逻辑字符数。
const LigatureBudget = 36

// layoutClassic 单行渐变文字。
func layoutClassic(r renderer.Renderer, s *settings.Settings) error {
	st := newStyler(s)
	if err := paintBackground(r, st); err != nil {
		return err
	}
	b := &block{rows: []row{st.textRow(oneLine(s.Text), 0, 1)}}
	return b.draw(r, s)
}

// layoutGridlines 把同一行文字重复 Lines 次，字重区间逐行从 max→min 扫过。
// 渐变行号自下而上计数，每行下方画一条网格线。
func layoutGridlines(r renderer.Renderer, s *settings.Settings) error {
	st := newStyler(s)
	if err := paintBackground(r, st); err != nil {
		return err
	}
	text := oneLine(s.Text)
	n := max(s.Lines, 1)
	rule := st.foreground().WithAlpha(ruleAlpha)
	b := &block{rows: make([]row, n), rules: &rule}
	for k := range b.rows {
		b.rows[k] = st.textRow(text, n-1-k, n)
	}
	return b.draw(r, s)
}

// layoutMultiline 按单词把文字均分到 Lines 行，自上而下绘制，
// 渐变行号与绘制顺序一致（与 gridlines 相反）。
func layoutMultiline(r renderer.Renderer, s *settings.Settings) error {
	st := newStyler(s)
	if err := paintBackground(r, st); err != nil {
		return err
	}
	lines, err := balanceLines(s.Text, s.Lines, plainMeasure(r, s))
	if err != nil {
		return err
	}
	b := &block{rows: make([]row, len(lines))}
	for j, l := range lines {
		b.rows[j] = st.textRow(l, j, len(lines))
	}
	return b.draw(r, s)
}

// plainMeasure 以中间字重在参考字号下测量，用于分行。
func plainMeasure(r renderer.Renderer, s *settings.Settings) measureFunc {
	st := renderer.TextStyle{
		Size:        RefSize,
		Weight:      (s.MinWeight + s.MaxWeight) / 2,
		Width:       s.Width,
		OpticalSize: s.OpticalSize,
	}
	return func(text string) (float64, error) {
		return r.MeasureText(text, st)
	}
}

// RepeatCount 返回连字主题中单元（连字 + 空格 + 文本）的重复次数：
// round(LigatureBudget / 单元逻辑长度)，限制在 [2,5]。
func RepeatCount(text string) int {
	n := anim.LogicalLength(ligatureUnit(oneLine(text), false))
	count := int(math.Round(float64(LigatureBudget) / float64(n)))
	return min(max(count, 2), 5)
}

// ligatureUnit 返回一个平铺单元；swapped 为 true 时文字在前，用于交错的奇数行。
func ligatureUnit(text string, swapped bool) string {
	logo := string(anim.LigatureLogo)
	if swapped {
		return text + " " + logo
	}
	return logo + " " + text
}

// LigatureLine 返回连字主题第 j 行的内容：单元重复 RepeatCount 次，奇数行交错。
func LigatureLine(text string, j int) string {
	text = oneLine(text)
	unit := ligatureUnit(text, j%2 == 1)
	count := RepeatCount(text)
	out := unit
	for i := 1; i < count; i++ {
		out += " " + unit
	}
	return out
}

// layoutLigature 以连字与用户文字平铺成 Lines 行的图案。连字不参与普通动画。
func layoutLigature(r renderer.Renderer, s *settings.Settings) error {
	st := newStyler(s)
	if err := paintBackground(r, st); err != nil {
		return err
	}
	n := max(s.Lines, 1)
	b := &block{rows: make([]row, n)}
	for j := range b.rows {
		b.rows[j] = st.textRow(LigatureLine(s.Text, j), j, n)
	}
	return b.draw(r, s)
}
