package layout

import (
	"math"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

const (
	pillGap       = 0.3  // 胶囊与标签之间的间距（em）
	labelWidthMin = 0.75 // 开关在左端时标签宽度轴的比例
)

// 字体没有开关字形时使用的胶囊尺寸（em）。
const (
	defaultPillW = 1.6
	defaultPillH = 0.8
)

// pillSize 返回胶囊的 em 尺寸：字体带有开关字形时取其轨道的比例。
func pillSize(f *fonts.Provider) (w, h float64, err error) {
	if f == nil {
		return 0, 0, fonts.ErrNotLoaded
	}
	shape, ok, err := f.ToggleStructure(anim.ToggleFilled)
	if err != nil {
		return 0, 0, err
	}
	if ok && shape.Track.W() > 0 && shape.Track.H() > 0 {
		return shape.Track.W(), shape.Track.H(), nil
	}
	return defaultPillW, defaultPillH, nil
}

// layoutToggle 绘制开关胶囊加标签。Lines ≥ 2 时标签分成两行，
// 第二行的胶囊为空心并与第一行反相。标签的宽度轴随开关进度伸缩。
func layoutToggle(r renderer.Renderer, s *settings.Settings) error {
	st := newStyler(s)
	if err := paintBackground(r, st); err != nil {
		return err
	}
	labels := []string{oneLine(s.Text)}
	if s.Lines >= 2 {
		var err error
		if labels, err = balanceLines(s.Text, 2, plainMeasure(r, s)); err != nil {
			return err
		}
	}
	pw, ph, err := pillSize(r.Font())
	if err != nil {
		return err
	}

	b := &block{rows: make([]row, len(labels)), align: alignLeft}
	for j, text := range labels {
		phase := st.phase + float64(j)*math.Pi
		pill := cell{
			pill: &pillCell{
				w: pw, h: ph,
				phase:    phase,
				animated: s.Animated,
				filled:   j%2 == 0,
				track:    st.foreground(),
				knob:     st.background(),
			},
			gap: pillGap,
		}
		label := st.textRow(text, j, len(labels))
		stretch := labelWidthMin + (1-labelWidthMin)*anim.ToggleProgress(phase, s.Animated)
		for i := range label.cells {
			label.cells[i].style.Width = s.Width * stretch
		}
		b.rows[j] = row{cells: append([]cell{pill}, label.cells...)}
	}
	return b.draw(r, s)
}
