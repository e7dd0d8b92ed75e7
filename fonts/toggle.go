package fonts

import (
	"github.com/go-text/typesetting/font"
	"github.com/tdewolff/canvas"
)

// ToggleShape 描述开关字形的结构：外轨道与内部圆点，单位为 em（乘以字号即得像素）。
// 坐标原点为字形基线原点，y 轴向下。
type ToggleShape struct {
	Track   canvas.Rect `json:"track"`
	Knob    canvas.Rect `json:"knob"`
	Advance float64     `json:"advance"`
}

type toggleEntry struct {
	shape ToggleShape
	ok    bool
}

// ToggleStructure 分析开关字形的轮廓：面积最大的子路径视为轨道，最小的视为圆点。
// 结果按码位缓存，重新 Load 字体后失效。字体缺少该字形或子路径不足两个时 ok 为 false，
// 调用方应退回几何绘制的胶囊。
//
// 查询全程持锁，缓存中的结果总是属于当前字体。
func (p *Provider) ToggleStructure(r rune) (ToggleShape, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, hit := p.toggles[r]; hit {
		return e.shape, e.ok, nil
	}
	// 在 1em 字号、默认轴值下取轮廓，得到的坐标直接就是 em 单位
	face, err := p.use(Axes{})
	if err != nil {
		return ToggleShape{}, false, err
	}
	e := analyzeToggle(face, r)
	if p.toggles == nil {
		p.toggles = make(map[rune]toggleEntry)
	}
	p.toggles[r] = e
	return e.shape, e.ok, nil
}

func analyzeToggle(face *font.Face, r rune) toggleEntry {
	if _, found := glyphID(face, r); !found {
		return toggleEntry{}
	}
	path, adv := outline(face, string(r), 0, 0, scale(face, 1))
	contours := path.Split()
	if len(contours) < 2 {
		return toggleEntry{}
	}
	area := func(b canvas.Rect) float64 { return b.W() * b.H() }
	var largest, smallest canvas.Rect
	for i, c := range contours {
		b := c.Bounds()
		if i == 0 || area(b) > area(largest) {
			largest = b
		}
		if i == 0 || area(b) < area(smallest) {
			smallest = b
		}
	}
	return toggleEntry{shape: ToggleShape{Track: largest, Knob: smallest, Advance: adv}, ok: true}
}
