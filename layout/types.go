package layout

// 该文件定义排版单元与调试结果，供主题布局、两遍排版与调试 JSON 共用。

import (
	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

// Result 是一次渲染的调试快照：参数、相位与全部绘制调用。
type Result struct {
	Theme    settings.ThemeKind `json:"theme"`
	Time     float64            `json:"time"`
	Phase    float64            `json:"phase"`
	Frame    int                `json:"frame"`
	Size     settings.Size      `json:"size"`
	Settings settings.Settings  `json:"settings"`
	Ops      []renderer.Op      `json:"ops"`
}

// Glyphs 返回结果中的文字与字形绘制。
func (res *Result) Glyphs() []renderer.Op {
	return renderer.Glyphs(res.Ops)
}

// cell 是一行中的一个排版单元：一个字形，或 pill 非空时的一个胶囊。
type cell struct {
	r     rune
	style renderer.TextStyle // Size 与 Baseline 在测量/绘制时填入
	pill  *pillCell
	gap   float64 // 单元之后的额外间距（em）

	advance float64 // 最近一次测量得到的前进宽度，含 gap
}

// pillCell 以 em 为单位描述胶囊尺寸，绘制时乘以字号。
type pillCell struct {
	w, h     float64
	phase    float64
	animated bool
	filled   bool
	track    anim.Color
	knob     anim.Color
}

// row 是一行排版单元。width 为最近一次测量的总宽度。
type row struct {
	cells []cell
	width float64
}

// align 决定行在文字块中的水平对齐方式。
type align int

const (
	alignCenter align = iota // 每行单独居中
	alignLeft                // 整块居中，行首对齐
)
