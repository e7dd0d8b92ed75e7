package layout

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/binding"
	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

// CaseStyle 是终端模板对文字的大小写处理。
type CaseStyle int

const (
	CaseKeep CaseStyle = iota
	CaseUpper
	CaseLower
	CaseTitle
)

// Template 是终端主题的一行模板。Format 中的 ${text}、${frame}、${line} 经 binding 展开。
type Template struct {
	Name   string    `json:"name"`
	Format string    `json:"format"`
	Case   CaseStyle `json:"case"`
	Mode   anim.Mode `json:"mode"`
}

// Templates 是终端主题的十二个行模板。
var Templates = [12]Template{
	{Name: "echo", Format: `$ echo "${text}"`, Case: CaseKeep, Mode: anim.ModeWave},
	{Name: "prompt", Format: `> ${text}_`, Case: CaseKeep, Mode: anim.ModePulse},
	{Name: "comment", Format: `# ${text}`, Case: CaseLower, Mode: anim.ModeBreathe},
	{Name: "status", Format: `[ OK ] ${text}`, Case: CaseUpper, Mode: anim.ModeNone},
	{Name: "path", Format: `~/${text}`, Case: CaseLower, Mode: anim.ModeRotate},
	{Name: "repl", Format: `>>> print("${text}")`, Case: CaseKeep, Mode: anim.ModeBounce},
	{Name: "slashes", Format: `// ${text}`, Case: CaseTitle, Mode: anim.ModeWave},
	{Name: "help", Format: `${text} --help`, Case: CaseLower, Mode: anim.ModeSpotlight},
	{Name: "sudo", Format: `sudo ${text}`, Case: CaseLower, Mode: anim.ModePulse},
	{Name: "frame", Format: `[${frame}] ${text}`, Case: CaseUpper, Mode: anim.ModeRotate},
	{Name: "tag", Format: `<${text}/>`, Case: CaseTitle, Mode: anim.ModeBreathe},
	{Name: "exit", Format: `${line}: ${text}; exit 0`, Case: CaseKeep, Mode: anim.ModeBounce},
}

// TemplateOrder 返回按文本哈希确定性打乱的模板顺序：相同文本总得到相同排列。
func TemplateOrder(text string) []int {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	order := make([]int, len(Templates))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

func applyCase(c CaseStyle, text string) string {
	switch c {
	case CaseUpper:
		return cases.Upper(language.Und).String(text)
	case CaseLower:
		return cases.Lower(language.Und).String(text)
	case CaseTitle:
		return cases.Title(language.Und).String(text)
	default:
		return text
	}
}

// TerminalLine 返回终端主题第 j 行使用的模板与展开后的内容。模板按打乱后的顺序轮流分配给各行。
func TerminalLine(text string, j, frame int) (Template, string) {
	text = oneLine(text)
	order := TemplateOrder(text)
	tpl := Templates[order[j%len(order)]]
	data := map[string]any{
		"text":  applyCase(tpl.Case, text),
		"frame": fmt.Sprintf("%03d", frame),
		"line":  strconv.Itoa(j + 1),
	}
	return tpl, binding.Interpolate(tpl.Format, data)
}

// layoutTerminal 绘制 Lines 行终端风格的文字，每行使用各自模板的动画方式，行首对齐。
func layoutTerminal(r renderer.Renderer, s *settings.Settings) error {
	st := newStyler(s)
	if err := paintBackground(r, st); err != nil {
		return err
	}
	n := max(s.Lines, 1)
	frame := s.Frame()
	b := &block{rows: make([]row, n), align: alignLeft}
	for j := range b.rows {
		tpl, line := TerminalLine(s.Text, j, frame)
		ls := st
		ls.mode = tpl.Mode
		b.rows[j] = ls.textRow(line, j, n)
	}
	return b.draw(r, s)
}
