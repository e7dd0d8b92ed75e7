package settings

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/binding"
	"github.com/ByLCY/typeloop/dsl"
	"github.com/ByLCY/typeloop/logging"
)

// Scene 是解析后的场景文件。
type Scene struct {
	Name   string
	Meta   map[string]any
	Data   map[string]any
	Export ExportOptions
	// Preset 非空时，调用方应先套用该主题的预设，再调用 Apply。
	Preset ThemeKind

	statements []*dsl.Statement
}

// ExportOptions 来自场景的 export 区块，命令行参数可以覆盖。
type ExportOptions struct {
	Format string  `json:"format,omitempty"`
	Frames int     `json:"frames,omitempty"`
	FPS    int     `json:"fps,omitempty"`
	Time   float64 `json:"time,omitempty"`
	Minify bool    `json:"minify,omitempty"`
}

// DecodeScene 把 dsl 文件转换为 Scene。extra 为外部 JSON 数据，与场景 data 区块合并，同名键以 extra 为准。
func DecodeScene(f *dsl.File, extra map[string]any) (*Scene, error) {
	sc := &Scene{
		Name: f.Name,
		Meta: f.Section("meta").Map(),
		Data: f.Section("data").Map(),
	}
	for k, v := range extra {
		sc.Data[k] = v
	}
	if b := f.Section("export"); b != nil {
		if err := decodeExport(b, &sc.Export); err != nil {
			return nil, err
		}
	}
	if b := f.Section("settings"); b != nil {
		sc.statements = b.Statements
		for _, st := range b.Statements {
			switch {
			case st.Command != nil && st.Command.Name == "preset":
				if len(st.Command.Args) != 1 {
					return nil, fmt.Errorf("preset 需要一个参数 (%s)", st.Command.Pos)
				}
				k, err := ParseTheme(st.Command.Args[0].Value)
				if err != nil {
					return nil, fmt.Errorf("preset: %w", err)
				}
				sc.Preset = k
			case st.Assignment != nil && st.Assignment.Key == "preset":
				k, err := ParseTheme(st.Assignment.Value.Raw())
				if err != nil {
					return nil, fmt.Errorf("preset: %w", err)
				}
				sc.Preset = k
			}
		}
	}
	return sc, nil
}

// Apply 按书写顺序把 settings 区块中的值写入 s，最后展开文本中的 ${...} 并做 NFC 规范化。
func (sc *Scene) Apply(s *Settings) error {
	var lines []string
	for _, st := range sc.statements {
		switch {
		case st.Assignment != nil:
			if err := assign(s, st.Assignment.Key, st.Assignment.Value); err != nil {
				return fmt.Errorf("%s: %w", st.Assignment.Pos, err)
			}
		case st.Command != nil:
			if err := command(s, st.Command); err != nil {
				return fmt.Errorf("%s: %w", st.Command.Pos, err)
			}
		case st.Text != nil:
			lines = append(lines, string(st.Text.Value))
		}
	}
	if len(lines) > 0 {
		s.Text = strings.Join(lines, " ")
	}
	text, missing := binding.Expand(s.Text, sc.Data)
	if len(missing) > 0 {
		logging.Logger().Warn("unresolved placeholders", "scene", sc.Name, "paths", missing)
	}
	s.Text = NormalizeText(text)
	return nil
}

// NormalizeText 把文本规范化为 NFC，使组合字符按单个码位参与字形计数。
func NormalizeText(text string) string {
	return norm.NFC.String(text)
}

func assign(s *Settings, key string, v *dsl.Value) error {
	var err error
	switch strings.ToLower(key) {
	case "preset":
		// 已在 DecodeScene 中处理
	case "text":
		s.Text = v.Raw()
	case "theme":
		s.Theme, err = ParseTheme(v.Raw())
	case "color", "color-mode":
		s.ColorMode, err = anim.ParseColorMode(v.Raw())
	case "mode", "animation":
		s.Mode, err = anim.ParseMode(v.Raw())
	case "lines":
		var f float64
		f, err = number(v)
		s.Lines = int(f)
	case "weight":
		var pair []float64
		pair, err = numbers(v, 2)
		if err == nil {
			s.MinWeight, s.MaxWeight = pair[0], pair[1]
		}
	case "min-weight":
		s.MinWeight, err = number(v)
	case "max-weight":
		s.MaxWeight, err = number(v)
	case "width":
		s.Width, err = number(v)
	case "optical-size", "opsz":
		s.OpticalSize, err = number(v)
	case "speed":
		s.Speed, err = number(v)
	case "time":
		s.Time, err = seconds(v.Raw())
	case "size":
		var pair []float64
		pair, err = lengths(v, 2)
		if err == nil {
			s.Size = Size{W: pair[0], H: pair[1]}
		}
	case "margin":
		var l Length
		l, err = ParseLength(v.Raw())
		s.Margin = l.ToPX()
	case "animated":
		s.Animated, err = boolean(v)
	case "variable-weight":
		s.VariableWeight, err = boolean(v)
	case "smooth":
		s.Smooth, err = boolean(v)
	case "origin":
		var pair []float64
		pair, err = numbers(v, 2)
		if err == nil {
			s.OriginX, s.OriginY = pair[0], pair[1]
		}
	case "phase-offset":
		s.PhaseOffset, err = number(v)
	default:
		return fmt.Errorf("未知的设置项 %q", key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// command 处理 `size 1080px 1920px` 与 `preset name` 两种命令。
func command(s *Settings, c *dsl.Command) error {
	switch c.Name {
	case "preset":
		return nil
	case "size":
		if len(c.Args) != 2 {
			return fmt.Errorf("size 需要宽、高两个参数")
		}
		w, err := ParseLength(c.Args[0].Value)
		if err != nil {
			return err
		}
		h, err := ParseLength(c.Args[1].Value)
		if err != nil {
			return err
		}
		s.Size = Size{W: w.ToPX(), H: h.ToPX()}
		return nil
	}
	return fmt.Errorf("未知的命令 %q", c.Name)
}

func number(v *dsl.Value) (float64, error) {
	switch x := v.Interface().(type) {
	case float64:
		return x, nil
	default:
		return 0, fmt.Errorf("需要数字，实际为 %v", x)
	}
}

func numbers(v *dsl.Value, n int) ([]float64, error) {
	if v.Array == nil || len(v.Array.Values) != n {
		return nil, fmt.Errorf("需要 %d 个数字组成的数组", n)
	}
	out := make([]float64, n)
	for i, item := range v.Array.Values {
		f, err := number(item)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func lengths(v *dsl.Value, n int) ([]float64, error) {
	if v.Array == nil || len(v.Array.Values) != n {
		return nil, fmt.Errorf("需要 %d 个长度组成的数组", n)
	}
	out := make([]float64, n)
	for i, item := range v.Array.Values {
		l, err := ParseLength(item.Raw())
		if err != nil {
			return nil, err
		}
		out[i] = l.ToPX()
	}
	return out, nil
}

func boolean(v *dsl.Value) (bool, error) {
	b, ok := v.Interface().(bool)
	if !ok {
		return false, fmt.Errorf("需要 true/false，实际为 %q", v.Raw())
	}
	return b, nil
}

// seconds 解析 "2.5s" 或 "2.5"。
func seconds(raw string) (float64, error) {
	var f float64
	if _, err := fmt.Sscanf(strings.TrimSuffix(raw, "s"), "%g", &f); err != nil {
		return 0, fmt.Errorf("无法解析时间 %q: %w", raw, err)
	}
	return f, nil
}

func decodeExport(b *dsl.Block, out *ExportOptions) error {
	for _, st := range b.Statements {
		a := st.Assignment
		if a == nil {
			continue
		}
		var err error
		switch a.Key {
		case "format":
			out.Format = strings.ToLower(a.Value.Raw())
		case "frames":
			var f float64
			f, err = number(a.Value)
			out.Frames = int(f)
		case "fps":
			var f float64
			f, err = number(a.Value)
			out.FPS = int(f)
		case "time":
			out.Time, err = seconds(a.Value.Raw())
		case "minify":
			out.Minify, err = boolean(a.Value)
		default:
			err = fmt.Errorf("未知的导出项")
		}
		if err != nil {
			return fmt.Errorf("export.%s: %w", a.Key, err)
		}
	}
	return nil
}
