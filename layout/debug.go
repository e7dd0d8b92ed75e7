package layout

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

// Capture 用 Recorder 包装 r 渲染一帧，返回参数与全部绘制调用。
func Capture(r renderer.Renderer, s *settings.Settings) (*Result, error) {
	rec := renderer.NewRecorder(r)
	if err := Render(rec, s); err != nil {
		return nil, err
	}
	return &Result{
		Theme:    s.Theme,
		Time:     s.Time,
		Phase:    s.Phase(),
		Frame:    s.Frame(),
		Size:     s.Size,
		Settings: *s,
		Ops:      rec.Ops(),
	}, nil
}

// WriteDebugJSON 将渲染结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
