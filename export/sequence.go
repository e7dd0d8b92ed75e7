package export

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/logging"
	"github.com/ByLCY/typeloop/settings"
)

// DefaultPattern 是帧文件名模板，参数为帧号。
const DefaultPattern = "frame_%04d.png"

// SequenceOptions 描述一组 PNG 帧的导出。
type SequenceOptions struct {
	Dir string
	// Pattern 为空时使用 DefaultPattern。
	Pattern string
	// Frames ≤ 0 时导出恰好一个完整循环。
	Frames int
	// FPS ≤ 0 时使用 anim.FPS。
	FPS int
	// Order 指定渲染顺序（帧号的排列或子集）；为空时顺序渲染全部帧。
	Order  []int
	Size   settings.Size
	Margin *float64
}

// LoopFrames 返回在 fps 下恰好覆盖一个动画循环的帧数。
func LoopFrames(s *settings.Settings, fps int) int {
	if fps <= 0 {
		fps = anim.FPS
	}
	period := anim.CyclePeriod(s.Speed, anim.BaseCycleFrames, anim.FPS)
	return max(1, int(math.Round(period*float64(fps))))
}

// FrameTime 返回第 i 帧的动画时间。
func FrameTime(i, fps int) float64 {
	if fps <= 0 {
		fps = anim.FPS
	}
	return float64(i) / float64(fps)
}

// Sequence 按 opt.Order 的顺序逐帧渲染并写出 PNG，返回按帧号排列的文件路径。
// 每一帧只依赖自身的时间，渲染顺序不影响结果。ctx 取消时在两帧之间停止。
func Sequence(ctx context.Context, provider *fonts.Provider, s *settings.Settings, opt SequenceOptions) ([]string, error) {
	fps := opt.FPS
	if fps <= 0 {
		fps = anim.FPS
	}
	frames := opt.Frames
	if frames <= 0 {
		frames = LoopFrames(s, fps)
	}
	pattern := opt.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	order := opt.Order
	if len(order) == 0 {
		order = make([]int, frames)
		for i := range frames {
			order[i] = i
		}
	}

	paths := make([]string, frames)
	for _, i := range order {
		if i < 0 || i >= frames {
			return nil, fmt.Errorf("帧号 %d 超出范围 [0, %d)", i, frames)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(opt.Dir, fmt.Sprintf(pattern, i))
		err := WriteFile(path, provider, s, Options{
			Format: FormatPNG,
			Time:   FrameTime(i, fps),
			Size:   opt.Size,
			Margin: opt.Margin,
		})
		if err != nil {
			return nil, fmt.Errorf("导出第 %d 帧失败: %w", i, err)
		}
		paths[i] = path
	}

	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	logging.Logger().Info("sequence exported", "dir", opt.Dir, "frames", len(out), "fps", fps)
	return out, nil
}
