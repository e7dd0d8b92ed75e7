package layout

import (
	"math"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/renderer"
	"github.com/ByLCY/typeloop/settings"
)

// 弹跳轨迹在一个动画循环内沿 x 往返 3 次、沿 y 往返 2 次，频率为整数，循环首尾相接。
const (
	bounceFreqX   = 3
	bounceFreqY   = 2
	bounceOffsetY = 0.25 // y 方向起始相位，使标志从垂直中线出发

	flashSpan  = 0.05 // 碰边闪光持续的循环比例
	flashAlpha = 0.6

	logoShareW = 0.5  // 标志框最多占可用宽度的比例
	logoShareH = 0.35 // 标志框最多占可用高度的比例
	logoPad    = 0.35 // 标志框内边距（em）
	logoBorder = 0.06 // 标志框边线粗细（em）
)

// BounceModes 是弹跳主题在碰边时轮换的着色方式。
// 一个循环内碰边 2*(3+2)=10 次，是其长度的整数倍，所以循环结束时回到起始颜色。
var BounceModes = []anim.ColorMode{
	anim.ColorSunset, anim.ColorOcean, anim.ColorNeon, anim.ColorCandy, anim.ColorEmber,
}

// Trajectory 是弹跳标志在某一时刻的状态。
type Trajectory struct {
	X, Y  float64 // 归一化到 [0,1] 的位置
	Hits  int     // 本循环内已发生的碰边次数
	Since float64 // 距最近一次碰边经过的循环比例
}

// tri 是周期为 1 的三角波：tri(0)=0，tri(0.5)=1。
func tri(u float64) float64 {
	f := u - math.Floor(u)
	return 1 - math.Abs(2*f-1)
}

// BounceAt 计算循环进度 progress ∈ [0,1) 处的轨迹。三角波每到 0 或 1 即为一次碰边。
func BounceAt(progress float64) Trajectory {
	p := progress - math.Floor(progress)
	uy := p*bounceFreqY + bounceOffsetY
	kx := math.Floor(2 * p * bounceFreqX)
	ky := math.Floor(2 * uy)
	tx := kx / (2 * bounceFreqX)
	ty := (ky/2 - bounceOffsetY) / bounceFreqY
	return Trajectory{
		X:     tri(p * bounceFreqX),
		Y:     tri(uy),
		Hits:  int(kx + ky - math.Floor(2*bounceOffsetY)),
		Since: p - math.Max(tx, ty),
	}
}

// bounceMode 从 start 所在位置起按碰边次数轮换着色方式；start 不在轮换表中时从第一个开始。
func bounceMode(start anim.ColorMode, hits int) anim.ColorMode {
	base := 0
	for i, m := range BounceModes {
		if m == start {
			base = i
		}
	}
	return BounceModes[(base+hits)%len(BounceModes)]
}

// layoutBounce 在离屏画布上绘制带边框的标志，再按三角波轨迹合成到画布内。
// 碰边时切换着色方式，并以同一事件触发一次闪光。
func layoutBounce(r renderer.Renderer, s *settings.Settings) error {
	st := newStyler(s)
	traj := BounceAt(st.phase / (2 * math.Pi))
	st.color = bounceMode(s.ColorMode, traj.Hits)
	if err := paintBackground(r, st); err != nil {
		return err
	}
	if s.Animated && traj.Since < flashSpan {
		a := flashAlpha * (1 - traj.Since/flashSpan)
		if err := r.FillRect(0, 0, s.Size.W, s.Size.H, st.foreground().WithAlpha(a)); err != nil {
			return err
		}
	}

	logo := st.textRow(oneLine(s.Text), 0, 1)
	if err := logo.measure(r, RefSize); err != nil {
		return err
	}
	boxW := logo.width + 2*logoPad*RefSize
	boxH := RefSize*LineSpacing + 2*logoPad*RefSize
	ux, uy, uw, uh := s.Usable()
	scale, ok := fit(boxW/logoShareW, boxH/logoShareH, uw, uh)
	if !ok {
		return nil
	}
	size := RefSize * scale
	w, h := boxW*scale, boxH*scale

	child, err := r.Offscreen(w, h)
	if err != nil {
		return err
	}
	if err := logo.measure(child, size); err != nil {
		return err
	}
	bw := math.Max(logoBorder*size, 1)
	if err := child.StrokeRect(bw/2, bw/2, w-bw, h-bw, bw, st.foreground()); err != nil {
		return err
	}
	if err := logo.draw(child, (w-logo.width)/2, h/2, size); err != nil {
		return err
	}
	return r.Composite(child, ux+traj.X*(uw-w), uy+traj.Y*(uh-h), w, h)
}
