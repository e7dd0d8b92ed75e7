// Package player 是动画驱动：按目标帧率推进动画时钟、渲染并把画面交给 Sink。
//
// 距上次渲染不足一个帧间隔时跳过本次渲染；渲染一旦开始就会完整执行，不会中途放弃。
// 暂停只是停止发出新的渲染，Seek 可以在暂停时定位到任意时间并立即渲染。
package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/layout"
	"github.com/ByLCY/typeloop/logging"
	rasterrenderer "github.com/ByLCY/typeloop/renderer/raster"
	"github.com/ByLCY/typeloop/settings"
)

// Player 从 Store 读取参数快照，逐帧渲染到 Sink。
type Player struct {
	store *settings.Store
	font  *fonts.Provider
	sink  Sink
	fps   int

	mu         sync.Mutex
	paused     bool
	clock      float64   // 动画时间（秒）
	last       time.Time // 上一次推进时钟的墙钟时间
	lastRender time.Time
	frames     int
	canvas     *rasterrenderer.Renderer
}

// New 创建播放器。fps ≤ 0 时使用 anim.FPS。
func New(store *settings.Store, font *fonts.Provider, sink Sink, fps int) *Player {
	if fps <= 0 {
		fps = anim.FPS
	}
	return &Player{
		store: store,
		font:  font,
		sink:  sink,
		fps:   fps,
		clock: store.Snapshot().Time,
	}
}

// Interval 返回目标帧间隔。
func (p *Player) Interval() time.Duration {
	return time.Second / time.Duration(p.fps)
}

// Tick 按墙钟时间 now 推进动画时钟；距上次渲染不少于一个帧间隔时渲染一帧。
// 返回本次是否渲染。
func (p *Player) Tick(now time.Time) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.last.IsZero() && !p.paused {
		p.clock += now.Sub(p.last).Seconds()
	}
	p.last = now
	if p.paused {
		return false, nil
	}
	if !p.lastRender.IsZero() && now.Sub(p.lastRender) < p.Interval() {
		return false, nil
	}
	p.lastRender = now
	return true, p.render()
}

// Seek 把动画时间设为 t 并立即渲染，暂停时同样生效。
func (p *Player) Seek(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = t
	return p.render()
}

// render 在持锁状态下渲染当前时间的一帧。画布尺寸变化时重新分配。
func (p *Player) render() error {
	p.store.SetTime(p.clock)
	snap := p.store.Snapshot()
	if p.canvas == nil {
		p.canvas = rasterrenderer.New(p.font, snap.Size.W, snap.Size.H)
	} else if w, h := p.canvas.Size(); w != snap.Size.W || h != snap.Size.H {
		p.canvas = rasterrenderer.New(p.font, snap.Size.W, snap.Size.H)
	}
	if err := layout.Render(p.canvas, &snap); err != nil {
		return fmt.Errorf("渲染第 %d 帧失败: %w", snap.Frame(), err)
	}
	p.frames++
	if p.sink == nil {
		return nil
	}
	if err := p.sink.Present(p.canvas.Image()); err != nil {
		return fmt.Errorf("输出画面失败: %w", err)
	}
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

func (p *Player) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

// Paused 报告播放器是否处于暂停状态。
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Time 返回当前动画时间（秒）。
func (p *Player) Time() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clock
}

// Frames 返回已渲染的帧数。
func (p *Player) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Run 以目标帧率驱动 Tick，直到 ctx 结束或渲染出错。ctx 结束时返回 nil。
func (p *Player) Run(ctx context.Context) error {
	log := logging.Logger()
	log.Info("player started", "fps", p.fps)
	defer func() { log.Info("player stopped", "frames", p.Frames()) }()

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()
	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := p.Tick(now); err != nil {
				log.Error("render failed", "err", err)
				return err
			}
			if time.Since(lastLog) > time.Second {
				log.Debug("heartbeat", "time", p.Time(), "frames", p.Frames(), "paused", p.Paused())
				lastLog = time.Now()
			}
		}
	}
}
