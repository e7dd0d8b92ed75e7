//go:build linux

package player

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/typeloop/logging"
)

// FramebufferSink 把画面等比缩放后写到 Linux 帧缓冲设备，用于无桌面环境的实时预览。
type FramebufferSink struct {
	dev      *fb.Device
	staging  *image.RGBA
	graphics bool
}

var _ Sink = (*FramebufferSink)(nil)

// OpenFramebuffer 打开帧缓冲设备，例如 /dev/fb0。
func OpenFramebuffer(path string) (*FramebufferSink, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开帧缓冲 %s 失败: %w", path, err)
	}
	b := dev.Bounds()
	log := logging.Logger()
	log.Info("framebuffer open", "path", path, "width", b.Dx(), "height", b.Dy())
	sink := &FramebufferSink{dev: dev, staging: image.NewRGBA(b)}
	if err := setConsoleMode(kdGraphics); err != nil {
		log.Warn("console graphics mode unavailable", "err", err)
	} else {
		sink.graphics = true
	}
	return sink, nil
}

// Present 先在内存中缩放到设备尺寸（四周留黑），再逐像素写入设备。
func (s *FramebufferSink) Present(img *image.RGBA) error {
	b := s.staging.Bounds()
	draw.Draw(s.staging, b, image.Black, image.Point{}, draw.Src)
	xdraw.ApproxBiLinear.Scale(s.staging, fitRect(b, img.Bounds()), img, img.Bounds(), xdraw.Over, nil)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := s.staging.RGBAAt(x, y)
			s.dev.Set(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xFF})
		}
	}
	return nil
}

// Close 恢复控制台文本模式并释放设备。
func (s *FramebufferSink) Close() {
	if s.graphics {
		if err := setConsoleMode(kdText); err != nil {
			logging.Logger().Warn("restore console text mode failed", "err", err)
		}
	}
	s.dev.Close()
}
