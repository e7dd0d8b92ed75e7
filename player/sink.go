package player

import (
	"image"
	"math"
)

// Sink 接收渲染好的画面。Present 返回后播放器会复用 img 的内存，需要保留时请复制。
type Sink interface {
	Present(img *image.RGBA) error
}

// SinkFunc 把普通函数适配为 Sink。
type SinkFunc func(img *image.RGBA) error

func (f SinkFunc) Present(img *image.RGBA) error { return f(img) }

// fitRect 返回把 src 等比缩放进 dst 并居中后的矩形。
func fitRect(dst, src image.Rectangle) image.Rectangle {
	if src.Empty() || dst.Empty() {
		return image.Rectangle{}
	}
	k := math.Min(float64(dst.Dx())/float64(src.Dx()), float64(dst.Dy())/float64(src.Dy()))
	w := int(math.Round(float64(src.Dx()) * k))
	h := int(math.Round(float64(src.Dy()) * k))
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}
