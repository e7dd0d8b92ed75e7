// Package rasterrenderer 是即时模式的栅格后端：每次绘制调用立即扫描转换到 *image.RGBA。
package rasterrenderer

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/renderer"
)

// Renderer 在内存像素缓冲上绘制。
type Renderer struct {
	renderer.Metrics

	img   *image.RGBA
	w, h  float64
	stack renderer.Stack
	rz    *vector.Rasterizer
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 创建 w×h 像素的画布（向上取整），初始为全透明。
func New(provider *fonts.Provider, w, h float64) *Renderer {
	pw, ph := pixels(w), pixels(h)
	return &Renderer{
		Metrics: renderer.Metrics{Provider: provider},
		img:     image.NewRGBA(image.Rect(0, 0, pw, ph)),
		w:       w,
		h:       h,
		stack:   renderer.NewStack(),
		rz:      vector.NewRasterizer(pw, ph),
	}
}

func pixels(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Ceil(v))
}

// Image 返回绘制结果。返回的图像与渲染器共享内存。
func (r *Renderer) Image() *image.RGBA { return r.img }

// EncodePNG 把当前画面编码为 PNG。
func (r *Renderer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return nil
}

func (r *Renderer) Size() (float64, float64) { return r.w, r.h }

// Background 用颜色覆盖整个画布，不受变换影响。
func (r *Renderer) Background(c anim.Color) error {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return nil
}

// fill 按当前变换把路径扫描转换并以 Over 方式合成。p 不会被修改。
func (r *Renderer) fill(p *canvas.Path, c anim.Color) {
	if p == nil || p.Empty() || c.A == 0 {
		return
	}
	b := r.img.Bounds()
	if b.Empty() {
		return
	}
	r.rz.Reset(b.Dx(), b.Dy())
	r.rz.DrawOp = draw.Over
	// ToVectorRasterizer 按 y 轴向上的约定翻转，这里先翻转一次抵消
	flip := canvas.Identity.Translate(0, float64(b.Dy())).Scale(1, -1)
	p.Copy().Transform(flip.Mul(r.stack.Matrix())).ToVectorRasterizer(r.rz, canvas.DPMM(1))
	r.rz.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

func ring(p *canvas.Path, lw float64) *canvas.Path {
	if lw <= 0 {
		return nil
	}
	return p.Stroke(lw, canvas.ButtCap, canvas.MiterJoin, canvas.Tolerance)
}

func (r *Renderer) DrawText(text string, x, y float64, st renderer.TextStyle) error {
	p, err := renderer.TextPath(r.Provider, text, x, y, st)
	if err != nil {
		return err
	}
	r.fill(p, st.Color)
	return nil
}

func (r *Renderer) DrawGlyph(g rune, x, y float64, st renderer.TextStyle) error {
	return r.DrawText(string(g), x, y, st)
}

func (r *Renderer) FillRect(x, y, w, h float64, c anim.Color) error {
	r.fill(canvas.Rectangle(w, h).Translate(x, y), c)
	return nil
}

func (r *Renderer) StrokeRect(x, y, w, h, lw float64, c anim.Color) error {
	r.fill(ring(canvas.Rectangle(w, h).Translate(x, y), lw), c)
	return nil
}

func (r *Renderer) FillCircle(cx, cy, radius float64, c anim.Color) error {
	r.fill(canvas.Circle(radius).Translate(cx, cy), c)
	return nil
}

func (r *Renderer) StrokeCircle(cx, cy, radius, lw float64, c anim.Color) error {
	r.fill(ring(canvas.Circle(radius).Translate(cx, cy), lw), c)
	return nil
}

func (r *Renderer) DrawPill(p renderer.Pill) error {
	for _, s := range renderer.PillShapes(p) {
		r.fill(s.Path, s.Color)
	}
	return nil
}

func (r *Renderer) Save() error                  { return r.stack.Save() }
func (r *Renderer) Restore() error               { return r.stack.Restore() }
func (r *Renderer) Translate(x, y float64) error { return r.stack.Translate(x, y) }
func (r *Renderer) Scale(s float64) error        { return r.stack.Scale(s) }

// Offscreen 创建同一字体的独立像素缓冲。
func (r *Renderer) Offscreen(w, h float64) (renderer.Renderer, error) {
	return New(r.Provider, w, h), nil
}

// Composite 把子画布按目标矩形（当前变换下）双线性缩放后合成到本画布。
func (r *Renderer) Composite(child renderer.Renderer, dx, dy, dw, dh float64) error {
	c, ok := child.(*Renderer)
	if !ok {
		return fmt.Errorf("栅格后端只能合成栅格子画布，实际为 %T", child)
	}
	m := r.stack.Matrix()
	p0 := m.Dot(canvas.Point{X: dx, Y: dy})
	p1 := m.Dot(canvas.Point{X: dx + dw, Y: dy + dh})
	dst := image.Rect(int(math.Round(p0.X)), int(math.Round(p0.Y)), int(math.Round(p1.X)), int(math.Round(p1.Y)))
	if dst.Empty() || c.img.Bounds().Empty() {
		return nil
	}
	xdraw.BiLinear.Scale(r.img, dst, c.img, c.img.Bounds(), xdraw.Over, nil)
	return nil
}
