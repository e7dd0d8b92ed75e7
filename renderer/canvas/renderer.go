// Package canvasrenderer 是保留模式的矢量后端：绘制调用追加到文档树，
// 最后序列化为 SVG（github.com/tdewolff/canvas 路径数据）或 PDF。
package canvasrenderer

import (
	"fmt"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/renderer"
)

// Renderer 把绘制调用记录为文档节点。
type Renderer struct {
	renderer.Metrics

	doc   *Document
	root  *Group
	w, h  float64
	stack renderer.Stack
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 创建 w×h 像素的空白文档。
func New(provider *fonts.Provider, w, h float64) *Renderer {
	root := &Group{Transform: canvas.Identity}
	return &Renderer{
		Metrics: renderer.Metrics{Provider: provider},
		doc:     &Document{Width: w, Height: h, Root: root},
		root:    root,
		w:       w,
		h:       h,
		stack:   renderer.NewStack(),
	}
}

// Document 返回绘制结果。离屏画布没有独立文档，返回 nil。
func (r *Renderer) Document() *Document { return r.doc }

func (r *Renderer) Size() (float64, float64) { return r.w, r.h }

// target 返回承载当前变换的组：与上一个组变换相同则复用，否则新建一个组。
func (r *Renderer) target() *Group {
	m := r.stack.Matrix()
	if m == canvas.Identity {
		return r.root
	}
	if n := len(r.root.Children); n > 0 {
		if g, ok := r.root.Children[n-1].(*Group); ok && g.Transform == m {
			return g
		}
	}
	g := &Group{Transform: m}
	r.root.Children = append(r.root.Children, g)
	return g
}

func (r *Renderer) add(n Node) {
	g := r.target()
	g.Children = append(g.Children, n)
}

// Background 清空已有内容并设置背景色，与栅格后端整幅覆盖的语义一致。
// 根画布的背景记在 Document 上，离屏画布写成铺满的矩形节点。
func (r *Renderer) Background(c anim.Color) error {
	r.root.Children = nil
	if r.doc != nil {
		r.doc.Background = &c
		return nil
	}
	r.root.Children = append(r.root.Children, &RectNode{W: r.w, H: r.h, Color: c})
	return nil
}

func (r *Renderer) DrawText(text string, x, y float64, st renderer.TextStyle) error {
	p, err := renderer.TextPath(r.Provider, text, x, y, st)
	if err != nil {
		return err
	}
	r.add(&PathNode{Path: p, Fill: st.Color, Label: text})
	return nil
}

func (r *Renderer) DrawGlyph(g rune, x, y float64, st renderer.TextStyle) error {
	return r.DrawText(string(g), x, y, st)
}

func (r *Renderer) FillRect(x, y, w, h float64, c anim.Color) error {
	r.add(&RectNode{X: x, Y: y, W: w, H: h, Color: c})
	return nil
}

func (r *Renderer) StrokeRect(x, y, w, h, lw float64, c anim.Color) error {
	if lw <= 0 {
		return nil
	}
	r.add(&RectNode{X: x, Y: y, W: w, H: h, Color: c, StrokeWidth: lw})
	return nil
}

func (r *Renderer) FillCircle(cx, cy, radius float64, c anim.Color) error {
	r.add(&CircleNode{CX: cx, CY: cy, R: radius, Color: c})
	return nil
}

func (r *Renderer) StrokeCircle(cx, cy, radius, lw float64, c anim.Color) error {
	if lw <= 0 {
		return nil
	}
	r.add(&CircleNode{CX: cx, CY: cy, R: radius, Color: c, StrokeWidth: lw})
	return nil
}

// DrawPill 使用与栅格后端相同的胶囊几何，逐个形状写成路径节点。
func (r *Renderer) DrawPill(p renderer.Pill) error {
	for _, s := range renderer.PillShapes(p) {
		r.add(&PathNode{Path: s.Path, Fill: s.Color, Label: "pill"})
	}
	return nil
}

func (r *Renderer) Save() error                  { return r.stack.Save() }
func (r *Renderer) Restore() error               { return r.stack.Restore() }
func (r *Renderer) Translate(x, y float64) error { return r.stack.Translate(x, y) }
func (r *Renderer) Scale(s float64) error        { return r.stack.Scale(s) }

// Offscreen 创建一个不属于任何文档的子组，Composite 时再挂到父文档。
func (r *Renderer) Offscreen(w, h float64) (renderer.Renderer, error) {
	return &Renderer{
		Metrics: r.Metrics,
		root:    &Group{Transform: canvas.Identity},
		w:       w,
		h:       h,
		stack:   renderer.NewStack(),
	}, nil
}

// Composite 把子画布的组重新挂到本画布下，并以变换属性把 w×h 映射到目标矩形。
func (r *Renderer) Composite(child renderer.Renderer, dx, dy, dw, dh float64) error {
	c, ok := child.(*Renderer)
	if !ok {
		return fmt.Errorf("矢量后端只能合成矢量子画布，实际为 %T", child)
	}
	if c.doc != nil {
		return fmt.Errorf("不能合成根画布")
	}
	if c.w <= 0 || c.h <= 0 {
		return nil
	}
	place := canvas.Identity.Translate(dx, dy).Scale(dw/c.w, dh/c.h)
	g := &Group{Transform: r.stack.Matrix().Mul(place), Children: c.root.Children}
	r.root.Children = append(r.root.Children, g)
	return nil
}
