package canvasrenderer

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/ByLCY/typeloop/anim"
)

// Node 是文档树中的节点：*Group、*PathNode、*RectNode 或 *CircleNode。
type Node interface {
	node()
}

// Group 把一组节点放在同一个变换下。变换作为节点属性保存，不是可变的绘图状态。
type Group struct {
	Transform canvas.Matrix
	Children  []Node
}

// PathNode 是填充路径，字形与胶囊都以它表示。Label 记录字形文本，仅用于调试。
type PathNode struct {
	Path  *canvas.Path
	Fill  anim.Color
	Label string
}

// RectNode 是矩形；StrokeWidth > 0 时为描边，否则为填充。
type RectNode struct {
	X, Y, W, H  float64
	Color       anim.Color
	StrokeWidth float64
}

// CircleNode 是圆；StrokeWidth > 0 时为描边，否则为填充。
type CircleNode struct {
	CX, CY, R   float64
	Color       anim.Color
	StrokeWidth float64
}

func (*Group) node()      {}
func (*PathNode) node()   {}
func (*RectNode) node()   {}
func (*CircleNode) node() {}

// Document 是矢量后端的保留模式输出。
type Document struct {
	Width, Height float64
	Background    *anim.Color
	Root          *Group
}

// Meta 是写入 PDF 信息字典的元数据。
type Meta struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// Count 返回文档树中非 Group 节点的数量。
func (d *Document) Count() int {
	n := 0
	var walk func(g *Group)
	walk = func(g *Group) {
		for _, c := range g.Children {
			if sub, ok := c.(*Group); ok {
				walk(sub)
				continue
			}
			n++
		}
	}
	walk(d.Root)
	return n
}

// num 以最多 3 位小数输出数字，供 SVG 属性使用。
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // 去掉 -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// svgTransform 把只含平移与缩放的矩阵写成 SVG transform 属性。
func svgTransform(m canvas.Matrix) string {
	sx, sy, tx, ty := m[0][0], m[1][1], m[0][2], m[1][2]
	if sx == sy {
		return fmt.Sprintf("translate(%s %s) scale(%s)", num(tx), num(ty), num(sx))
	}
	return fmt.Sprintf("translate(%s %s) scale(%s %s)", num(tx), num(ty), num(sx), num(sy))
}

func fillAttrs(c anim.Color, attr string) string {
	rgb := anim.Color{R: c.R, G: c.G, B: c.B, A: 255}.Hex()
	if c.A == 255 {
		return fmt.Sprintf(`%s="%s"`, attr, rgb)
	}
	return fmt.Sprintf(`%s="%s" %s-opacity="%s"`, attr, rgb, attr, num(float64(c.A)/255))
}

func paint(c anim.Color, strokeWidth float64) string {
	if strokeWidth > 0 {
		return fmt.Sprintf(`fill="none" %s stroke-width="%s"`, fillAttrs(c, "stroke"), num(strokeWidth))
	}
	return fillAttrs(c, "fill")
}

// WriteSVG 把文档写成 SVG。minified 为 true 时经 tdewolff/minify 压缩。
func (d *Document) WriteSVG(w io.Writer, minified bool) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(d.Width), num(d.Height), num(d.Width), num(d.Height))
	if d.Background != nil {
		fmt.Fprintf(&buf, `<rect width="%s" height="%s" %s/>`+"\n", num(d.Width), num(d.Height), paint(*d.Background, 0))
	}
	writeGroup(&buf, d.Root, 0)
	buf.WriteString("</svg>\n")

	out := buf.Bytes()
	if minified {
		m := minify.New()
		m.AddFunc("image/svg+xml", svg.Minify)
		var err error
		if out, err = m.Bytes("image/svg+xml", out); err != nil {
			return fmt.Errorf("压缩 SVG 失败: %w", err)
		}
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return nil
}

func writeGroup(buf *bytes.Buffer, g *Group, depth int) {
	indent := strings.Repeat("  ", depth)
	identity := g.Transform == canvas.Identity
	wrapped := depth > 0 || !identity
	if wrapped {
		if identity {
			fmt.Fprintf(buf, "%s<g>\n", indent)
		} else {
			fmt.Fprintf(buf, "%s<g transform=\"%s\">\n", indent, svgTransform(g.Transform))
		}
		depth++
	}
	inner := strings.Repeat("  ", depth)
	for _, c := range g.Children {
		switch n := c.(type) {
		case *Group:
			writeGroup(buf, n, depth)
		case *PathNode:
			if n.Path.Empty() {
				continue
			}
			fmt.Fprintf(buf, "%s<path d=\"%s\" %s/>\n", inner, n.Path.ToSVG(), paint(n.Fill, 0))
		case *RectNode:
			fmt.Fprintf(buf, "%s<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" %s/>\n", inner,
				num(n.X), num(n.Y), num(n.W), num(n.H), paint(n.Color, n.StrokeWidth))
		case *CircleNode:
			fmt.Fprintf(buf, "%s<circle cx=\"%s\" cy=\"%s\" r=\"%s\" %s/>\n", inner,
				num(n.CX), num(n.CY), num(n.R), paint(n.Color, n.StrokeWidth))
		}
	}
	if wrapped {
		fmt.Fprintf(buf, "%s</g>\n", indent)
	}
}

// pxToMM 按 96dpi 把像素换算为毫米，PDF 页面以毫米为单位。
const pxToMM = 25.4 / 96

// WritePDF 把文档写成单页 PDF，页面尺寸按 96dpi 换算。
func (d *Document) WritePDF(w io.Writer, meta Meta) error {
	wmm, hmm := d.Width*pxToMM, d.Height*pxToMM
	writer := pdf.New(w, wmm, hmm, nil)
	writer.SetInfo(meta.Title, meta.Subject, strings.Join(meta.Keywords, ", "), meta.Author, meta.Creator)

	c := canvas.New(wmm, hmm)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，y 轴向下，与布局一致
	page := canvas.Identity.Scale(pxToMM, pxToMM)
	if d.Background != nil {
		drawPDF(ctx, page, &RectNode{W: d.Width, H: d.Height, Color: *d.Background})
	}
	drawPDFGroup(ctx, page, d.Root)
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func drawPDFGroup(ctx *canvas.Context, m canvas.Matrix, g *Group) {
	m = m.Mul(g.Transform)
	for _, c := range g.Children {
		if sub, ok := c.(*Group); ok {
			drawPDFGroup(ctx, m, sub)
			continue
		}
		drawPDF(ctx, m, c)
	}
}

// drawPDF 绘制单个节点。节点中的路径属于文档，只变换其副本。
func drawPDF(ctx *canvas.Context, m canvas.Matrix, n Node) {
	var p *canvas.Path
	var col anim.Color
	var stroke float64
	switch n := n.(type) {
	case *PathNode:
		p, col = n.Path, n.Fill
	case *RectNode:
		p, col, stroke = canvas.Rectangle(n.W, n.H).Translate(n.X, n.Y), n.Color, n.StrokeWidth
	case *CircleNode:
		p, col, stroke = canvas.Circle(n.R).Translate(n.CX, n.CY), n.Color, n.StrokeWidth
	default:
		return
	}
	if p == nil || p.Empty() {
		return
	}
	p = p.Copy().Transform(m)
	if stroke > 0 {
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(col)
		ctx.SetStrokeWidth(stroke * m[0][0])
	} else {
		ctx.SetFillColor(col)
		ctx.SetStrokeColor(canvas.Transparent)
	}
	ctx.DrawPath(0, 0, p)
}
