package renderer

import (
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/typeloop/anim"
	"github.com/ByLCY/typeloop/fonts"
)

// Op 是 Recorder 记录的一次绘制调用。坐标为调用时传入的局部坐标，Matrix 为当时的累计变换。
type Op struct {
	Kind     string        `json:"kind"`
	Layer    int           `json:"layer"`
	Text     string        `json:"text,omitempty"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	W        float64       `json:"w,omitempty"`
	H        float64       `json:"h,omitempty"`
	Size     float64       `json:"size,omitempty"`
	Weight   float64       `json:"weight,omitempty"`
	Width    float64       `json:"width,omitempty"`
	Color    string        `json:"color,omitempty"`
	Baseline string        `json:"baseline,omitempty"`
	Matrix   canvas.Matrix `json:"matrix"`
}

// Origin 返回绘制原点在所属图层坐标系中的位置。
func (o Op) Origin() (float64, float64) {
	pt := o.Matrix.Dot(canvas.Point{X: o.X, Y: o.Y})
	return pt.X, pt.Y
}

type opLog struct {
	mu     sync.Mutex
	ops    []Op
	layers int
}

func (l *opLog) add(op Op) {
	l.mu.Lock()
	l.ops = append(l.ops, op)
	l.mu.Unlock()
}

// Recorder 包装任意后端，转发所有调用并记录绘制日志，用于调试输出与后端一致性检查。
// 从它创建的离屏画布同样被包装，记录写入同一日志，Layer 标明所属画布。
type Recorder struct {
	inner Renderer
	log   *opLog
	layer int
	stack Stack
}

var _ Renderer = (*Recorder)(nil)

// NewRecorder 包装 inner。
func NewRecorder(inner Renderer) *Recorder {
	return &Recorder{inner: inner, log: &opLog{}, stack: NewStack()}
}

// Unwrap 返回被包装的后端。
func (r *Recorder) Unwrap() Renderer { return r.inner }

// Ops 返回到目前为止记录的全部调用（副本）。
func (r *Recorder) Ops() []Op {
	r.log.mu.Lock()
	defer r.log.mu.Unlock()
	return append([]Op(nil), r.log.ops...)
}

// Glyphs 只保留文字与字形绘制。
func Glyphs(ops []Op) []Op {
	var out []Op
	for _, op := range ops {
		if op.Kind == "text" || op.Kind == "glyph" {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) record(op Op) {
	op.Layer = r.layer
	op.Matrix = r.stack.Matrix()
	r.log.add(op)
}

func textOp(kind, text string, x, y float64, st TextStyle) Op {
	return Op{
		Kind: kind, Text: text, X: x, Y: y,
		Size: st.Size, Weight: st.Weight, Width: st.Width,
		Color: st.Color.Hex(), Baseline: st.Baseline.String(),
	}
}

func (r *Recorder) Size() (float64, float64) { return r.inner.Size() }
func (r *Recorder) Font() *fonts.Provider     { return r.inner.Font() }

func (r *Recorder) Background(c anim.Color) error {
	r.record(Op{Kind: "background", Color: c.Hex()})
	return r.inner.Background(c)
}

func (r *Recorder) MeasureText(text string, st TextStyle) (float64, error) {
	return r.inner.MeasureText(text, st)
}

func (r *Recorder) MeasureGlyph(g rune, st TextStyle) (float64, error) {
	return r.inner.MeasureGlyph(g, st)
}

func (r *Recorder) DrawText(text string, x, y float64, st TextStyle) error {
	r.record(textOp("text", text, x, y, st))
	return r.inner.DrawText(text, x, y, st)
}

func (r *Recorder) DrawGlyph(g rune, x, y float64, st TextStyle) error {
	r.record(textOp("glyph", string(g), x, y, st))
	return r.inner.DrawGlyph(g, x, y, st)
}

func (r *Recorder) FillRect(x, y, w, h float64, c anim.Color) error {
	r.record(Op{Kind: "fillRect", X: x, Y: y, W: w, H: h, Color: c.Hex()})
	return r.inner.FillRect(x, y, w, h, c)
}

func (r *Recorder) StrokeRect(x, y, w, h, lw float64, c anim.Color) error {
	r.record(Op{Kind: "strokeRect", X: x, Y: y, W: w, H: h, Size: lw, Color: c.Hex()})
	return r.inner.StrokeRect(x, y, w, h, lw, c)
}

func (r *Recorder) FillCircle(cx, cy, radius float64, c anim.Color) error {
	r.record(Op{Kind: "fillCircle", X: cx, Y: cy, W: radius * 2, H: radius * 2, Color: c.Hex()})
	return r.inner.FillCircle(cx, cy, radius, c)
}

func (r *Recorder) StrokeCircle(cx, cy, radius, lw float64, c anim.Color) error {
	r.record(Op{Kind: "strokeCircle", X: cx, Y: cy, W: radius * 2, H: radius * 2, Size: lw, Color: c.Hex()})
	return r.inner.StrokeCircle(cx, cy, radius, lw, c)
}

func (r *Recorder) DrawPill(p Pill) error {
	cx, _, _ := PillKnob(p)
	// Weight 记录圆点圆心的 x，便于在调试输出中观察开关位置
	r.record(Op{Kind: "pill", X: p.X, Y: p.Y, W: p.W, H: p.H, Weight: cx, Color: p.Track.Hex()})
	return r.inner.DrawPill(p)
}

func (r *Recorder) Save() error {
	if err := r.inner.Save(); err != nil {
		return err
	}
	return r.stack.Save()
}

func (r *Recorder) Restore() error {
	if err := r.inner.Restore(); err != nil {
		return err
	}
	return r.stack.Restore()
}

func (r *Recorder) Translate(x, y float64) error {
	if err := r.inner.Translate(x, y); err != nil {
		return err
	}
	return r.stack.Translate(x, y)
}

func (r *Recorder) Scale(s float64) error {
	if err := r.inner.Scale(s); err != nil {
		return err
	}
	return r.stack.Scale(s)
}

func (r *Recorder) Offscreen(w, h float64) (Renderer, error) {
	child, err := r.inner.Offscreen(w, h)
	if err != nil {
		return nil, err
	}
	r.log.mu.Lock()
	r.log.layers++
	layer := r.log.layers
	r.log.mu.Unlock()
	return &Recorder{inner: child, log: r.log, layer: layer, stack: NewStack()}, nil
}

func (r *Recorder) Composite(child Renderer, dx, dy, dw, dh float64) error {
	op := Op{Kind: "composite", X: dx, Y: dy, W: dw, H: dh}
	if rec, ok := child.(*Recorder); ok {
		op.Size = float64(rec.layer)
		child = rec.Unwrap()
	}
	r.record(op)
	return r.inner.Composite(child, dx, dy, dw, dh)
}
