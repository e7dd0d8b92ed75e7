// Package fonts 封装可变字体：解析、按轴取字形轮廓、测量与开关字形结构查询。
package fonts

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/typeloop/logging"
)

// ErrNotLoaded 表示在字体加载完成之前就请求了测量或绘制。
var ErrNotLoaded = errors.New("字体尚未加载")

var (
	tagWeight  = ot.MustNewTag("wght")
	tagWidth   = ot.MustNewTag("wdth")
	tagOptical = ot.MustNewTag("opsz")
)

// Axes 是一次绘制使用的可变轴取值。零值表示该轴使用字体默认值。
type Axes struct {
	Weight      float64 `json:"wght,omitempty"`
	Width       float64 `json:"wdth,omitempty"`
	OpticalSize float64 `json:"opsz,omitempty"`
}

func (a Axes) variations() []font.Variation {
	var vs []font.Variation
	if a.Weight > 0 {
		vs = append(vs, font.Variation{Tag: tagWeight, Value: float32(a.Weight)})
	}
	if a.Width > 0 {
		vs = append(vs, font.Variation{Tag: tagWidth, Value: float32(a.Width)})
	}
	if a.OpticalSize > 0 {
		vs = append(vs, font.Variation{Tag: tagOptical, Value: float32(a.OpticalSize)})
	}
	return vs
}

// Provider 持有一个已解析的字体。font.Face 带有可变坐标状态，不能并发使用，因此所有访问都加锁。
type Provider struct {
	mu      sync.Mutex
	name    string
	face    *font.Face
	axes    Axes
	applied bool
	toggles map[rune]toggleEntry
}

// New 返回尚未加载字体的 Provider。
func New() *Provider {
	return &Provider{}
}

// Load 解析字体数据并替换当前字体，清空开关结构缓存。
func (p *Provider) Load(name string, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	p.mu.Lock()
	p.name = name
	p.face = face
	p.applied = false
	p.toggles = nil
	p.mu.Unlock()
	logging.Logger().Info("font loaded", "name", name, "upem", face.Upem())
	return nil
}

// Loaded 表示是否已有可用字体。
func (p *Provider) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.face != nil
}

// Name 返回当前字体来源名。
func (p *Provider) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// use 在持锁状态下取得设置好轴值的 face。轴值不变时不重复设置。
func (p *Provider) use(axes Axes) (*font.Face, error) {
	if p.face == nil {
		return nil, ErrNotLoaded
	}
	if !p.applied || p.axes != axes {
		p.face.SetVariations(axes.variations())
		p.axes = axes
		p.applied = true
	}
	return p.face, nil
}

func scale(face *font.Face, size float64) float64 {
	return size / float64(face.Upem())
}

func glyphID(face *font.Face, r rune) (font.GID, bool) {
	return face.NominalGlyph(r)
}

// HasGlyph 报告字体的 cmap 是否映射了 r。
func (p *Provider) HasGlyph(r rune) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.face == nil {
		return false
	}
	_, ok := glyphID(p.face, r)
	return ok
}

// Advance 返回单个字形在给定字号与轴值下的前进宽度。缺失的字形按 .notdef 计。
func (p *Provider) Advance(r rune, size float64, axes Axes) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	face, err := p.use(axes)
	if err != nil {
		return 0, err
	}
	gid, _ := glyphID(face, r)
	return float64(face.HorizontalAdvance(gid)) * scale(face, size), nil
}

// Measure 返回整段文本的前进宽度之和（不做整形与字距调整）。
func (p *Provider) Measure(text string, size float64, axes Axes) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	face, err := p.use(axes)
	if err != nil {
		return 0, err
	}
	s := scale(face, size)
	total := 0.0
	for _, r := range text {
		gid, _ := glyphID(face, r)
		total += float64(face.HorizontalAdvance(gid)) * s
	}
	return total, nil
}

// Path 返回文本的轮廓，(x, y) 为第一个字形的基线原点，坐标 y 轴向下。
func (p *Provider) Path(text string, x, y, size float64, axes Axes) (*canvas.Path, float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	face, err := p.use(axes)
	if err != nil {
		return &canvas.Path{}, 0, err
	}
	out, adv := outline(face, text, x, y, scale(face, size))
	return out, adv, nil
}

// outline 逐字形拼接轮廓，返回路径与总前进宽度。
func outline(face *font.Face, text string, x, y, s float64) (*canvas.Path, float64) {
	out := &canvas.Path{}
	cursor := x
	for _, r := range text {
		gid, _ := glyphID(face, r)
		appendOutline(out, face.GlyphData(gid), cursor, y, s)
		cursor += float64(face.HorizontalAdvance(gid)) * s
	}
	return out, cursor - x
}

func appendOutline(dst *canvas.Path, data font.GlyphData, x0, y0, s float64) {
	glyph, ok := data.(font.GlyphOutline)
	if !ok {
		return
	}
	pt := func(a ot.SegmentPoint) (float64, float64) {
		return x0 + float64(a.X)*s, y0 - float64(a.Y)*s
	}
	open := false
	for _, seg := range glyph.Segments {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if open {
				dst.Close()
			}
			x, y := pt(seg.Args[0])
			dst.MoveTo(x, y)
			open = true
		case ot.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			dst.LineTo(x, y)
		case ot.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			dst.QuadTo(cx, cy, x, y)
		case ot.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			dst.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		dst.Close()
	}
}

// Ascender 返回给定字号下基线以上的高度（正数）。
func (p *Provider) Ascender(size float64) (float64, error) {
	asc, _, err := p.extents(size)
	return asc, err
}

// Descender 返回给定字号下基线以下的深度（字体约定为负数）。
func (p *Provider) Descender(size float64) (float64, error) {
	_, desc, err := p.extents(size)
	return desc, err
}

func (p *Provider) extents(size float64) (float64, float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.face == nil {
		return 0, 0, ErrNotLoaded
	}
	s := scale(p.face, size)
	ext, ok := p.face.FontHExtents()
	if !ok {
		// 没有 hhea/OS2 时按常见比例估算
		return 0.8 * size, -0.2 * size, nil
	}
	return float64(ext.Ascender) * s, float64(ext.Descender) * s, nil
}
