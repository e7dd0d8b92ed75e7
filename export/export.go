// Package export 在临时覆盖的参数下渲染单帧或帧序列，并写出 PNG、SVG 或 PDF。
//
// 每次导出都通过 Settings.Override 修改时间、尺寸与边距，返回前（包括出错时）恢复原值。
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/layout"
	"github.com/ByLCY/typeloop/logging"
	"github.com/ByLCY/typeloop/renderer"
	canvasrenderer "github.com/ByLCY/typeloop/renderer/canvas"
	rasterrenderer "github.com/ByLCY/typeloop/renderer/raster"
	"github.com/ByLCY/typeloop/settings"
)

// Format 是导出文件格式。
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// ErrFormat 表示不支持的导出格式。
var ErrFormat = errors.New("不支持的导出格式")

// ParseFormat 解析格式名，忽略大小写与前导点。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatSVG, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, s)
	}
}

// FormatFromPath 按扩展名推断格式。
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Options 描述一次单帧导出。Size 为零值、Margin 为 nil 时沿用 Settings 中的值。
type Options struct {
	Format Format
	Time   float64
	Size   settings.Size
	Margin *float64
	// Minify 只对 SVG 生效。
	Minify bool
	// Meta 只对 PDF 生效；Title 为空时使用文本内容。
	Meta canvasrenderer.Meta
	// Debug 非空时把绘制记录写成 JSON。
	Debug string
}

func (o Options) apply(s *settings.Settings) {
	s.Time = o.Time
	if o.Size.W > 0 && o.Size.H > 0 {
		s.Size = o.Size
	}
	if o.Margin != nil {
		s.Margin = *o.Margin
	}
}

// Frame 在 opt 指定的时间与尺寸下渲染一帧写入 w。返回后 s 恢复为调用前的值。
func Frame(w io.Writer, provider *fonts.Provider, s *settings.Settings, opt Options) error {
	restore := s.Override(opt.apply)
	defer restore()

	switch opt.Format {
	case FormatPNG:
		r := rasterrenderer.New(provider, s.Size.W, s.Size.H)
		if err := render(r, s, opt.Debug); err != nil {
			return err
		}
		if err := r.EncodePNG(w); err != nil {
			return err
		}
	case FormatSVG, FormatPDF:
		r := canvasrenderer.New(provider, s.Size.W, s.Size.H)
		if err := render(r, s, opt.Debug); err != nil {
			return err
		}
		doc := r.Document()
		if opt.Format == FormatSVG {
			if err := doc.WriteSVG(w, opt.Minify); err != nil {
				return err
			}
			break
		}
		meta := opt.Meta
		if meta.Title == "" {
			meta.Title = s.Text
		}
		if meta.Creator == "" {
			meta.Creator = "typeloop"
		}
		if err := doc.WritePDF(w, meta); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrFormat, opt.Format)
	}
	logging.Logger().Debug("frame exported",
		"format", opt.Format, "theme", s.Theme, "time", s.Time, "frame", s.Frame())
	return nil
}

func render(r renderer.Renderer, s *settings.Settings, debugPath string) error {
	if debugPath == "" {
		if err := layout.Render(r, s); err != nil {
			return fmt.Errorf("渲染失败: %w", err)
		}
		return nil
	}
	res, err := layout.Capture(r, s)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := mkdirFor(debugPath); err != nil {
		return err
	}
	if err := layout.WriteDebugJSON(res, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// WriteFile 导出单帧到 path，必要时创建目录。opt.Format 为空时按扩展名推断。
func WriteFile(path string, provider *fonts.Provider, s *settings.Settings, opt Options) error {
	if opt.Format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		opt.Format = f
	}
	if err := mkdirFor(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件 %s 失败: %w", path, err)
	}
	if err := Frame(file, provider, s, opt); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	logging.Logger().Info("export written", "path", path, "format", opt.Format)
	return nil
}

func mkdirFor(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return nil
}
