package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ByLCY/typeloop/dsl"
	"github.com/ByLCY/typeloop/export"
	"github.com/ByLCY/typeloop/fonts"
	"github.com/ByLCY/typeloop/layout"
	"github.com/ByLCY/typeloop/logging"
	"github.com/ByLCY/typeloop/player"
	canvasrenderer "github.com/ByLCY/typeloop/renderer/canvas"
	"github.com/ByLCY/typeloop/settings"
)

// config 汇总命令行参数。explicit 记录用户显式给出的参数名，用于覆盖场景中的值。
type config struct {
	input    string
	output   string
	format   string
	time     float64
	frames   int
	fps      int
	font     string
	data     map[string]any
	debug    string
	minify   bool
	fb       string
	duration time.Duration
	explicit map[string]bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "", "场景文件路径，留空使用默认参数")
	flag.StringVar(&cfg.output, "out", "output/typeloop.png", "输出路径；导出帧序列时为目录")
	flag.StringVar(&cfg.format, "format", "", "输出格式 png|svg|pdf，留空时按场景或扩展名推断")
	flag.Float64Var(&cfg.time, "time", 0, "导出时间（秒）")
	flag.IntVar(&cfg.frames, "frames", 0, "导出 PNG 帧数；-1 为一个完整循环，0 只导出单帧")
	flag.IntVar(&cfg.fps, "fps", 0, "帧率，0 使用默认值 30")
	flag.StringVar(&cfg.font, "font", "", "字体文件路径或 builtin:名称")
	dataJSON := flag.String("data", "", "绑定到场景的 JSON 数据")
	flag.StringVar(&cfg.debug, "debug", "", "绘制记录 JSON 输出路径")
	flag.BoolVar(&cfg.minify, "minify", false, "压缩 SVG 输出")
	flag.StringVar(&cfg.fb, "fb", "", "帧缓冲设备（如 /dev/fb0），设置后实时播放")
	flag.DurationVar(&cfg.duration, "duration", 0, "实时播放时长，0 表示直到中断")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	cfg.explicit = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { cfg.explicit[f.Name] = true })

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	msg, err := run(ctx, cfg)
	if err != nil {
		log.Fatalf("typeloop 运行失败: %v", err)
	}
	if msg != "" {
		fmt.Println(msg)
	}
}

// run 串联场景解析、字体加载与导出或实时播放，返回给用户的提示。
func run(ctx context.Context, cfg config) (string, error) {
	provider, err := fonts.Open(cfg.font)
	if err != nil {
		return "", fmt.Errorf("加载字体失败: %w", err)
	}

	s, sc, err := loadSettings(cfg.input, cfg.data)
	if err != nil {
		return "", err
	}
	opts := sc.Export
	if cfg.explicit["time"] {
		opts.Time = cfg.time
	} else if opts.Time == 0 {
		opts.Time = s.Time
	}
	if cfg.explicit["frames"] {
		opts.Frames = cfg.frames
	}
	if cfg.explicit["fps"] || opts.FPS <= 0 {
		opts.FPS = cfg.fps
	}
	if cfg.format != "" {
		opts.Format = cfg.format
	}
	opts.Minify = opts.Minify || cfg.minify

	switch {
	case cfg.fb != "":
		return "", play(ctx, cfg, provider, s, opts)
	case opts.Frames != 0:
		paths, err := export.Sequence(ctx, provider, &s, export.SequenceOptions{
			Dir:    cfg.output,
			Frames: max(opts.Frames, 0),
			FPS:    opts.FPS,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("已导出 %d 帧：%s", len(paths), cfg.output), nil
	default:
		frame := export.Options{
			Time:   opts.Time,
			Minify: opts.Minify,
			Meta:   metaFrom(sc.Meta),
			Debug:  cfg.debug,
		}
		if opts.Format != "" {
			f, err := export.ParseFormat(opts.Format)
			if err != nil {
				return "", err
			}
			frame.Format = f
		}
		if err := export.WriteFile(cfg.output, provider, &s, frame); err != nil {
			return "", err
		}
		return fmt.Sprintf("已导出：%s", cfg.output), nil
	}
}

// loadSettings 读取场景文件：先套用场景指定的主题预设，再按书写顺序应用其余参数。
// path 为空时返回默认主题的预设参数。
func loadSettings(path string, data map[string]any) (settings.Settings, *settings.Scene, error) {
	s := settings.Defaults()
	if path == "" {
		if err := layout.ApplyPreset(&s, s.Theme); err != nil {
			return s, nil, err
		}
		return s, &settings.Scene{}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return s, nil, fmt.Errorf("无法打开场景文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return s, nil, fmt.Errorf("解析场景失败: %w", err)
	}
	sc, err := settings.DecodeScene(doc, data)
	if err != nil {
		return s, nil, fmt.Errorf("解析场景失败: %w", err)
	}
	preset := sc.Preset
	if preset == "" {
		preset = s.Theme
	}
	if err := layout.ApplyPreset(&s, preset); err != nil {
		return s, nil, err
	}
	if err := sc.Apply(&s); err != nil {
		return s, nil, fmt.Errorf("应用场景参数失败: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, nil, err
	}
	return s, sc, nil
}

// play 在帧缓冲设备上实时播放，直到中断或到达 -duration。
func play(ctx context.Context, cfg config, provider *fonts.Provider, s settings.Settings, opts settings.ExportOptions) error {
	sink, err := player.OpenFramebuffer(cfg.fb)
	if err != nil {
		return err
	}
	defer sink.Close()

	if cfg.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.duration)
		defer cancel()
	}
	s.Time = opts.Time
	p := player.New(settings.NewStore(s), provider, sink, opts.FPS)
	return p.Run(ctx)
}

func metaFrom(m map[string]any) canvasrenderer.Meta {
	str := func(key string) string {
		if v, ok := m[key].(string); ok {
			return v
		}
		return ""
	}
	meta := canvasrenderer.Meta{
		Title:   str("title"),
		Subject: str("subject"),
		Author:  str("author"),
	}
	if kw := str("keywords"); kw != "" {
		meta.Keywords = []string{kw}
	}
	return meta
}
